package models

import "fmt"

// TimePreset is a one-tap preferred time choice
type TimePreset struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Sub   string `json:"sub"`
}

// TimeSlot is a named part of the day with its hour range
type TimeSlot struct {
	Label string `json:"label"`
	Range string `json:"range"`
}

// Text renders the slot the way it is stored in ServiceRequest.PreferredTime
func (s TimeSlot) Text() string {
	return fmt.Sprintf("%s (%s)", s.Label, s.Range)
}

// TimePresets are the quick choices offered before the day slider
var TimePresets = []TimePreset{
	{ID: "now", Label: "الآن", Sub: "فوري"},
	{ID: "1h", Label: "خلال ساعة", Sub: "مستعجل"},
	{ID: "today_pm", Label: "اليوم مساءً", Sub: "بعد 6م"},
	{ID: "tomorrow_am", Label: "غداً صباحاً", Sub: "9ص - 12ظ"},
}

// TimeSlots are the day parts of the slider, in order
var TimeSlots = []TimeSlot{
	{Label: "صباحاً", Range: "8ص - 11ص"},
	{Label: "ظهراً", Range: "11ص - 2ظ"},
	{Label: "عصراً", Range: "2ظ - 5ع"},
	{Label: "مساءً", Range: "5ع - 9م"},
	{Label: "ليلاً", Range: "9م - 12ص"},
}
