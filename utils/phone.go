package utils

import "strings"

// Arabic-Indic (U+0660) and Extended Arabic-Indic (U+06F0, Persian/Urdu keyboards)
var arabicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
)

// NormalizePhone converts Arabic digits and strips everything but ASCII
// digits and a leading + so the same number always maps to the same key
func NormalizePhone(phone string) string {
	phone = arabicDigits.Replace(strings.TrimSpace(phone))
	var b strings.Builder
	for i, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
