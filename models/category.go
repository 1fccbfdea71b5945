package models

// Category is a service trade customers can request
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var categories = []Category{
	{ID: "plumber", Name: "سباك", Icon: "Droplets", Description: "إصلاح التسريبات وتركيب الأدوات الصحية"},
	{ID: "electrician", Name: "كهربائي", Icon: "Zap", Description: "صيانة الكهرباء وتركيب الإنارة"},
	{ID: "carpenter", Name: "نجار", Icon: "Hammer", Description: "فك وتركيب الأثاث وإصلاح الأبواب"},
	{ID: "technician", Name: "فني أجهزة", Icon: "Tv", Description: "صيانة الغسالات، الثلاجات، والتكييف"},
	{ID: "painter", Name: "نقاش", Icon: "PenTool", Description: "أعمال الدهانات والديكور"},
	{ID: "security", Name: "فني كاميرات", Icon: "ShieldCheck", Description: "تركيب أنظمة المراقبة والإنذار"},
}

// Categories returns a copy of the service catalog
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// FindCategory looks a category up by id or display name
func FindCategory(key string) (Category, bool) {
	for _, c := range categories {
		if c.ID == key || c.Name == key {
			return c, true
		}
	}
	return Category{}, false
}
