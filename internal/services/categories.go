package services

import "carelink-backend/internal/models"

var HelpCategories = []models.Category{
	{ID: "digital", Label: "Digital devices", Icon: "📱", Order: 1},
	{ID: "furniture", Label: "Furniture assembly and repair", Icon: "🛋️", Order: 2},
	{ID: "appliance", Label: "Appliance repair", Icon: "🔧", Order: 3},
	{ID: "clean", Label: "Cleaning and tidying", Icon: "🧹", Order: 4},
	{ID: "companionship", Label: "Companionship and outings", Icon: "🤝", Order: 5},
	{ID: "errands", Label: "Errands and shopping", Icon: "🛍️", Order: 6},
	{ID: "etc", Label: "Other", Icon: "✨", Order: 7},
}

func CategoryByID(id string) (models.Category, bool) {
	for _, c := range HelpCategories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

func validateCategories(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, invalid("categories", "select at least one")
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := CategoryByID(id); !ok {
			return nil, invalid("categories", "unknown category "+id)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}
