package handler

import (
	"github.com/accelerator-admin/accelerator-admin/internal/settings"
)

// SettingsItem is one rendered setting row on a settings page.
type SettingsItem struct {
	Key       string
	Field     string
	Type      settings.ValueType
	Value     any
	Sensitive bool
}

// SettingsCategory groups the rendered rows of one category.
type SettingsCategory struct {
	Name  string
	Items []SettingsItem
}

// BuildSettingsView joins the registry's definition order with the resolved
// values into the shape the settings templates render. Registry order keeps
// the page layout stable regardless of which overrides exist.
func BuildSettingsView(reg *settings.Registry, res *settings.Resolved) []SettingsCategory {
	view := make([]SettingsCategory, 0, len(reg.Categories()))

	for _, category := range reg.Categories() {
		defs := reg.Definitions(category)
		items := make([]SettingsItem, 0, len(defs))

		for _, def := range defs {
			value, ok := res.Get(category, def.Key)
			if !ok {
				value = def.Default
			}

			items = append(items, SettingsItem{
				Key:       def.Key,
				Field:     def.Field,
				Type:      def.Type,
				Value:     value,
				Sensitive: def.Sensitive,
			})
		}

		view = append(view, SettingsCategory{Name: category, Items: items})
	}

	return view
}
