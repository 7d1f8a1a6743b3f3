package plugin

// Mixin is an optional capability the generated plugin hooks into on the
// Inventa platform. The keys match the mixin classes shipped with the
// template repository.
type Mixin struct {
	Key         string
	Description string
	Default     bool
}

// AvailableMixins lists the mixins offered during plugin creation.
func AvailableMixins() []Mixin {
	return []Mixin{
		{Key: "settings", Description: "Per-plugin settings stored by the platform", Default: true},
		{Key: "schedule", Description: "Periodic background tasks", Default: false},
		{Key: "events", Description: "React to platform events", Default: false},
		{Key: "urls", Description: "Custom URL endpoints", Default: false},
		{Key: "navigation", Description: "Entries in the navigation menu", Default: false},
		{Key: "api", Description: "REST API endpoints", Default: false},
		{Key: "user-interface", Description: "Custom user interface elements", Default: false},
	}
}

// ValidMixin reports whether key names a known mixin.
func ValidMixin(key string) bool {
	for _, m := range AvailableMixins() {
		if m.Key == key {
			return true
		}
	}
	return false
}

// DefaultMixins returns the keys pre-selected in the interactive flow.
func DefaultMixins() []string {
	var keys []string
	for _, m := range AvailableMixins() {
		if m.Default {
			keys = append(keys, m.Key)
		}
	}
	return keys
}
