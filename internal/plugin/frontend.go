package plugin

// Feature is a frontend capability the generated plugin can expose.
type Feature struct {
	Key         string
	Description string
	Default     bool
}

// AvailableFeatures lists the frontend features offered during creation.
func AvailableFeatures() []Feature {
	return []Feature{
		{Key: "dashboard", Description: "Custom dashboard items", Default: true},
		{Key: "panel", Description: "Custom panel items", Default: true},
	}
}

// ValidFeature reports whether key names a known frontend feature.
func ValidFeature(key string) bool {
	for _, f := range AvailableFeatures() {
		if f.Key == key {
			return true
		}
	}
	return false
}

// DefaultFeatures returns the keys pre-selected in the interactive flow.
func DefaultFeatures() []string {
	var keys []string
	for _, f := range AvailableFeatures() {
		if f.Default {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// EnforcedPackages are frontend dependencies every generated plugin gets.
func EnforcedPackages() []string {
	return []string{
		"react",
		"react-dom",
		"@mantine/core",
	}
}

// OptionalPackages are frontend dependencies offered at the prompts.
func OptionalPackages() []string {
	return []string{
		"@mantine/hooks",
		"@mantine/charts",
		"@tabler/icons-react",
	}
}
