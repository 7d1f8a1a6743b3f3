package plugin

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

//go:embed defaults.yaml
var rawDefaults []byte

// Config is the transient plugin configuration assembled from defaults,
// flags, and interactive prompts. It lives for a single invocation and is
// handed to the template renderer as a flat context map.
type Config struct {
	Title       string `yaml:"plugin_title" json:"plugin_title"`
	Description string `yaml:"plugin_description" json:"plugin_description"`
	AuthorName  string `yaml:"author_name" json:"author_name"`
	AuthorEmail string `yaml:"author_email" json:"author_email"`
	ProjectURL  string `yaml:"project_url" json:"project_url"`
	LicenseKey  string `yaml:"license" json:"license"`
	Version     string `yaml:"version" json:"version"`

	// Derived from Title by Derive.
	Name        string `yaml:"-" json:"plugin_name"`
	Slug        string `yaml:"-" json:"plugin_slug"`
	PackageName string `yaml:"-" json:"package_name"`

	Mixins           []string `yaml:"mixins" json:"mixins"`
	FrontendFeatures []string `yaml:"frontend_features" json:"frontend_features"`
	FrontendPackages []string `yaml:"frontend_packages" json:"frontend_packages"`

	// Rendered license body, filled in after validation.
	LicenseText string `yaml:"-" json:"-"`
}

// Defaults returns a Config populated from the embedded defaults file.
func Defaults() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(rawDefaults, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return &cfg, nil
}

// Derive populates the fields computed from the plugin title:
// "Custom Plugin" -> Name "CustomPlugin", Slug "custom-plugin",
// PackageName "custom_plugin".
func (c *Config) Derive() {
	words := strings.Fields(c.Title)
	c.Name = strings.Join(words, "")
	c.Slug = strings.ToLower(strings.Join(words, "-"))
	c.PackageName = strings.ReplaceAll(c.Slug, "-", "_")
}

// FrontendEnabled reports whether any frontend feature is selected.
func (c *Config) FrontendEnabled() bool {
	return len(c.FrontendFeatures) > 0
}

// Context flattens the configuration into the template render data.
func (c *Config) Context() map[string]any {
	return map[string]any{
		"PluginTitle":       c.Title,
		"PluginName":        c.Name,
		"PluginSlug":        c.Slug,
		"PackageName":       c.PackageName,
		"PluginDescription": c.Description,
		"AuthorName":        c.AuthorName,
		"AuthorEmail":       c.AuthorEmail,
		"ProjectURL":        c.ProjectURL,
		"LicenseKey":        c.LicenseKey,
		"LicenseText":       c.LicenseText,
		"Version":           c.Version,
		"Year":              time.Now().Year(),
		"Mixins":            c.Mixins,
		"FrontendEnabled":   c.FrontendEnabled(),
		"FrontendFeatures":  c.FrontendFeatures,
		"FrontendPackages":  c.FrontendPackages,
	}
}
