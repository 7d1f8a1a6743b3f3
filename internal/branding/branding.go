// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package and rebuild; Go's //go:embed
// bakes the values into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	TemplateRepoURL string `yaml:"template_repo_url"`
	DocsURL         string `yaml:"docs_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:         "plugin-creator",
			DisplayName:     "Inventa Plugin Creator",
			Description:     "Scaffold a new plugin for the Inventa inventory platform",
			HomeDir:         ".plugin-creator",
			EnvPrefix:       "PLUGIN_CREATOR",
			TemplateRepoURL: "https://github.com/inventa-apps/plugin-template/archive/refs/heads/main.tar.gz",
			DocsURL:         "https://docs.inventa.dev/plugins",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "plugin-creator").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".plugin-creator").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PLUGIN_CREATOR").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// TemplateRepoURL returns the default archive URL of the plugin template repository.
func TemplateRepoURL() string { load(); return defaults.TemplateRepoURL }

// DocsURL returns the plugin development documentation URL.
func DocsURL() string { load(); return defaults.DocsURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("TEMPLATE_URL")
// -> "PLUGIN_CREATOR_TEMPLATE_URL".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
