// Package config persists user preferences between runs: author identity
// defaults and an optional template URL override. Values live in
// ~/.plugin-creator/config.yaml and can be overridden through
// PLUGIN_CREATOR_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inventa-apps/plugin-creator/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Well-known configuration keys.
const (
	KeyAuthorName  = "author.name"
	KeyAuthorEmail = "author.email"
	KeyProjectURL  = "author.url"
	KeyTemplateURL = "template.url"
)

// Dir returns the path to the config directory (~/.plugin-creator/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.plugin-creator/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// TemplateURL resolves the template archive URL: config/env override first,
// falling back to the branded default.
func TemplateURL() string {
	if url := Get(KeyTemplateURL); url != "" {
		return url
	}
	return branding.TemplateRepoURL()
}

// RememberAuthor stores author identity defaults for the next run.
func RememberAuthor(name, email, projectURL string) error {
	pairs := map[string]string{
		KeyAuthorName:  name,
		KeyAuthorEmail: email,
		KeyProjectURL:  projectURL,
	}
	for key, value := range pairs {
		if value == "" {
			continue
		}
		if err := Set(key, value); err != nil {
			return err
		}
	}
	return nil
}
