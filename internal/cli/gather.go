package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/inventa-apps/plugin-creator/internal/license"
	"github.com/inventa-apps/plugin-creator/internal/plugin"
	"github.com/inventa-apps/plugin-creator/internal/prompt"
)

// gatherInfo asks for every field not already supplied via flag, mirroring
// the flag set one question at a time.
func gatherInfo(cmd *cobra.Command, cfg *plugin.Config) error {
	p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
	flags := cmd.Flags()
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Enter project information:")

	var err error
	if !flags.Changed("name") {
		cfg.Title, err = p.Text("Enter plugin name", cfg.Title, validateTitle)
		if err != nil {
			return requiredField("/plugin_title", err)
		}
	}
	if !flags.Changed("description") {
		cfg.Description, err = p.Text("Enter plugin description", cfg.Description, validateNotEmpty)
		if err != nil {
			return requiredField("/plugin_description", err)
		}
	}

	fmt.Fprintln(w, "\nEnter author information:")

	if !flags.Changed("author") {
		cfg.AuthorName, err = p.Text("Author name", cfg.AuthorName, validateNotEmpty)
		if err != nil {
			return requiredField("/author_name", err)
		}
	}
	if !flags.Changed("email") {
		cfg.AuthorEmail, err = p.Text("Author email", cfg.AuthorEmail, nil)
		if err != nil {
			return err
		}
	}
	if !flags.Changed("url") {
		cfg.ProjectURL, err = p.Text("Project URL", cfg.ProjectURL, nil)
		if err != nil {
			return err
		}
	}

	if !flags.Changed("license") {
		keys, keysErr := license.Keys()
		if keysErr != nil {
			return keysErr
		}
		cfg.LicenseKey, err = p.Select("Select a license", keys, cfg.LicenseKey)
		if err != nil {
			return err
		}
	}
	if !flags.Changed("plugin-version") {
		cfg.Version, err = p.Text("Initial version", cfg.Version, nil)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\nEnter plugin structure information:")

	if !flags.Changed("mixin") {
		cfg.Mixins, err = p.MultiSelect("Select mixins to include", mixinChoices(cfg.Mixins))
		if err != nil {
			return err
		}
	}

	if flagNoFrontend {
		return nil
	}

	if !flags.Changed("frontend-feature") {
		cfg.FrontendFeatures, err = p.MultiSelect("Select frontend features to enable", featureChoices(cfg.FrontendFeatures))
		if err != nil {
			return err
		}
	}
	if cfg.FrontendEnabled() && !flags.Changed("frontend-package") {
		cfg.FrontendPackages, err = p.MultiSelect("Select frontend packages to install", packageChoices())
		if err != nil {
			return err
		}
	}
	return nil
}

func mixinChoices(selected []string) []prompt.Choice {
	checked := toSet(selected)
	var choices []prompt.Choice
	for _, m := range plugin.AvailableMixins() {
		choices = append(choices, prompt.Choice{
			Key:         m.Key,
			Description: m.Description,
			Checked:     checked[m.Key],
		})
	}
	return choices
}

func featureChoices(selected []string) []prompt.Choice {
	checked := toSet(selected)
	var choices []prompt.Choice
	for _, f := range plugin.AvailableFeatures() {
		choices = append(choices, prompt.Choice{
			Key:         f.Key,
			Description: f.Description,
			Checked:     checked[f.Key],
		})
	}
	return choices
}

func packageChoices() []prompt.Choice {
	var choices []prompt.Choice
	for _, pkg := range plugin.OptionalPackages() {
		choices = append(choices, prompt.Choice{Key: pkg})
	}
	return choices
}

// requiredField classifies an exhausted-input failure on a required prompt
// as a validation error: the field has no value from any source.
func requiredField(path string, err error) error {
	if errors.Is(err, io.EOF) {
		return &plugin.ValidationError{Issues: []plugin.Issue{
			{Path: path, Message: "no value provided"},
		}}
	}
	return err
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func validateNotEmpty(value string) error {
	if value == "" {
		return fmt.Errorf("a value is required")
	}
	return nil
}

func validateTitle(value string) error {
	if value == "" {
		return fmt.Errorf("a value is required")
	}
	if !titlePattern.MatchString(value) {
		return fmt.Errorf("invalid name %q: must start with a letter and contain only letters, digits, spaces, - and _", value)
	}
	return nil
}
