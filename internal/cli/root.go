// Package cli wires the prompt-and-render flow onto a single cobra command.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inventa-apps/plugin-creator/internal/branding"
	"github.com/inventa-apps/plugin-creator/internal/config"
	"github.com/inventa-apps/plugin-creator/internal/license"
	"github.com/inventa-apps/plugin-creator/internal/plugin"
	"github.com/inventa-apps/plugin-creator/internal/template"
	"github.com/inventa-apps/plugin-creator/internal/ui"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var titlePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 _-]*$`)

var (
	flagTitle         string
	flagDescription   string
	flagAuthor        string
	flagEmail         string
	flagURL           string
	flagLicense       string
	flagPluginVersion string
	flagMixins        []string
	flagFeatures      []string
	flagPackages      []string
	flagNoFrontend    bool
	flagOutput        string
	flagDefaults      bool
	flagTemplateURL   string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` collects plugin metadata and renders the remote
plugin template into a new project directory. Fields not supplied via flags
are asked for interactively; --defaults skips all prompts.

Plugin development documentation: ` + branding.DocsURL(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCreate,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flagTitle, "name", "n", "", "Plugin name (e.g. \"Custom Plugin\")")
	f.StringVarP(&flagDescription, "description", "d", "", "Short plugin description")
	f.StringVarP(&flagAuthor, "author", "a", "", "Author name")
	f.StringVarP(&flagEmail, "email", "e", "", "Author email")
	f.StringVarP(&flagURL, "url", "u", "", "Project URL")
	f.StringVarP(&flagLicense, "license", "l", "", "License identifier (e.g. MIT)")
	f.StringVar(&flagPluginVersion, "plugin-version", "", "Initial plugin version")
	f.StringSliceVarP(&flagMixins, "mixin", "m", nil, "Mixin to include (repeatable)")
	f.StringSliceVar(&flagFeatures, "frontend-feature", nil, "Frontend feature to enable (repeatable)")
	f.StringSliceVar(&flagPackages, "frontend-package", nil, "Additional frontend package to install (repeatable)")
	f.BoolVar(&flagNoFrontend, "no-frontend", false, "Generate the plugin without frontend code")
	f.StringVarP(&flagOutput, "output", "o", ".", "Directory the plugin is created in")
	f.BoolVar(&flagDefaults, "defaults", false, "Accept defaults for all unset fields (non-interactive)")
	f.StringVar(&flagTemplateURL, "template-url", "", "Template archive URL (overrides config)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s version %s (commit: %s, built: %s)\n",
		branding.CLIName(), version, commit, date))

	config.Load()
	return rootCmd.Execute()
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := plugin.Defaults()
	if err != nil {
		return err
	}

	applyPersisted(cfg)
	applyFlags(cmd, cfg)

	if !flagDefaults {
		if err := gatherInfo(cmd, cfg); err != nil {
			return err
		}
	}

	cfg.Derive()
	resolveFrontend(cfg)

	if err := plugin.Validate(cfg); err != nil {
		return err
	}

	lic, err := license.Find(cfg.LicenseKey)
	if err != nil {
		return &plugin.ValidationError{Issues: []plugin.Issue{{Path: "/license", Message: err.Error()}}}
	}
	cfg.LicenseText, err = lic.Render(cfg.AuthorName, cfg.AuthorEmail, time.Now().Year())
	if err != nil {
		return err
	}

	ui.Info("Generating plugin %q - %s", cfg.Title, cfg.Description)
	ui.Info(" - Package name: %s", cfg.PackageName)

	dest, files, err := render(cfg)
	if err != nil {
		return err
	}

	ui.Success("Plugin created -> %s", dest)
	for _, f := range files {
		fmt.Printf("  %s\n", f)
	}

	if err := config.RememberAuthor(cfg.AuthorName, cfg.AuthorEmail, cfg.ProjectURL); err != nil {
		ui.Warn("could not save author defaults: %v", err)
	}
	return nil
}

// applyPersisted fills author identity from the saved user config.
func applyPersisted(cfg *plugin.Config) {
	if v := config.Get(config.KeyAuthorName); v != "" {
		cfg.AuthorName = v
	}
	if v := config.Get(config.KeyAuthorEmail); v != "" {
		cfg.AuthorEmail = v
	}
	if v := config.Get(config.KeyProjectURL); v != "" {
		cfg.ProjectURL = v
	}
}

// applyFlags overlays explicitly set flags onto the configuration.
func applyFlags(cmd *cobra.Command, cfg *plugin.Config) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Title = flagTitle
	}
	if flags.Changed("description") {
		cfg.Description = flagDescription
	}
	if flags.Changed("author") {
		cfg.AuthorName = flagAuthor
	}
	if flags.Changed("email") {
		cfg.AuthorEmail = flagEmail
	}
	if flags.Changed("url") {
		cfg.ProjectURL = flagURL
	}
	if flags.Changed("license") {
		cfg.LicenseKey = flagLicense
	}
	if flags.Changed("plugin-version") {
		cfg.Version = flagPluginVersion
	}
	if flags.Changed("mixin") {
		cfg.Mixins = flagMixins
	}
	if flags.Changed("frontend-feature") {
		cfg.FrontendFeatures = flagFeatures
	}
	if flags.Changed("frontend-package") {
		cfg.FrontendPackages = flagPackages
	}
}

// resolveFrontend finalizes the frontend selection after flags and prompts.
// Until this point cfg.FrontendPackages holds only the optional picks; the
// enforced packages are prepended here.
func resolveFrontend(cfg *plugin.Config) {
	if flagNoFrontend {
		cfg.FrontendFeatures = nil
	}
	if !cfg.FrontendEnabled() {
		cfg.FrontendPackages = nil
		return
	}
	cfg.FrontendPackages = append(plugin.EnforcedPackages(), cfg.FrontendPackages...)
}

// render fetches the remote template and expands it next to the final
// destination, committing with a rename so a failed run leaves nothing
// behind. It returns the destination directory and the files written.
func render(cfg *plugin.Config) (string, []string, error) {
	outputParent := flagOutput
	if err := os.MkdirAll(outputParent, 0755); err != nil {
		return "", nil, fmt.Errorf("creating output directory %s: %w", outputParent, err)
	}

	dest := filepath.Join(outputParent, cfg.Slug)
	if _, err := os.Stat(dest); err == nil {
		return "", nil, &template.RenderError{Path: dest, Err: template.ErrDestinationExists}
	}

	url := flagTemplateURL
	if url == "" {
		url = config.TemplateURL()
	}

	work, err := os.MkdirTemp("", branding.CLIName()+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(work)

	ui.Info("Fetching template from %s", url)
	root, err := template.NewFetcher(nil).Fetch(url, work)
	if err != nil {
		return "", nil, err
	}

	spec, err := template.LoadSpec(root)
	if err != nil {
		return "", nil, err
	}
	if err := spec.CheckCompatible(buildVersion); err != nil {
		return "", nil, err
	}

	ctx := cfg.Context()
	spec.MergeDefaults(ctx)

	// Stage next to the destination so the final rename stays on one
	// filesystem.
	staging, err := os.MkdirTemp(outputParent, "."+branding.CLIName()+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	stagingOut := filepath.Join(staging, cfg.Slug)
	files, err := template.NewRenderer(ctx, spec.Raw).Render(root, stagingOut)
	if err != nil {
		return "", nil, err
	}

	if !cfg.FrontendEnabled() {
		if err := os.RemoveAll(filepath.Join(stagingOut, "frontend")); err != nil {
			return "", nil, &template.RenderError{Path: "frontend", Err: err}
		}
		files = dropPrefixed(files, "frontend/")
	}

	if err := template.Commit(stagingOut, dest); err != nil {
		return "", nil, err
	}
	return dest, files, nil
}

// dropPrefixed removes entries under a pruned subtree from the file list.
func dropPrefixed(files []string, prefix string) []string {
	kept := files[:0]
	for _, f := range files {
		if !strings.HasPrefix(f, prefix) {
			kept = append(kept, f)
		}
	}
	return kept
}
