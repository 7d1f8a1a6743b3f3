package cli

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/inventa-apps/plugin-creator/internal/plugin"
	"github.com/inventa-apps/plugin-creator/internal/template"
)

// templateServer serves a gzipped tarball shaped like a GitHub branch
// archive of a plugin template repository.
func templateServer(t *testing.T) *httptest.Server {
	t.Helper()

	files := map[string]string{
		"plugin-template-main/template.yaml": "name: inventa-plugin\nraw:\n  - frontend/**\n",
		"plugin-template-main/README.md":     "# {{ .PluginTitle }}\n\n{{ .PluginDescription }}\n",
		"plugin-template-main/LICENSE":       "{{ .LicenseText }}",
		"plugin-template-main/{{ .PackageName }}/core.py": "PLUGIN_NAME = \"{{ .PluginName }}\"\n",
		"plugin-template-main/frontend/package.json":      "{\"name\": \"{{ verbatim }}\"}\n",
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

// runCommand resets command state and executes the root command with args,
// returning the combined command output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	if f := rootCmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
	}
	flagTitle, flagDescription, flagAuthor, flagEmail, flagURL = "", "", "", "", ""
	flagLicense, flagPluginVersion, flagTemplateURL = "", "", ""
	flagMixins, flagFeatures, flagPackages = nil, nil, nil
	flagNoFrontend, flagDefaults = false, false
	flagOutput = "."

	rootCmd.SetIn(strings.NewReader(""))
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// assertEmptyDir fails the test when a failed run left anything behind.
func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output directory not empty after failure: %v", entries)
	}
}

func TestHelp(t *testing.T) {
	out, err := runCommand(t, "--help")
	if err != nil {
		t.Fatalf("--help error: %v", err)
	}

	flags := []string{
		"--name", "--description", "--author", "--email", "--url",
		"--license", "--plugin-version", "--mixin", "--frontend-feature",
		"--frontend-package", "--no-frontend", "--output", "--defaults",
		"--template-url",
	}
	for _, flag := range flags {
		if !strings.Contains(out, flag) {
			t.Errorf("help output missing %s", flag)
		}
	}
}

func TestCreatePlugin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := templateServer(t)

	t.Run("missing author fails validation", func(t *testing.T) {
		output := t.TempDir()
		_, err := runCommand(t, "--defaults", "--output", output,
			"--template-url", srv.URL+"/main.tar.gz")
		if err == nil {
			t.Fatal("expected a validation failure without an author")
		}
		var vErr *plugin.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error is %T, want *ValidationError", err)
		}
		if got := ExitCode(err); got != ExitValidation {
			t.Errorf("ExitCode() = %d, want %d", got, ExitValidation)
		}
		assertEmptyDir(t, output)
	})

	t.Run("exhausted prompts fail validation", func(t *testing.T) {
		output := t.TempDir()
		_, err := runCommand(t, "--output", output,
			"--template-url", srv.URL+"/main.tar.gz")
		if err == nil {
			t.Fatal("expected a failure with no interactive answers")
		}
		var vErr *plugin.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error is %T, want *ValidationError", err)
		}
		if len(vErr.Issues) == 0 || vErr.Issues[0].Path != "/plugin_title" {
			t.Errorf("issues = %v, want the unanswered field named", vErr.Issues)
		}
		if got := ExitCode(err); got != ExitValidation {
			t.Errorf("ExitCode() = %d, want %d", got, ExitValidation)
		}
		assertEmptyDir(t, output)
	})

	t.Run("unreachable template is a network failure", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()

		output := t.TempDir()
		_, err := runCommand(t, "--defaults", "--author", "A. Developer",
			"--output", output, "--template-url", dead.URL+"/main.tar.gz")
		if got := ExitCode(err); got != ExitNetwork {
			t.Errorf("ExitCode() = %d (err=%v), want %d", got, err, ExitNetwork)
		}
		assertEmptyDir(t, output)
	})

	output := t.TempDir()

	t.Run("defaults with author succeed", func(t *testing.T) {
		_, err := runCommand(t, "--defaults", "--author", "A. Developer",
			"--email", "dev@example.com", "--output", output,
			"--template-url", srv.URL+"/main.tar.gz")
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		dest := filepath.Join(output, "custom-plugin")

		readme, err := os.ReadFile(filepath.Join(dest, "README.md"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(readme), "# Custom Plugin") {
			t.Errorf("README.md = %q", readme)
		}

		lic, err := os.ReadFile(filepath.Join(dest, "LICENSE"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(lic), "A. Developer") {
			t.Errorf("LICENSE not rendered with author:\n%s", lic)
		}

		core, err := os.ReadFile(filepath.Join(dest, "custom_plugin", "core.py"))
		if err != nil {
			t.Fatalf("package directory not expanded: %v", err)
		}
		if !strings.Contains(string(core), `PLUGIN_NAME = "CustomPlugin"`) {
			t.Errorf("core.py = %q", core)
		}

		// The frontend tree is raw and must survive verbatim.
		pkg, err := os.ReadFile(filepath.Join(dest, "frontend", "package.json"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(pkg), "{{ verbatim }}") {
			t.Errorf("raw frontend file was templated: %q", pkg)
		}

		// The spec file must not end up in the plugin.
		if _, err := os.Stat(filepath.Join(dest, template.SpecFileName)); !os.IsNotExist(err) {
			t.Error("template.yaml leaked into the generated plugin")
		}
	})

	t.Run("existing destination is rejected", func(t *testing.T) {
		_, err := runCommand(t, "--defaults", "--author", "A. Developer",
			"--output", output, "--template-url", srv.URL+"/main.tar.gz")
		if err == nil {
			t.Fatal("expected a failure on the existing destination")
		}
		if !errors.Is(err, template.ErrDestinationExists) {
			t.Errorf("error = %v, want ErrDestinationExists", err)
		}
		if got := ExitCode(err); got != ExitRender {
			t.Errorf("ExitCode() = %d, want %d", got, ExitRender)
		}
	})

	t.Run("no-frontend prunes the frontend tree", func(t *testing.T) {
		output := t.TempDir()
		_, err := runCommand(t, "--defaults", "--author", "A. Developer",
			"--no-frontend", "--output", output,
			"--template-url", srv.URL+"/main.tar.gz")
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		dest := filepath.Join(output, "custom-plugin")
		if _, err := os.Stat(filepath.Join(dest, "frontend")); !os.IsNotExist(err) {
			t.Error("frontend directory should have been pruned")
		}
		if _, err := os.Stat(filepath.Join(dest, "README.md")); err != nil {
			t.Errorf("backend files missing: %v", err)
		}
	})

	t.Run("custom name drives all derived names", func(t *testing.T) {
		output := t.TempDir()
		_, err := runCommand(t, "--defaults", "--author", "A. Developer",
			"--name", "Warehouse Sync", "--output", output,
			"--template-url", srv.URL+"/main.tar.gz")
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		dest := filepath.Join(output, "warehouse-sync")
		core, err := os.ReadFile(filepath.Join(dest, "warehouse_sync", "core.py"))
		if err != nil {
			t.Fatalf("derived package directory missing: %v", err)
		}
		if !strings.Contains(string(core), `PLUGIN_NAME = "WarehouseSync"`) {
			t.Errorf("core.py = %q", core)
		}
	})
}
