package prompt

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	t.Run("answer is returned trimmed", func(t *testing.T) {
		p := New(strings.NewReader("  My Plugin  \n"), &strings.Builder{})
		got, err := p.Text("Enter plugin name", "Custom Plugin", nil)
		if err != nil {
			t.Fatalf("Text() error: %v", err)
		}
		if got != "My Plugin" {
			t.Errorf("got %q, want %q", got, "My Plugin")
		}
	})

	t.Run("empty answer yields default", func(t *testing.T) {
		p := New(strings.NewReader("\n"), &strings.Builder{})
		got, err := p.Text("Enter plugin name", "Custom Plugin", nil)
		if err != nil {
			t.Fatalf("Text() error: %v", err)
		}
		if got != "Custom Plugin" {
			t.Errorf("got %q, want %q", got, "Custom Plugin")
		}
	})

	t.Run("invalid answer is asked again", func(t *testing.T) {
		var out strings.Builder
		notEmpty := func(v string) error {
			if v == "" {
				return fmt.Errorf("a value is required")
			}
			return nil
		}

		p := New(strings.NewReader("\nplugin\n"), &out)
		got, err := p.Text("Author name", "", notEmpty)
		if err != nil {
			t.Fatalf("Text() error: %v", err)
		}
		if got != "plugin" {
			t.Errorf("got %q, want %q", got, "plugin")
		}
		if !strings.Contains(out.String(), "a value is required") {
			t.Errorf("validation message not shown:\n%s", out.String())
		}
	})

	t.Run("exhausted input is an error", func(t *testing.T) {
		p := New(strings.NewReader(""), &strings.Builder{})
		if _, err := p.Text("Author name", "", nil); err == nil {
			t.Fatal("expected error on exhausted input")
		}
	})

	t.Run("final unterminated line is accepted", func(t *testing.T) {
		p := New(strings.NewReader("plugin"), &strings.Builder{})
		got, err := p.Text("Author name", "", nil)
		if err != nil {
			t.Fatalf("Text() error: %v", err)
		}
		if got != "plugin" {
			t.Errorf("got %q, want %q", got, "plugin")
		}
	})
}

func TestSelect(t *testing.T) {
	options := []string{"Apache-2.0", "MIT", "Unlicense"}

	t.Run("number picks option", func(t *testing.T) {
		p := New(strings.NewReader("3\n"), &strings.Builder{})
		got, err := p.Select("Select a license", options, "MIT")
		if err != nil {
			t.Fatalf("Select() error: %v", err)
		}
		if got != "Unlicense" {
			t.Errorf("got %q, want %q", got, "Unlicense")
		}
	})

	t.Run("empty answer yields default", func(t *testing.T) {
		p := New(strings.NewReader("\n"), &strings.Builder{})
		got, err := p.Select("Select a license", options, "MIT")
		if err != nil {
			t.Fatalf("Select() error: %v", err)
		}
		if got != "MIT" {
			t.Errorf("got %q, want %q", got, "MIT")
		}
	})

	t.Run("out of range is asked again", func(t *testing.T) {
		var out strings.Builder
		p := New(strings.NewReader("9\n1\n"), &out)
		got, err := p.Select("Select a license", options, "MIT")
		if err != nil {
			t.Fatalf("Select() error: %v", err)
		}
		if got != "Apache-2.0" {
			t.Errorf("got %q, want %q", got, "Apache-2.0")
		}
		if !strings.Contains(out.String(), "invalid selection") {
			t.Errorf("retry message not shown:\n%s", out.String())
		}
	})

	t.Run("no options is an error", func(t *testing.T) {
		p := New(strings.NewReader("1\n"), &strings.Builder{})
		if _, err := p.Select("Select a license", nil, ""); err == nil {
			t.Fatal("expected error for empty option list")
		}
	})
}

func TestMultiSelect(t *testing.T) {
	choices := []Choice{
		{Key: "settings", Checked: true},
		{Key: "schedule"},
		{Key: "events"},
	}

	t.Run("comma separated numbers", func(t *testing.T) {
		p := New(strings.NewReader("2, 3\n"), &strings.Builder{})
		got, err := p.MultiSelect("Select mixins to include", choices)
		if err != nil {
			t.Fatalf("MultiSelect() error: %v", err)
		}
		want := []string{"schedule", "events"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty keeps defaults", func(t *testing.T) {
		p := New(strings.NewReader("\n"), &strings.Builder{})
		got, err := p.MultiSelect("Select mixins to include", choices)
		if err != nil {
			t.Fatalf("MultiSelect() error: %v", err)
		}
		want := []string{"settings"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("none clears selection", func(t *testing.T) {
		p := New(strings.NewReader("none\n"), &strings.Builder{})
		got, err := p.MultiSelect("Select mixins to include", choices)
		if err != nil {
			t.Fatalf("MultiSelect() error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})

	t.Run("duplicates are collapsed", func(t *testing.T) {
		p := New(strings.NewReader("1,1,2\n"), &strings.Builder{})
		got, err := p.MultiSelect("Select mixins to include", choices)
		if err != nil {
			t.Fatalf("MultiSelect() error: %v", err)
		}
		want := []string{"settings", "schedule"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("bad token is asked again", func(t *testing.T) {
		var out strings.Builder
		p := New(strings.NewReader("nope\n1\n"), &out)
		got, err := p.MultiSelect("Select mixins to include", choices)
		if err != nil {
			t.Fatalf("MultiSelect() error: %v", err)
		}
		want := []string{"settings"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
		if !strings.Contains(out.String(), "invalid selection") {
			t.Errorf("retry message not shown:\n%s", out.String())
		}
	})
}
