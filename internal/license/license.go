// Package license holds the embedded license catalog offered during plugin
// creation. Each license text carries Year/Author/Email placeholders that are
// filled in when the plugin is generated.
package license

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

//go:embed licenses/*.txt
var licenseFS embed.FS

// DefaultKey is the license preselected in the interactive flow.
const DefaultKey = "MIT"

// License is a single catalog entry.
type License struct {
	Key  string
	text string
}

// holder carries the substitution values for a license text.
type holder struct {
	Year   int
	Author string
	Email  string
}

// Keys returns all available license identifiers, sorted.
func Keys() ([]string, error) {
	entries, err := licenseFS.ReadDir("licenses")
	if err != nil {
		return nil, fmt.Errorf("reading license catalog: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(keys)
	return keys, nil
}

// Find returns the license for the given identifier.
func Find(key string) (*License, error) {
	data, err := licenseFS.ReadFile("licenses/" + key + ".txt")
	if err != nil {
		keys, _ := Keys()
		return nil, fmt.Errorf("unknown license %q (available: %s)", key, strings.Join(keys, ", "))
	}
	return &License{Key: key, text: string(data)}, nil
}

// Render fills the license text with the copyright holder details.
func (l *License) Render(author, email string, year int) (string, error) {
	tmpl, err := template.New(l.Key).Parse(l.text)
	if err != nil {
		return "", fmt.Errorf("parsing license %s: %w", l.Key, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, holder{Year: year, Author: author, Email: email}); err != nil {
		return "", fmt.Errorf("rendering license %s: %w", l.Key, err)
	}
	return buf.String(), nil
}
