package template

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"unicode/utf8"
)

// Renderer expands a template tree into an output directory, substituting the
// context into both path names and file contents.
type Renderer struct {
	data map[string]any
	raw  []string
}

// NewRenderer returns a Renderer for the given context. raw lists slash-style
// globs (path.Match patterns, or "dir/**" prefixes) copied verbatim.
func NewRenderer(data map[string]any, raw []string) *Renderer {
	return &Renderer{data: data, raw: raw}
}

// Render expands srcDir into destDir, which must not already exist. It
// returns the relative slash paths of all files written, in walk order.
// The template spec file itself is not copied.
func (r *Renderer) Render(srcDir, destDir string) ([]string, error) {
	if _, err := os.Stat(destDir); err == nil {
		return nil, &RenderError{Path: destDir, Err: ErrDestinationExists}
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, &RenderError{Path: destDir, Err: err}
	}

	var files []string
	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == srcDir {
			return nil
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		relSlash := filepath.ToSlash(rel)

		if relSlash == SpecFileName {
			return nil
		}

		outRel, err := r.expandPath(relSlash)
		if err != nil {
			return &RenderError{Path: relSlash, Err: err}
		}
		outPath := filepath.Join(destDir, filepath.FromSlash(outRel))

		if d.IsDir() {
			return os.MkdirAll(outPath, 0755)
		}

		if err := r.renderFile(p, outPath, relSlash); err != nil {
			return err
		}
		files = append(files, outRel)
		return nil
	})
	if err != nil {
		return nil, wrapRender(err)
	}
	return files, nil
}

// renderFile writes a single template file, substituting contents unless the
// file matches a raw glob or is not valid UTF-8.
func (r *Renderer) renderFile(srcPath, destPath, relSlash string) error {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return &RenderError{Path: relSlash, Err: err}
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		return &RenderError{Path: relSlash, Err: err}
	}
	mode := os.FileMode(0644)
	if info.Mode()&0111 != 0 {
		mode = 0755
	}

	out := content
	if !r.isRaw(relSlash) && utf8.Valid(content) {
		tmpl, err := template.New(path.Base(relSlash)).Option("missingkey=error").Parse(string(content))
		if err != nil {
			return &RenderError{Path: relSlash, Err: fmt.Errorf("parsing: %w", err)}
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, r.data); err != nil {
			return &RenderError{Path: relSlash, Err: fmt.Errorf("executing: %w", err)}
		}
		out = buf.Bytes()
	}

	if err := os.WriteFile(destPath, out, mode); err != nil {
		return &RenderError{Path: relSlash, Err: err}
	}
	return nil
}

// expandPath substitutes the context into a relative slash path, so template
// trees can carry placeholder directory and file names like
// "{{ .PackageName }}/core.py".
func (r *Renderer) expandPath(relSlash string) (string, error) {
	if !strings.Contains(relSlash, "{{") {
		return relSlash, nil
	}

	tmpl, err := template.New("path").Option("missingkey=error").Parse(relSlash)
	if err != nil {
		return "", fmt.Errorf("parsing path template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return "", fmt.Errorf("expanding path template: %w", err)
	}

	expanded := buf.String()
	if expanded == "" || strings.Contains(expanded, "..") {
		return "", fmt.Errorf("path template %q expanded to invalid path %q", relSlash, expanded)
	}
	return expanded, nil
}

// isRaw reports whether rel matches one of the verbatim-copy globs.
func (r *Renderer) isRaw(rel string) bool {
	for _, pat := range r.raw {
		if strings.HasSuffix(pat, "/**") {
			if strings.HasPrefix(rel, strings.TrimSuffix(pat, "**")) {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// Commit moves a fully rendered staging directory into its final place. The
// destination is re-checked immediately before the rename so a plugin created
// meanwhile is never overwritten.
func Commit(stagingDir, destDir string) error {
	if _, err := os.Stat(destDir); err == nil {
		return &RenderError{Path: destDir, Err: ErrDestinationExists}
	}
	if err := os.Rename(stagingDir, destDir); err != nil {
		return &RenderError{Path: destDir, Err: err}
	}
	return nil
}

// wrapRender ensures walk failures surface as *RenderError.
func wrapRender(err error) error {
	var re *RenderError
	if errors.As(err, &re) {
		return err
	}
	return &RenderError{Err: err}
}
