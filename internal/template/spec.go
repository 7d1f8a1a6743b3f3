package template

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
)

// SpecFileName is the metadata file every template repository carries at its
// root. It is consumed by the creator and never rendered into the output.
const SpecFileName = "template.yaml"

//go:embed schema/template.schema.json
var specSchemaBytes []byte

var (
	compiledSpecSchema *jsonschema.Schema
	specCompileOnce    sync.Once
	specCompileErr     error
)

// Spec describes a plugin template repository: identity, the minimum creator
// version it needs, globs copied verbatim, and extra context variables with
// their defaults.
type Spec struct {
	Name              string            `yaml:"name"`
	Description       string            `yaml:"description"`
	MinCreatorVersion string            `yaml:"min_creator_version"`
	Raw               []string          `yaml:"raw"`
	Variables         map[string]string `yaml:"variables"`
}

func getSpecSchema() (*jsonschema.Schema, error) {
	specCompileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(specSchemaBytes))
		if err != nil {
			specCompileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("template.schema.json", doc); err != nil {
			specCompileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSpecSchema, specCompileErr = c.Compile("template.schema.json")
		if specCompileErr != nil {
			specCompileErr = fmt.Errorf("compiling schema: %w", specCompileErr)
		}
	})
	return compiledSpecSchema, specCompileErr
}

// LoadSpec reads and validates the template.yaml in dir. A missing or
// malformed spec is a *RenderError: the template cannot be expanded.
func LoadSpec(dir string) (*Spec, error) {
	path := filepath.Join(dir, SpecFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RenderError{Path: path, Err: fmt.Errorf("reading template spec: %w", err)}
	}
	return ParseSpec(data, path)
}

// ParseSpec validates raw template.yaml bytes against the embedded JSON
// schema and unmarshals them. path is used in error messages only.
func ParseSpec(data []byte, path string) (*Spec, error) {
	schema, err := getSpecSchema()
	if err != nil {
		return nil, fmt.Errorf("loading template spec schema: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &RenderError{Path: path, Err: fmt.Errorf("parsing template spec: %w", err)}
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, &RenderError{Path: path, Err: fmt.Errorf("converting template spec to JSON: %w", err)}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, &RenderError{Path: path, Err: fmt.Errorf("preparing template spec for validation: %w", err)}
	}

	if err := schema.Validate(inst); err != nil {
		return nil, &RenderError{Path: path, Err: fmt.Errorf("invalid template spec: %w", err)}
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, &RenderError{Path: path, Err: fmt.Errorf("parsing template spec: %w", err)}
	}
	return &spec, nil
}

// CheckCompatible verifies the creator satisfies the template's
// min_creator_version. Development builds ("dev" or otherwise unparsable
// versions) skip the check.
func (s *Spec) CheckCompatible(creatorVersion string) error {
	if s.MinCreatorVersion == "" {
		return nil
	}

	current, err := semver.NewVersion(strings.TrimPrefix(creatorVersion, "v"))
	if err != nil {
		return nil
	}

	min, err := semver.NewVersion(s.MinCreatorVersion)
	if err != nil {
		return &RenderError{Err: fmt.Errorf("template declares invalid min_creator_version %q: %w", s.MinCreatorVersion, err)}
	}

	if current.LessThan(min) {
		return &RenderError{Err: fmt.Errorf("template %s requires creator version >= %s, this is %s",
			s.Name, s.MinCreatorVersion, creatorVersion)}
	}
	return nil
}

// MergeDefaults adds the template's own variables to the render context
// without overriding values the creator already set.
func (s *Spec) MergeDefaults(ctx map[string]any) {
	for key, value := range s.Variables {
		if _, ok := ctx[key]; !ok {
			ctx[key] = value
		}
	}
}
