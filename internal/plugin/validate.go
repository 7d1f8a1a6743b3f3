package plugin

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/inventa-apps/plugin-creator/internal/license"
)

//go:embed schema/config.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Issue is a single validation problem.
type Issue struct {
	Path    string // Instance location (e.g., "/plugin_title")
	Message string // Human-readable error message
}

// ValidationError reports that the configuration is incomplete or malformed.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		if issue.Path != "" {
			msgs[i] = issue.Path + ": " + issue.Message
		} else {
			msgs[i] = issue.Message
		}
	}
	return "invalid plugin configuration:\n  " + strings.Join(msgs, "\n  ")
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("config.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("config.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks the configuration against the embedded JSON schema plus the
// checks the schema cannot express (semver version, known license, known
// mixin and feature keys). It returns a *ValidationError when the
// configuration is rejected; any other error is an internal failure.
func Validate(cfg *Config) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	jsonData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("preparing configuration for validation: %w", err)
	}

	var issues []Issue
	if err := schema.Validate(inst); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return fmt.Errorf("unexpected validation error type: %w", err)
		}
		issues = collectIssues(validationErr, nil)
	}

	if _, err := semver.NewVersion(cfg.Version); err != nil {
		issues = append(issues, Issue{
			Path:    "/version",
			Message: fmt.Sprintf("%q is not a valid semantic version", cfg.Version),
		})
	}

	if cfg.LicenseKey != "" {
		if _, err := license.Find(cfg.LicenseKey); err != nil {
			issues = append(issues, Issue{Path: "/license", Message: err.Error()})
		}
	}

	for _, key := range cfg.Mixins {
		if !ValidMixin(key) {
			issues = append(issues, Issue{
				Path:    "/mixins",
				Message: fmt.Sprintf("unknown mixin %q", key),
			})
		}
	}

	for _, key := range cfg.FrontendFeatures {
		if !ValidFeature(key) {
			issues = append(issues, Issue{
				Path:    "/frontend_features",
				Message: fmt.Sprintf("unknown frontend feature %q", key),
			})
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// collectIssues walks the validation error tree and gathers leaf errors with
// specific property information.
func collectIssues(ve *jsonschema.ValidationError, issues []Issue) []Issue {
	if len(ve.Causes) == 0 {
		path := ""
		if len(ve.InstanceLocation) > 0 {
			path = "/" + strings.Join(ve.InstanceLocation, "/")
		}

		msg := ve.Error()
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		return append(issues, Issue{Path: path, Message: msg})
	}

	for _, cause := range ve.Causes {
		issues = collectIssues(cause, issues)
	}
	return issues
}
