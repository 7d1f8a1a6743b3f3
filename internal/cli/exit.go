package cli

import (
	"errors"

	"github.com/inventa-apps/plugin-creator/internal/plugin"
	"github.com/inventa-apps/plugin-creator/internal/template"
)

// Process exit codes per error class.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitNetwork    = 3
	ExitRender     = 4
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var validationErr *plugin.ValidationError
	if errors.As(err, &validationErr) {
		return ExitValidation
	}

	var fetchErr *template.FetchError
	if errors.As(err, &fetchErr) {
		return ExitNetwork
	}

	var renderErr *template.RenderError
	if errors.As(err, &renderErr) {
		return ExitRender
	}

	return ExitFailure
}
