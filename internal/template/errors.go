package template

import (
	"errors"
	"fmt"
)

// ErrDestinationExists is reported when the output directory already exists.
// The tool never overwrites an existing plugin.
var ErrDestinationExists = errors.New("destination already exists")

// FetchError reports that the remote template could not be retrieved or
// unpacked. It maps to the Network error class and exit code 3.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching template %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RenderError reports that template expansion failed, including destination
// collisions. It maps to the Render error class and exit code 4.
type RenderError struct {
	Path string // file or directory involved, may be empty
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("rendering template: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("rendering template: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
