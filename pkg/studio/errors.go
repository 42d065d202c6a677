// errors.go — Error taxonomy for the editing session. Validation and
// export failures are recoverable notices; render failures come from
// pkg/compositor as *compositor.RenderError. Nothing here should ever
// end an editing session.
package studio

import "fmt"

// ValidationError reports a rejected upload. The prior state is always
// left untouched when one is returned.
type ValidationError struct {
	Field  string // "design" or "template"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s upload: %s", e.Field, e.Reason)
}

// ExportError reports a failed download request, typically because no
// composite has been rendered since the last input change.
type ExportError struct {
	Reason string
}

func (e *ExportError) Error() string {
	return "export: " + e.Reason
}
