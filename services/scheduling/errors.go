package scheduling

import "fmt"

const (
	CodeValidation        = "validation"
	CodeDuplicateID       = "duplicate_id"
	CodeNotFound          = "not_found"
	CodeInvalidResolution = "invalid_resolution"
)

// SchedulingError is returned for rejected input and unknown references.
// Conflicts are not errors; they come back in models.SaveResult.
type SchedulingError struct {
	Code    string
	Field   string
	Message string
}

func (e *SchedulingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewSchedulingError(code, msg string) error {
	return &SchedulingError{
		Code:    code,
		Message: msg,
	}
}

func newFieldError(field, msg string) error {
	return &SchedulingError{
		Code:    CodeValidation,
		Field:   field,
		Message: msg,
	}
}
