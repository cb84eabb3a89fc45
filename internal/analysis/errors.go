package analysis

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fallbackMessage is shown when the engine reports failure without a message.
const fallbackMessage = "An unknown error occurred"

var (
	// ErrNetwork marks failures to reach the analysis engine.
	ErrNetwork = errors.New("analysis engine unreachable")
	// ErrMalformedResponse marks engine responses that could not be decoded.
	ErrMalformedResponse = errors.New("malformed response from analysis engine")
)

// ApplicationError is returned when the engine answers with success=false.
type ApplicationError struct {
	Message string
}

// NewApplicationError builds an ApplicationError, substituting the generic
// fallback for an empty server message.
func NewApplicationError(message string) *ApplicationError {
	if strings.TrimSpace(message) == "" {
		message = fallbackMessage
	}
	return &ApplicationError{Message: message}
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// ValidationError reports an AnalysisRequest that cannot be submitted.
type ValidationError struct {
	Fields []string
	msg    string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// newValidationError converts validator output into a ValidationError.
func newValidationError(err error) *ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{msg: err.Error()}
	}

	fields := make([]string, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
		msgs = append(msgs, fieldMessage(fe))
	}
	return &ValidationError{Fields: fields, msg: strings.Join(msgs, "; ")}
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must have at most " + fe.Param() + " entries"
	default:
		return field + " is invalid"
	}
}

// UserMessage returns the single message shown to the user for any failure.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// outcomeOf classifies an engine error for metrics.
func outcomeOf(err error) string {
	var appErr *ApplicationError
	switch {
	case errors.As(err, &appErr):
		return "application_error"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	default:
		return "error"
	}
}
