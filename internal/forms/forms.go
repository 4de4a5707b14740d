// Package forms defines the uniform result shape mutations return to the
// boundary layer: either success with data, or a map of per-field messages
// with the reserved "_form" key carrying form-level errors.
package forms

// FormErrorKey is the reserved error-map key for errors that belong to the
// form as a whole rather than to one input.
const FormErrorKey = "_form"

// Errors maps field names to user-facing messages.
type Errors map[string]string

// Field returns single-field Errors.
func Field(field, message string) Errors {
	return Errors{field: message}
}

// Form returns form-level Errors.
func Form(message string) Errors {
	return Errors{FormErrorKey: message}
}

// Set records a message for a field, keeping the first message when the
// field already has one.
func (e Errors) Set(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Any reports whether any error was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Result is the uniform mutation outcome. Mutations never propagate raw
// failures past the mutation boundary; everything collapses into this
// shape.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Errors  Errors `json:"errors,omitempty"`
}

// OK wraps a successful mutation outcome.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps a failed mutation outcome.
func Fail[T any](errs Errors) Result[T] {
	return Result[T]{Success: false, Errors: errs}
}
