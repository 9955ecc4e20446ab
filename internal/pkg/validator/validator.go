// Package validator checks the shape of usecase inputs before any business
// rule runs.
package validator

// Validator validates a struct according to its `validate` tags.
type Validator interface {
	Validate(data any) error
}
