package validator

// Validator checks a struct's fields against their validation tags.
type Validator interface {
	Validate(data any) error
}
