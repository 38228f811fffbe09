package model

// ValidationError is invalid caller input, such as an empty query or an unknown mode
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
