package models

import "fmt"

// NotFoundError indicates that an operation referenced an id that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s non trouvé", e.Entity)
	}
	return fmt.Sprintf("%s avec l'id %d non trouvé", e.Entity, e.ID)
}

// ValidationError carries per-field constraint violations detected before persistence.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("validation: %s %s", field, msg)
	}
	return "validation: données invalides"
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ConflictError indicates a uniqueness violation (nom or email already taken).
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflit: %s '%s' est déjà utilisé", e.Field, e.Value)
}
