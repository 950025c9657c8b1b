package simplecms

import (
	"errors"
	"fmt"
	"strings"
)

// Error types
var (
	// ErrItemNotFound indicates no item has the requested id
	ErrItemNotFound = errors.New("content not found")

	// ErrValidation indicates request fields are missing or invalid
	ErrValidation = errors.New("validation failed")

	// ErrInvalidItemType indicates an unknown item type
	ErrInvalidItemType = errors.New("invalid content type")

	// ErrInvalidItemStatus indicates an unknown item status
	ErrInvalidItemStatus = errors.New("invalid content status")
)

// ItemError represents an error related to item operations
type ItemError struct {
	ItemID string
	Op     string
	Err    error
}

func (e *ItemError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("content operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("content operation %s failed for content %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists the fields rejected by the service.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Missing reports whether any field was rejected for being empty.
func (e *ValidationError) Missing() bool {
	for _, f := range e.Fields {
		if f.Reason == reasonRequired {
			return true
		}
	}
	return false
}

// FieldNames returns the rejected field names in order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

const (
	reasonRequired = "required"
	reasonInvalid  = "invalid value"
)

// IsNotFound reports whether err signals a missing item.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}
