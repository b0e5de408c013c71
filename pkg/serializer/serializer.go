package serializer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// NonFieldKey collects validation messages that do not belong to a single
// field.
const NonFieldKey = "non_field_errors"

// ValidationError rejects a request payload with per-field messages. It
// renders into the failure envelope as a field name to messages map.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns a ValidationError with a single message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for a field and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed on %s", strings.Join(fields, ", "))
}

// Serializer converts between wire payloads and values of T.
type Serializer[T any] interface {
	// Decode parses and validates the request body into dst. Callers pass
	// a populated dst for partial updates; decoded fields overwrite it in
	// place. Rejections are *ValidationError.
	Decode(r *http.Request, dst *T) error
	// Encode produces the wire representation of v.
	Encode(v T) (any, error)
}

// JSON is the standard Serializer: a JSON body decode with optional
// validation and response shaping hooks.
type JSON[T any] struct {
	// Validate inspects the decoded value. Return an error, normally a
	// *ValidationError, to reject the payload.
	Validate func(*T) error
	// Transform produces the response representation. Nil encodes the
	// value unchanged.
	Transform func(T) (any, error)
}

func (s JSON[T]) Decode(r *http.Request, dst *T) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return decodeError(err)
	}
	if s.Validate != nil {
		return s.Validate(dst)
	}
	return nil
}

func (s JSON[T]) Encode(v T) (any, error) {
	if s.Transform != nil {
		return s.Transform(v)
	}
	return v, nil
}

// decodeError maps a json decode failure onto a ValidationError, keeping
// the field attribution when the decoder provides one.
func decodeError(err error) *ValidationError {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return NewValidationError(typeErr.Field,
			fmt.Sprintf("Invalid value, expected %s.", typeErr.Type.Kind()))
	}
	return NewValidationError(NonFieldKey, "Invalid JSON body: "+err.Error())
}
