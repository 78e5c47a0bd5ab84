package serializers

import (
	"sort"
	"strings"
)

// NonFieldErrors is the key for errors not tied to a single field
const NonFieldErrors = "non_field_errors"

// Field error messages
const (
	MsgRequired      = "This field is required."
	MsgBlank         = "This field may not be blank."
	MsgNull          = "This field may not be null."
	MsgInvalidString = "Not a valid string."
	MsgInvalidValue  = "Invalid value."
	MsgNotAFile      = "The submitted data was not a file. Check the encoding type on the form."
	MsgEmptyFile     = "The submitted file is empty."
	MsgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	MsgSelfFollow    = "Request user cannot follow himself."
	MsgFollowUnique  = "The fields user, following must make a unique set."
)

// ValidationError maps field names to their error messages
type ValidationError map[string][]string

// Add appends msg to the errors of field
func (e ValidationError) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Err returns e as an error, or nil when it holds no messages
func (e ValidationError) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldError builds a ValidationError with a single message
func FieldError(field, msg string) ValidationError {
	return ValidationError{field: {msg}}
}
