package storage

import "strings"

// ValidationKind classifies a single field failure from a rejected write.
// The set is closed: the transport layer matches it exhaustively instead of
// inspecting error strings.
type ValidationKind string

const (
	KindRequired     ValidationKind = "required"
	KindFormat       ValidationKind = "format"
	KindUnique       ValidationKind = "unique"
	KindUnclassified ValidationKind = "unclassified"
)

// FieldError is one field-level failure within a rejected write.
type FieldError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

// ValidationError carries the complete batch of field failures produced by
// one rejected write attempt. A batch is constructed fresh per attempt and
// never merged with a previous one.
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := e.Messages()
	return "validation failed: " + strings.Join(msgs, " ")
}

// Messages returns the failure messages in batch order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return msgs
}

// Classified reports whether every member of the batch has a translatable
// kind. A batch with any unclassified member is treated as wholly
// unclassified so a partial 400 is never emitted for it.
func (e *ValidationError) Classified() bool {
	if len(e.Errors) == 0 {
		return false
	}
	for _, fe := range e.Errors {
		switch fe.Kind {
		case KindRequired, KindFormat, KindUnique:
		default:
			return false
		}
	}
	return true
}

// NewValidationError builds a single-kind batch from ordered messages.
func NewValidationError(kind ValidationKind, field string, messages ...string) *ValidationError {
	ve := &ValidationError{}
	for _, m := range messages {
		ve.Errors = append(ve.Errors, FieldError{Kind: kind, Field: field, Message: m})
	}
	return ve
}
