package model

import "fmt"

// MalformedDocumentError indicates the input could not be parsed as XML
// at all. This is the only fatal extraction condition; every other
// missing or malformed field degrades to a default with a diagnostic.
type MalformedDocumentError struct {
	Message string
	Cause   error
}

func (e *MalformedDocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed document: %s (%v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed document: %s", e.Message)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Cause
}

// NewMalformedDocumentError creates a new malformed document error.
func NewMalformedDocumentError(message string, cause error) *MalformedDocumentError {
	return &MalformedDocumentError{Message: message, Cause: cause}
}

// DiagnosticKind classifies non-fatal pipeline events.
type DiagnosticKind string

const (
	// DiagFieldCoercionDefaulted means a field could not be parsed and a
	// default value was substituted.
	DiagFieldCoercionDefaulted DiagnosticKind = "FieldCoercionDefaulted"
	// DiagEncodingUnresolved means no candidate encoding decoded the
	// input cleanly and a lossy decode was used.
	DiagEncodingUnresolved DiagnosticKind = "EncodingUnresolved"
)

// Diagnostic records a non-fatal degradation observed while processing a
// document. Diagnostics are collected alongside the result, never logged
// and dropped.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Field, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
}

// NewCoercionDiagnostic records a defaulted field.
func NewCoercionDiagnostic(field, message string) Diagnostic {
	return Diagnostic{Kind: DiagFieldCoercionDefaulted, Field: field, Message: message}
}

// NewEncodingDiagnostic records an unresolved input encoding.
func NewEncodingDiagnostic(message string) Diagnostic {
	return Diagnostic{Kind: DiagEncodingUnresolved, Message: message}
}
