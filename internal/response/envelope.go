package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// GenericErrorMessage is reported when a failure carries no usable message
const GenericErrorMessage = "An error occurred"

// FieldMessage is a message scoped to one request property
type FieldMessage struct {
	PropertyName string `json:"propertyName,omitempty"`
	Message      string `json:"message"`
}

// Envelope is the BaseResult wrapper every RouteHub endpoint responds with.
// Data is kept raw so that "present" and "null" can be told apart.
type Envelope struct {
	Data          json.RawMessage `json:"data,omitempty"`
	IsSuccess     *bool           `json:"isSuccess,omitempty"`
	StatusCode    int             `json:"statusCode,omitempty"`
	ErrorMessages []string        `json:"errorMessages,omitempty"`
	Messages      []FieldMessage  `json:"messages,omitempty"`
	// Message is only set on some framework-level error bodies
	Message string `json:"message,omitempty"`
}

// Outcome is the classification of an envelope
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
	OutcomeInconsistent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "inconsistent"
	}
}

// Classify decides success or failure. Precedence:
//  1. isSuccess, when present, decides alone
//  2. any field message or error message means failure
//  3. a non-null payload means success
//  4. anything else is inconsistent and handled as a failure
func (e *Envelope) Classify() Outcome {
	if e == nil {
		return OutcomeInconsistent
	}
	if e.IsSuccess != nil {
		if *e.IsSuccess {
			return OutcomeSuccess
		}
		return OutcomeFailure
	}
	if len(e.Messages) > 0 || len(e.ErrorMessages) > 0 {
		return OutcomeFailure
	}
	if e.HasData() {
		return OutcomeSuccess
	}
	return OutcomeInconsistent
}

// Succeeded reports whether the envelope classifies as success
func (e *Envelope) Succeeded() bool {
	return e.Classify() == OutcomeSuccess
}

// HasData reports whether a non-null payload is present
func (e *Envelope) HasData() bool {
	if e == nil {
		return false
	}
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// ErrorMessage returns the most specific failure message available:
// field-scoped messages, then plain error strings, then the generic fallback.
func (e *Envelope) ErrorMessage() string {
	if e == nil {
		return GenericErrorMessage
	}
	if msg := joinFieldMessages(e.Messages); msg != "" {
		return msg
	}
	if msg := joinNonEmpty(e.ErrorMessages); msg != "" {
		return msg
	}
	return GenericErrorMessage
}

// DecodeData unmarshals the payload into out. A missing payload leaves out untouched.
func (e *Envelope) DecodeData(out any) error {
	if out == nil || !e.HasData() {
		return nil
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// Err converts a non-successful envelope into an AppError; nil on success
func (e *Envelope) Err() error {
	switch e.Classify() {
	case OutcomeSuccess:
		return nil
	case OutcomeFailure:
		return &AppError{Code: ErrCodeServer, Message: e.ErrorMessage(), StatusCode: e.StatusCode}
	default:
		return &AppError{Code: ErrCodeInconsistent, Message: GenericErrorMessage, StatusCode: e.StatusCode}
	}
}

func joinFieldMessages(msgs []FieldMessage) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if s := strings.TrimSpace(m.Message); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func joinNonEmpty(msgs []string) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if s := strings.TrimSpace(m); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
