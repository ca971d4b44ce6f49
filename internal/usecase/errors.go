package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FieldError names one missing or malformed input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FieldNames lists the offending fields in report order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

func newValidationError(fields []FieldError) *ValidationError {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return &ValidationError{
		Message: "Missing or invalid fields: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}

// ConfigurationError is reported to callers without saying which setting is
// missing.
type ConfigurationError struct {
	reason string
}

func (e *ConfigurationError) Error() string {
	return "Email service is not configured"
}

// Reason is the operator-facing cause. Log it, never send it to a client.
func (e *ConfigurationError) Reason() string { return e.reason }

type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter.Round(time.Second))
}

// RetryAfterSeconds rounds up so a client never retries a moment too early.
func (e *RateLimitError) RetryAfterSeconds() int {
	secs := int((e.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

const (
	RecipientAdmin = "admin"
	RecipientUser  = "user"
)

type NotificationFailure struct {
	Recipient string `json:"recipient"`
	Address   string `json:"address"`
	Err       error  `json:"-"`
}

// NotificationError reports which of the two required emails failed.
type NotificationError struct {
	Failures []NotificationFailure
}

func (e *NotificationError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s email to %s: %v", f.Recipient, f.Address, f.Err))
	}
	return "notification failed: " + strings.Join(parts, "; ")
}

func (e *NotificationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Recipients lists the failed sides ("admin", "user").
func (e *NotificationError) Recipients() []string {
	out := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f.Recipient)
	}
	return out
}

// LeadStoreError wraps any failure to record a lead. It is logged and never
// returned to form submitters.
type LeadStoreError struct {
	Op  string
	Err error
}

func (e *LeadStoreError) Error() string {
	return fmt.Sprintf("lead store %s: %v", e.Op, e.Err)
}

func (e *LeadStoreError) Unwrap() error { return e.Err }

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsLeadStoreError(err error) bool {
	var target *LeadStoreError
	return errors.As(err, &target)
}
