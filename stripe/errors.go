package stripe

import (
	"errors"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v81"
)

// StripeError represents a Stripe-specific error
type StripeError struct {
	Code    string
	Message string
	Err     error
}

func (e *StripeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stripe error [%s]: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("stripe error [%s]: %s", e.Code, e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.Err
}

// Common Stripe errors
var (
	ErrWebhookValidation = &StripeError{Code: "webhook_validation", Message: "webhook signature validation failed"}
	ErrInvalidEvent      = &StripeError{Code: "invalid_event", Message: "invalid webhook event"}
	ErrAPICallFailed     = &StripeError{Code: "api_call_failed", Message: "stripe API call failed"}
	ErrSourceNotFound    = &StripeError{Code: "source_not_found", Message: "stripe source not found"}
)

// NewStripeError creates a new StripeError with the given code, message, and underlying error
func NewStripeError(code, message string, err error) *StripeError {
	return &StripeError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// UserMessage returns the message to surface to the client for err. Failures
// of the remote API carry a structured error envelope; for those the
// envelope's own message is extracted. Local failures surface their plain
// error message. This is the single extraction point for both kinds.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var remote *stripeapi.Error
	if errors.As(err, &remote) && remote.Msg != "" {
		return remote.Msg
	}
	var local *StripeError
	if errors.As(err, &local) && local.Err == nil {
		return local.Message
	}
	return err.Error()
}
