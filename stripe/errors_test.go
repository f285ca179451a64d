package stripe

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v81"
)

func TestUserMessage(t *testing.T) {
	c := qt.New(t)

	c.Run("nil error", func(c *qt.C) {
		c.Assert(UserMessage(nil), qt.Equals, "")
	})

	c.Run("remote error envelope", func(c *qt.C) {
		remote := &stripeapi.Error{
			Code: stripeapi.ErrorCodeCardDeclined,
			Msg:  "Your card was declined.",
		}
		c.Assert(UserMessage(remote), qt.Equals, "Your card was declined.")
	})

	c.Run("wrapped remote error envelope", func(c *qt.C) {
		remote := &stripeapi.Error{Msg: "Your card has expired."}
		wrapped := NewStripeError(ErrAPICallFailed.Code, "payment intent creation failed", remote)
		c.Assert(UserMessage(wrapped), qt.Equals, "Your card has expired.")
	})

	c.Run("local error without cause", func(c *qt.C) {
		c.Assert(UserMessage(ErrSourceNotFound), qt.Equals, "stripe source not found")
	})

	c.Run("plain error", func(c *qt.C) {
		c.Assert(UserMessage(fmt.Errorf("connection refused")), qt.Equals, "connection refused")
	})
}

func TestStripeErrorUnwrap(t *testing.T) {
	c := qt.New(t)

	cause := fmt.Errorf("boom")
	err := NewStripeError("api_call_failed", "stripe API call failed", cause)
	c.Assert(err.Unwrap(), qt.Equals, cause)
	c.Assert(err.Error(), qt.Contains, "api_call_failed")
	c.Assert(err.Error(), qt.Contains, "boom")
}
