package stripe

import (
	"testing"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v81"
)

func TestClientActionForIntent(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name   string
		intent *stripeapi.PaymentIntent
		want   *ClientAction
	}{
		{
			name: "requires action with sdk",
			intent: &stripeapi.PaymentIntent{
				Status:       stripeapi.PaymentIntentStatusRequiresAction,
				ClientSecret: "pi_123_secret_456",
				NextAction:   &stripeapi.PaymentIntentNextAction{Type: "use_stripe_sdk"},
			},
			want: &ClientAction{RequiresAction: true, PaymentIntentClientSecret: "pi_123_secret_456"},
		},
		{
			name: "requires action without sdk",
			intent: &stripeapi.PaymentIntent{
				Status:       stripeapi.PaymentIntentStatusRequiresAction,
				ClientSecret: "pi_123_secret_456",
				NextAction:   &stripeapi.PaymentIntentNextAction{Type: "redirect_to_url"},
			},
			want: &ClientAction{Error: "Invalid PaymentIntent status"},
		},
		{
			name:   "requires action without next action",
			intent: &stripeapi.PaymentIntent{Status: stripeapi.PaymentIntentStatusRequiresAction},
			want:   &ClientAction{Error: "Invalid PaymentIntent status"},
		},
		{
			name:   "succeeded",
			intent: &stripeapi.PaymentIntent{Status: stripeapi.PaymentIntentStatusSucceeded},
			want:   &ClientAction{Success: true},
		},
		{
			name:   "processing",
			intent: &stripeapi.PaymentIntent{Status: stripeapi.PaymentIntentStatusProcessing},
			want:   &ClientAction{Error: "Invalid PaymentIntent status"},
		},
		{
			name:   "requires payment method",
			intent: &stripeapi.PaymentIntent{Status: stripeapi.PaymentIntentStatusRequiresPaymentMethod},
			want:   &ClientAction{Error: "Invalid PaymentIntent status"},
		},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(clientActionForIntent(tc.intent), qt.DeepEquals, tc.want)
		})
	}
}

func TestAuthorizeRejectsNonCardInstruments(t *testing.T) {
	c := qt.New(t)

	s := &Service{}
	status := s.Authorize(nil, nil)
	c.Assert(status.Error, qt.IsTrue)
	c.Assert(status.Message, qt.Equals, "Not supported")
}

func TestRedirectURLs(t *testing.T) {
	c := qt.New(t)

	s := &Service{config: &Config{WebAppURL: "https://shop.example.com"}}

	c.Assert(s.placeOrderURL(false), qt.Equals,
		"https://shop.example.com/checkout/place-order")
	c.Assert(s.placeOrderURL(true), qt.Equals,
		"https://shop.example.com/checkout?stage=placeOrder#placeOrder")
	c.Assert(s.paymentStepURL("source status canceled is not allowed"), qt.Equals,
		"https://shop.example.com/checkout?stage=payment&apm_return_error=source+status+canceled+is+not+allowed")
}

func TestHandleAPMReturnRejectsMissingParams(t *testing.T) {
	c := qt.New(t)

	s := &Service{config: &Config{WebAppURL: "https://shop.example.com"}}

	c.Assert(s.HandleAPMReturn("", "src_secret", false), qt.Equals,
		"https://shop.example.com/checkout?stage=payment&apm_return_error=missing+source+or+client+secret")
	c.Assert(s.HandleAPMReturn("src_123", "", false), qt.Equals,
		"https://shop.example.com/checkout?stage=payment&apm_return_error=missing+source+or+client+secret")
}
