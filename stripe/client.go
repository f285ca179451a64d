package stripe

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v81"
	stripepaymentintent "github.com/stripe/stripe-go/v81/paymentintent"
	stripepaymentmethod "github.com/stripe/stripe-go/v81/paymentmethod"
	stripesource "github.com/stripe/stripe-go/v81/source"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
)

// Client wraps the Stripe API client with additional functionality
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new Stripe client with the given configuration
func NewClient(config *Config) *Client {
	stripeapi.Key = config.APIKey

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CardParams holds the raw card fields used to create a payment method.
// These never touch storage; they go straight to the remote API.
type CardParams struct {
	Number   string
	ExpMonth int64
	ExpYear  int64
	CVC      string
}

// PaymentIntentParams holds parameters for creating a payment intent
type PaymentIntentParams struct {
	Amount          int64
	Currency        string
	PaymentMethodID string
	ReceiptEmail    string
	Metadata        map[string]string
	// MOTO flags the intent as a merchant-initiated card-not-present
	// authorization, bypassing the standard 3-D Secure flow.
	MOTO    bool
	Confirm bool
}

// ValidateWebhookEvent validates and parses a webhook event
func (c *Client) ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	event, err := stripewebhook.ConstructEvent(payload, signatureHeader, c.config.WebhookSecret)
	if err != nil {
		return nil, NewStripeError(ErrWebhookValidation.Code, "webhook signature validation failed", err)
	}
	return &event, nil
}

// CreatePaymentMethod creates a card payment-method resource from raw card
// fields and the billing details of the order.
func (*Client) CreatePaymentMethod(card CardParams,
	billing *stripeapi.PaymentMethodBillingDetailsParams,
) (*stripeapi.PaymentMethod, error) {
	params := &stripeapi.PaymentMethodParams{
		Type: stripeapi.String(string(stripeapi.PaymentMethodTypeCard)),
		Card: &stripeapi.PaymentMethodCardParams{
			Number:   stripeapi.String(card.Number),
			ExpMonth: stripeapi.Int64(card.ExpMonth),
			ExpYear:  stripeapi.Int64(card.ExpYear),
			CVC:      stripeapi.String(card.CVC),
		},
		BillingDetails: billing,
	}

	pm, err := stripepaymentmethod.New(params)
	if err != nil {
		return nil, NewStripeError(ErrAPICallFailed.Code, "failed to create payment method", err)
	}
	return pm, nil
}

// CreatePaymentIntent creates a new payment intent referencing an existing
// payment method. When params.Confirm is set the intent is confirmed in the
// same call. An idempotency key is attached so that a retried request never
// produces a second charge.
func (*Client) CreatePaymentIntent(params *PaymentIntentParams) (*stripeapi.PaymentIntent, error) {
	intentParams := &stripeapi.PaymentIntentParams{
		Amount:        stripeapi.Int64(params.Amount),
		Currency:      stripeapi.String(params.Currency),
		PaymentMethod: stripeapi.String(params.PaymentMethodID),
		Confirm:       stripeapi.Bool(params.Confirm),
	}
	if params.ReceiptEmail != "" {
		intentParams.ReceiptEmail = stripeapi.String(params.ReceiptEmail)
	}
	if params.MOTO {
		intentParams.PaymentMethodOptions = &stripeapi.PaymentIntentPaymentMethodOptionsParams{
			Card: &stripeapi.PaymentIntentPaymentMethodOptionsCardParams{
				MOTO: stripeapi.Bool(true),
			},
		}
	}
	for key, value := range params.Metadata {
		intentParams.AddMetadata(key, value)
	}
	intentParams.SetIdempotencyKey(uuid.NewString())

	pi, err := stripepaymentintent.New(intentParams)
	if err != nil {
		return nil, NewStripeError(ErrAPICallFailed.Code, "failed to create payment intent", err)
	}
	return pi, nil
}

// ConfirmPaymentIntent confirms an existing payment intent by ID
func (*Client) ConfirmPaymentIntent(intentID string) (*stripeapi.PaymentIntent, error) {
	pi, err := stripepaymentintent.Confirm(intentID, &stripeapi.PaymentIntentConfirmParams{})
	if err != nil {
		return nil, NewStripeError(ErrAPICallFailed.Code, "failed to confirm payment intent", err)
	}
	return pi, nil
}

// CancelPaymentIntent cancels a payment intent by ID. Used to void intents
// that lost the persistence race for a basket.
func (*Client) CancelPaymentIntent(intentID string) (*stripeapi.PaymentIntent, error) {
	pi, err := stripepaymentintent.Cancel(intentID, nil)
	if err != nil {
		return nil, NewStripeError(ErrAPICallFailed.Code, "failed to cancel payment intent", err)
	}
	return pi, nil
}

// GetPaymentIntent retrieves a payment intent by ID
func (*Client) GetPaymentIntent(intentID string) (*stripeapi.PaymentIntent, error) {
	pi, err := stripepaymentintent.Get(intentID, nil)
	if err != nil {
		return nil, NewStripeError(ErrAPICallFailed.Code, "failed to get payment intent", err)
	}
	return pi, nil
}

// RetrieveSource retrieves a source resource by ID. The client secret is
// required by the remote API to authorize access to the source.
func (*Client) RetrieveSource(sourceID, clientSecret string) (*stripeapi.Source, error) {
	params := &stripeapi.SourceParams{
		ClientSecret: stripeapi.String(clientSecret),
	}
	src, err := stripesource.Get(sourceID, params)
	if err != nil {
		return nil, NewStripeError(ErrSourceNotFound.Code, "failed to retrieve source", err)
	}
	return src, nil
}
