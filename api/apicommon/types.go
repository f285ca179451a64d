package apicommon

import (
	"time"

	"github.com/merchantkit/checkout-backend/db"
)

// LoginRequest is the payload of the login endpoint. The storefront key
// authenticates the caller; the email identifies the customer the issued
// token is scoped to.
type LoginRequest struct {
	Email         string `json:"email"`
	StorefrontKey string `json:"storefrontKey"`
}

// LoginResponse is the response of the login endpoint.
type LoginResponse struct {
	Token    string    `json:"token"`
	Expirity time.Time `json:"expirity"`
}

// CardAuthorizationRequest is the payload of the card authorization hook.
// The card verification code travels separately from the instrument because
// it is never persisted.
type CardAuthorizationRequest struct {
	Order             db.Order             `json:"order"`
	PaymentInstrument db.PaymentInstrument `json:"paymentInstrument"`
	CVC               string               `json:"cvc,omitempty"`
}

// AuthorizationRequest is the payload of the generic authorization hook.
type AuthorizationRequest struct {
	Order             db.Order             `json:"order"`
	PaymentInstrument db.PaymentInstrument `json:"paymentInstrument"`
}

// BeforeAuthorizationRequest identifies the basket to prepare a payment
// intent for.
type BeforeAuthorizationRequest struct {
	BasketID string `json:"basketId"`
}

// WalletResponse lists the payment instruments a customer has stored.
// PaymentInstrument carries the first stored instrument, the one account
// pages present as the default.
type WalletResponse struct {
	CustomerEmail     string                 `json:"customerEmail"`
	PaymentInstrument *db.PaymentInstrument  `json:"paymentInstrument,omitempty"`
	Instruments       []db.PaymentInstrument `json:"instruments"`
}

// ShippingOptionsResponse is the response of the shipping-options endpoint.
type ShippingOptionsResponse struct {
	ShippingMethods []ShippingMethod `json:"shippingMethods"`
}

// ShippingMethod describes a shipping method offered to the payment request
// button sheet.
type ShippingMethod struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
	Amount int64  `json:"amount"`
}
