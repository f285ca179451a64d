package db

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment state of an order.
type PaymentStatus string

// PaymentMethodID identifies the kind of payment instrument attached to a
// basket or order.
type PaymentMethodID string

// Address holds the billing address attached to an order or basket.
type Address struct {
	FirstName   string `json:"firstName" bson:"firstName"`
	LastName    string `json:"lastName" bson:"lastName"`
	Address1    string `json:"address1" bson:"address1"`
	Address2    string `json:"address2" bson:"address2"`
	City        string `json:"city" bson:"city"`
	PostalCode  string `json:"postalCode" bson:"postalCode"`
	StateCode   string `json:"stateCode" bson:"stateCode"`
	CountryCode string `json:"countryCode" bson:"countryCode"`
	Phone       string `json:"phone" bson:"phone"`
}

// FullName returns the billing name, or an empty string when none is set.
func (a *Address) FullName() string {
	switch {
	case a.FirstName == "" && a.LastName == "":
		return ""
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// PaymentInstrument describes a payment method attached to a basket, order or
// customer wallet. Card numbers only ever hold test fixtures; live PANs stay
// on the client and reach Stripe directly.
type PaymentInstrument struct {
	MethodID              PaymentMethodID `json:"methodId" bson:"methodId"`
	CardHolder            string          `json:"cardHolder" bson:"cardHolder"`
	CardNumber            string          `json:"cardNumber" bson:"cardNumber"`
	CardType              string          `json:"cardType" bson:"cardType"`
	CardExpirationMonth   int64           `json:"cardExpirationMonth" bson:"cardExpirationMonth"`
	CardExpirationYear    int64           `json:"cardExpirationYear" bson:"cardExpirationYear"`
	StripePaymentMethodID string          `json:"stripePaymentMethodId" bson:"stripePaymentMethodId"`
	StripeSourceID        string          `json:"stripeSourceId" bson:"stripeSourceId"`
}

// Order is a placed order as seen by the checkout pipeline.
type Order struct {
	Number                string        `json:"number" bson:"_id"`
	SiteID                string        `json:"siteId" bson:"siteId"`
	Currency              string        `json:"currency" bson:"currency"`
	Total                 string        `json:"total" bson:"total"`
	CustomerEmail         string        `json:"customerEmail" bson:"customerEmail"`
	BillingAddress        Address       `json:"billingAddress" bson:"billingAddress"`
	PaymentStatus         PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	StripePaymentIntentID string        `json:"stripePaymentIntentId" bson:"stripePaymentIntentId"`
	CreatedAt             time.Time     `json:"createdAt" bson:"createdAt"`
}

// TotalAmount parses the order total into a decimal amount.
func (o *Order) TotalAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(o.Total)
}

// Basket is the in-progress cart a customer checks out with. It carries at
// most one active Stripe payment intent identifier at a time.
type Basket struct {
	ID                            string              `json:"id" bson:"_id"`
	SiteID                        string              `json:"siteId" bson:"siteId"`
	Currency                      string              `json:"currency" bson:"currency"`
	Total                         string              `json:"total" bson:"total"`
	CustomerEmail                 string              `json:"customerEmail" bson:"customerEmail"`
	BillingAddress                Address             `json:"billingAddress" bson:"billingAddress"`
	PaymentInstruments            []PaymentInstrument `json:"paymentInstruments" bson:"paymentInstruments"`
	StripePaymentIntentID         string              `json:"stripePaymentIntentId" bson:"stripePaymentIntentId"`
	StripeIsPaymentIntentInReview bool                `json:"stripeIsPaymentIntentInReview" bson:"stripeIsPaymentIntentInReview"`
	UpdatedAt                     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// TotalAmount parses the basket total into a decimal amount.
func (b *Basket) TotalAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(b.Total)
}

// InstrumentByMethod returns the first payment instrument with the given
// method ID, or nil when the basket carries none.
func (b *Basket) InstrumentByMethod(methodID PaymentMethodID) *PaymentInstrument {
	for i := range b.PaymentInstruments {
		if b.PaymentInstruments[i].MethodID == methodID {
			return &b.PaymentInstruments[i]
		}
	}
	return nil
}

// Wallet holds the payment instruments a customer has stored for re-use.
type Wallet struct {
	CustomerEmail string              `json:"customerEmail" bson:"_id"`
	Instruments   []PaymentInstrument `json:"instruments" bson:"instruments"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}
