// Package stripe provides the integration with the Stripe payment service:
// card authorizations, payment-intent lifecycle for baskets, alternative
// payment method returns and webhook events.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	stripeapi "github.com/stripe/stripe-go/v81"

	"github.com/merchantkit/checkout-backend/db"
	"github.com/merchantkit/checkout-backend/notifications"
	"go.vocdoni.io/dvote/log"
)

// Status is the result of a payment-authorization hook. It never carries an
// error value: authorization failures are data, not control flow, by the
// time they leave the service.
type Status struct {
	Error   bool   `json:"error"`
	Message string `json:"message,omitempty"`
}

// ClientAction is the payload returned to the storefront before order
// placement, telling the client how to continue the payment flow.
type ClientAction struct {
	Success                   bool   `json:"success,omitempty"`
	RequiresAction            bool   `json:"requires_action,omitempty"`
	PaymentIntentClientSecret string `json:"payment_intent_client_secret,omitempty"`
	Error                     string `json:"error,omitempty"`
}

// PaymentProcessor is the slice of the remote payment API the service
// depends on. *Client implements it against the live Stripe API; tests
// substitute a fake.
type PaymentProcessor interface {
	CreatePaymentMethod(card CardParams, billing *stripeapi.PaymentMethodBillingDetailsParams) (*stripeapi.PaymentMethod, error)
	CreatePaymentIntent(params *PaymentIntentParams) (*stripeapi.PaymentIntent, error)
	ConfirmPaymentIntent(intentID string) (*stripeapi.PaymentIntent, error)
	CancelPaymentIntent(intentID string) (*stripeapi.PaymentIntent, error)
	RetrieveSource(sourceID, clientSecret string) (*stripeapi.Source, error)
	ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error)
}

// Service provides the main business logic for Stripe operations
type Service struct {
	client      PaymentProcessor
	db          *db.MongoStorage
	lockManager *LockManager
	events      *MemoryEventStore
	notify      notifications.NotificationService
	config      *Config
}

// NewService creates a new Stripe service. The notification service may be
// nil; manual-review alerts are then only logged.
func NewService(config *Config, database *db.MongoStorage, notify notifications.NotificationService) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("stripe API key is required")
	}
	if database == nil {
		return nil, fmt.Errorf("database is required")
	}

	return &Service{
		client:      NewClient(config),
		db:          database,
		lockManager: NewLockManager(),
		events:      NewMemoryEventStore(24 * time.Hour),
		notify:      notify,
		config:      config,
	}, nil
}

// AuthorizeCard attempts to authorize a card payment for the order
// synchronously. It creates a payment-method resource from the raw card
// fields and then creates-and-confirms a payment intent referencing it,
// flagged as a merchant-initiated (MOTO) authorization. On success the
// intent identifier and the paid status are persisted on the order in one
// atomic write. Any failure, local or remote, is converted into a failure
// Status; this method never returns an error.
func (s *Service) AuthorizeCard(order *db.Order, instrument *db.PaymentInstrument, cvc string) Status {
	if order == nil || instrument == nil {
		return Status{Error: true, Message: "order or payment instrument missing"}
	}
	amount, err := order.TotalAmount()
	if err != nil {
		return Status{Error: true, Message: "payment amount is not available"}
	}

	pm, err := s.client.CreatePaymentMethod(CardParams{
		Number:   instrument.CardNumber,
		ExpMonth: instrument.CardExpirationMonth,
		ExpYear:  instrument.CardExpirationYear,
		CVC:      cvc,
	}, billingDetailsFromOrder(order))
	if err != nil {
		log.Warnw("card authorization: payment method creation failed",
			"order", order.Number, "error", err)
		return Status{Error: true, Message: UserMessage(err)}
	}

	pi, err := s.client.CreatePaymentIntent(&PaymentIntentParams{
		Amount:          MinorUnits(amount, order.Currency),
		Currency:        strings.ToLower(order.Currency),
		PaymentMethodID: pm.ID,
		ReceiptEmail:    order.CustomerEmail,
		Metadata: map[string]string{
			"order_number": order.Number,
			"site_id":      s.config.SiteID,
		},
		MOTO:    true,
		Confirm: true,
	})
	if err != nil {
		log.Warnw("card authorization: payment intent creation failed",
			"order", order.Number, "error", err)
		return Status{Error: true, Message: UserMessage(err)}
	}

	if pi.Status != stripeapi.PaymentIntentStatusSucceeded {
		return Status{Error: true, Message: fmt.Sprintf("payment not authorized (status %s)", pi.Status)}
	}

	// the intent ID and the paid status land on the order together
	if err := s.db.SetOrderPaid(order.Number, pi.ID); err != nil {
		log.Errorw(err, fmt.Sprintf("card authorization: could not mark order %s paid", order.Number))
		return Status{Error: true, Message: UserMessage(err)}
	}
	order.StripePaymentIntentID = pi.ID
	order.PaymentStatus = db.PaymentStatusPaid

	log.Infow("card authorization succeeded", "order", order.Number, "intent", pi.ID)
	return Status{}
}

// Authorize handles non-card payment instruments. The storefront only
// authorizes cards through this pipeline; everything else is rejected. This
// is a deliberate stub, not a defect.
func (*Service) Authorize(_ *db.Order, _ *db.PaymentInstrument) Status {
	return Status{Error: true, Message: "Not supported"}
}

// BeforePaymentAuthorization runs before order placement for the given
// basket. When the basket already carries a payment intent that intent is
// confirmed; otherwise a new one is created and its identifier persisted on
// the basket. The returned payload tells the client how to continue. Missing
// baskets and non-card instruments produce a generic success. It always
// returns a payload, never an error.
func (s *Service) BeforePaymentAuthorization(basketID string) *ClientAction {
	basket, err := s.db.Basket(basketID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &ClientAction{Success: true}
		}
		return &ClientAction{Error: UserMessage(err)}
	}
	instrument := basket.InstrumentByMethod(db.PaymentMethodCard)
	if instrument == nil {
		return &ClientAction{Success: true}
	}

	unlock := s.lockManager.LockBasket(basket.ID)
	defer unlock()

	pi, err := s.ensureBasketIntent(basket, instrument)
	if err != nil {
		log.Warnw("before payment authorization failed", "basket", basket.ID, "error", err)
		return &ClientAction{Error: UserMessage(err)}
	}

	if pi.Review != nil {
		if err := s.db.SetBasketIntentInReview(basket.ID, true); err != nil {
			return &ClientAction{Error: UserMessage(err)}
		}
		s.notifyIntentInReview(basket, pi)
	}

	return clientActionForIntent(pi)
}

// ensureBasketIntent confirms the basket's existing payment intent, or
// creates a new one and persists its identifier with a compare-and-set.
// When the compare-and-set loses against a concurrent request, the winner's
// intent is confirmed instead of keeping a second one.
func (s *Service) ensureBasketIntent(basket *db.Basket, instrument *db.PaymentInstrument) (*stripeapi.PaymentIntent, error) {
	if basket.StripePaymentIntentID != "" {
		return s.client.ConfirmPaymentIntent(basket.StripePaymentIntentID)
	}

	if instrument.StripePaymentMethodID == "" {
		return nil, fmt.Errorf("payment instrument carries no payment method")
	}
	amount, err := basket.TotalAmount()
	if err != nil {
		return nil, fmt.Errorf("payment amount is not available")
	}

	pi, err := s.client.CreatePaymentIntent(&PaymentIntentParams{
		Amount:          MinorUnits(amount, basket.Currency),
		Currency:        strings.ToLower(basket.Currency),
		PaymentMethodID: instrument.StripePaymentMethodID,
		ReceiptEmail:    basket.CustomerEmail,
		Metadata: map[string]string{
			"basket_id": basket.ID,
			"site_id":   s.config.SiteID,
		},
		Confirm: true,
	})
	if err != nil {
		return nil, err
	}

	switch err := s.db.SetBasketPaymentIntentCAS(basket.ID, pi.ID); {
	case err == nil:
		basket.StripePaymentIntentID = pi.ID
		return pi, nil
	case errors.Is(err, db.ErrIntentTaken):
		// a concurrent request won the race; void the intent created here
		// and confirm the basket's one, so only a single intent stays live
		fresh, ferr := s.db.Basket(basket.ID)
		if ferr != nil {
			return nil, ferr
		}
		if _, cerr := s.client.CancelPaymentIntent(pi.ID); cerr != nil {
			log.Warnw("could not cancel discarded payment intent",
				"basket", basket.ID, "intent", pi.ID, "error", cerr)
		}
		log.Warnw("lost payment intent race, confirming existing intent",
			"basket", basket.ID, "intent", fresh.StripePaymentIntentID, "discarded", pi.ID)
		return s.client.ConfirmPaymentIntent(fresh.StripePaymentIntentID)
	default:
		return nil, err
	}
}

// clientActionForIntent maps a payment intent status to the client response.
func clientActionForIntent(pi *stripeapi.PaymentIntent) *ClientAction {
	switch {
	case pi.Status == stripeapi.PaymentIntentStatusRequiresAction &&
		pi.NextAction != nil && pi.NextAction.Type == "use_stripe_sdk":
		return &ClientAction{
			RequiresAction:            true,
			PaymentIntentClientSecret: pi.ClientSecret,
		}
	case pi.Status == stripeapi.PaymentIntentStatusSucceeded:
		return &ClientAction{Success: true}
	default:
		return &ClientAction{Error: "Invalid PaymentIntent status"}
	}
}

// HandleAPMReturn handles the customer being redirected back from an
// external payment page. It retrieves the source, verifies the client secret
// supplied by the request against the one the remote resource carries, and
// checks the source status. On success it returns the redirect URL to the
// place-order step; on any failure it returns the payment-step URL carrying
// the error message. It always returns a URL, never an error.
func (s *Service) HandleAPMReturn(sourceID, clientSecret string, useNewTemplates bool) string {
	if sourceID == "" || clientSecret == "" {
		return s.paymentStepURL("missing source or client secret")
	}

	src, err := s.client.RetrieveSource(sourceID, clientSecret)
	if err != nil {
		log.Warnw("apm return: source retrieval failed", "source", sourceID, "error", err)
		return s.paymentStepURL(UserMessage(err))
	}
	if src.ClientSecret != clientSecret {
		log.Warnw("apm return: client secret mismatch", "source", sourceID)
		return s.paymentStepURL("source client secret mismatch")
	}
	if src.Status != stripeapi.SourceStatusChargeable && src.Status != stripeapi.SourceStatusPending {
		return s.paymentStepURL(fmt.Sprintf("source status %s is not allowed", src.Status))
	}

	return s.placeOrderURL(useNewTemplates)
}

// placeOrderURL returns the order-summary/place-order step URL. The shape
// depends on which storefront template variant is active.
func (s *Service) placeOrderURL(useNewTemplates bool) string {
	if useNewTemplates {
		return s.config.WebAppURL + "/checkout?stage=placeOrder#placeOrder"
	}
	return s.config.WebAppURL + "/checkout/place-order"
}

// paymentStepURL returns the payment step URL carrying the error message as
// a query parameter.
func (s *Service) paymentStepURL(message string) string {
	v := url.Values{}
	v.Set("apm_return_error", message)
	return s.config.WebAppURL + "/checkout?stage=payment&" + v.Encode()
}

// notifyIntentInReview alerts the merchant mailbox that a payment intent
// entered manual review. Notification failures are logged, never surfaced to
// the customer.
func (s *Service) notifyIntentInReview(basket *db.Basket, pi *stripeapi.PaymentIntent) {
	if s.notify == nil || s.config.ReviewMailbox == "" {
		log.Infow("payment intent in manual review", "basket", basket.ID, "intent", pi.ID)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	notification := &notifications.Notification{
		ToAddress: s.config.ReviewMailbox,
		Subject:   fmt.Sprintf("Payment intent %s requires manual review", pi.ID),
		PlainBody: fmt.Sprintf("The payment intent %s for basket %s entered manual review.", pi.ID, basket.ID),
		Body:      fmt.Sprintf("<p>The payment intent <b>%s</b> for basket <b>%s</b> entered manual review.</p>", pi.ID, basket.ID),
	}
	if err := s.notify.SendNotification(ctx, notification); err != nil {
		log.Warnw("could not send manual review notification",
			"basket", basket.ID, "intent", pi.ID, "error", err)
	}
}

// billingDetailsFromOrder builds the billing-details record from the order's
// billing address. Email, name and phone are only included when present.
func billingDetailsFromOrder(order *db.Order) *stripeapi.PaymentMethodBillingDetailsParams {
	addr := &order.BillingAddress
	billing := &stripeapi.PaymentMethodBillingDetailsParams{
		Address: &stripeapi.AddressParams{
			Line1:      stripeapi.String(addr.Address1),
			Line2:      stripeapi.String(addr.Address2),
			City:       stripeapi.String(addr.City),
			PostalCode: stripeapi.String(addr.PostalCode),
			State:      stripeapi.String(addr.StateCode),
			Country:    stripeapi.String(addr.CountryCode),
		},
	}
	if order.CustomerEmail != "" {
		billing.Email = stripeapi.String(order.CustomerEmail)
	}
	if name := addr.FullName(); name != "" {
		billing.Name = stripeapi.String(name)
	}
	if addr.Phone != "" {
		billing.Phone = stripeapi.String(addr.Phone)
	}
	return billing
}
