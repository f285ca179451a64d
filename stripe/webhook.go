package stripe

import (
	"encoding/json"
	"errors"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v81"

	"github.com/merchantkit/checkout-backend/db"
	"go.vocdoni.io/dvote/log"
)

// ProcessWebhookEvent verifies the signature of an incoming webhook payload
// and dispatches the event to its handler. Events already seen are
// acknowledged without reprocessing; Stripe retries delivery until it gets a
// 2xx, so duplicates are routine.
func (s *Service) ProcessWebhookEvent(payload []byte, signatureHeader string) error {
	event, err := s.client.ValidateWebhookEvent(payload, signatureHeader)
	if err != nil {
		return err
	}

	if s.events.EventExists(event.ID) {
		log.Debugw("skipping already processed webhook event", "event", event.ID)
		return nil
	}

	if err := s.HandleEvent(event); err != nil {
		return err
	}
	s.events.MarkProcessed(event.ID)
	return nil
}

// HandleEvent routes a verified webhook event by type. Unhandled event types
// are acknowledged and dropped.
func (s *Service) HandleEvent(event *stripeapi.Event) error {
	log.Debugw("processing webhook event", "event", event.ID, "type", event.Type)

	switch event.Type {
	case stripeapi.EventTypePaymentIntentSucceeded:
		return s.handlePaymentIntentSucceeded(event)
	case stripeapi.EventTypePaymentIntentPaymentFailed:
		return s.handlePaymentIntentFailed(event)
	case stripeapi.EventTypeSourceChargeable,
		stripeapi.EventTypeSourceCanceled,
		stripeapi.EventTypeSourceFailed:
		return s.handleSourceTransition(event)
	default:
		log.Debugw("ignoring webhook event type", "type", event.Type)
		return nil
	}
}

// handlePaymentIntentSucceeded marks the order carrying the intent as paid.
// Intents whose order has not been placed yet are left to the synchronous
// authorization path.
func (s *Service) handlePaymentIntentSucceeded(event *stripeapi.Event) error {
	pi, err := paymentIntentFromEvent(event)
	if err != nil {
		return err
	}

	order, err := s.db.OrderByPaymentIntent(pi.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			log.Debugw("no order for succeeded payment intent yet", "intent", pi.ID)
			return nil
		}
		return err
	}
	if order.PaymentStatus == db.PaymentStatusPaid {
		return nil
	}

	if err := s.db.SetOrderPaid(order.Number, pi.ID); err != nil {
		return fmt.Errorf("could not mark order %s paid: %w", order.Number, err)
	}
	log.Infow("order paid via webhook", "order", order.Number, "intent", pi.ID)
	return nil
}

// handlePaymentIntentFailed clears the manual-review marker of the basket
// the intent was created for, if any, so the customer can retry.
func (s *Service) handlePaymentIntentFailed(event *stripeapi.Event) error {
	pi, err := paymentIntentFromEvent(event)
	if err != nil {
		return err
	}
	log.Warnw("payment intent failed", "intent", pi.ID)

	basketID := pi.Metadata["basket_id"]
	if basketID == "" {
		return nil
	}
	if err := s.db.SetBasketIntentInReview(basketID, false); err != nil && !errors.Is(err, db.ErrNotFound) {
		return err
	}
	return nil
}

// handleSourceTransition logs source lifecycle transitions for alternative
// payment methods. Chargeable sources are charged by the storefront during
// order placement, so nothing is persisted here.
func (s *Service) handleSourceTransition(event *stripeapi.Event) error {
	var src stripeapi.Source
	if err := json.Unmarshal(event.Data.Raw, &src); err != nil {
		return NewStripeError(ErrInvalidEvent.Code,
			fmt.Sprintf("could not parse source from event %s", event.ID), err)
	}

	switch src.Status {
	case stripeapi.SourceStatusChargeable:
		log.Infow("source became chargeable", "source", src.ID)
	case stripeapi.SourceStatusCanceled, stripeapi.SourceStatusFailed:
		log.Warnw("source was not completed", "source", src.ID, "status", src.Status)
	}
	return nil
}

// paymentIntentFromEvent extracts the payment intent carried by the event.
func paymentIntentFromEvent(event *stripeapi.Event) (*stripeapi.PaymentIntent, error) {
	var pi stripeapi.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, NewStripeError(ErrInvalidEvent.Code,
			fmt.Sprintf("could not parse payment intent from event %s", event.ID), err)
	}
	return &pi, nil
}
