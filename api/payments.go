package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/merchantkit/checkout-backend/api/apicommon"
	"github.com/merchantkit/checkout-backend/errors"
	"github.com/merchantkit/checkout-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

// maxWebhookBodyBytes bounds webhook payload reads.
const maxWebhookBodyBytes = int64(65536)

// paymentsWebhookHandler receives webhook events from Stripe. Signature
// validation and dispatch happen in the stripe service; here only the HTTP
// status is decided. Validation failures get a 400 so Stripe flags the
// endpoint, processing failures a 500 so the delivery is retried.
func (a *API) paymentsWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if a.stripe == nil {
		log.Errorf("stripe webhook: stripe service not available")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("stripe webhook: error reading request body: %s", err.Error())
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	signatureHeader := r.Header.Get("Stripe-Signature")
	if signatureHeader == "" {
		log.Errorf("stripe webhook: missing Stripe-Signature header")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := a.stripe.ProcessWebhookEvent(payload, signatureHeader); err != nil {
		log.Errorf("stripe webhook: failed to process event: %v", err)
		if stripeErr, ok := err.(*stripe.StripeError); ok {
			switch stripeErr.Code {
			case stripe.ErrWebhookValidation.Code, stripe.ErrInvalidEvent.Code:
				w.WriteHeader(http.StatusBadRequest)
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// beforePaymentAuthorizationHandler prepares the payment intent of the
// basket before order placement. The response payload always carries a
// client action, even on failure; the status is always 200 so the
// storefront can route on the payload alone.
func (a *API) beforePaymentAuthorizationHandler(w http.ResponseWriter, r *http.Request) {
	if a.stripe == nil {
		errors.ErrStripeError.Withf("stripe service not available").Write(w)
		return
	}
	req := &apicommon.BeforeAuthorizationRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, a.stripe.BeforePaymentAuthorization(req.BasketID))
}

// apmReturnHandler receives the customer returning from an external payment
// page and redirects them to the next checkout step.
func (a *API) apmReturnHandler(w http.ResponseWriter, r *http.Request) {
	if a.stripe == nil {
		errors.ErrStripeError.Withf("stripe service not available").Write(w)
		return
	}
	query := r.URL.Query()
	redirect := a.stripe.HandleAPMReturn(
		query.Get("source"),
		query.Get("client_secret"),
		query.Get("use_new_templates") == "true",
	)
	http.Redirect(w, r, redirect, http.StatusFound)
}

// paymentRequestButtonHandler rejects payment request button orders. The
// storefront never renders the button, so a request here means a stale or
// tampered client.
func (a *API) paymentRequestButtonHandler(w http.ResponseWriter, _ *http.Request) {
	apicommon.HTTPWriteJSON(w, stripe.Status{Error: true, Message: "Not supported"})
}

// shippingOptionsHandler returns the shipping methods for the payment
// request button sheet. The button is not supported, so the list is empty.
func (a *API) shippingOptionsHandler(w http.ResponseWriter, _ *http.Request) {
	apicommon.HTTPWriteJSON(w, apicommon.ShippingOptionsResponse{
		ShippingMethods: []apicommon.ShippingMethod{},
	})
}
