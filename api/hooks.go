package api

import (
	"encoding/json"
	"net/http"

	"github.com/merchantkit/checkout-backend/api/apicommon"
	"github.com/merchantkit/checkout-backend/errors"
)

// authorizeCardHandler authorizes a card payment for a placed order. The
// order is persisted first so the webhook can find it if the confirmation
// outruns the synchronous response. The authorization result is data: the
// HTTP status is 200 for declined payments too.
func (a *API) authorizeCardHandler(w http.ResponseWriter, r *http.Request) {
	if a.stripe == nil {
		errors.ErrStripeError.Withf("stripe service not available").Write(w)
		return
	}
	req := &apicommon.CardAuthorizationRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Order.Number == "" {
		errors.ErrMalformedBody.Withf("order number is empty").Write(w)
		return
	}
	if err := a.db.SetOrder(&req.Order); err != nil {
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, a.stripe.AuthorizeCard(&req.Order, &req.PaymentInstrument, req.CVC))
}

// authorizeHandler handles the generic authorization hook for non-card
// instruments.
func (a *API) authorizeHandler(w http.ResponseWriter, r *http.Request) {
	if a.stripe == nil {
		errors.ErrStripeError.Withf("stripe service not available").Write(w)
		return
	}
	req := &apicommon.AuthorizationRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, a.stripe.Authorize(&req.Order, &req.PaymentInstrument))
}
