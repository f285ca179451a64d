package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/merchantkit/checkout-backend/api/apicommon"
	"github.com/merchantkit/checkout-backend/stripe"
)

func TestPaymentsWebhookRejectsBadRequests(t *testing.T) {
	c := qt.New(t)

	// missing signature header
	resp := doRequest(t, http.MethodPost, paymentsWebhookEndpoint, []byte(`{}`), nil)
	_ = resp.Body.Close()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusBadRequest)

	// bogus signature
	resp = doRequest(t, http.MethodPost, paymentsWebhookEndpoint, []byte(`{}`), map[string]string{
		"Stripe-Signature": "t=123,v1=deadbeef",
	})
	_ = resp.Body.Close()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusBadRequest)
}

func TestBeforePaymentAuthorizationMissingBasket(t *testing.T) {
	c := qt.New(t)

	// an unknown basket is not an error for the storefront: there is simply
	// nothing to prepare, so the flow continues
	resp := doRequest(t, http.MethodPost, paymentsBeforeAuthorizationEndpoint,
		mustMarshal(apicommon.BeforeAuthorizationRequest{BasketID: "no-such-basket"}), nil)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	action := &stripe.ClientAction{}
	c.Assert(json.NewDecoder(resp.Body).Decode(action), qt.IsNil)
	_ = resp.Body.Close()
	c.Assert(action.Success, qt.IsTrue)
	c.Assert(action.Error, qt.Equals, "")
}

func TestBeforePaymentAuthorizationMalformedBody(t *testing.T) {
	c := qt.New(t)

	resp := doRequest(t, http.MethodPost, paymentsBeforeAuthorizationEndpoint, []byte(`{"basketId"`), nil)
	_ = resp.Body.Close()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusBadRequest)
}

func TestAPMReturnRedirectsToPaymentStepOnMissingParams(t *testing.T) {
	c := qt.New(t)

	resp := doRequest(t, http.MethodGet, paymentsAPMReturnEndpoint, nil, nil)
	_ = resp.Body.Close()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusFound)

	location, err := url.Parse(resp.Header.Get("Location"))
	c.Assert(err, qt.IsNil)
	c.Assert(location.Host, qt.Equals, "shop.example.com")
	c.Assert(location.Query().Get("stage"), qt.Equals, "payment")
	c.Assert(location.Query().Get("apm_return_error"), qt.Not(qt.Equals), "")
}

func TestPaymentRequestButtonNotSupported(t *testing.T) {
	c := qt.New(t)

	resp := doRequest(t, http.MethodPost, paymentsPaymentRequestButtonEndpoint, nil, nil)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	status := &stripe.Status{}
	c.Assert(json.NewDecoder(resp.Body).Decode(status), qt.IsNil)
	_ = resp.Body.Close()
	c.Assert(status.Error, qt.IsTrue)
	c.Assert(status.Message, qt.Equals, "Not supported")
}

func TestShippingOptionsEmpty(t *testing.T) {
	c := qt.New(t)

	resp := doRequest(t, http.MethodGet, paymentsShippingOptionsEndpoint, nil, nil)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	options := &apicommon.ShippingOptionsResponse{}
	c.Assert(json.NewDecoder(resp.Body).Decode(options), qt.IsNil)
	_ = resp.Body.Close()
	c.Assert(options.ShippingMethods, qt.HasLen, 0)
}
