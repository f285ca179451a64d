package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/merchantkit/checkout-backend/api/apicommon"
	"github.com/merchantkit/checkout-backend/errors"
)

// authLoginHandler exchanges the shared storefront key for a JWT token scoped
// to a single customer. The storefront calls it when a customer signs in, so
// the customer can later read account surfaces such as the wallet directly.
func (a *API) authLoginHandler(w http.ResponseWriter, r *http.Request) {
	loginInfo := &apicommon.LoginRequest{}
	if err := json.NewDecoder(r.Body).Decode(loginInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if subtle.ConstantTimeCompare([]byte(loginInfo.StorefrontKey), []byte(a.storefrontKey)) != 1 {
		errors.ErrUnauthorized.Write(w)
		return
	}
	if _, err := mail.ParseAddress(loginInfo.Email); err != nil {
		errors.ErrEmailMalformed.Write(w)
		return
	}
	res, err := a.makeToken(loginInfo.Email)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, res)
}

// makeToken creates a JWT token for the given customer email. The token is
// signed with the API secret and is valid for the period specified on the
// jwtExpiration constant.
func (a *API) makeToken(email string) (*apicommon.LoginResponse, error) {
	j := jwt.New()
	if err := j.Set("customerEmail", email); err != nil {
		return nil, err
	}
	if err := j.Set(jwt.ExpirationKey, time.Now().Add(jwtExpiration).UnixNano()); err != nil {
		return nil, err
	}
	lr := apicommon.LoginResponse{}
	lr.Expirity = time.Now().Add(jwtExpiration)
	jmap, err := j.AsMap(context.Background())
	if err != nil {
		return nil, err
	}
	_, lr.Token, err = a.auth.Encode(jmap)
	if err != nil {
		return nil, err
	}
	return &lr, nil
}
