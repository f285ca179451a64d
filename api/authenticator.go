package api

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/merchantkit/checkout-backend/api/apicommon"
	"github.com/merchantkit/checkout-backend/errors"
)

// authenticator validates the JWT token of the request and stores the
// customer email claim in the request context for the next handlers.
func (a *API) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			errors.ErrUnauthorized.Write(w)
			return
		}
		if token == nil || jwt.Validate(token, jwt.WithRequiredClaim("customerEmail")) != nil {
			errors.ErrUnauthorized.Withf("customerEmail claim not found in JWT token").Write(w)
			return
		}
		email, ok := claims["customerEmail"].(string)
		if !ok || email == "" {
			errors.ErrUnauthorized.Write(w)
			return
		}
		ctx := context.WithValue(r.Context(), apicommon.CustomerEmailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// storefrontAuthenticator guards the server-to-server hooks with the shared
// storefront key.
func (a *API) storefrontAuthenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(apicommon.StorefrontKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.storefrontKey)) != 1 {
			errors.ErrUnauthorized.Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
