package api

import (
	"net/http"

	"github.com/merchantkit/checkout-backend/api/apicommon"
	"github.com/merchantkit/checkout-backend/db"
	"github.com/merchantkit/checkout-backend/errors"
)

// accountWalletHandler returns the payment instruments the authenticated
// customer has stored. Customers without a wallet get an empty list, not an
// error.
func (a *API) accountWalletHandler(w http.ResponseWriter, r *http.Request) {
	email, ok := apicommon.CustomerEmailFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	wallet, err := a.db.Wallet(email)
	if err != nil {
		if err == db.ErrNotFound {
			apicommon.HTTPWriteJSON(w, apicommon.WalletResponse{
				CustomerEmail: email,
				Instruments:   []db.PaymentInstrument{},
			})
			return
		}
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	res := apicommon.WalletResponse{
		CustomerEmail: wallet.CustomerEmail,
		Instruments:   wallet.Instruments,
	}
	if len(wallet.Instruments) > 0 {
		res.PaymentInstrument = &wallet.Instruments[0]
	}
	apicommon.HTTPWriteJSON(w, res)
}
