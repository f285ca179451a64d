// Package api provides the HTTP API of the checkout backend: the storefront
// payment endpoints, the server-to-server payment hooks and the account
// wallet surface.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"

	"github.com/merchantkit/checkout-backend/db"
	"github.com/merchantkit/checkout-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

const jwtExpiration = 360 * time.Hour // 15 days

// Config holds the dependencies and settings of the API HTTP server.
type Config struct {
	Host   string
	Port   int
	Secret string
	DB     *db.MongoStorage
	Stripe *stripe.Service
	// StorefrontKey authenticates server-to-server calls from the
	// storefront to the payment hooks and is exchanged for customer tokens
	// at login.
	StorefrontKey string
	WebAppURL     string
}

// API type represents the API HTTP server with JWT authentication capabilities.
type API struct {
	db            *db.MongoStorage
	stripe        *stripe.Service
	auth          *jwtauth.JWTAuth
	host          string
	port          int
	router        *chi.Mux
	secret        string
	storefrontKey string
	webAppURL     string
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	return &API{
		db:            conf.DB,
		stripe:        conf.Stripe,
		auth:          jwtauth.New("HS256", []byte(conf.Secret), nil),
		host:          conf.Host,
		port:          conf.Port,
		secret:        conf.Secret,
		storefrontKey: conf.StorefrontKey,
		webAppURL:     conf.WebAppURL,
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	r.Use(middleware.Timeout(45 * time.Second))

	// storefront hooks, authenticated with the shared storefront key
	r.Group(func(r chi.Router) {
		r.Use(a.storefrontAuthenticator)
		log.Infow("new route", "method", "POST", "path", hooksAuthorizeCardEndpoint)
		r.Post(hooksAuthorizeCardEndpoint, a.authorizeCardHandler)
		log.Infow("new route", "method", "POST", "path", hooksAuthorizeEndpoint)
		r.Post(hooksAuthorizeEndpoint, a.authorizeHandler)
	})

	// customer routes, authenticated with JWT tokens
	r.Group(func(r chi.Router) {
		// seek, verify and validate JWT tokens
		r.Use(jwtauth.Verifier(a.auth))
		// handle valid JWT tokens
		r.Use(a.authenticator)
		log.Infow("new route", "method", "GET", "path", accountWalletEndpoint)
		r.Get(accountWalletEndpoint, a.accountWalletHandler)
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.Warnw("failed to write ping response", "error", err)
			}
		})
		// login
		log.Infow("new route", "method", "POST", "path", authLoginEndpoint)
		r.Post(authLoginEndpoint, a.authLoginHandler)
		// handle stripe webhook
		log.Infow("new route", "method", "POST", "path", paymentsWebhookEndpoint)
		r.Post(paymentsWebhookEndpoint, a.paymentsWebhookHandler)
		// create or confirm the basket payment intent
		log.Infow("new route", "method", "POST", "path", paymentsBeforeAuthorizationEndpoint)
		r.Post(paymentsBeforeAuthorizationEndpoint, a.beforePaymentAuthorizationHandler)
		// customer returning from an external payment page
		log.Infow("new route", "method", "GET", "path", paymentsAPMReturnEndpoint)
		r.Get(paymentsAPMReturnEndpoint, a.apmReturnHandler)
		// payment request button, not supported
		log.Infow("new route", "method", "POST", "path", paymentsPaymentRequestButtonEndpoint)
		r.Post(paymentsPaymentRequestButtonEndpoint, a.paymentRequestButtonHandler)
		// shipping options for the payment request button, not supported
		log.Infow("new route", "method", "GET", "path", paymentsShippingOptionsEndpoint)
		r.Get(paymentsShippingOptionsEndpoint, a.shippingOptionsHandler)
	})
	a.router = r
	return r
}
