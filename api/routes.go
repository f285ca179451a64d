package api

const (
	// auth routes

	// POST /auth/login to exchange the storefront key for a customer JWT token
	authLoginEndpoint = "/auth/login"

	// account routes

	// GET /account/wallet to get the stored payment instruments of the customer
	accountWalletEndpoint = "/account/wallet"

	// payment routes

	// POST /payments/webhook to receive Stripe webhook events
	paymentsWebhookEndpoint = "/payments/webhook"
	// POST /payments/before-authorization to create or confirm the basket payment intent
	paymentsBeforeAuthorizationEndpoint = "/payments/before-authorization"
	// GET /payments/apm-return for customers returning from an external payment page
	paymentsAPMReturnEndpoint = "/payments/apm-return"
	// POST /payments/payment-request-button, not supported
	paymentsPaymentRequestButtonEndpoint = "/payments/payment-request-button"
	// GET /payments/shipping-options, not supported
	paymentsShippingOptionsEndpoint = "/payments/shipping-options"

	// hook routes, server-to-server from the storefront

	// POST /hooks/payments/authorize-card to authorize a card payment for an order
	hooksAuthorizeCardEndpoint = "/hooks/payments/authorize-card"
	// POST /hooks/payments/authorize for non-card instruments
	hooksAuthorizeEndpoint = "/hooks/payments/authorize"
)
