package stripe

// Config holds the complete Stripe configuration for the checkout backend.
type Config struct {
	// APIKey is the secret API key used for all Stripe calls.
	APIKey string `yaml:"api_key" json:"api_key"`
	// WebhookSecret signs incoming webhook payloads.
	WebhookSecret string `yaml:"webhook_secret" json:"webhook_secret"`
	// SiteID identifies the storefront site in payment metadata.
	SiteID string `yaml:"site_id" json:"site_id"`
	// WebAppURL is the base URL customers are redirected to after an
	// external payment page.
	WebAppURL string `yaml:"web_app_url" json:"web_app_url"`
	// ReviewMailbox is the merchant mailbox alerted when a payment intent
	// enters manual review. Empty disables the alerts.
	ReviewMailbox string `yaml:"review_mailbox" json:"review_mailbox"`
}
