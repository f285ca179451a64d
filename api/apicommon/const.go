package apicommon

// ContextKey is the type used for values stored in a request context.
type ContextKey string

// CustomerEmailKey is the context key carrying the customer email of an
// authenticated request.
const CustomerEmailKey ContextKey = "customerEmail"

// StorefrontKeyHeader carries the shared key authenticating
// server-to-server hook calls from the storefront.
const StorefrontKeyHeader = "X-Storefront-Key"
