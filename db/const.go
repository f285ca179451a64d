package db

const (
	// order payment statuses
	PaymentStatusNotPaid  PaymentStatus = "not_paid"
	PaymentStatusPartPaid PaymentStatus = "part_paid"
	PaymentStatusPaid     PaymentStatus = "paid"
	// payment method kinds
	PaymentMethodCard           PaymentMethodID = "STRIPE_CREDIT_CARD"
	PaymentMethodAPM            PaymentMethodID = "STRIPE_APM"
	PaymentMethodPaymentRequest PaymentMethodID = "STRIPE_PAYMENT_REQUEST"
)

// validPaymentStatuses is a map that contains the valid order payment statuses
var validPaymentStatuses = map[PaymentStatus]bool{
	PaymentStatusNotPaid:  true,
	PaymentStatusPartPaid: true,
	PaymentStatusPaid:     true,
}

// ValidPaymentStatus function checks if the payment status is a known one
func ValidPaymentStatus(status PaymentStatus) bool {
	return validPaymentStatuses[status]
}
