// Package notifications defines the notification service interface used for
// merchant-facing alerts, such as payment intents entering manual review.
package notifications

import "context"

// Notification is an email to be delivered to a merchant mailbox. Body holds
// the HTML part and PlainBody the text alternative.
type Notification struct {
	ToName    string
	ToAddress string
	ReplyTo   string
	Subject   string
	Body      string
	PlainBody string
}

// NotificationService is implemented by notification backends.
type NotificationService interface {
	New(conf any) error
	SendNotification(context.Context, *Notification) error
}
