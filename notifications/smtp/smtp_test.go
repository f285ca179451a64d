package smtp

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/merchantkit/checkout-backend/notifications"
	"github.com/merchantkit/checkout-backend/test"
)

var testMail *Email

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := test.StartMailService(ctx)
	if err != nil {
		panic(err)
	}
	smtpHost, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	smtpPort, err := container.MappedPort(ctx, test.MailSMTPPort)
	if err != nil {
		panic(err)
	}
	apiPort, err := container.MappedPort(ctx, test.MailAPIPort)
	if err != nil {
		panic(err)
	}

	testMail = &Email{}
	if err := testMail.New(&Config{
		FromName:    "Checkout",
		FromAddress: "checkout@example.com",
		SMTPServer:  smtpHost,
		SMTPPort:    smtpPort.Int(),
		TestAPIPort: apiPort.Int(),
	}); err != nil {
		panic(err)
	}

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestSendNotification(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	to := "payments@example.com"
	err := testMail.SendNotification(ctx, &notifications.Notification{
		ToAddress: to,
		Subject:   "Payment intent pi_123 requires manual review",
		PlainBody: "The payment intent pi_123 for basket basket-1 entered manual review.",
		Body:      "<p>The payment intent <b>pi_123</b> for basket <b>basket-1</b> entered manual review.</p>",
	})
	c.Assert(err, qt.IsNil)

	body, err := testMail.FindEmail(ctx, to)
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(body, "pi_123"), qt.IsTrue)
}

func TestSendNotificationInvalidRecipient(t *testing.T) {
	c := qt.New(t)

	err := testMail.SendNotification(context.Background(), &notifications.Notification{
		ToAddress: "not an address",
		Subject:   "subject",
		PlainBody: "body",
	})
	c.Assert(err, qt.IsNotNil)
}
