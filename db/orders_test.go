package db

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestOrder(t *testing.T) {
	defer func() {
		if err := testDB.Reset(); err != nil {
			t.Error(err)
		}
	}()
	c := qt.New(t)
	// test not found order
	order, err := testDB.Order(testOrderNumber)
	c.Assert(order, qt.IsNil)
	c.Assert(err, qt.Equals, ErrNotFound)
	// create a new order
	c.Assert(testDB.SetOrder(&Order{
		Number:        testOrderNumber,
		SiteID:        testSiteID,
		Currency:      "EUR",
		Total:         "49.99",
		CustomerEmail: testCustomerEmail,
		BillingAddress: Address{
			FirstName:   "Jane",
			LastName:    "Doe",
			CountryCode: "ES",
		},
	}), qt.IsNil)
	// test found order, payment status defaults to not paid
	order, err = testDB.Order(testOrderNumber)
	c.Assert(err, qt.IsNil)
	c.Assert(order, qt.Not(qt.IsNil))
	c.Assert(order.Currency, qt.Equals, "EUR")
	c.Assert(order.PaymentStatus, qt.Equals, PaymentStatusNotPaid)
	c.Assert(order.StripePaymentIntentID, qt.Equals, "")
	// the total parses into a decimal amount
	total, err := order.TotalAmount()
	c.Assert(err, qt.IsNil)
	c.Assert(total.String(), qt.Equals, "49.99")
}

func TestSetOrderPaid(t *testing.T) {
	defer func() {
		if err := testDB.Reset(); err != nil {
			t.Error(err)
		}
	}()
	c := qt.New(t)
	// paying an unknown order fails
	c.Assert(testDB.SetOrderPaid(testOrderNumber, testIntentID), qt.Equals, ErrNotFound)
	// create the order and pay it
	c.Assert(testDB.SetOrder(&Order{
		Number:   testOrderNumber,
		Currency: "EUR",
		Total:    "49.99",
	}), qt.IsNil)
	c.Assert(testDB.SetOrderPaid(testOrderNumber, testIntentID), qt.IsNil)
	// both the intent ID and the status landed together
	order, err := testDB.Order(testOrderNumber)
	c.Assert(err, qt.IsNil)
	c.Assert(order.StripePaymentIntentID, qt.Equals, testIntentID)
	c.Assert(order.PaymentStatus, qt.Equals, PaymentStatusPaid)
	// the order is now reachable through its intent
	byIntent, err := testDB.OrderByPaymentIntent(testIntentID)
	c.Assert(err, qt.IsNil)
	c.Assert(byIntent.Number, qt.Equals, testOrderNumber)
	// empty arguments are rejected
	c.Assert(testDB.SetOrderPaid("", testIntentID), qt.Equals, ErrInvalidData)
	c.Assert(testDB.SetOrderPaid(testOrderNumber, ""), qt.Equals, ErrInvalidData)
}
