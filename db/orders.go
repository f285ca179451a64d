package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (ms *MongoStorage) fetchOrderFromDB(ctx context.Context, number string) (*Order, error) {
	result := ms.orders.FindOne(ctx, bson.M{"_id": number})
	order := &Order{}
	if err := result.Decode(order); err != nil {
		// if the order doesn't exist return a specific error
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// Order method returns the order with the given number. If the order doesn't
// exist, it returns a specific error. If other errors occur, it returns the
// error.
func (ms *MongoStorage) Order(number string) (*Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return ms.fetchOrderFromDB(ctx, number)
}

// OrderByPaymentIntent method returns the order carrying the given Stripe
// payment intent identifier. Used by the webhook pipeline, which only knows
// the intent. If no order carries the intent, it returns ErrNotFound.
func (ms *MongoStorage) OrderByPaymentIntent(intentID string) (*Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	result := ms.orders.FindOne(ctx, bson.M{"stripePaymentIntentId": intentID})
	order := &Order{}
	if err := result.Decode(order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// SetOrder method creates or updates the order in the database. If an error
// occurs, it returns the error.
func (ms *MongoStorage) SetOrder(order *Order) error {
	if order.Number == "" {
		return ErrInvalidData
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = PaymentStatusNotPaid
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	opts := options.Replace().SetUpsert(true)
	if _, err := ms.orders.ReplaceOne(ctx, bson.M{"_id": order.Number}, order, opts); err != nil {
		return err
	}
	return nil
}

// SetOrderPaid method records the payment intent identifier on the order and
// flips its payment status to paid. Both fields live on the same document, so
// the pair is written atomically: either both land or neither does.
func (ms *MongoStorage) SetOrderPaid(number, intentID string) error {
	if number == "" || intentID == "" {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	updateDoc := bson.M{"$set": bson.M{
		"stripePaymentIntentId": intentID,
		"paymentStatus":         PaymentStatusPaid,
	}}
	result, err := ms.orders.UpdateOne(ctx, bson.M{"_id": number}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DelOrder method deletes the order from the database. If an error occurs, it
// returns the error.
func (ms *MongoStorage) DelOrder(number string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	_, err := ms.orders.DeleteOne(ctx, bson.M{"_id": number})
	return err
}
