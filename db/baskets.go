package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (ms *MongoStorage) fetchBasketFromDB(ctx context.Context, id string) (*Basket, error) {
	result := ms.baskets.FindOne(ctx, bson.M{"_id": id})
	basket := &Basket{}
	if err := result.Decode(basket); err != nil {
		// if the basket doesn't exist return a specific error
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return basket, nil
}

// Basket method returns the basket with the given ID. If the basket doesn't
// exist, it returns a specific error. If other errors occur, it returns the
// error.
func (ms *MongoStorage) Basket(id string) (*Basket, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return ms.fetchBasketFromDB(ctx, id)
}

// SetBasket method creates or updates the basket in the database. If an error
// occurs, it returns the error.
func (ms *MongoStorage) SetBasket(basket *Basket) error {
	if basket.ID == "" {
		return ErrInvalidData
	}
	basket.UpdatedAt = time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	opts := options.Replace().SetUpsert(true)
	if _, err := ms.baskets.ReplaceOne(ctx, bson.M{"_id": basket.ID}, basket, opts); err != nil {
		return err
	}
	return nil
}

// SetBasketPaymentIntentCAS records the payment intent identifier on the
// basket only when no intent is stored yet (compare-and-set on the empty
// value). It returns ErrIntentTaken when another request already persisted an
// intent for the basket, so the caller can confirm that one instead of
// creating a second. This enforces the at-most-one-intent-per-basket policy
// against concurrent requests.
func (ms *MongoStorage) SetBasketPaymentIntentCAS(id, intentID string) error {
	if id == "" || intentID == "" {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	filter := bson.M{"_id": id, "stripePaymentIntentId": ""}
	updateDoc := bson.M{"$set": bson.M{
		"stripePaymentIntentId": intentID,
		"updatedAt":             time.Now(),
	}}
	result, err := ms.baskets.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// distinguish a missing basket from a lost race
		if _, err := ms.Basket(id); err != nil {
			return err
		}
		return ErrIntentTaken
	}
	return nil
}

// SetBasketIntentInReview records whether the payment intent attached to the
// basket entered manual review.
func (ms *MongoStorage) SetBasketIntentInReview(id string, inReview bool) error {
	if id == "" {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	updateDoc := bson.M{"$set": bson.M{
		"stripeIsPaymentIntentInReview": inReview,
		"updatedAt":                     time.Now(),
	}}
	result, err := ms.baskets.UpdateOne(ctx, bson.M{"_id": id}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DelBasket method deletes the basket from the database. If an error occurs,
// it returns the error.
func (ms *MongoStorage) DelBasket(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	_, err := ms.baskets.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
