// Package db provides the MongoDB storage layer for checkout data: orders,
// baskets and customer payment wallets.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.vocdoni.io/dvote/log"
)

const defaultTimeout = 10 * time.Second

// MongoStorage uses an external MongoDB service for storing orders, baskets
// and customer wallets.
type MongoStorage struct {
	client   *mongo.Client
	database string

	orders  *mongo.Collection
	baskets *mongo.Collection
	wallets *mongo.Collection
}

// New connects to the MongoDB server and initializes the collections and
// their indexes. It returns an error if the connection or the ping fail.
func New(url, database string) (*MongoStorage, error) {
	ms := &MongoStorage{}
	if url == "" {
		return nil, fmt.Errorf("mongo URL is not defined")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is not defined")
	}
	log.Infow("connecting to mongodb", "url", url, "database", database)
	// preparing connection
	opts := options.Client()
	opts.ApplyURI(url)
	opts.SetMaxConnecting(200)
	timeout := defaultTimeout
	opts.ConnectTimeout = &timeout
	// create a new client with the connection options
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// check if the connection is successful
	ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// init the collections
	ms.client = client
	ms.database = database
	ms.orders = client.Database(database).Collection("orders")
	ms.baskets = client.Database(database).Collection("baskets")
	ms.wallets = client.Database(database).Collection("wallets")
	if err := ms.createIndexes(); err != nil {
		return nil, err
	}
	return ms, nil
}

// Close disconnects the client from the MongoDB server.
func (ms *MongoStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := ms.client.Disconnect(ctx); err != nil {
		log.Warn(err)
	}
}

// Reset drops the collections and recreates the indexes.
func (ms *MongoStorage) Reset() error {
	log.Infof("resetting database")
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	for _, col := range []*mongo.Collection{ms.orders, ms.baskets, ms.wallets} {
		if err := col.Drop(ctx); err != nil {
			return err
		}
	}
	return ms.createIndexes()
}

func (ms *MongoStorage) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	// baskets are looked up by customer during checkout
	if _, err := ms.baskets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "customerEmail", Value: 1}},
	}); err != nil {
		return fmt.Errorf("cannot create basket customer index: %w", err)
	}
	// orders are looked up by the payment intent the webhook carries
	if _, err := ms.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "stripePaymentIntentId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("cannot create order intent index: %w", err)
	}
	return nil
}
