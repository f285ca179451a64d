package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Wallet method returns the stored payment wallet of the customer with the
// given email. If the customer has no wallet yet, it returns ErrNotFound.
func (ms *MongoStorage) Wallet(customerEmail string) (*Wallet, error) {
	if customerEmail == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	result := ms.wallets.FindOne(ctx, bson.M{"_id": customerEmail})
	wallet := &Wallet{}
	if err := result.Decode(wallet); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return wallet, nil
}

// SetWallet method creates or updates the customer wallet in the database.
func (ms *MongoStorage) SetWallet(wallet *Wallet) error {
	if wallet.CustomerEmail == "" {
		return ErrInvalidData
	}
	wallet.UpdatedAt = time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	opts := options.Replace().SetUpsert(true)
	if _, err := ms.wallets.ReplaceOne(ctx, bson.M{"_id": wallet.CustomerEmail}, wallet, opts); err != nil {
		return err
	}
	return nil
}

// AddWalletInstrument appends a payment instrument to the customer wallet,
// creating the wallet when it doesn't exist yet.
func (ms *MongoStorage) AddWalletInstrument(customerEmail string, instrument PaymentInstrument) error {
	if customerEmail == "" {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	updateDoc := bson.M{
		"$push": bson.M{"instruments": instrument},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := ms.wallets.UpdateOne(ctx, bson.M{"_id": customerEmail}, updateDoc, opts)
	return err
}
