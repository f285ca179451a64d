// Package test provides testing utilities for the checkout-backend service,
// including the MongoDB test container used by storage and API tests.
package test

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// MongoImage is the image used by the MongoDB test container.
const MongoImage = "mongo:7"

// StartMongoContainer starts a MongoDB container for testing. It returns the
// container and any error encountered during startup. Use the container's
// ConnectionString method to connect, and Terminate to tear it down.
func StartMongoContainer(ctx context.Context) (*mongodb.MongoDBContainer, error) {
	return mongodb.Run(ctx, MongoImage)
}

// RandomDatabaseName returns a random database name, so that parallel test
// packages sharing a container never collide.
func RandomDatabaseName() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return "test_" + hex.EncodeToString(b)
}
