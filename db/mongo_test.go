package db

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/merchantkit/checkout-backend/test"
)

var testDB *MongoStorage

// Common test constants
const (
	testOrderNumber   = "00001234"
	testBasketID      = "basket-7f3a"
	testSiteID        = "RefArch"
	testCustomerEmail = "customer@example.com"
	testIntentID      = "pi_3MtwBwLkdIwHu7ix28a3tqPa"
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	// start a MongoDB container for testing
	dbContainer, err := test.StartMongoContainer(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to start MongoDB container: %v", err))
	}

	// get the MongoDB connection string
	mongoURI, err := dbContainer.ConnectionString(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to get MongoDB connection string: %v", err))
	}

	testDB, err = New(mongoURI, test.RandomDatabaseName())
	if err != nil {
		panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
	}

	code := m.Run()

	// close the database connection and stop the container
	testDB.Close()
	if err := dbContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to terminate MongoDB container: %v", err))
	}
	os.Exit(code)
}
