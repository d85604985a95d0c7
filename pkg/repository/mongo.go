package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/foodorders/pkg/config"
	"github.com/example/foodorders/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stages carts in the orders_cart collection. A cart is the
// uncommitted half of an order: inserted at checkout, read back at creation,
// never updated or deleted here.
type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// InsertCart persists a staged cart and returns the hex object id assigned by
// the store. That id is the cart reference the rest of the workflow keys on.
func (m *MongoRepository) InsertCart(ctx context.Context, cart *models.Cart) (string, error) {
	collection := m.database.Collection(m.config.Collection)
	cart.CreatedAt = time.Now()

	res, err := collection.InsertOne(ctx, cart)
	if err != nil {
		return "", err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// GetCart fetches a staged cart by its hex reference. A malformed reference
// cannot match any document, so it reports ErrNotFound rather than a decode
// failure.
func (m *MongoRepository) GetCart(ctx context.Context, cartRef string) (*models.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(cartRef)
	if err != nil {
		return nil, ErrNotFound
	}

	collection := m.database.Collection(m.config.Collection)

	var cart models.Cart
	err = collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
