package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a single staged line item. Money fields are kept as decimal
// strings inside the document so no precision is lost crossing the store.
type CartItem struct {
	ItemID int64  `bson:"id" json:"id"`
	Price  string `bson:"price" json:"price"`
	Amount int64  `bson:"amount" json:"amount"`
}

// Cart is the uncommitted order staged in MongoDB while payment is pending.
// Immutable once inserted; consumed by order creation via its hex object id.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CustomerID *int64             `bson:"customer_id" json:"customer_id"`
	Items      []CartItem         `bson:"items" json:"items"`
	Total      string             `bson:"total" json:"total"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
