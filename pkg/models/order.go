package models

// Order status labels. Seeded into the order_status lookup table at
// bootstrap; every order row references one of them by id.
const (
	StatusReceived  = "Received"
	StatusPreparing = "Preparing"
	StatusReady     = "Ready"
	StatusFinished  = "Finished"
)

func StatusLabels() []string {
	return []string{StatusReceived, StatusPreparing, StatusReady, StatusFinished}
}

func ValidStatusLabel(label string) bool {
	for _, l := range StatusLabels() {
		if l == label {
			return true
		}
	}
	return false
}

type OrderStatus struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string `gorm:"type:varchar(20);not null;uniqueIndex" json:"description"`
}

func (OrderStatus) TableName() string {
	return "order_status"
}

type Order struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	MongoID    string `gorm:"type:varchar(120);index" json:"mongo_id"` // cart reference, not unique on purpose
	CustomerID *int64 `json:"customer_id"`
	Status     int64  `gorm:"not null" json:"status"`

	StatusRow OrderStatus `gorm:"foreignKey:Status;references:ID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}
