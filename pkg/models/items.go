package models

import (
	"github.com/shopspring/decimal"
)

// Menu category labels, seeded into items_category at bootstrap.
const (
	CategoryBurger  = "Burger"
	CategorySide    = "Side"
	CategoryDrink   = "Drink"
	CategoryDessert = "Dessert"
)

func CategoryLabels() []string {
	return []string{CategoryBurger, CategorySide, CategoryDrink, CategoryDessert}
}

type MenuCategory struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string `gorm:"type:varchar(40);not null;uniqueIndex" json:"description"`
}

func (MenuCategory) TableName() string {
	return "items_category"
}

type MenuItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"type:varchar(120);not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Category    int64           `gorm:"not null" json:"category"`
	Amount      int64           `gorm:"not null" json:"amount"`
	Price       decimal.Decimal `gorm:"type:decimal(16,4);not null" json:"price"`

	CategoryRow MenuCategory `gorm:"foreignKey:Category;references:ID" json:"-"`
}

func (MenuItem) TableName() string {
	return "items"
}
