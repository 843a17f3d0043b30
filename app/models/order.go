package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table represents a physical table customers order from
type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Order represents a placed customer order. Orders are created exactly once
// per checkout and never mutated afterward; Total is always computed
// server-side from catalog prices at submission time.
type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	TableID   *uint           `gorm:"index" json:"tableId,omitempty"`
	Table     *Table          `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderItem is one cart line of an order
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"index" json:"orderId"`
	ProductID uint     `gorm:"index" json:"productId"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int      `gorm:"not null" json:"quantity"`
}
