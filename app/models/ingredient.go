package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngredientUnit is the unit of measure an ingredient's stock is tracked in
type IngredientUnit string

const (
	UnitPiece      IngredientUnit = "unit"
	UnitGram       IngredientUnit = "gram"
	UnitKilogram   IngredientUnit = "kilogram"
	UnitMilliliter IngredientUnit = "milliliter"
	UnitLiter      IngredientUnit = "liter"
)

// Ingredient represents a raw material consumed by product sales.
// Stock is decimal so fractional units (kg, liters) track cleanly, and it
// may go negative: orders are never rejected for insufficient stock.
type Ingredient struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null;uniqueIndex" json:"name"`
	Stock     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"stock"`
	Unit      IngredientUnit  `gorm:"default:unit" json:"unit"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// IngredientMovement is an audit row recorded for every stock change,
// committed in the same transaction as the change itself.
type IngredientMovement struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	IngredientID uint            `gorm:"not null;index" json:"ingredientId"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"` // signed delta, negative for deductions
	Reference    string          `json:"reference"`
	CreatedAt    time.Time       `json:"createdAt"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

// TableName specifies the table name for Ingredient
func (Ingredient) TableName() string {
	return "ingredients"
}

// TableName specifies the table name for IngredientMovement
func (IngredientMovement) TableName() string {
	return "ingredient_movements"
}
