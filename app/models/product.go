package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item on the menu
type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null;uniqueIndex" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Recipe    []RecipeItem    `gorm:"foreignKey:ProductID" json:"recipe"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// RecipeItem defines how much of an ingredient one unit of a product consumes
type RecipeItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProductID    uint            `gorm:"not null;index" json:"productId"`
	IngredientID uint            `gorm:"not null;index" json:"ingredientId"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"` // consumed per unit sold
	Ingredient   *Ingredient     `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for RecipeItem
func (RecipeItem) TableName() string {
	return "recipe_items"
}
