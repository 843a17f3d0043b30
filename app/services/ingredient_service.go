package services

import (
	"context"

	"PosServer/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngredientService handles ingredient stock management
type IngredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new ingredient service
func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// GetIngredients returns all ingredients
func (s *IngredientService) GetIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := s.db.WithContext(ctx).Order("name ASC").Find(&ingredients).Error
	return ingredients, err
}

// GetIngredient returns a single ingredient by id
func (s *IngredientService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).First(&ingredient, id).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// CreateIngredient creates a new ingredient, auditing any initial stock
func (s *IngredientService) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ingredient).Error; err != nil {
			return err
		}

		if ingredient.Stock.IsPositive() {
			movement := models.IngredientMovement{
				IngredientID: ingredient.ID,
				Quantity:     ingredient.Stock,
				Reference:    "Initial stock",
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// AdjustStock applies a manual stock adjustment (restock or correction)
// and records the movement in the same transaction.
func (s *IngredientService) AdjustStock(ctx context.Context, id uint, quantity decimal.Decimal, reason string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Ingredient{}).
			Where("id = ?", id).
			Update("stock", gorm.Expr("stock + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		movement := models.IngredientMovement{
			IngredientID: id,
			Quantity:     quantity,
			Reference:    reason,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}

		return tx.First(&ingredient, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// GetMovements returns the audit trail for an ingredient, newest first
func (s *IngredientService) GetMovements(ctx context.Context, ingredientID uint) ([]models.IngredientMovement, error) {
	var movements []models.IngredientMovement
	err := s.db.WithContext(ctx).
		Where("ingredient_id = ?", ingredientID).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}
