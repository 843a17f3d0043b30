package services

import (
	"context"
	"fmt"

	"PosServer/app/models"

	"gorm.io/gorm"
)

// ProductService handles product and recipe management
type ProductService struct {
	db *gorm.DB
}

// NewProductService creates a new product service
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// GetProducts returns all products with their recipes
func (s *ProductService) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Recipe.Ingredient").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// GetProduct returns a single product by id with its recipe
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("Recipe.Ingredient").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a new product, optionally with recipe items
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

// SetRecipe replaces a product's recipe with the given items
func (s *ProductService) SetRecipe(ctx context.Context, productID uint, items []models.RecipeItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", productID).Delete(&models.RecipeItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipe: %w", err)
		}

		for i := range items {
			items[i].ID = 0
			items[i].ProductID = productID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("failed to create recipe item: %w", err)
			}
		}

		return nil
	})
}
