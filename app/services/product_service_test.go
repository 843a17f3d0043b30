package services

import (
	"context"
	"testing"

	"PosServer/app/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateProduct_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	first := &models.Product{Name: "Latte", Price: decimal.RequireFromString("3.50")}
	require.NoError(t, svc.CreateProduct(context.Background(), first))

	second := &models.Product{Name: "Latte", Price: decimal.RequireFromString("4.00")}
	err := svc.CreateProduct(context.Background(), second)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestSetRecipe_ReplacesExisting(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	flour := createIngredient(t, db, "Flour", 100, models.UnitGram)
	water := createIngredient(t, db, "Water", 100, models.UnitMilliliter)
	bread := createProduct(t, db, "Bread", "3.00", models.RecipeItem{
		IngredientID: flour.ID,
		Quantity:     decimal.NewFromInt(200),
	})

	err := svc.SetRecipe(context.Background(), bread.ID, []models.RecipeItem{
		{IngredientID: flour.ID, Quantity: decimal.NewFromInt(250)},
		{IngredientID: water.ID, Quantity: decimal.NewFromInt(150)},
	})
	require.NoError(t, err)

	reloaded, err := svc.GetProduct(context.Background(), bread.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Recipe, 2)

	byIngredient := make(map[uint]decimal.Decimal)
	for _, item := range reloaded.Recipe {
		byIngredient[item.IngredientID] = item.Quantity
		require.NotNil(t, item.Ingredient)
	}
	require.True(t, byIngredient[flour.ID].Equal(decimal.NewFromInt(250)))
	require.True(t, byIngredient[water.ID].Equal(decimal.NewFromInt(150)))
}

func TestSetRecipe_UnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	err := svc.SetRecipe(context.Background(), 77, nil)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
