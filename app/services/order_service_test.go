package services

import (
	"context"
	"sync"
	"testing"

	"PosServer/app/database"
	"PosServer/app/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type publishedEvent struct {
	Name    string
	Payload interface{}
}

// spyPublisher records publishes instead of broadcasting them
type spyPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *spyPublisher) Publish(event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Name: event, Payload: payload})
}

func (p *spyPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func createIngredient(t *testing.T, db *gorm.DB, name string, stock int64, unit models.IngredientUnit) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{
		Name:  name,
		Stock: decimal.NewFromInt(stock),
		Unit:  unit,
	}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func createProduct(t *testing.T, db *gorm.DB, name string, price string, recipe ...models.RecipeItem) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Recipe: recipe,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func ingredientStock(t *testing.T, db *gorm.DB, id uint) decimal.Decimal {
	t.Helper()
	var ingredient models.Ingredient
	require.NoError(t, db.First(&ingredient, id).Error)
	return ingredient.Stock
}

func TestPlaceOrder_EndToEnd(t *testing.T) {
	// Product A: price 10.00, recipe 2x ingredient X per unit, X stock 50.
	// Ordering 3 must yield total 30.00, stock 44, one persisted order with
	// one item and exactly one new_order event.
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	x := createIngredient(t, db, "Ingredient X", 50, models.UnitGram)
	a := createProduct(t, db, "Product A", "10.00", models.RecipeItem{
		IngredientID: x.ID,
		Quantity:     decimal.NewFromInt(2),
	})

	order, err := svc.PlaceOrder(context.Background(), []CartLine{
		{ProductID: a.ID, Quantity: 3},
	}, nil)
	require.NoError(t, err)

	require.True(t, order.Total.Equal(decimal.RequireFromString("30.00")),
		"total = %s", order.Total)
	require.Len(t, order.Items, 1)
	require.Equal(t, 3, order.Items[0].Quantity)
	require.NotNil(t, order.Items[0].Product)
	require.Equal(t, "Product A", order.Items[0].Product.Name)

	stock := ingredientStock(t, db, x.ID)
	require.True(t, stock.Equal(decimal.NewFromInt(44)), "stock = %s", stock)

	events := pub.Events()
	require.Len(t, events, 1)
	require.Equal(t, EventNewOrder, events[0].Name)
	published, ok := events[0].Payload.(*models.Order)
	require.True(t, ok)
	require.Equal(t, order.ID, published.ID)
	require.Equal(t, "Product A", published.Items[0].Product.Name)

	var movements []models.IngredientMovement
	require.NoError(t, db.Where("ingredient_id = ?", x.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	require.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(-6)))
}

func TestPlaceOrder_PricesFromCatalogNotClient(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	burger := createProduct(t, db, "Burger", "8.50")
	soda := createProduct(t, db, "Soda", "2.25")

	order, err := svc.PlaceOrder(context.Background(), []CartLine{
		{ProductID: burger.ID, Quantity: 2},
		{ProductID: soda.ID, Quantity: 4},
	}, nil)
	require.NoError(t, err)

	// 2*8.50 + 4*2.25 = 26.00
	require.True(t, order.Total.Equal(decimal.RequireFromString("26.00")),
		"total = %s", order.Total)
}

func TestPlaceOrder_UnknownProductSkippedButPersisted(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	x := createIngredient(t, db, "Flour", 100, models.UnitGram)
	bread := createProduct(t, db, "Bread", "3.00", models.RecipeItem{
		IngredientID: x.ID,
		Quantity:     decimal.NewFromInt(5),
	})

	order, err := svc.PlaceOrder(context.Background(), []CartLine{
		{ProductID: bread.ID, Quantity: 1},
		{ProductID: 9999, Quantity: 10},
	}, nil)
	require.NoError(t, err)

	// The unknown line contributes nothing to total or stock but is still
	// persisted as an item.
	require.True(t, order.Total.Equal(decimal.RequireFromString("3.00")),
		"total = %s", order.Total)
	require.Len(t, order.Items, 2)

	stock := ingredientStock(t, db, x.ID)
	require.True(t, stock.Equal(decimal.NewFromInt(95)), "stock = %s", stock)
}

func TestPlaceOrder_NameFallbackForRecipelessProduct(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	cola := createIngredient(t, db, "Cola", 24, models.UnitPiece)
	product := createProduct(t, db, "Cola", "2.00")

	_, err := svc.PlaceOrder(context.Background(), []CartLine{
		{ProductID: product.ID, Quantity: 6},
	}, nil)
	require.NoError(t, err)

	stock := ingredientStock(t, db, cola.ID)
	require.True(t, stock.Equal(decimal.NewFromInt(18)), "stock = %s", stock)
}

func TestPlaceOrder_NameFallbackNoMatchMovesNoStock(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	other := createIngredient(t, db, "Sugar", 30, models.UnitGram)
	product := createProduct(t, db, "Espresso", "1.50")

	order, err := svc.PlaceOrder(context.Background(), []CartLine{
		{ProductID: product.ID, Quantity: 2},
	}, nil)
	require.NoError(t, err)
	require.True(t, order.Total.Equal(decimal.RequireFromString("3.00")))

	stock := ingredientStock(t, db, other.ID)
	require.True(t, stock.Equal(decimal.NewFromInt(30)), "stock = %s", stock)

	var count int64
	require.NoError(t, db.Model(&models.IngredientMovement{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPlaceOrder_StockMayGoNegative(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	x := createIngredient(t, db, "Cheese", 1, models.UnitPiece)
	product := createProduct(t, db, "Cheese Toast", "4.00", models.RecipeItem{
		IngredientID: x.ID,
		Quantity:     decimal.NewFromInt(2),
	})

	_, err := svc.PlaceOrder(context.Background(), []CartLine{
		{ProductID: product.ID, Quantity: 3},
	}, nil)
	require.NoError(t, err)

	stock := ingredientStock(t, db, x.ID)
	require.True(t, stock.Equal(decimal.NewFromInt(-5)), "stock = %s", stock)
}

func TestPlaceOrder_AtomicRollbackOnMissingIngredient(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	kept := createIngredient(t, db, "Dough", 40, models.UnitGram)
	doomed := createIngredient(t, db, "Tomato", 40, models.UnitGram)
	pizza := createProduct(t, db, "Pizza", "12.00",
		models.RecipeItem{IngredientID: kept.ID, Quantity: decimal.NewFromInt(1)},
		models.RecipeItem{IngredientID: doomed.ID, Quantity: decimal.NewFromInt(1)},
	)

	// Ingredient disappears between plan and commit
	require.NoError(t, db.Delete(&models.Ingredient{}, doomed.ID).Error)

	_, err := svc.PlaceOrder(context.Background(), []CartLine{
		{ProductID: pizza.ID, Quantity: 2},
	}, nil)
	require.Error(t, err)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount, "no order may persist after rollback")

	stock := ingredientStock(t, db, kept.ID)
	require.True(t, stock.Equal(decimal.NewFromInt(40)),
		"sibling decrement must roll back, stock = %s", stock)

	require.Empty(t, pub.Events(), "nothing may be published on failure")
}

func TestPlaceOrder_ConcurrentOrdersDoNotLoseUpdates(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	x := createIngredient(t, db, "Beans", 100, models.UnitGram)
	product := createProduct(t, db, "Coffee", "3.00", models.RecipeItem{
		IngredientID: x.ID,
		Quantity:     decimal.NewFromInt(1),
	})

	quantities := []int{5, 3}
	errs := make([]error, len(quantities))
	var wg sync.WaitGroup
	for i, qty := range quantities {
		wg.Add(1)
		go func(i, qty int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), []CartLine{
				{ProductID: product.ID, Quantity: qty},
			}, nil)
		}(i, qty)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "order %d", i)
	}

	stock := ingredientStock(t, db, x.ID)
	require.True(t, stock.Equal(decimal.NewFromInt(92)),
		"100 - 5 - 3 must be 92, got %s", stock)
}

func TestPlaceOrder_MultipleLinesSameProductAggregate(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	x := createIngredient(t, db, "Rice", 100, models.UnitGram)
	bowl := createProduct(t, db, "Rice Bowl", "5.00", models.RecipeItem{
		IngredientID: x.ID,
		Quantity:     decimal.NewFromInt(3),
	})

	order, err := svc.PlaceOrder(context.Background(), []CartLine{
		{ProductID: bowl.ID, Quantity: 2},
		{ProductID: bowl.ID, Quantity: 1},
	}, nil)
	require.NoError(t, err)

	require.True(t, order.Total.Equal(decimal.RequireFromString("15.00")))
	require.Len(t, order.Items, 2)

	// 3 per unit x 3 units across both lines
	stock := ingredientStock(t, db, x.ID)
	require.True(t, stock.Equal(decimal.NewFromInt(91)), "stock = %s", stock)
}

func TestPlaceOrder_TableReference(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	table := &models.Table{Name: "Table 1"}
	require.NoError(t, db.Create(table).Error)
	product := createProduct(t, db, "Tea", "1.75")

	order, err := svc.PlaceOrder(context.Background(), []CartLine{
		{ProductID: product.ID, Quantity: 1},
	}, &table.ID)
	require.NoError(t, err)

	require.NotNil(t, order.TableID)
	require.Equal(t, table.ID, *order.TableID)
	require.NotNil(t, order.Table)
	require.Equal(t, "Table 1", order.Table.Name)
}

func TestPlaceOrder_InvalidQuantity(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	product := createProduct(t, db, "Juice", "3.50")

	tests := []struct {
		name string
		qty  int
	}{
		{"zero", 0},
		{"negative", -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(context.Background(), []CartLine{
				{ProductID: product.ID, Quantity: tt.qty},
			}, nil)
			require.ErrorIs(t, err, ErrInvalidQuantity)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	pub := &spyPublisher{}
	svc := NewOrderService(db, pub)

	order, err := svc.PlaceOrder(context.Background(), nil, nil)
	require.NoError(t, err)
	require.True(t, order.Total.IsZero())
	require.Empty(t, order.Items)
	require.Len(t, pub.Events(), 1)
}
