package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"PosServer/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInvalidQuantity is returned when a cart line carries a quantity <= 0
var ErrInvalidQuantity = errors.New("cart line quantity must be positive")

// CartLine is one (product, quantity) pair submitted by a client
type CartLine struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// stockDecrement is one scheduled ingredient deduction of an order plan
type stockDecrement struct {
	IngredientID uint
	Amount       decimal.Decimal
}

// orderPlan is the fully priced, typed unit of work for one checkout:
// the order to insert plus every stock decrement it entails. The whole
// plan commits in a single transaction or not at all.
type orderPlan struct {
	order      *models.Order
	decrements []stockDecrement
}

// OrderService turns submitted carts into priced, stock-adjusted,
// persisted orders and announces them on the notification channel.
type OrderService struct {
	db        *gorm.DB
	publisher Publisher
}

// NewOrderService creates a new order service. The publisher is injected
// by the application root and may not be nil.
func NewOrderService(db *gorm.DB, publisher Publisher) *OrderService {
	return &OrderService{
		db:        db,
		publisher: publisher,
	}
}

// PlaceOrder prices the cart against current catalog prices, resolves
// recipes into ingredient consumption, and commits the order together
// with all stock decrements atomically. On success the hydrated order is
// published as a "new_order" event and returned.
//
// Cart lines whose product no longer exists contribute nothing to the
// total and move no stock, but are still persisted as order items.
func (s *OrderService) PlaceOrder(ctx context.Context, lines []CartLine, tableID *uint) (*models.Order, error) {
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	plan, err := s.buildPlan(ctx, lines, tableID)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, plan); err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, plan.order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order %d: %w", plan.order.ID, err)
	}

	s.publisher.Publish(EventNewOrder, order)
	log.Printf("Order %d created: total=%s items=%d", order.ID, order.Total.StringFixed(2), len(order.Items))

	return order, nil
}

// buildPlan resolves products and recipes and prices the cart. Read-only;
// no state changes until commit.
func (s *OrderService) buildPlan(ctx context.Context, lines []CartLine, tableID *uint) (*orderPlan, error) {
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.findProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	total := decimal.Zero
	pending := make(map[uint]decimal.Decimal)

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			// Unknown product: the line is skipped for pricing and stock
			// but still recorded as an order item below.
			log.Printf("Order line references unknown product %d, skipping", line.ProductID)
			continue
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		total = total.Add(product.Price.Mul(qty))

		if len(product.Recipe) > 0 {
			for _, item := range product.Recipe {
				pending[item.IngredientID] = pending[item.IngredientID].Add(item.Quantity.Mul(qty))
			}
			continue
		}

		// Recipe-less product: fall back to the ingredient carrying the
		// product's exact name and deduct the raw order quantity. Units are
		// deliberately not cross-checked.
		ingredient, err := s.findIngredientByExactName(ctx, product.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up ingredient %q: %w", product.Name, err)
		}
		if ingredient != nil {
			pending[ingredient.ID] = pending[ingredient.ID].Add(qty)
		}
	}

	decrements := make([]stockDecrement, 0, len(pending))
	for id, amount := range pending {
		decrements = append(decrements, stockDecrement{IngredientID: id, Amount: amount})
	}
	// Deterministic apply order so concurrent orders touching the same
	// ingredients never deadlock each other.
	sort.Slice(decrements, func(i, j int) bool {
		return decrements[i].IngredientID < decrements[j].IngredientID
	})

	order := &models.Order{
		Total:   total,
		TableID: tableID,
		Items:   make([]models.OrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	return &orderPlan{order: order, decrements: decrements}, nil
}

// commit applies the plan in one transaction: the order insert and every
// stock decrement persist together or not at all. Decrements happen
// in-database so concurrent orders against the same ingredient cannot
// lose updates.
func (s *OrderService) commit(ctx context.Context, plan *orderPlan) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan.order).Error; err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for _, d := range plan.decrements {
			res := tx.Model(&models.Ingredient{}).
				Where("id = ?", d.IngredientID).
				Update("stock", gorm.Expr("stock - ?", d.Amount))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement ingredient %d: %w", d.IngredientID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("ingredient %d no longer exists", d.IngredientID)
			}

			movement := models.IngredientMovement{
				IngredientID: d.IngredientID,
				Quantity:     d.Amount.Neg(),
				Reference:    fmt.Sprintf("Order %d", plan.order.ID),
			}
			if err := tx.Create(&movement).Error; err != nil {
				return fmt.Errorf("failed to record ingredient movement: %w", err)
			}
		}

		return nil
	})
}

// findProductsByIDs returns existing products keyed by id, recipes
// preloaded. Unknown ids are silently omitted.
func (s *OrderService) findProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	byID := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Recipe").
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// findIngredientByExactName returns the ingredient named exactly name, or
// nil when none exists. Duplicate names resolve to the lowest id.
func (s *OrderService) findIngredientByExactName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Order("id ASC").
		First(&ingredient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// GetOrder returns an order hydrated with its items, products and table
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Table").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders returns all orders, newest first, hydrated for display
func (s *OrderService) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Table").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
