package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pizza-storefront/internal/models"
)

// CatalogStore is the product surface shared by the cart and order
// services.
type CatalogStore interface {
	Get(ctx context.Context, id string) (*models.Product, error)
}

type CartStore interface {
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, userID string, items []models.CartItem, total float64) error
}

type CartService struct {
	carts   CartStore
	catalog CatalogStore
}

func NewCartService(carts CartStore, catalog CatalogStore) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	return s.carts.GetByUser(ctx, userID)
}

// Add upserts a line item. If the product is already in the cart the
// quantities accumulate, and the cumulative quantity is what gets
// checked against current inventory.
func (s *CartService) Add(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, models.ValidationError("quantity must be at least 1")
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	idx := -1
	for i, it := range cart.Items {
		if it.ProductID == productID {
			idx = i
			newQuantity = it.Quantity + quantity
			break
		}
	}
	if newQuantity > product.Inventory {
		return nil, &models.InsufficientInventoryError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Inventory,
			Requested:   newQuantity,
		}
	}

	item := models.CartItem{
		ProductID: productID,
		Quantity:  newQuantity,
		ItemTotal: product.BasePrice * float64(newQuantity),
	}
	if idx >= 0 {
		item.ID = cart.Items[idx].ID
		cart.Items[idx] = item
	} else {
		item.ID = uuid.NewString()
		cart.Items = append(cart.Items, item)
	}

	return s.save(ctx, cart)
}

// SetQuantity updates a line item's quantity. A quantity of zero or
// less removes the item.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, it := range cart.Items {
		if it.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("cart item: %w", models.ErrNotFound)
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		return s.save(ctx, cart)
	}

	product, err := s.catalog.Get(ctx, cart.Items[idx].ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Inventory {
		return nil, &models.InsufficientInventoryError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Inventory,
			Requested:   quantity,
		}
	}

	cart.Items[idx].Quantity = quantity
	cart.Items[idx].ItemTotal = product.BasePrice * float64(quantity)
	return s.save(ctx, cart)
}

// Remove drops a line item; removing an absent item is a no-op, the
// cart is simply returned as-is.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, it := range cart.Items {
		if it.ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return s.save(ctx, cart)
		}
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Save(ctx, userID, nil, 0)
}

// save recomputes the total from the line items in full, persists, and
// re-reads so the response carries denormalized product details.
func (s *CartService) save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	total := cart.Recompute()
	if err := s.carts.Save(ctx, cart.UserID, cart.Items, total); err != nil {
		return nil, err
	}
	return s.carts.GetByUser(ctx, cart.UserID)
}
