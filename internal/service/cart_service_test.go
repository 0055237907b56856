package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizza-storefront/internal/models"
)

func newCartFixture() (*CartService, *fakeCatalog) {
	catalog := newFakeCatalog()
	catalog.put(models.Product{ID: "prod-margherita", Name: "Margherita", Category: models.CategoryPizza, BasePrice: 199, Inventory: 5, MaxInventory: 100})
	catalog.put(models.Product{ID: "prod-cola", Name: "Coca Cola (750ml)", Category: models.CategoryBeverages, BasePrice: 57, Inventory: 2, MaxInventory: 100})
	carts := newFakeCartStore(catalog)
	return NewCartService(carts, catalog), catalog
}

func TestCartAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a new line item and totals it", func(t *testing.T) {
		svc, _ := newCartFixture()
		cart, err := svc.Add(ctx, "user-1", "prod-margherita", 2)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, 398.0, cart.Items[0].ItemTotal)
		assert.Equal(t, 398.0, cart.TotalAmount)
		require.NotNil(t, cart.Items[0].Product)
		assert.Equal(t, "Margherita", cart.Items[0].Product.Name)
	})

	t.Run("accumulates quantity for the same product", func(t *testing.T) {
		svc, _ := newCartFixture()
		_, err := svc.Add(ctx, "user-1", "prod-margherita", 2)
		require.NoError(t, err)
		cart, err := svc.Add(ctx, "user-1", "prod-margherita", 1)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
		assert.Equal(t, 597.0, cart.TotalAmount)
	})

	t.Run("cumulative quantity is checked against inventory", func(t *testing.T) {
		svc, _ := newCartFixture()
		_, err := svc.Add(ctx, "user-1", "prod-margherita", 4)
		require.NoError(t, err)

		_, err = svc.Add(ctx, "user-1", "prod-margherita", 2)
		var inv *models.InsufficientInventoryError
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, "Margherita", inv.ProductName)
		assert.Equal(t, 5, inv.Available)
		assert.Equal(t, 6, inv.Requested)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _ := newCartFixture()
		_, err := svc.Add(ctx, "user-1", "prod-ghost", 1)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc, _ := newCartFixture()
		_, err := svc.Add(ctx, "user-1", "prod-margherita", 0)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestCartSetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("updates quantity and recomputes the total", func(t *testing.T) {
		svc, _ := newCartFixture()
		cart, err := svc.Add(ctx, "user-1", "prod-margherita", 1)
		require.NoError(t, err)
		itemID := cart.Items[0].ID

		cart, err = svc.SetQuantity(ctx, "user-1", itemID, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, cart.Items[0].Quantity)
		assert.Equal(t, 597.0, cart.TotalAmount)
	})

	t.Run("zero quantity removes the item", func(t *testing.T) {
		svc, _ := newCartFixture()
		cart, err := svc.Add(ctx, "user-1", "prod-margherita", 2)
		require.NoError(t, err)
		itemID := cart.Items[0].ID

		cart, err = svc.SetQuantity(ctx, "user-1", itemID, 0)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Zero(t, cart.TotalAmount)
	})

	t.Run("fails when quantity exceeds inventory", func(t *testing.T) {
		svc, _ := newCartFixture()
		cart, err := svc.Add(ctx, "user-1", "prod-cola", 1)
		require.NoError(t, err)

		_, err = svc.SetQuantity(ctx, "user-1", cart.Items[0].ID, 3)
		var inv *models.InsufficientInventoryError
		assert.ErrorAs(t, err, &inv)
	})

	t.Run("unknown item", func(t *testing.T) {
		svc, _ := newCartFixture()
		_, err := svc.SetQuantity(ctx, "user-1", "item-ghost", 2)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestCartRemoveAndClear(t *testing.T) {
	ctx := context.Background()

	t.Run("remove drops the line and recomputes", func(t *testing.T) {
		svc, _ := newCartFixture()
		_, err := svc.Add(ctx, "user-1", "prod-margherita", 1)
		require.NoError(t, err)
		cart, err := svc.Add(ctx, "user-1", "prod-cola", 2)
		require.NoError(t, err)
		require.Len(t, cart.Items, 2)

		cart, err = svc.Remove(ctx, "user-1", cart.Items[0].ID)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 114.0, cart.TotalAmount)
	})

	t.Run("removing an absent item is a no-op", func(t *testing.T) {
		svc, _ := newCartFixture()
		cart, err := svc.Add(ctx, "user-1", "prod-cola", 1)
		require.NoError(t, err)

		cart, err = svc.Remove(ctx, "user-1", "item-ghost")
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		svc, _ := newCartFixture()
		_, err := svc.Add(ctx, "user-1", "prod-margherita", 2)
		require.NoError(t, err)

		require.NoError(t, svc.Clear(ctx, "user-1"))
		cart, err := svc.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Zero(t, cart.TotalAmount)
	})

	t.Run("empty cart read returns an empty cart, not an error", func(t *testing.T) {
		svc, _ := newCartFixture()
		cart, err := svc.Get(ctx, "user-never-seen")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Zero(t, cart.TotalAmount)
	})
}
