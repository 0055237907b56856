package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"pizza-storefront/internal/models"
)

// In-memory stores standing in for the postgres repositories. The fake
// order store mirrors the real one's contract: reservation, order
// creation and cart clearing succeed or fail as one unit.

type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]*models.Product
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]*models.Product{}}
}

func (f *fakeCatalog) put(p models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := p
	f.products[p.ID] = &cp
}

func (f *fakeCatalog) inventory(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Inventory
}

func (f *fakeCatalog) Get(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type fakeCartStore struct {
	mu      sync.Mutex
	catalog *fakeCatalog
	carts   map[string]*models.Cart
}

func newFakeCartStore(catalog *fakeCatalog) *fakeCartStore {
	return &fakeCartStore{catalog: catalog, carts: map[string]*models.Cart{}}
}

func (f *fakeCartStore) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	out := &models.Cart{UserID: userID, TotalAmount: cart.TotalAmount, UpdatedAt: cart.UpdatedAt}
	for _, it := range cart.Items {
		cp := it
		if p, err := f.catalog.Get(ctx, it.ProductID); err == nil {
			cp.Product = p
		}
		out.Items = append(out.Items, cp)
	}
	if out.Items == nil {
		out.Items = []models.CartItem{}
	}
	return out, nil
}

func (f *fakeCartStore) Save(_ context.Context, userID string, items []models.CartItem, total float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		it.Product = nil
		stored = append(stored, it)
	}
	f.carts[userID] = &models.Cart{
		UserID:      userID,
		Items:       stored,
		TotalAmount: total,
		UpdatedAt:   time.Now(),
	}
	return nil
}

type fakeOrderStore struct {
	mu      sync.Mutex
	catalog *fakeCatalog
	carts   *fakeCartStore
	orders  map[string]*models.Order
	seq     int
}

func newFakeOrderStore(catalog *fakeCatalog, carts *fakeCartStore) *fakeOrderStore {
	return &fakeOrderStore{catalog: catalog, carts: carts, orders: map[string]*models.Order{}}
}

func (f *fakeOrderStore) PlaceOrder(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalog.mu.Lock()

	// All-or-nothing: verify every reservation before applying any.
	for _, it := range order.Items {
		p, ok := f.catalog.products[it.ProductID]
		if !ok {
			f.catalog.mu.Unlock()
			return models.ErrNotFound
		}
		if p.Inventory < it.Quantity {
			f.catalog.mu.Unlock()
			return &models.InsufficientInventoryError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Inventory,
				Requested:   it.Quantity,
			}
		}
	}
	for _, it := range order.Items {
		f.catalog.products[it.ProductID].Inventory -= it.Quantity
	}
	f.catalog.mu.Unlock()

	f.seq++
	order.ID = fmt.Sprintf("order-%d", f.seq)
	order.OrderNumber = fmt.Sprintf("ORD-TEST-%d", f.seq)
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	cp := *order
	f.orders[order.ID] = &cp

	return f.carts.Save(ctx, order.UserID, nil, 0)
}

func (f *fakeOrderStore) Get(_ context.Context, orderID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) GetByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	o, err := f.Get(ctx, orderID)
	if err != nil || o.UserID != userID {
		return nil, models.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderStore) GetByNumber(_ context.Context, userID, orderNumber string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.OrderNumber == orderNumber && o.UserID == userID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeOrderStore) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListAll(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, orderID string, from, to models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.OrderStatus != from {
		return models.ErrInvalidStatus
	}
	o.OrderStatus = to
	return nil
}

type fakeAddressStore struct {
	addresses map[string]map[string]models.Address
}

func newFakeAddressStore() *fakeAddressStore {
	return &fakeAddressStore{addresses: map[string]map[string]models.Address{}}
}

func (f *fakeAddressStore) put(userID string, a models.Address) {
	if f.addresses[userID] == nil {
		f.addresses[userID] = map[string]models.Address{}
	}
	f.addresses[userID][a.ID] = a
}

func (f *fakeAddressStore) GetAddress(_ context.Context, userID, addressID string) (*models.Address, error) {
	a, ok := f.addresses[userID][addressID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

type fakeCouponStore struct {
	mu      sync.Mutex
	coupons map[string]*models.Coupon
}

func newFakeCouponStore() *fakeCouponStore {
	return &fakeCouponStore{coupons: map[string]*models.Coupon{}}
}

func (f *fakeCouponStore) put(c models.Coupon) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.Code = strings.ToUpper(c.Code)
	f.coupons[c.Code] = &c
}

func (f *fakeCouponStore) GetActiveByCode(_ context.Context, code string) (*models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok || !c.IsActive {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCouponStore) ListActive(_ context.Context, now time.Time) ([]models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Coupon{}
	for _, c := range f.coupons {
		if c.IsActive && !now.Before(c.ValidFrom) && !now.After(c.ValidUntil) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCouponStore) Create(_ context.Context, c *models.Coupon) error {
	f.put(*c)
	return nil
}

func (f *fakeCouponStore) Update(_ context.Context, c *models.Coupon) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	for code, existing := range f.coupons {
		if (c.ID != "" && existing.ID == c.ID) || (c.ID == "" && code == c.Code) {
			delete(f.coupons, code)
			cp := *c
			f.coupons[c.Code] = &cp
			return code, nil
		}
	}
	return "", models.ErrNotFound
}

func (f *fakeCouponStore) Delete(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for code, c := range f.coupons {
		if c.ID == id {
			delete(f.coupons, code)
			return code, nil
		}
	}
	return "", models.ErrNotFound
}
