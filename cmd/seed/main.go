// Command seed loads the demo menu and launch coupons into the
// database. Existing products and coupons are left untouched.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pizza-storefront/internal/models"
	"pizza-storefront/internal/repository"
	"pizza-storefront/pkg/db"
)

var products = []models.Product{
	{Name: "Margherita", Description: "Classic delight with 100% real mozzarella cheese", Category: models.CategoryPizza, BasePrice: 199, IsVeg: true},
	{Name: "Farmhouse", Description: "Delightful combination of onion, capsicum, tomato & grilled mushroom", Category: models.CategoryPizza, BasePrice: 299, IsVeg: true},
	{Name: "Peppy Paneer", Description: "Chunky paneer with crisp capsicum and spicy red pepper", Category: models.CategoryPizza, BasePrice: 349, IsVeg: true},
	{Name: "Mexican Green Wave", Description: "Mexican herbs sprinkled on onion, capsicum, tomato & jalapeno", Category: models.CategoryPizza, BasePrice: 329, IsVeg: true},
	{Name: "Chicken Dominator", Description: "Double pepper barbecue chicken, peri-peri chicken, chicken tikka & grilled chicken rashers", Category: models.CategoryPizza, BasePrice: 499},
	{Name: "Pepper Barbecue Chicken", Description: "Pepper barbecue chicken, cheese and capsicum", Category: models.CategoryPizza, BasePrice: 429},

	{Name: "Garlic Breadsticks", Description: "Freshly baked breadsticks with garlic seasoning", Category: models.CategorySides, BasePrice: 99, IsVeg: true},
	{Name: "Cheesy Garlic Bread", Description: "Garlic bread topped with melted cheese", Category: models.CategorySides, BasePrice: 129, IsVeg: true},
	{Name: "Chicken Wings", Description: "Spicy chicken wings with dipping sauce", Category: models.CategorySides, BasePrice: 199},
	{Name: "French Fries", Description: "Crispy golden french fries", Category: models.CategorySides, BasePrice: 89, IsVeg: true},

	{Name: "Coca Cola (750ml)", Description: "The chilled refreshing taste of Coca Cola", Category: models.CategoryBeverages, BasePrice: 57, IsVeg: true},
	{Name: "Sprite (750ml)", Description: "Lime flavored sparkling drink", Category: models.CategoryBeverages, BasePrice: 57, IsVeg: true},
	{Name: "Minute Maid (1L)", Description: "Refreshing pulpy orange juice", Category: models.CategoryBeverages, BasePrice: 90, IsVeg: true},

	{Name: "Choco Lava Cake", Description: "Chocolate cake with gooey molten lava inside", Category: models.CategoryDesserts, BasePrice: 99, IsVeg: true},
	{Name: "Brownie Fantasy", Description: "Rich chocolate brownie topped with chocolate sauce", Category: models.CategoryDesserts, BasePrice: 119, IsVeg: true},
	{Name: "Vanilla Ice Cream Tub", Description: "Creamy vanilla ice cream tub", Category: models.CategoryDesserts, BasePrice: 79, IsVeg: true},
}

var coupons = []models.Coupon{
	{
		Code:           "MEGA50",
		Description:    "Get 50% off on orders above ₹500",
		DiscountType:   models.DiscountPercentage,
		DiscountValue:  50,
		MinOrderAmount: 500,
		MaxDiscount:    500,
	},
	{
		Code:           "WELCOME50",
		Description:    "Welcome offer - 50% off on your first order",
		DiscountType:   models.DiscountPercentage,
		DiscountValue:  50,
		MinOrderAmount: 300,
		MaxDiscount:    300,
	},
	{
		Code:          "FLAT100",
		Description:   "Flat ₹100 off, no minimum order",
		DiscountType:  models.DiscountFlat,
		DiscountValue: 100,
	},
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	conn, err := db.NewPostgresConnection(db.LoadPostgresConfig())
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer conn.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	productRepo := repository.NewProductRepo(conn)
	couponRepo := repository.NewCouponRepo(conn)

	if _, existing, err := productRepo.List(ctx, "", 1, 0); err != nil {
		log.Fatal("check products", zap.Error(err))
	} else if existing > 0 {
		log.Info("products already seeded", zap.Int("count", existing))
	} else {
		for i := range products {
			p := products[i]
			p.IsAvailable = true
			p.Inventory = 100
			p.MaxInventory = 100
			if err := productRepo.Create(ctx, &p); err != nil {
				log.Fatal("seed product", zap.String("name", p.Name), zap.Error(err))
			}
		}
		log.Info("products seeded", zap.Int("count", len(products)))
	}

	now := time.Now().UTC()
	for i := range coupons {
		c := coupons[i]
		c.ValidFrom = now
		c.ValidUntil = now.AddDate(1, 0, 0)
		c.IsActive = true
		if err := couponRepo.Create(ctx, &c); err != nil {
			// Duplicate codes mean the coupons are already there.
			log.Warn("seed coupon skipped", zap.String("code", c.Code), zap.Error(err))
		}
	}
	log.Info("seed complete")
}
