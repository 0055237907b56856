package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pizza-storefront/internal/api"
	"pizza-storefront/internal/api/middleware"
	"pizza-storefront/internal/cache"
	"pizza-storefront/internal/config"
	"pizza-storefront/internal/repository"
	"pizza-storefront/internal/scheduler"
	"pizza-storefront/internal/service"
	"pizza-storefront/pkg/db"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load()

	conn, err := db.NewPostgresConnection(db.LoadPostgresConfig())
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer conn.Close()

	if err := db.Migrate(context.Background(), conn); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	var couponCache cache.CouponCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, time.Minute)
		if err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		defer func() { _ = redisCache.Close() }()
		couponCache = redisCache
		log.Info("coupon cache backed by redis")
	} else {
		couponCache = cache.NewMemoryCache(time.Minute)
	}

	productRepo := repository.NewProductRepo(conn)
	cartRepo := repository.NewCartRepo(conn)
	couponRepo := repository.NewCouponRepo(conn)
	orderRepo := repository.NewOrderRepo(conn, productRepo, cartRepo)
	userRepo := repository.NewUserRepo(conn)

	couponSvc := service.NewCouponService(couponRepo, couponCache, log)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, userRepo, couponSvc, service.Pricing{
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		DeliveryCharge:        cfg.DeliveryCharge,
		DeliveryETA:           cfg.DeliveryETA,
	}, log)
	accountSvc := service.NewAccountService(userRepo)

	handler := api.NewRouter(api.Deps{
		Products: productRepo,
		Sessions: userRepo,
		Accounts: accountSvc,
		Cart:     cartSvc,
		Orders:   orderSvc,
		Coupons:  couponSvc,
		Log:      log,
	})

	r := chi.NewRouter()
	r.Use(middleware.Logger(log))
	r.Mount("/", handler)

	// Daily end-of-day inventory reset, owned by the process lifecycle.
	reset := scheduler.NewInventoryReset(productRepo, log, cfg.ResetHour, cfg.ResetMinute)
	reset.Start()
	defer reset.Stop()

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("http shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	log.Info("starting pizza-storefront", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("listen", zap.Error(err))
	}

	<-idleConnsClosed
	log.Info("server stopped")
}
