package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/cache"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/config"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/guestcart"
	h "github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/http"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/notify"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/publisher"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/repository"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/service"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	repo, err := repository.NewRepository(&cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer repo.Close()
	log.Printf("Connected to postgres at %s:%d", cfg.Postgres.Host, cfg.Postgres.Port)

	if err := repo.RunMigrations(&cfg.Postgres); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	events := publisher.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer events.Close()

	notifier := notify.NewLogNotifier()
	guestStore := guestcart.NewStore(redisClient, notifier)
	orderCache := cache.NewRedisCache(redisClient)

	cartService := service.NewCartService(repo, repo, notifier)
	reconciler := service.NewReconciler(guestStore, repo, notifier)
	checkoutService := service.NewCheckoutService(cartService, repo, repo, events, orderCache, notifier)

	cartHandler := h.NewCartHandler(cartService, reconciler)
	guestHandler := h.NewGuestCartHandler(guestStore, repo)
	checkoutHandler := h.NewCheckoutHandler(checkoutService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.MockAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
			r.Post("/merge", cartHandler.MergeCart)
		})
		r.Route("/guest/cart", func(r chi.Router) {
			r.Get("/", guestHandler.GetCart)
			r.Delete("/", guestHandler.ClearCart)
			r.Post("/items", guestHandler.AddItem)
			r.Put("/items/{item_id}", guestHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", guestHandler.RemoveItem)
		})
		r.Post("/checkout", checkoutHandler.PlaceOrder)
		r.Get("/orders", checkoutHandler.ListOrders)
		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", checkoutHandler.ListAddresses)
			r.Post("/shipping", checkoutHandler.AddShippingAddress)
			r.Post("/billing", checkoutHandler.AddBillingAddress)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
