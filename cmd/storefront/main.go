package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/capture"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/checkout"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/config"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/events"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/gateway"
	h "github.com/RakeshAlgot-Hub/jewellery-inventory/internal/http"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/store"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/pkg/circuitbreaker"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer closeStore()

	cart := store.NewCartStore(ctx, kv, log.Named("cart"))
	wishlist := store.NewWishlistStore(ctx, kv, log.Named("wishlist"))
	log.Info("stores restored",
		zap.String("backend", cfg.Storage.Backend),
		zap.Int("cart_items", cart.ItemCount()),
		zap.Int("wishlist_items", wishlist.Count()))

	gw, err := gateway.NewClient(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		Timeout: cfg.Gateway.Timeout,
		Breaker: circuitbreaker.Settings{
			MaxFailures: cfg.Gateway.BreakerMaxFailures,
			OpenTimeout: cfg.Gateway.BreakerOpenTimeout,
		},
	}, log.Named("gateway"))
	if err != nil {
		return err
	}
	catalog := gateway.NewCatalog(gw)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var publisher events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
		defer func() { _ = kafkaPublisher.Close() }()
		publisher = kafkaPublisher
		log.Info("publishing settlement events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	relay := capture.NewRelay()
	orchestrator := checkout.NewOrchestrator(cart, gw, relay, checkout.Config{
		MerchantKey: cfg.Checkout.MerchantKey,
		Currency:    cfg.Checkout.Currency,
		MinorUnits:  cfg.Checkout.MinorUnits,
	},
		checkout.WithLogger(log.Named("checkout")),
		checkout.WithMetrics(checkout.NewMetrics(registry)),
		checkout.WithPublisher(publisher),
	)

	router := h.NewRouter(h.RouterConfig{
		Cart:               h.NewCartHandler(cart, catalog, orchestrator, requestTimeout),
		Wishlist:           h.NewWishlistHandler(wishlist, catalog, requestTimeout),
		Checkout:           h.NewCheckoutHandler(ctx, orchestrator, relay, requestTimeout, log.Named("http")),
		Products:           h.NewProductHandler(catalog, requestTimeout),
		Metrics:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		Logger:             log.Named("http"),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("storefront starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	// Graceful shutdown; cancelling ctx above also ends a checkout waiting on capture
	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	orchestrator.Wait()

	log.Info("server exited")
	return nil
}
