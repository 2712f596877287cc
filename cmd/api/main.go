package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront.git/internal/config"
	"github.com/ariefcatur/go-storefront.git/internal/exchange"
	"github.com/ariefcatur/go-storefront.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront.git/internal/kafka"
	"github.com/ariefcatur/go-storefront.git/internal/postgres"
	"github.com/ariefcatur/go-storefront.git/internal/redisx"
	"github.com/ariefcatur/go-storefront.git/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis (exchange-rate side cache)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers: order lifecycle + stock changes
	pOrders := kafkax.NewProducer(cfg.KafkaBrokers, store.TopicOrderEvents, 1024)
	pOrders.Start(ctx)
	pStock := kafkax.NewProducer(cfg.KafkaBrokers, store.TopicStockEvents, 1024)
	pStock.Start(ctx)

	// Engine & collaborators
	svc := store.NewService(store.NewPG(db))
	rates := exchange.NewRateCache(
		exchange.NewClient(cfg.ExchangeURL, cfg.ExchangeAgency), rdb, cfg.RateTTL)

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Service:  svc,
		Rates:    rates,
		Producer: pOrders,
		Name:     cfg.ServiceName,
	}
	oh.Register(router)
	ph := &httpx.ProductsHandler{
		Service:  svc,
		Producer: pStock,
		Name:     cfg.ServiceName,
	}
	ph.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pOrders.Close() // close inboxes -> flush & close writers
	pStock.Close()
	pOrders.WaitClosed()
	pStock.WaitClosed()
}
