package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dashboard-service/api"
	"dashboard-service/cache"
	"dashboard-service/config"
	"dashboard-service/fetcher"
	"dashboard-service/metrics"
	"dashboard-service/worker"
)

func main() {
	log.Println("Starting Dashboard Service...")

	cfg := config.Load()
	metrics.Init("dashboard-service", "1.0")

	// Connect to MongoDB when configured. Connection failures are not fatal:
	// the cache store falls back to its in-memory backend.
	var db *mongo.Database
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Printf("Failed to connect to MongoDB, continuing with in-memory cache: %v", err)
		} else {
			defer mongoClient.Disconnect(context.Background())
			db = mongoClient.Database("dashboarddb")
			log.Println("Connected to MongoDB")
		}
	}

	// Connect to NATS when configured. Without it, refresh events and remote
	// triggers are simply disabled.
	var nc *nats.Conn
	if cfg.NATSUrl != "" {
		conn, err := nats.Connect(cfg.NATSUrl)
		if err != nil {
			log.Printf("Failed to connect to NATS, continuing without refresh events: %v", err)
		} else {
			defer conn.Close()
			nc = conn
			log.Println("Connected to NATS")
		}
	}

	store := cache.NewStore(db)
	f := fetcher.NewFetcher(cfg)
	w := worker.NewWorker(cfg, store, f, nc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping...")
		cancel()
	}()

	// Query surface
	go api.StartServer(cfg, api.NewDashboardHandler(store, f, w))

	// Refresh scheduler, blocks until shutdown
	log.Println("Dashboard service is running...")
	if err := w.Start(ctx); err != nil && err != context.Canceled {
		log.Fatal("Worker failed:", err)
	}

	log.Println("Dashboard service stopped")
}
