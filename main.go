package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"gestion-produit/internal/config"
	"gestion-produit/internal/database"
	"gestion-produit/internal/handlers"
	"gestion-produit/internal/repositories"
	"gestion-produit/internal/services"
	"gestion-produit/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- RabbitMQ (optional) ---
	// Catalog change events are published when a broker URL is configured;
	// with an empty URL the API runs standalone.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	app := fiber.New()
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(logger.New())

	api := app.Group("/api")

	// --- Storage & routes ---
	// The memory driver runs the product API without a database; the
	// relational drivers expose the full catalog, relations included.
	if cfg.DBDriver == "memory" {
		produitRepo := repositories.NewMemoryProduitRepository()
		produitService := services.NewProduitService(produitRepo, mqClient)
		handlers.NewProduitHandler(produitService).RegisterRoutes(api)
		log.Println("Running with in-memory storage; categories, fournisseurs and tags are disabled")
	} else {
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		produitRepo := repositories.NewGORMProduitRepository(db)
		categorieRepo := repositories.NewGORMCategorieRepository(db)
		fournisseurRepo := repositories.NewGORMFournisseurRepository(db)
		tagRepo := repositories.NewGORMTagRepository(db)

		produitService := services.NewProduitService(produitRepo, mqClient)

		handlers.NewProduitHandler(produitService).RegisterRoutes(api)
		handlers.NewCategorieHandler(categorieRepo).RegisterRoutes(api)
		handlers.NewFournisseurHandler(fournisseurRepo).RegisterRoutes(api)
		handlers.NewTagHandler(tagRepo).RegisterRoutes(api)
	}

	// --- Catalog event consumer ---
	// Logs the published catalog changes; a downstream system (inventory
	// sync, notifications) would plug in here.
	if mqClient != nil {
		if err := mqClient.ConsumeProduitEvents(func(msg amqp.Delivery) error {
			log.Printf("Catalog event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		}); err != nil {
			log.Printf("Failed to start catalog event consumer: %v", err)
		}
	}

	// --- Start HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
