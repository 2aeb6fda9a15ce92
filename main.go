package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"katalog/internal/handlers"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/internal/storage"
	"katalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "katalog.db")
	viper.SetDefault("MEDIA_ROOT", "./media")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables catalog events
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	mediaRoot := viper.GetString("MEDIA_ROOT")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DATABASE_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Tag{},
		&models.Product{},
		&models.Variant{},
		&models.ProductImage{},
		&models.ProductVideo{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Media storage ---
	store := storage.NewFileStore(afero.NewOsFs(), mediaRoot)

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}
	var events services.CatalogEventPublisher
	if mqClient != nil {
		events = mqClient
	}

	// --- Initialize Repositories ---
	tagRepo := repositories.NewGORMTagRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	variantRepo := repositories.NewGORMVariantRepository(db)
	mediaRepo := repositories.NewGORMMediaRepository(db)

	// --- Initialize Services ---
	tagService := services.NewTagService(tagRepo)
	productService := services.NewProductService(productRepo, tagRepo, variantRepo, events)
	variantService := services.NewVariantService(variantRepo, productRepo, store)
	mediaService := services.NewMediaService(mediaRepo, productRepo, store)

	// --- Initialize Handlers ---
	tagHandler := handlers.NewTagHandler(tagService)
	productHandler := handlers.NewProductHandler(productService)
	variantHandler := handlers.NewVariantHandler(variantService)
	mediaHandler := handlers.NewMediaHandler(mediaService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	tagHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	variantHandler.RegisterRoutes(apiV1)
	mediaHandler.RegisterRoutes(apiV1)

	// Stored media files are served straight from the media root.
	app.Static("/media", mediaRoot)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Catalog Event Consumer ---
	// Downstream processing (search indexing, cache busting) hangs off
	// the same queue; here we only log what passes through.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for catalog events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received catalog event %s: %s", msg.RoutingKey, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeCatalogEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
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

// openDatabase opens the configured database. SQLite keeps local
// development and tests dependency-free; PostgreSQL is for deployment.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
}
