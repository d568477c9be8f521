package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"blogpost/internal/handlers"
	"blogpost/internal/middleware"
	"blogpost/internal/models"
	"blogpost/internal/repositories"
	"blogpost/internal/services"
	"blogpost/pkg/rabbitmq"
	"blogpost/pkg/uploads"
)

// loadConfig sets configuration defaults and pulls overrides from the
// environment (optionally via a .env file). All configuration is
// environment-supplied; there are no CLI flags.
func loadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("JWT_SECRET", "dev_secret_change_me")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()
}

// NewApp assembles the stores, services, handlers and routes into a Fiber
// app. mqClient may be nil, disabling post event publishing.
//
// Note: the /api/blogs routes are not behind AuthRequired. Post management
// is gated client-side only; the server accepts unauthenticated blog calls.
// That mirrors the documented behavior of this system and is not hardened
// here.
func NewApp(mqClient *rabbitmq.Client) (*fiber.App, error) {
	var userRepo repositories.UserRepository
	var postRepo repositories.PostRepository

	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
			return nil, err
		}
		userRepo = repositories.NewGORMUserRepository(db)
		postRepo = repositories.NewGORMPostRepository(db)
	} else {
		log.Println("DATABASE_DSN not set, using in-memory stores")
		userRepo = repositories.NewMemoryUserRepository()
		postRepo = repositories.NewMemoryPostRepository()
	}

	uploadStore, err := uploads.NewDiskStore(viper.GetString("UPLOAD_DIR"), "/uploads")
	if err != nil {
		return nil, err
	}

	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))
	postService := services.NewPostService(postRepo, uploadStore, mqClient)

	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService)

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // uploads may be large
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     viper.GetString("ALLOWED_ORIGINS"),
		AllowCredentials: true,
	}))

	// Serve uploaded images from the upload area.
	app.Static("/uploads", uploadStore.Dir())

	api := app.Group("/api")
	authHandler.RegisterRoutes(api, middleware.AuthRequired(authService))
	postHandler.RegisterRoutes(api)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, nil
}

func main() {
	loadConfig()

	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, post event publishing disabled")
	}

	app, err := NewApp(mqClient)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on %s", appPort)

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
