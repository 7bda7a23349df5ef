package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"edulearn-backend/handlers"
	"edulearn-backend/middleware"
	"edulearn-backend/models"
	"edulearn-backend/services"
	"edulearn-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // payment proof screenshots
	})

	// 🔐 GLOBAL: only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Module{},
		&models.Lesson{},
		&models.Quiz{},
		&models.Question{},
		&models.UserProgress{},
		&models.XPHistory{},
		&models.Payment{},
		&models.News{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	var rdb *redis.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL:", err)
		}
		rdb = redis.NewClient(opts)
	} else {
		log.Println("⚠️  REDIS_URL not set — leaderboard caching disabled")
	}

	xpConfig := services.DefaultXPConfig()
	planConfig := services.PlanConfig{
		MonthlyPrice: envInt64("MONTHLY_PRICE", 50000),
		YearlyPrice:  envInt64("YEARLY_PRICE", 500000),
		CardNumber:   os.Getenv("PAYMENT_CARD"),
		CardHolder:   os.Getenv("PAYMENT_HOLDER"),
		AdminContact: os.Getenv("ADMIN_USERNAME"),
	}

	userService := services.NewUserService(db)
	contentService := services.NewContentService(db)
	progressionService := services.NewProgressionService(db, xpConfig)
	quizService := services.NewQuizService(db, xpConfig, progressionService)
	paymentService := services.NewPaymentService(db, planConfig)
	leaderboardService := services.NewLeaderboardService(db, rdb)
	newsService := services.NewNewsService(db)

	paymentService.StartExpiryScheduler()

	handlers.SetupGamificationRoutes(app, progressionService, userService)
	handlers.SetupLessonRoutes(app, contentService, progressionService, userService)
	handlers.SetupQuizRoutes(app, quizService, userService)
	handlers.SetupPaymentRoutes(app, paymentService, userService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService, userService)
	handlers.SetupNewsRoutes(app, newsService, userService)
	handlers.SetupAdminRoutes(app, contentService, paymentService, userService)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Premium expiry scheduler running (daily at 09:00)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func envInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return v
}
