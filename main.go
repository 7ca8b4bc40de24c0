package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/cart"
	"github.com/ronitchordiya/Flint-and-Flour/checkout"
	"github.com/ronitchordiya/Flint-and-Flour/config"
	"github.com/ronitchordiya/Flint-and-Flour/database"
	"github.com/ronitchordiya/Flint-and-Flour/gateway"
	"github.com/ronitchordiya/Flint-and-Flour/handlers"
	"github.com/ronitchordiya/Flint-and-Flour/kafka"
	"github.com/ronitchordiya/Flint-and-Flour/mailer"
	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

const serviceName = "flintandflours-api"

func main() {
	_ = godotenv.Load()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()

	// Initialize OpenTelemetry
	shutdownTracing, err := middleware.InitTracing(serviceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing()

	// Initialize database
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase, logger)
	cancelConnect()
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Disconnect(context.Background())

	if err := database.SeedProducts(context.Background(), db.Products, logger); err != nil {
		logger.Fatal("Failed to seed products", zap.Error(err))
	}

	// Kafka is optional; without brokers checkout events are skipped.
	var events checkout.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewPublisher(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
		}
		defer producer.Close()
		events = producer
	} else {
		logger.Warn("KAFKA_BROKERS not set, event publishing disabled")
	}

	stripeGateway := gateway.NewStripe(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	razorpayGateway := gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	mail := mailer.New(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.FrontendBaseURL, logger)

	catalog := pricing.DefaultCatalog()
	carts := cart.NewAssembler(db.Products, catalog)

	checkoutRouter := checkout.NewRouter(checkout.Deps{
		Catalog:      catalog,
		Carts:        carts,
		Transactions: db.Transactions,
		Orders:       db.Orders,
		Hosted:       stripeGateway,
		OrderConfirm: razorpayGateway,
		Events:       events,
		Notifier:     mail,
		Logger:       logger,
	})

	jwtSecret := []byte(cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(db.Users, mail, catalog, jwtSecret, logger)
	userHandler := handlers.NewUserHandler(db.Users, catalog, logger)
	productHandler := handlers.NewProductHandler(db.Products, catalog, logger)
	cartHandler := handlers.NewCartHandler(carts, catalog, logger)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutRouter, stripeGateway, catalog, cfg.FrontendBaseURL, logger)
	orderHandler := handlers.NewOrderHandler(db.Orders, mail, events, logger)
	adminHandler := handlers.NewAdminHandler(db.Users, db.Products, db.Transactions, db.Orders, logger)

	// Setup REST API with Gin
	router := gin.New()
	router.Use(gin.Recovery())
	// OpenTelemetry middleware must be first to extract trace context
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())

	// Health check endpoint
	router.GET("/health", handlers.Health)

	// Metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	authRequired := middleware.AuthRequired(jwtSecret, db.Users, logger)

	api := router.Group("/api")
	{
		api.GET("/health", handlers.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/verify-email", authHandler.VerifyEmail)
			auth.POST("/reset-password", authHandler.RequestPasswordReset)
			auth.POST("/reset-password-confirm", authHandler.ConfirmPasswordReset)
		}

		user := api.Group("/user", authRequired)
		{
			user.GET("/profile", userHandler.GetProfile)
			user.PUT("/profile", userHandler.UpdateProfile)
		}

		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)

		api.POST("/cart/price", cartHandler.Price)
		api.GET("/delivery-info", cartHandler.DeliveryInfo)

		api.POST("/checkout/session", authRequired, checkoutHandler.CreateSession)
		api.GET("/checkout/status/:transactionId", authRequired, checkoutHandler.Status)
		api.POST("/payment/verify", authRequired, checkoutHandler.VerifyPayment)
		api.POST("/webhooks/stripe", checkoutHandler.StripeWebhook)

		orders := api.Group("/orders", authRequired)
		{
			orders.GET("", orderHandler.ListMine)
			orders.GET("/:id", orderHandler.Get)
		}

		admin := api.Group("/admin", authRequired, middleware.AdminRequired())
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/orders", orderHandler.ListAll)
			admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start REST server
	go func() {
		logger.Info("Starting REST server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start REST server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
