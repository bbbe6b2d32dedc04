package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fooddelivery/cmd"
	"fooddelivery/internal/adapters/out/gateway"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/rabbitmq"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	gatewayClient, err := gateway.NewClient(gateway.Config{
		BaseURL: configs.PaymentGatewayURL,
		KeyID:   configs.PaymentGatewayKeyID,
		Secret:  configs.PaymentGatewaySecret,
		Timeout: configs.PaymentGatewayTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to configure payment gateway: %v", err)
	}

	publisher, err := rabbitmq.NewNotificationPublisher(configs.RabbitMQURL, configs.NotificationExchange)
	if err != nil {
		log.Fatalf("Failed to connect to notification broker: %v", err)
	}
	defer publisher.Close()

	app, err := cmd.NewCompositionRoot(configs, gormDB, gatewayClient, publisher)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	jobManager := app.CreateJobManager(logger)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded, using process environment: %v", err)
	}

	config := cmd.Config{
		HTTPPort:               os.Getenv("HTTP_PORT"),
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 os.Getenv("DB_PORT"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBSslMode:              os.Getenv("DB_SSLMODE"),
		PaymentGatewayURL:      os.Getenv("PAYMENT_GATEWAY_URL"),
		PaymentGatewayKeyID:    os.Getenv("PAYMENT_GATEWAY_KEY_ID"),
		PaymentGatewaySecret:   os.Getenv("PAYMENT_GATEWAY_SECRET"),
		PaymentGatewayTimeout:  durationVariable("PAYMENT_GATEWAY_TIMEOUT", gateway.DefaultTimeout),
		RabbitMQURL:            os.Getenv("RABBITMQ_URL"),
		NotificationExchange:   os.Getenv("NOTIFICATION_EXCHANGE"),
		AcceptanceWindow:       durationVariable("ASSIGNMENT_ACCEPTANCE_WINDOW", time.Minute),
		MaxProposals:           intVariable("ASSIGNMENT_MAX_PROPOSALS", 3),
		RiderMaxActiveOrders:   intVariable("RIDER_MAX_ACTIVE_ORDERS", 1),
		DispatchRadiusMeters:   floatVariable("DISPATCH_SEARCH_RADIUS_METERS", 5000),
		DispatchCandidateLimit: intVariable("DISPATCH_CANDIDATE_LIMIT", 20),
		DispatchBatchSize:      intVariable("DISPATCH_BATCH_SIZE", 50),
		GeoQueryTimeout:        durationVariable("GEO_QUERY_TIMEOUT", 3*time.Second),
		ExpiryBatchSize:        intVariable("PROPOSAL_EXPIRY_BATCH", 100),
		NotificationRelayBatch: intVariable("NOTIFICATION_RELAY_BATCH", 100),
	}
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}
	return config
}

func durationVariable(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s %q: %v", key, raw, err)
	}
	return d
}

func intVariable(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s %q: %v", key, raw, err)
	}
	return v
}

func floatVariable(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Invalid %s %q: %v", key, raw, err)
	}
	return v
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func startWebServer(app cmd.CompositionRoot, port string) {
	server, err := app.CreateHTTPServer(context.Background())
	if err != nil {
		log.Fatalf("Failed to build HTTP server: %v", err)
	}

	e := echo.New()
	e.Use(middleware.Recover())
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	server.RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
