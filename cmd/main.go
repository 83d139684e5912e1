package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"order-dashboard/internal/api"
	"order-dashboard/internal/config"
	"order-dashboard/internal/courier"
	"order-dashboard/internal/repository"
	"order-dashboard/internal/service"
	"order-dashboard/migrations"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("✅ Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("❌ Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	db, err := connectDBEnv(
		envOr("DB_HOST", "127.0.0.1"),
		envOr("DB_PORT", "3306"),
		envOr("DB_USER", "root"),
		os.Getenv("DB_PASS"),
		envOr("DB_NAME", "order-dashboard-db"),
	)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_ADDR", "localhost:6379"),
	})

	kafkaWriter := config.NewKafkaWriter("order-events")

	pathaoClient := courier.NewClient(courier.Config{
		BaseURL:      envOr("PATHAO_BASE_URL", "https://api-hermes.pathao.com"),
		ClientID:     os.Getenv("PATHAO_CLIENT_ID"),
		ClientSecret: os.Getenv("PATHAO_CLIENT_SECRET"),
		Username:     os.Getenv("PATHAO_USERNAME"),
		Password:     os.Getenv("PATHAO_PASSWORD"),
	}, &http.Client{Timeout: 30 * time.Second})

	jwtSecret := []byte(envOr("JWT_SECRET", "secret"))

	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	userRepo := repository.NewUserRepository(db)

	productService := service.NewProductService(productRepo, rdb)
	customerService := service.NewCustomerService(customerRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, customerRepo, kafkaWriter, rdb)
	batchService := service.NewBatchService(batchRepo)
	userService := service.NewUserService(userRepo, rdb, jwtSecret)
	courierService := service.NewCourierService(orderRepo, pathaoClient)

	productHandler := api.NewProductHandler(productService)
	customerHandler := api.NewCustomerHandler(customerService)
	orderHandler := api.NewOrderHandler(orderService)
	batchHandler := api.NewBatchHandler(batchService)
	userHandler := api.NewUserHandler(userService)
	courierHandler := api.NewCourierHandler(courierService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.POST("/users/login", userHandler.Login)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "order-dashboard",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Everything past this point requires a valid token. The claims type
	// must match what UserService.Login signs so role gating works.
	jwtConfig := echojwt.Config{
		SigningKey: jwtSecret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.JwtCustomClaims)
		},
	}

	auth := e.Group("", echojwt.WithConfig(jwtConfig))

	auth.GET("/users/validate", userHandler.ValidateSession)
	auth.POST("/users/logout", userHandler.Logout)
	auth.POST("/users", userHandler.CreateUser, api.AdminOnly)

	auth.GET("/products", productHandler.ListProducts)
	auth.GET("/products/warmup-cache", productHandler.PreWarmCache)
	auth.GET("/products/:id", productHandler.GetProduct)
	auth.POST("/products", productHandler.CreateProduct)
	auth.PUT("/products/:id", productHandler.UpdateProduct)
	auth.DELETE("/products/:id", productHandler.DeleteProduct, api.AdminOnly)

	auth.GET("/customers", customerHandler.ListCustomers)
	auth.GET("/customers/:id", customerHandler.GetCustomer)
	auth.POST("/customers", customerHandler.CreateCustomer)
	auth.PUT("/customers/:id", customerHandler.UpdateCustomer)
	auth.DELETE("/customers/:id", customerHandler.DeleteCustomer, api.AdminOnly)

	auth.GET("/orders", orderHandler.ListOrders)
	auth.GET("/orders/:id", orderHandler.GetOrder)
	auth.POST("/orders", orderHandler.CreateOrder)
	auth.PUT("/orders/:id", orderHandler.UpdateOrder)
	auth.DELETE("/orders/:id", orderHandler.DeleteOrder, api.AdminOnly)

	auth.GET("/batches", batchHandler.ListBatches)
	auth.GET("/batches/:id", batchHandler.GetBatch)
	auth.POST("/batches", batchHandler.CreateBatch)
	auth.PUT("/batches/:id", batchHandler.UpdateBatch)
	auth.DELETE("/batches/:id", batchHandler.DeleteBatch, api.AdminOnly)

	auth.POST("/orders/:id/courier", courierHandler.BookOrder)
	auth.POST("/orders/:id/courier/sync", courierHandler.SyncOrder)

	e.Logger.Fatal(e.Start(":8080"))
}
