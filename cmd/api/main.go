package main

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mbognou/shop-backend/internal/brand"
	"github.com/mbognou/shop-backend/internal/category"
	"github.com/mbognou/shop-backend/internal/config"
	"github.com/mbognou/shop-backend/internal/event"
	"github.com/mbognou/shop-backend/internal/order"
	"github.com/mbognou/shop-backend/internal/payment"
	"github.com/mbognou/shop-backend/internal/product"
	"github.com/mbognou/shop-backend/internal/saveditem"
	"github.com/mbognou/shop-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := mustOpenDB(cfg.DatabaseURL, log)
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		log.Fatal("schema bootstrap failed", zap.Error(err))
	}
	seedCatalog(db, log)

	dispatcher := event.NewLogDispatcher(log.Named("notifications"), 256)
	defer dispatcher.Close()

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, cfg.JWTSecret)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	categoryRepo := category.NewPostgresRepository(db)
	categoryService := category.NewService(categoryRepo)
	categoryHandler := category.NewHandler(categoryService, productService)

	brandRepo := brand.NewPostgresRepository(db)
	brandService := brand.NewService(brandRepo)
	brandHandler := brand.NewHandler(brandService, productService)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, dispatcher, log.Named("orders"))
	orderHandler := order.NewHandler(orderService)

	paymentRepo := payment.NewPostgresRepository(db)
	paymentService := payment.NewService(paymentRepo, orderRepo, userRepo, payment.NewSimulatedGateways(), dispatcher, log.Named("payments"))
	paymentHandler := payment.NewHandler(paymentService)

	savedItemRepo := saveditem.NewPostgresRepository(db)
	savedItemService := saveditem.NewService(savedItemRepo, productRepo)
	savedItemHandler := saveditem.NewHandler(savedItemService)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// public surface
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	brandHandler.RegisterPublicRoutes(app)

	// everything below requires a valid token
	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	savedItemHandler.RegisterProtectedRoutes(app)

	admin := app.Group("", user.RequireAdmin)
	productHandler.RegisterAdminRoutes(admin)
	categoryHandler.RegisterAdminRoutes(admin)
	brandHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	paymentHandler.RegisterAdminRoutes(admin)

	log.Info("starting server", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func mustOpenDB(url string, log *zap.Logger) *sql.DB {
	if url == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		log.Fatal("could not open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("could not reach database", zap.Error(err))
	}
	return db
}
