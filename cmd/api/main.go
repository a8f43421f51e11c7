package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/joho/godotenv"

	"github.com/tahaql/ecommerce-api/internal/address"
	"github.com/tahaql/ecommerce-api/internal/cart"
	"github.com/tahaql/ecommerce-api/internal/category"
	"github.com/tahaql/ecommerce-api/internal/config"
	"github.com/tahaql/ecommerce-api/internal/event"
	"github.com/tahaql/ecommerce-api/internal/inventory"
	"github.com/tahaql/ecommerce-api/internal/order"
	"github.com/tahaql/ecommerce-api/internal/product"
	"github.com/tahaql/ecommerce-api/internal/user"
)

// main starts the API with in-memory storage: no postgres, no broker.
// Meant for local development and demos; data is lost on exit.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	seed := []product.Product{
		{ID: 1, Name: "Dog Food 5kg", Price: 24.90, Stock: 40, IsActive: true},
		{ID: 2, Name: "Cat Tower", Price: 89.00, Stock: 5, IsActive: true},
		{ID: 3, Name: "Hamster Wheel", Price: 12.50, Stock: 25, IsActive: true},
	}

	productRepo := product.NewInMemoryRepository(seed)
	ledger := inventory.NewMemoryLedger()
	for _, p := range seed {
		ledger.Set(p.ID, p.Name, p.Stock)
	}

	userService := user.NewService(user.NewInMemoryRepository(nil))
	userHandler := user.NewHandler(userService, cfg.JWTSecret)

	categoryHandler := category.NewHandler(category.NewService(category.NewInMemoryRepository(nil)))

	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	addressService := address.NewService(address.NewInMemoryRepository(nil))
	addressHandler := address.NewHandler(addressService)

	cartRepo := cart.NewInMemoryRepository(productRepo)
	cartService := cart.NewService(cartRepo, productService)
	cartHandler := cart.NewHandler(cartService)

	orderRepo := order.NewInMemoryRepository(cartRepo, productRepo, ledger)
	orderService := order.NewService(orderRepo, cartService, productService, addressService, event.NoopPublisher{})
	orderHandler := order.NewHandler(orderService)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	userHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	categoryHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	log.Printf("starting in-memory server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
