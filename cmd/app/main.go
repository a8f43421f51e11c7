package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/tahaql/ecommerce-api/internal/address"
	"github.com/tahaql/ecommerce-api/internal/cart"
	"github.com/tahaql/ecommerce-api/internal/category"
	"github.com/tahaql/ecommerce-api/internal/config"
	"github.com/tahaql/ecommerce-api/internal/event"
	"github.com/tahaql/ecommerce-api/internal/order"
	"github.com/tahaql/ecommerce-api/internal/product"
	"github.com/tahaql/ecommerce-api/internal/user"
)

// main wires dependencies and starts the HTTP server against postgres.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	var publisher event.Publisher = event.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := event.NewAMQPPublisher(cfg.AMQPURL, "orders.exchange")
		if err != nil {
			log.Printf("event publisher unavailable, continuing without it: %v", err)
		} else {
			publisher = amqpPublisher
			defer amqpPublisher.Close()
		}
	}

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, cfg.JWTSecret)

	categoryHandler := category.NewHandler(category.NewService(category.NewPostgresRepository(db)))

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	addressService := address.NewService(address.NewPostgresRepository(db))
	addressHandler := address.NewHandler(addressService)

	cartService := cart.NewService(cart.NewPostgresRepository(db), productService)
	cartHandler := cart.NewHandler(cartService)

	orderService := order.NewService(order.NewPostgresRepository(db), cartService, productService, addressService, publisher)
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

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func mustOpenDB(url string) *sql.DB {
	if url == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

// ensureSchema creates missing tables on startup. The CHECK on
// products.stock is a backstop: the inventory ledger's conditional
// update should already make a negative counter impossible.
func ensureSchema(db *sql.DB) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			"firstName" TEXT NOT NULL,
			"lastName" TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'CUSTOMER',
			"createdAt" TIMESTAMPTZ NOT NULL DEFAULT now(),
			"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC NOT NULL DEFAULT 0,
			stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
			"isActive" BOOLEAN NOT NULL DEFAULT true,
			"categoryId" INT REFERENCES categories (id),
			"createdAt" TIMESTAMPTZ NOT NULL DEFAULT now(),
			"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS addresses (
			id SERIAL PRIMARY KEY,
			"userId" INT NOT NULL REFERENCES users (id),
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT,
			"zipCode" TEXT NOT NULL,
			country TEXT NOT NULL,
			"isDefault" BOOLEAN NOT NULL DEFAULT false
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			id SERIAL PRIMARY KEY,
			"userId" INT NOT NULL REFERENCES users (id),
			"productId" INT NOT NULL REFERENCES products (id),
			quantity INT NOT NULL CHECK (quantity > 0),
			UNIQUE ("userId", "productId")
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			"orderNumber" TEXT NOT NULL UNIQUE,
			"userId" INT NOT NULL REFERENCES users (id),
			status TEXT NOT NULL,
			"totalAmount" NUMERIC NOT NULL,
			"addressId" INT REFERENCES addresses (id),
			notes TEXT,
			"createdAt" TIMESTAMPTZ NOT NULL DEFAULT now(),
			"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			"orderId" INT NOT NULL REFERENCES orders (id),
			"productId" INT NOT NULL REFERENCES products (id),
			quantity INT NOT NULL,
			price NUMERIC NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id SERIAL PRIMARY KEY,
			"orderId" INT NOT NULL REFERENCES orders (id),
			amount NUMERIC NOT NULL,
			method TEXT NOT NULL,
			status TEXT NOT NULL,
			"transactionId" TEXT,
			"createdAt" TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
