package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hotel-operations/internal/analytics"
	"github.com/iliyamo/hotel-operations/internal/billing"
	"github.com/iliyamo/hotel-operations/internal/config"
	"github.com/iliyamo/hotel-operations/internal/database"
	"github.com/iliyamo/hotel-operations/internal/handler"
	"github.com/iliyamo/hotel-operations/internal/middleware"
	"github.com/iliyamo/hotel-operations/internal/queue"
	"github.com/iliyamo/hotel-operations/internal/repository"
	"github.com/iliyamo/hotel-operations/internal/router"
	"github.com/iliyamo/hotel-operations/internal/seed"
)

func main() {
	// Load .env when present so local runs do not need exported variables.
	// Missing files are fine; production injects real environment values.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Open MySQL and bring the schema up to date before serving traffic.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Optional demo data for fresh environments, gated by SEED_DEMO_DATA.
	if seed.Enabled() {
		if err := seed.Run(context.Background(), db, cfg); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	// Redis backs the response cache and the rate limiter.  A nil client
	// disables both; the middlewares degrade to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	// Repositories share the single connection pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	customers := repository.NewCustomerRepo(db)
	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)
	ledger := repository.NewTransactionRepo(db)
	items := repository.NewServiceItemRepo(db)
	orders := repository.NewServiceOrderRepo(db)

	engine := billing.NewEngine(reservations, orders, ledger)
	reporter := analytics.NewReporter(engine, reservations, rooms, customers, orders)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	customerH := handler.NewCustomerHandler(customers)
	roomH := handler.NewRoomHandler(rooms)
	reservationH := handler.NewReservationHandler(reservations, rooms, customers, engine)
	transactionH := handler.NewTransactionHandler(ledger, reservations)
	roomServiceH := handler.NewRoomServiceHandler(items, orders, reservations)
	billingH := handler.NewBillingHandler(engine, reservations, rooms, customers, orders, ledger)
	analyticsH := handler.NewAnalyticsHandler(reporter)

	e := echo.New() // Create Echo instance
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(rlCfg, rdb))

	cache := middleware.NewRedisCache(cacheCfg, rdb)

	router.RegisterRoutes(e)                     // health check
	router.RegisterAuth(e, authH, cfg.JWTSecret) // auth + /v1/me
	router.RegisterStaff(e, customerH, roomH, reservationH, transactionH, roomServiceH, billingH, cfg.JWTSecret, cache)
	router.RegisterAdmin(e, roomH, roomServiceH, analyticsH, cfg.JWTSecret, cache)

	// The billing consumer drains settled-bill events into the audit log.
	// It reconnects on its own, so a missing broker never blocks startup.
	go func() {
		if err := queue.StartBillingConsumer(); err != nil {
			log.Printf("billing consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	srv := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("server stopped")
}
