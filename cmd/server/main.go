package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/raniadwi/recycle-market/internal/config"
	"github.com/raniadwi/recycle-market/internal/database"
	"github.com/raniadwi/recycle-market/internal/handler"
	"github.com/raniadwi/recycle-market/internal/middleware"
	"github.com/raniadwi/recycle-market/internal/queue"
	"github.com/raniadwi/recycle-market/internal/repository"
	"github.com/raniadwi/recycle-market/internal/router"
	"github.com/raniadwi/recycle-market/internal/uploader"
)

func main() {
	_ = godotenv.Load() // optional .env; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when unreachable; cache/limiter degrade to no-ops
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	accounts := repository.NewAccountRepo(db)
	products := repository.NewProductRepo(db)
	uploads := uploader.New(cfg.UploadURL, cfg.UploadPreset, cfg.UploadFolder)
	events := queue.NewPublisher(cfg.AMQPURL)

	authHandler := handler.NewAuthHandler(cfg, accounts, events)
	productHandler := handler.NewProductHandler(products, uploads, events)

	authn := middleware.Authenticate(cfg.JWTSecret, accounts)
	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.CacheResponse(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, authn, limiter)
	router.RegisterProducts(e, productHandler, authn, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
