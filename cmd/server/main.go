package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ovale/guia-negocios/internal/config"
	"github.com/ovale/guia-negocios/internal/database"
	"github.com/ovale/guia-negocios/internal/handler"
	"github.com/ovale/guia-negocios/internal/imagehost"
	"github.com/ovale/guia-negocios/internal/middleware"
	"github.com/ovale/guia-negocios/internal/queue"
	"github.com/ovale/guia-negocios/internal/repository"
	"github.com/ovale/guia-negocios/internal/router"
)

func main() {
	// .env is a local convenience; in deployed environments the variables
	// come from the process environment and the file is absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the one pool.
	users := repository.NewUserRepo(db)
	cities := repository.NewCityRepo(db)
	neighborhoods := repository.NewNeighborhoodRepo(db)
	categories := repository.NewCategoryRepo(db)
	subCategories := repository.NewSubCategoryRepo(db)
	businesses := repository.NewBusinessRepo(db)
	favorites := repository.NewFavoriteRepo(db)

	images := imagehost.New(cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret)

	// Redis is optional: a nil client turns caching and rate limiting
	// into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	protect := middleware.Protect(cfg.JWTSecret, users)

	e := echo.New()
	e.HideBanner = true

	router.RegisterHealth(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), protect)
	router.RegisterCities(e, handler.NewCityHandler(cities, images), protect, limiter, cache)
	router.RegisterNeighborhoods(e, handler.NewNeighborhoodHandler(neighborhoods, cities), protect, limiter, cache)
	router.RegisterCategories(e, handler.NewCategoryHandler(categories, images), protect, limiter, cache)
	router.RegisterSubCategories(e, handler.NewSubCategoryHandler(subCategories, categories, images), protect, limiter, cache)
	router.RegisterBusinesses(e,
		handler.NewBusinessHandler(businesses, cities, neighborhoods, categories, subCategories, images),
		protect, limiter, cache)
	router.RegisterFavorites(e, handler.NewFavoriteHandler(favorites, businesses), protect)

	// Background consumer; runs its own reconnect loop for the process
	// lifetime.
	go func() {
		if err := queue.StartListingConsumer(); err != nil {
			log.Printf("listing consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
