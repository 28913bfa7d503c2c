package main // Entry point for the locker service

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rentle/smart-locker/internal/config"
	"github.com/rentle/smart-locker/internal/database"
	"github.com/rentle/smart-locker/internal/handler"
	"github.com/rentle/smart-locker/internal/hub"
	"github.com/rentle/smart-locker/internal/queue"
	"github.com/rentle/smart-locker/internal/repository"
	"github.com/rentle/smart-locker/internal/router"
	"github.com/rentle/smart-locker/internal/service"
)

func main() {
	// .env is a dev convenience; in prod the environment is already set
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and catalog cache disabled")
	}

	bookings := repository.NewBookingRepo(db)
	lockers := repository.NewLockerRepo(db)
	openLogs := repository.NewOpenLogRepo(db)
	settings := repository.NewSettingsRepo(db)
	products := repository.NewProductRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	hubClient := hub.NewClient()

	unlockSvc := &service.UnlockService{
		Bookings: bookings,
		Lockers:  lockers,
		Audit:    openLogs,
		Settings: settings,
		Hub:      hubClient,
		Publish:  service.PublishLockerOpened,
	}
	hubSvc := &service.HubService{
		Lockers:  lockers,
		Audit:    openLogs,
		Settings: settings,
		Hub:      hubClient,
		Publish:  service.PublishLockerOpened,
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	router.RegisterBase(e)
	router.RegisterAuth(e, handler.NewAuthHandler(users, tokens, cfg), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewCatalogHandler(products), config.LoadCacheConfig(), rdb)
	router.RegisterUnlock(e, handler.NewUnlockHandler(unlockSvc), cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)
	router.RegisterAdmin(e, handler.NewHubHandler(hubSvc), handler.NewAdminLockerHandler(lockers, openLogs), cfg.JWTSecret, users)

	// background consumer mirrors open events into logs/locker.log
	go func() {
		if err := queue.StartLockerConsumer(); err != nil {
			log.Printf("locker consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
