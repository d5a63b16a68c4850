package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/config"
	"github.com/iliyamo/hall-venue-booking/internal/database"
	"github.com/iliyamo/hall-venue-booking/internal/handler"
	"github.com/iliyamo/hall-venue-booking/internal/middleware"
	"github.com/iliyamo/hall-venue-booking/internal/notify"
	"github.com/iliyamo/hall-venue-booking/internal/queue"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
	"github.com/iliyamo/hall-venue-booking/internal/router"
	"github.com/iliyamo/hall-venue-booking/internal/service"
	"github.com/iliyamo/hall-venue-booking/internal/timeslot"
	"github.com/iliyamo/hall-venue-booking/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()
	loc := utils.LoadLocation(cfg.Timezone)
	codec := timeslot.New(cfg.SlotMinutes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()

	var telegram *notify.Telegram
	if cfg.Telegram.Enabled {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChannelID, cfg.Telegram.Timeout)
		if err != nil {
			log.Printf("telegram disabled: %v", err)
		} else {
			telegram = tg
		}
	}

	var notifier booking.Notifier = booking.NopNotifier{}
	switch {
	case cfg.AMQPURL != "":
		notifier = service.NewQueuePublisher(cfg.AMQPURL)
	case telegram != nil:
		notifier = notify.Notifier{Channel: telegram}
	}

	if cfg.NotifyConsumer && cfg.AMQPURL != "" {
		h := &queue.DecisionHandler{}
		if telegram != nil {
			h.Forward = telegram
		}
		go func() {
			if err := queue.StartDecisionConsumer(ctx, cfg.AMQPURL, h); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("decision-consumer stopped: %v", err)
			}
		}()
	}

	svc := booking.NewService(repository.NewStore(db), notifier, codec, loc)
	bookings := handler.NewBookingHandler(svc)
	venues := handler.NewVenueHandler(svc, func(ctx context.Context) error {
		if rdb == nil {
			return nil
		}
		return middleware.InvalidateCache(ctx, cacheCfg, rdb)
	})
	limits := router.Limits{
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:     middleware.NewRedisCache(cacheCfg, rdb),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.RequestContext())

	router.RegisterRoutes(e, db)
	router.RegisterBooking(e, bookings, venues, cfg.JWTSecret, limits)
	router.RegisterAdmin(e, bookings, venues, cfg.JWTSecret, limits)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, tz=%s, slot=%dm)", addr, cfg.Env, loc, codec.SlotMinutes())
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		log.Printf("shutdown: %v", err)
	}
	// let decisions committed before shutdown reach the notifier
	svc.Wait()
}
