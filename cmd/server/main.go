package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/room-seat-reservation/internal/cache"
	"github.com/iliyamo/room-seat-reservation/internal/config" // Internal config loader
	"github.com/iliyamo/room-seat-reservation/internal/database"
	"github.com/iliyamo/room-seat-reservation/internal/handler"
	"github.com/iliyamo/room-seat-reservation/internal/lock"
	"github.com/iliyamo/room-seat-reservation/internal/logging"
	"github.com/iliyamo/room-seat-reservation/internal/migrations"
	"github.com/iliyamo/room-seat-reservation/internal/queue"
	"github.com/iliyamo/room-seat-reservation/internal/repository"
	"github.com/iliyamo/room-seat-reservation/internal/router" // Internal router setup
	"github.com/iliyamo/room-seat-reservation/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config
	lg := logging.New("server", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		lg.Fatalf("database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := migrations.Apply(ctx, db); err != nil {
			lg.Fatalf("migrations: %v", err)
		}
	}

	// Redis backs the cache, the seat locks and the rate limiter.  The
	// cache and the limiter degrade without it; the seat locks do not,
	// unless LOCK_BACKEND=local was chosen for a single instance.
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	} else {
		lg.Warnf("redis unavailable at %s; running without cache and rate limiting", cfg.Redis.Addr)
	}

	cacheClient := rdb
	if !cfg.Cache.Enabled {
		cacheClient = nil
	}
	store := cache.New(cacheClient, cfg.Cache.TTL, logging.New("cache", cfg.LogLevel))

	lockOpts := lock.Options{RetryCount: cfg.Lock.RetryCount, RetryDelay: cfg.Lock.RetryDelay}
	locker, err := lock.New(cfg.Lock.Backend, rdb, lockOpts)
	if err != nil {
		lg.Fatalf("seat locks: %v (set LOCK_BACKEND=local for a single instance)", err)
	}
	if cfg.Lock.Backend == config.LockBackendLocal {
		lg.Warnf("seat locks are process-local; run a single instance only")
	}

	events := newPublisher(cfg.Events, logging.New("events", cfg.LogLevel))
	defer events.Close()

	if cfg.Events.LogConsumer && cfg.Events.Broker == config.BrokerAMQP {
		consumerLog := logging.New("seat-consumer", cfg.LogLevel)
		go func() {
			if err := queue.StartSeatEventConsumer(ctx, cfg.Events.AMQPURL, cfg.Events.LogPath, consumerLog); err != nil && !errors.Is(err, context.Canceled) {
				consumerLog.Errorf("stopped: %v", err)
			}
		}()
	}

	svc := service.New(
		repository.NewRoomRepo(db),
		repository.NewSeatRepo(db),
		store,
		locker,
		events,
		logging.New("service", cfg.LogLevel),
		service.Options{
			MinDistance: cfg.MinDistance,
			LockTTL:     cfg.Lock.TTL,
			KeyPrefix:   cfg.Cache.Prefix,
			MaxRoomDim:  cfg.MaxRoomDim,
		},
	)
	h := handler.NewRoomHandler(svc)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Logger = lg
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e, db)
	router.RegisterPublic(e, h)
	router.RegisterOwner(e, h, cfg.JWTSecret)
	router.RegisterReservations(e, h, cfg.JWTSecret, cfg.RateLimit, rdb)

	addr := ":" + cfg.Port
	go func() {
		e.Logger.Infof("listening on %s (env=%s, min_distance=%d)", addr, cfg.Env, cfg.MinDistance)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Errorf("shutdown: %v", err)
	}
}

// newPublisher picks the broker named in cfg.  A NATS connection failure
// falls back to not publishing; the AMQP publisher dials lazily.
func newPublisher(cfg config.EventsConfig, l logging.Logger) queue.Publisher {
	switch cfg.Broker {
	case config.BrokerAMQP:
		return queue.NewAMQPPublisher(cfg.AMQPURL, l)
	case config.BrokerNATS:
		p, err := queue.NewNATSPublisher(cfg.NATSURL, l)
		if err != nil {
			l.Warnf("nats unavailable at %s: %v; seat events disabled", cfg.NATSURL, err)
			return queue.NopPublisher{}
		}
		return p
	}
	return queue.NopPublisher{}
}
