package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/film-catalog/internal/config"
	"github.com/iliyamo/film-catalog/internal/database"
	"github.com/iliyamo/film-catalog/internal/handler"
	"github.com/iliyamo/film-catalog/internal/logger"
	"github.com/iliyamo/film-catalog/internal/middleware"
	"github.com/iliyamo/film-catalog/internal/queue"
	"github.com/iliyamo/film-catalog/internal/repository"
	"github.com/iliyamo/film-catalog/internal/router"
	"github.com/iliyamo/film-catalog/internal/service"
)

func main() {
	// registered first so it runs after every other deferred close
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	lg := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("apply schema")
		}
		log.Info().Msg("schema applied")
	}

	films := repository.NewFilmRepo(db)
	likes := repository.NewLikeRepo(db)
	users := repository.NewUserRepo(db)
	directors := repository.NewDirectorRepo(db)
	events := repository.NewEventRepo(db)

	publisher := service.NewFeedPublisher(cfg.AMQP)
	defer publisher.Close()

	filmSvc := service.NewFilmService(
		films, users, directors,
		service.NewRanker(likes, films),
		service.NewSearcher(films),
		service.NewRecommender(likes),
	)
	likeSvc := service.NewLikeService(likes, films, users, events, publisher)
	feedSvc := service.NewFeedService(events, users)

	if cfg.AMQP.ConsumerEnabled {
		consumer := queue.NewFeedConsumer(cfg.AMQP, events)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("feed consumer stopped")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(lg))
	e.Use(middleware.Metrics())

	rl := config.LoadRateLimitConfig()
	// only hand over a live client; a nil *redis.Client inside the
	// interface would not compare equal to nil
	if rdb := config.NewRedisClient(); rdb != nil {
		defer rdb.Close()
		e.Use(middleware.NewTokenBucket(rl, rdb))
	} else if rl.Enabled {
		log.Warn().Msg("rate limiting enabled but redis is unavailable")
	}

	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Handlers{
		Films:     handler.NewFilmHandler(filmSvc, likeSvc),
		Users:     handler.NewUserHandler(users, filmSvc, feedSvc),
		Reference: handler.NewReferenceHandler(repository.NewGenreRepo(db), repository.NewRatingRepo(db), directors),
	}, cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, catalog writes are unauthenticated")
	}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := serve(ctx, e, addr, 10*time.Second); err != nil {
		log.Error().Err(err).Msg("http server")
		exitCode = 1
	}
}

// serve runs e until ctx is cancelled or the listener fails, then shuts it
// down within grace.  Only a listener failure is returned.
func serve(ctx context.Context, e *echo.Echo, addr string, grace time.Duration) error {
	srvErr := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	var err error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err = <-srvErr:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if serr := e.Shutdown(shutdownCtx); serr != nil {
		log.Error().Err(serr).Msg("graceful shutdown")
	}
	return err
}
