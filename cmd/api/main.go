package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	v1 "github.com/JEGHTNER/Zooting/cmd/api/router/v1"
	busadapter "github.com/JEGHTNER/Zooting/internal/infrastructure/bus/adapter"
	"github.com/JEGHTNER/Zooting/internal/infrastructure/database"
	queueadapter "github.com/JEGHTNER/Zooting/internal/infrastructure/queue/adapter"
	"github.com/JEGHTNER/Zooting/internal/infrastructure/realtime"
	storeadapter "github.com/JEGHTNER/Zooting/internal/infrastructure/store/adapter"
	videoadapter "github.com/JEGHTNER/Zooting/internal/infrastructure/video/adapter"
	"github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/subscriber"
	"github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/task"
	repoadapter "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/adapter"
	httpHandler "github.com/JEGHTNER/Zooting/internal/pkg/meeting/presentation/http"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env file not found or could not be loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the database on startup
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(connectCtx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Fatal().Msg("REDIS_URL environment variable is not set")
	}
	redisOpt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	provider, err := videoadapter.NewHTTPProviderFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure video session provider")
	}

	store := storeadapter.NewRedisStore(redisClient)
	bus := busadapter.NewRedisBus(redisClient)
	defer bus.Close()

	rooms := repoadapter.NewStoreWaitingRoomRepository(store)
	selections := repoadapter.NewRedisSelectionRepository(redisClient)
	matchLog := repoadapter.NewPgMatchLogRepository(pool)

	hub := realtime.NewHub()
	defer hub.Close()

	reactor := subscriber.NewWaitingRoomSubscriber(bus, rooms, matchLog, provider, hub)
	defer reactor.Close()

	// Queue client and in-process worker for the expiry sweep.
	queueClient, err := queueadapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue client")
	}
	defer queueClient.Close()

	queueServer, err := queueadapter.NewAsynqServer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue server")
	}
	task.RegisterRoomSweepTask(queueServer, queueClient, rooms, hub, reactor)

	go func() {
		if err := queueServer.Run(ctx); err != nil {
			log.Error().Err(err).Msg("queue server stopped")
		}
	}()
	if _, err := task.EnqueueRoomSweep(ctx, queueClient, 0); err != nil {
		log.Error().Err(err).Msg("failed to start room sweep chain")
	}

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1.RegisterRoutes(r, httpHandler.Deps{
		Rooms:      rooms,
		Selections: selections,
		Bus:        bus,
		Watcher:    reactor,
		Hub:        hub,
	})

	srv := &http.Server{Addr: listenAddr(), Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("starting API server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func listenAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}
