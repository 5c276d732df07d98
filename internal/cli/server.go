package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/file"
	"vocab-quiz-service/internal/infra/memory"
	"vocab-quiz-service/internal/infra/postgres"
	infraredis "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/logger"
	"vocab-quiz-service/internal/metrics"
	transport "vocab-quiz-service/internal/transport/http"
)

const serviceName = "vocab-quiz"

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(serviceName, cfg.Log.Level)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = newRedisClient(cfg)
		defer redisClient.Close()
	}

	var loader memory.WordLoader = file.NewDictionaryLoader(cfg.Dictionary.Path)
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = postgres.NewWordLoader(pool)
	}

	dictionaryTTL := config.TTLDuration(cfg.Dictionary.TTL, 10*time.Minute)
	var words app.WordStore
	if redisClient != nil {
		words = infraredis.NewDictionaryRepository(redisClient, loader, dictionaryTTL)
	} else {
		words = memory.NewDictionaryRepository(loader, dictionaryTTL)
		log.Warn("redis not configured, scores are kept in memory until the server stops")
	}
	store := openPreferenceStore(cfg, redisClient)

	m := metrics.New(prometheus.DefaultRegisterer)
	settings := app.NewSettingsWithDefaults(store, domain.ParseDifficulty(cfg.Quiz.Difficulty), cfg.Quiz.QuestionCount)
	service := app.NewGameService(
		words,
		app.NewQuizEngine(app.NewRandom()),
		app.NewScoreLedger(store),
		settings,
		m,
		log,
	)

	// Fail fast on a broken dictionary instead of on the first game.
	entries, err := words.AllEntries(ctx)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"words":    len(entries),
		"postgres": cfg.Postgres.URL != "",
		"redis":    redisClient != nil,
	}).Info("dictionary loaded")

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", transport.NewWSHandler(service, m, log).ServeWS)
	transport.NewAPIHandler(service, settings, words, log).Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("port", finalPort).Info("starting quiz service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// errScoresNotPersisted is returned by commands that only make sense
// against a store that outlives the process.
var errScoresNotPersisted = errors.New("scores are only persisted with redis configured (redis.addr)")

// openPreferenceStore returns the Redis store for the configured profile, or
// a process-local one when client is nil.
func openPreferenceStore(cfg config.Config, client *redis.Client) app.PreferenceStore {
	if client == nil {
		return memory.NewPreferenceStore()
	}
	return infraredis.NewPreferenceStore(client, cfg.Quiz.Profile)
}

// openPersistentLedger opens the ledger the server writes to. Without Redis
// there is no such ledger, so it fails rather than show an empty one.
func openPersistentLedger(cfg config.Config) (*app.ScoreLedger, func(), error) {
	if cfg.Redis.Addr == "" {
		return nil, nil, errScoresNotPersisted
	}
	client := newRedisClient(cfg)
	return app.NewScoreLedger(openPreferenceStore(cfg, client)), func() { _ = client.Close() }, nil
}
