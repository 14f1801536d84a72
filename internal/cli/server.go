package cli

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"millionaire-service/internal/app"
	"millionaire-service/internal/config"
	"millionaire-service/internal/game"
	"millionaire-service/internal/infra/memory"
	"millionaire-service/internal/infra/postgres"
	redisstore "millionaire-service/internal/infra/redis"
	"millionaire-service/internal/logger"
	"millionaire-service/internal/metrics"
	transport "millionaire-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
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
	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	ladder, err := buildLadder(cfg.Game)
	if err != nil {
		return err
	}
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(memory.SampleQuestions())
	if pool != nil {
		loader = postgres.NewQuestionLoader(pool)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var bank app.QuestionBank
	if redisClient != nil {
		bank = redisstore.NewQuestionBankWithRand(redisClient, loader, questionTTL, rand.NewSource(seed+1))
	} else {
		bank = memory.NewQuestionBankWithRand(loader, questionTTL, rand.NewSource(seed+1))
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	var ledger app.Ledger
	switch {
	case pool != nil:
		ledger = postgres.NewLedger(pool)
	case redisClient != nil:
		ledger = redisstore.NewLedger(redisClient)
	default:
		ledger = memory.NewLedger()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	service := app.NewGameService(store, bank, ledger,
		app.WithLadder(ladder),
		app.WithHelpEngine(game.NewHelpEngine(rand.NewSource(seed+2), helpOptions(cfg.Game)...)),
		app.WithRandSource(rand.NewSource(seed)),
		app.WithLogger(log.Named("game")),
		app.WithMetrics(metrics.New(registry)),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	transport.NewGameHandler(service, log.Named("http")).Register(mux)
	mux.HandleFunc("/ws", transport.NewWSHandler(service, log.Named("ws")).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting millionaire service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
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

// buildLadder falls back to the built-in prizes and fireproof levels for
// whichever part the config leaves empty.
func buildLadder(cfg config.GameConfig) (game.Ladder, error) {
	prizes, fireproof := cfg.Prizes, cfg.FireproofLevels
	if len(prizes) == 0 {
		prizes = game.DefaultPrizes
	}
	if len(fireproof) == 0 {
		fireproof = game.DefaultFireproofLevels
	}
	return game.NewLadder(prizes, fireproof)
}

// helpOptions applies the accuracies the config sets, zero included.
func helpOptions(cfg config.GameConfig) []game.HelpOption {
	var opts []game.HelpOption
	if cfg.FriendAccuracy != nil {
		opts = append(opts, game.WithFriendAccuracy(*cfg.FriendAccuracy))
	}
	if cfg.AudienceAccuracy != nil {
		opts = append(opts, game.WithAudienceAccuracy(*cfg.AudienceAccuracy))
	}
	return opts
}
