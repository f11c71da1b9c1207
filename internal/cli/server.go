package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"pdfmcq/internal/app"
	"pdfmcq/internal/config"
	"pdfmcq/internal/generate"
	memorystore "pdfmcq/internal/infra/memory"
	pgstore "pdfmcq/internal/infra/postgres"
	redisstore "pdfmcq/internal/infra/redis"
	"pdfmcq/internal/logger"
	"pdfmcq/internal/pdftext"
	transport "pdfmcq/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the backend.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz generation backend",
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
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var store app.QuizStore = memorystore.NewQuizStore()
	var durable redisstore.Durable
	if pool != nil {
		pg := pgstore.NewQuizStore(pool)
		store = pg
		durable = pg
	}
	if redisClient != nil {
		quizTTL := config.Duration(cfg.Quiz.TTL, time.Hour)
		store = redisstore.NewQuizStore(redisClient, durable, quizTTL)
	}

	gen := buildGenerator(cfg)
	service := app.NewQuizService(store, gen, pdftext.Extract, cfg.MaxQuestions(), cfg.MaxPages())
	handler := transport.NewHandler(service, cfg.MaxQuestions(), cfg.MaxPages(), cfg.Server.FrontendOrigin, log)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     handler.Routes(),
		ReadTimeout: 120 * time.Second,
		// Uploads wait on LLM generation before the response is written.
		WriteTimeout: 300 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Msg("starting pdfmcq backend")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildGenerator selects the question generator: an OpenAI-compatible
// provider when a key is configured, the static placeholder otherwise.
func buildGenerator(cfg config.Config) generate.Generator {
	if cfg.LLM.Provider == "dummy" || cfg.LLM.APIKey == "" {
		return generate.StaticGenerator{}
	}
	model := cfg.LLM.Model
	baseURL := cfg.LLM.BaseURL
	if cfg.LLM.Provider == "openrouter" {
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		if model == "" {
			model = "mistralai/mistral-7b-instruct:free"
		}
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return generate.NewLLM(generate.Options{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: baseURL,
		Model:   model,
		Site:    cfg.LLM.Site,
		Title:   cfg.LLM.Title,
	})
}
