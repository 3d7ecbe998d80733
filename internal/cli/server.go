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
	"go.uber.org/zap"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/auth"
	"quizmaster-service/internal/config"
	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/infra/memory"
	pgstore "quizmaster-service/internal/infra/postgres"
	redisstore "quizmaster-service/internal/infra/redis"
	transport "quizmaster-service/internal/transport/http"
)

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

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

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
	origin := cfg.Server.Origin
	if origin == "" {
		origin = "http://localhost:" + finalPort
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Session.TTL, 30*time.Minute)

	var quizzes app.QuizRepository
	var responses app.ResponseRepository
	var stats app.StatsRepository
	if pool != nil {
		quizzes = pgstore.NewQuizStore(pool)
		responses = pgstore.NewResponseStore(pool)
		stats = pgstore.NewStatsStore(pool)
	} else {
		logger.Info("postgres not configured, using in-memory demo stores")
		quizzes = memory.NewQuizStore(sampleQuizzes())
		responses = memory.NewResponseStore()
		stats = memory.NewStatsStore()
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		quizzes = redisstore.NewQuizCache(redisClient, quizzes, quizTTL)
		sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
		if pool == nil {
			stats = redisstore.NewStatsStore(redisClient)
		}
	} else {
		quizzes = memory.NewQuizCache(quizzes, quizTTL)
		sessions = memory.NewSessionStore()
	}

	identities := make(map[string]auth.Identity, len(cfg.Auth.Tokens))
	for _, token := range cfg.Auth.Tokens {
		identities[token.Credential] = auth.Identity{
			UID:         token.UID,
			DisplayName: token.DisplayName,
			Email:       token.Email,
			PhotoURL:    token.PhotoURL,
		}
	}
	provider := auth.NewStaticProvider(identities)

	quizService := app.NewQuizService(quizzes, responses, stats, sessions, logger)
	authoringService := app.NewAuthoringService(quizzes, stats, logger)
	statsService := app.NewStatsService(quizzes, responses, stats)
	exportService := app.NewExportService(quizzes, responses)

	handler := transport.NewHandler(quizService, authoringService, statsService, exportService, provider, origin, logger)
	wsHandler := transport.NewWSHandler(quizService, logger)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quizmaster service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server...")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes seeds demo mode with one shareable quiz exercising grading
// and a conditional question.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-demo": {
			QuizID:     "quiz-demo",
			Title:      "Capitals of Europe",
			CreatorUID: "demo-creator",
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
			Questions: []domain.Question{
				{
					ID:             "q1",
					QuestionNumber: 1,
					QuestionType:   domain.QuestionMultipleChoice,
					QuestionText:   "What is the capital of France?",
					Options: []domain.Option{
						{ID: "o1", Value: "Paris"},
						{ID: "o2", Value: "Lyon"},
						{ID: "o3", Value: "Marseille"},
					},
					CorrectAnswers: []string{"Paris"},
					Grade:          10,
					IsRequired:     true,
				},
				{
					ID:             "q2",
					QuestionNumber: 2,
					QuestionType:   domain.QuestionText,
					QuestionText:   "Which other French city have you visited?",
					Grade:          0,
					IsConditional:  true,
					Condition:      domain.Condition{QuestionID: "q1", Answer: "Paris"},
				},
			},
		},
	}
}
