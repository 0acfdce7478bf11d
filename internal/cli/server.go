package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dailyquiz-service/internal/app"
	"dailyquiz-service/internal/config"
	"dailyquiz-service/internal/domain"
	"dailyquiz-service/internal/infra/memory"
	pginfra "dailyquiz-service/internal/infra/postgres"
	redisinfra "dailyquiz-service/internal/infra/redis"
	transport "dailyquiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the daily quiz server",
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var (
		pool     app.QuestionPool
		quizzes  app.DailyQuizRepository
		sessions app.SessionRepository
		attempts app.AttemptRepository
		streaks  app.StreakRepository
	)

	if cfg.Postgres.URL != "" {
		pgpool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pgpool.Close()
		pool = pginfra.NewQuestionPool(pgpool)

		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()
		quizzes = pginfra.NewQuizRepository(db)
		sessions = pginfra.NewSessionRepository(db)
		attempts = pginfra.NewAttemptRepository(db)
		streaks = pginfra.NewStreakRepository(db)
	} else {
		log.Printf("no postgres configured, running on in-memory stores with sample questions")
		pool = memory.NewQuestionPool(sampleQuestions())
		quizzes = memory.NewQuizRepository()
		sessions = memory.NewSessionRepository()
		attempts = memory.NewAttemptRepository()
		streaks = memory.NewStreakRepository()
	}

	if redisClient != nil {
		cacheTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		pool = redisinfra.NewQuestionPool(redisClient, pool, cacheTTL)
	}

	dist := app.Distribution{Easy: cfg.Quiz.Easy, Medium: cfg.Quiz.Medium, Hard: cfg.Quiz.Hard}
	service := app.NewQuizService(pool, quizzes, sessions, attempts, streaks, app.WithDistribution(dist))
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/status", wsHandler.ServeStatus)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting daily quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions seeds the in-memory pool for local development; production
// reads the approved pool from Postgres.
func sampleQuestions() []domain.Question {
	approved := time.Now().Add(-24 * time.Hour)
	return []domain.Question{
		{ID: "q-easy-1", VerseRef: "John 3:16", Prompt: "Who so loved the world?", Choices: []string{"God", "Moses", "Paul", "David"}, CorrectAnswer: "God", Difficulty: domain.DifficultyEasy, ApprovedAt: approved},
		{ID: "q-easy-2", VerseRef: "Genesis 1:1", Prompt: "What did God create in the beginning?", Choices: []string{"The heavens and the earth", "Light", "Man", "Animals"}, CorrectAnswer: "The heavens and the earth", Difficulty: domain.DifficultyEasy, ApprovedAt: approved},
		{ID: "q-easy-3", VerseRef: "Exodus 20:3", Prompt: "How many gods may come before Him?", Choices: []string{"None", "One", "Two", "Many"}, CorrectAnswer: "None", Difficulty: domain.DifficultyEasy, ApprovedAt: approved},
		{ID: "q-med-1", VerseRef: "Psalm 23:1", Prompt: "The Lord is my ...?", Choices: []string{"Shepherd", "Rock", "Fortress", "Light"}, CorrectAnswer: "Shepherd", Difficulty: domain.DifficultyMedium, ApprovedAt: approved},
		{ID: "q-med-2", VerseRef: "Matthew 5:9", Prompt: "Blessed are the ...?", Choices: []string{"Peacemakers", "Rich", "Strong", "Wise"}, CorrectAnswer: "Peacemakers", Difficulty: domain.DifficultyMedium, ApprovedAt: approved},
		{ID: "q-med-3", VerseRef: "Romans 3:23", Prompt: "All have sinned and fall short of ...?", Choices: []string{"The glory of God", "The law", "The temple", "Grace"}, CorrectAnswer: "The glory of God", Difficulty: domain.DifficultyMedium, ApprovedAt: approved},
		{ID: "q-hard-1", VerseRef: "Habakkuk 2:4", Prompt: "The righteous shall live by his ...?", Choices: []string{"Faith", "Works", "Wisdom", "Strength"}, CorrectAnswer: "Faith", Difficulty: domain.DifficultyHard, ApprovedAt: approved},
		{ID: "q-hard-2", VerseRef: "Obadiah 1:4", Prompt: "Though you soar like the ...?", Choices: []string{"Eagle", "Dove", "Raven", "Sparrow"}, CorrectAnswer: "Eagle", Difficulty: domain.DifficultyHard, ApprovedAt: approved},
	}
}
