package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"isekai-quiz-service/internal/app"
	"isekai-quiz-service/internal/config"
	"isekai-quiz-service/internal/domain"
	filestore "isekai-quiz-service/internal/infra/file"
	"isekai-quiz-service/internal/infra/memory"
	pgloader "isekai-quiz-service/internal/infra/postgres"
	redisinfra "isekai-quiz-service/internal/infra/redis"
	transport "isekai-quiz-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(sampleCatalog())
	if pool != nil {
		loader = pgloader.NewCatalogLoader(pool, catalogID(cfg))
	} else if cfg.Catalog.Path != "" {
		loader = filestore.NewCatalogLoader(cfg.Catalog.Path)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogRepo app.CatalogRepository
	if redisClient != nil {
		catalogRepo = redisinfra.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogRepo = memory.NewCatalogRepository(loader, catalogTTL)
	}

	// A malformed catalog must abort startup, never surface at answer time.
	catalog, err := catalogRepo.GetCatalog(ctx)
	if err != nil {
		return err
	}
	if err := catalog.Validate(); err != nil {
		return err
	}

	sessionTTL := config.TTLDuration(cfg.Session.TTL, app.DefaultSessionTTL)
	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		store = memory.NewSessionStore()
	}

	service := app.NewQuizService(store, catalogRepo, domain.DefaultResults(), app.DefaultSequenceOverride)

	ratingsPath := cfg.Ratings.Path
	if ratingsPath == "" {
		ratingsPath = "ratings.json"
	}
	ratings := filestore.NewRatingsStore(ratingsPath)
	if err := ratings.Init(); err != nil {
		log.Printf("ratings file init failed: %v", err)
	}

	handler := transport.NewHandler(service, ratings, transport.HandlerConfig{
		BaseURL:        cfg.Server.BaseURL,
		ImagesDir:      cfg.Images.Dir,
		AllowedOrigins: cfg.Server.CORSOrigins,
	})
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go runExpirySweep(sweepCtx, service, sessionTTL, config.TTLDuration(cfg.Session.SweepInterval, time.Hour))

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
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

// runExpirySweep periodically drops sessions older than ttl.
func runExpirySweep(ctx context.Context, service *app.QuizService, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if removed := service.RemoveExpired(ctx, ttl); removed > 0 {
				log.Printf("expired %d quiz session(s)", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}

func catalogID(cfg config.Config) string {
	if cfg.Catalog.ID != "" {
		return cfg.Catalog.ID
	}
	return "reincarnation"
}

// sampleCatalog is the fallback when neither a catalog file nor Postgres is
// configured; the shipped config/questions.json carries the real content.
func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		{
			ID:   "intro",
			Text: "You open your eyes in a vast white hall. A god looks down at you. \"Welcome. Shall we find out what you will become?\"",
			Options: []domain.Option{
				{Text: "Where am I?", Response: "\"Between lives, of course. Pay attention.\""},
				{Text: "Let's begin.", Response: "\"Eager. I like that.\""},
			},
		},
		{
			ID:   "intro2",
			Text: "\"I will ask questions. Answer honestly; your next form depends on it.\"",
			Options: []domain.Option{
				{Text: "Understood.", Response: "\"Good. First question.\""},
			},
		},
		{
			ID:   "q1",
			Text: "A festival is held in your honor. You...",
			Options: []domain.Option{
				{Text: "Join the crowd and celebrate all night", Trait: domain.TraitE, Response: "\"A social spirit.\""},
				{Text: "Slip away once the speeches are done", Trait: domain.TraitI, Response: "\"Solitude has its own strength.\""},
			},
		},
		{
			ID:   "q2",
			Text: "When solving a riddle, you trust...",
			Options: []domain.Option{
				{Text: "What you can see and touch", Trait: domain.TraitS, Response: "\"Grounded.\""},
				{Text: "The pattern behind the words", Trait: domain.TraitN, Response: "\"A seeker of meanings.\""},
			},
		},
		{
			ID:   "q3",
			Text: "A friend makes a costly mistake. You respond with...",
			Options: []domain.Option{
				{Text: "An honest account of what went wrong", Trait: domain.TraitT, Response: "\"Truth before comfort.\""},
				{Text: "Comfort first, lessons later", Trait: domain.TraitF, Response: "\"Kindness before correction.\""},
			},
		},
		{
			ID:   "q4",
			Text: "Your ideal quest is...",
			Options: []domain.Option{
				{Text: "Planned to the last detail", Trait: domain.TraitJ, Response: "\"Order. Admirable.\""},
				{Text: "Improvised as the road unfolds", Trait: domain.TraitP, Response: "\"Chaos suits you.\""},
			},
		},
	}
}
