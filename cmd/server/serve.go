package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/willora/willora-backend/internal/config"
	"github.com/willora/willora-backend/internal/database"
	"github.com/willora/willora-backend/internal/middleware"
	"github.com/willora/willora-backend/internal/routes"
	"github.com/willora/willora-backend/internal/services"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context(), loadConfig())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	secret, ok := cfg.SigningSecret()
	if !ok {
		return errors.New("JWT_SECRET must be set in production")
	}
	if cfg.JWTSecret == "" {
		log.Println("⚠️  WARNING: JWT_SECRET not set. Using the development signing secret.")
	}

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var rdb *redis.Client
	if cfg.RedisURI != "" && !cfg.IsProduction() {
		log.Printf("Connecting to Redis...")
		if rdb, err = database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Printf("⚠️  WARNING: Redis unavailable (%v). Redis rate limiting disabled.", err)
			rdb = nil
		} else {
			defer database.DisconnectRedis()
		}
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	clock := services.SystemClock(cfg.Location())
	tokens := services.NewTokenIssuer(secret, cfg.TokenTTL)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit.
	// Non-production: Redis-based rate limit when REDIS_URI is set.
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else if rdb != nil {
		r.Use(middleware.RateLimitMiddleware(rdb))
		log.Println("✅ Redis rate limiting enabled")
	}
	r.Use(middleware.AIRateLimit(tokens))
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	routes.SetupRoutes(r, routes.Services{
		Auth:      services.NewAuthService(st.Users, tokens),
		Journals:  services.NewJournalService(st.Journals, clock),
		Stats:     services.NewStatsService(st, clock),
		Community: services.NewCommunityService(st.Posts, clock),
		Dashboard: services.NewDashboardService(st, clock, config.MotivationalTips, config.InsightQuotes),
		AI:        services.NewAIService(gen, config.AISystemPrompt, config.AIFallbackMessage),
	}, tokens)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Willora backend running on :%s (store: %s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("✅ Server stopped")
	return nil
}

func newGenerator(ctx context.Context, cfg *config.Config) (services.Generator, error) {
	if cfg.GeminiAPIKey == "" {
		log.Println("⚠️  WARNING: GEMINI_API_KEY not set. AI endpoints will answer with the fallback message.")
		return services.DisabledGenerator(), nil
	}
	gen, err := services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Gemini client ready (model %s)", cfg.GeminiModel)
	return gen, nil
}
