// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fitcoach-ai/meal-coach/internal/config"
	"github.com/fitcoach-ai/meal-coach/internal/handler"
	"github.com/fitcoach-ai/meal-coach/internal/llm"
	"github.com/fitcoach-ai/meal-coach/internal/middleware"
	"github.com/fitcoach-ai/meal-coach/internal/service"
	"github.com/fitcoach-ai/meal-coach/internal/store"
	"github.com/fitcoach-ai/meal-coach/pkg/logger"
	"github.com/fitcoach-ai/meal-coach/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "meal-coach", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Open the session store
	st, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		os.Exit(1)
	}
	defer st.Close()

	// Initialize LLM client
	llmClient, err := llm.NewClient(llm.Provider(cfg.LLMProvider), providerConfig(cfg))
	if err != nil {
		log.Error("failed to create model client", zap.Error(err))
		os.Exit(1)
	}

	// Initialize services
	chatSvc := service.NewChatService(st, llmClient, log)
	plannerSvc := service.NewPlannerService(llmClient, log)
	userSvc := service.NewUserService(st, cfg.JWTSecret, cfg.JWTExpiration)
	mealSvc := service.NewMealService(st)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(st)
	sessionHandler := handler.NewSessionHandler(chatSvc, log)
	llmHandler := handler.NewLLMHandler(plannerSvc, log)
	userHandler := handler.NewUserHandler(userSvc, log)
	mealHandler := handler.NewMealHandler(mealSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Account endpoints
	r.Post("/user/register", userHandler.Register)
	r.Post("/user/login", userHandler.Login)

	// Conversation sessions: anonymous callers are allowed, a valid token
	// binds the session to its user.
	r.Route("/session", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/", sessionHandler.Create)
		r.Get("/", sessionHandler.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Get("/meal-suggestions", sessionHandler.Suggestions)

			r.With(middleware.LLMRateLimit(cfg.LLMRateLimit, cfg.LLMRateWindow)).
				Post("/messages", sessionHandler.PostMessage)
		})
	})

	// Direct model endpoints
	r.Route("/api/llm", func(r chi.Router) {
		r.Use(middleware.LLMRateLimit(cfg.LLMRateLimit, cfg.LLMRateWindow))

		r.Post("/suggest-meal", llmHandler.SuggestMeal)
		r.Post("/meal-plan", llmHandler.MealPlan)
		r.Post("/query", llmHandler.Query)
	})

	// Favourite meals require an authenticated user
	r.Route("/api/meals", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/", mealHandler.Create)
		r.Get("/", mealHandler.List)
		r.Get("/{id}", mealHandler.Get)
		r.Put("/{id}", mealHandler.Update)
		r.Delete("/{id}", mealHandler.Delete)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func providerConfig(cfg *config.Config) llm.Config {
	switch llm.Provider(cfg.LLMProvider) {
	case llm.ProviderOpenAI:
		return llm.Config{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel}
	case llm.ProviderAnthropic:
		return llm.Config{APIKey: cfg.AnthropicAPIKey, Model: cfg.AnthropicModel}
	default:
		return llm.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}
	}
}
