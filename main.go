package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cadet_app_backend/config"
	"cadet_app_backend/db"
	"cadet_app_backend/handlers"
	"cadet_app_backend/quiz"
	"cadet_app_backend/routes"
	"cadet_app_backend/suggestions"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Connect to database
	database, err := db.Initialize(cfg.Database())
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	// Initialize database schema
	if err := db.InitSchema(database); err != nil {
		log.Fatalf("Error initializing database schema: %v", err)
	}

	// Seed the bundled test so the db source always has a default
	static := quiz.NewStaticProvider(cfg.DefaultTestID)
	bundled, err := static.Dataset(context.Background(), quiz.DefaultTestID)
	if err != nil {
		log.Fatalf("Error loading bundled test: %v", err)
	}
	if err := db.SeedData(database, bundled); err != nil {
		log.Printf("Warning: Error seeding initial data: %v", err)
	}

	var provider quiz.Provider
	switch cfg.DatasetSource {
	case config.DatasetRemote:
		provider = quiz.NewRemoteProvider(cfg.DatasetURL, cfg.DatasetToken, cfg.DefaultTestID)
	case config.DatasetDB:
		provider = db.NewTestRepository(database, cfg.DefaultTestID)
	default:
		provider = static
	}
	log.Printf("Using %s test source", cfg.DatasetSource)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sessions := quiz.NewStore(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	if cfg.OpenRouterAPIKey == "" {
		log.Println("Warning: OPENROUTER_API_KEY not set, suggestions are disabled")
	}
	suggester := suggestions.NewOpenRouterClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := gin.Default()

	// Setup CORS - Simplified for mobile app
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.AllowMethods = []string{
		"GET",
		"POST",
	}
	r.Use(cors.New(corsConfig))

	// Setup routes
	routes.SetupRoutes(
		r,
		handlers.NewHealthHandler(database, provider),
		handlers.NewProfessionTestHandler(sessions, provider, db.NewResultRepository(database), suggester),
		[]byte(cfg.JWTSecret),
	)

	// Run server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
}
