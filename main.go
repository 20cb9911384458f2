package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecoTrackerAPI/handlers"
	"ecoTrackerAPI/middleware"
	"ecoTrackerAPI/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	log.Println("Successfully connected to database")

	if err := services.InitSchema(ctx, dbPool); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	middleware.InitPrometheus()

	trackerService := services.NewTrackerService(dbPool)
	trackerHandler := handlers.NewTrackerHandler(trackerService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "eco-tracker-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1/tracker").Subrouter()

	api.HandleFunc("/log", trackerHandler.LogAction).Methods("POST")
	api.HandleFunc("/stats", trackerHandler.GetStats).Methods("GET")
	api.HandleFunc("/challenges", trackerHandler.GetChallenges).Methods("GET")
	api.HandleFunc("/history", trackerHandler.GetHistory).Methods("GET")
	api.HandleFunc("/reset", trackerHandler.ResetAll).Methods("POST")
	api.HandleFunc("/actions", trackerHandler.GetActionCatalog).Methods("GET")

	// CORS configuration
	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
