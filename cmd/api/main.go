package main

import (
	"net/http"
	"os"
	"time"

	"github.com/quantalab/qprep/internal/handlers"
	"github.com/quantalab/qprep/internal/logger"
	"github.com/quantalab/qprep/internal/prep"
	"github.com/quantalab/qprep/internal/prep/quantum"
)

func main() {
	log := logger.Logger()

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Optional circuit runner for submitting synthesized circuits
	var runner *quantum.RunnerClient
	if url := os.Getenv("QPREP_RUNNER_URL"); url != "" {
		var err error
		runner, err = quantum.NewRunnerClient(&quantum.RunnerConfig{
			APIKey:  os.Getenv("QPREP_RUNNER_KEY"),
			BaseURL: url,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure runner client")
		}
		log.Info().Str("url", url).Msg("runner client configured")
	}

	jobManager := prep.NewJobManager(runner)
	prepHandler := handlers.NewPrepHandler(jobManager)

	// Drop expired jobs in the background
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			jobManager.CleanupExpiredJobs()
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/", handlers.HomeHandler)
	mux.HandleFunc("/health", handlers.HealthHandler)

	mux.HandleFunc("/api/v1/prep/health", prepHandler.HealthCheckHandler)
	mux.HandleFunc("/api/v1/prep/jobs", prepHandler.JobsHandler)
	mux.HandleFunc("/api/v1/prep/jobs/", prepHandler.JobHandler)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      loggingMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("port", port).Msg("server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log := logger.Logger()
		log.Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Str("remote", r.RemoteAddr).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
