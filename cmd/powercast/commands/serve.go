package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jugesdebnath7/powercast/internal/api"
	"github.com/jugesdebnath7/powercast/internal/api/handlers"
	"github.com/jugesdebnath7/powercast/internal/scheduler"
	"github.com/jugesdebnath7/powercast/internal/scheduler/jobs"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the forecast API server",
	Long: `Start the REST API server.

This command:
- Loads the trained model and wires the data pipeline
- Serves forecasts over HTTP
- Optionally refreshes the forecast on a schedule

Endpoints:
  GET /health   - Health check
  GET /predict  - Full forecast for the ingested data

Example:
  go run ./cmd/powercast serve
  go run ./cmd/powercast serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	a, err := buildApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	predictHandler := handlers.NewPredictHandler(a.service, log)
	router := api.NewRouter(predictHandler, cfg, log)
	server := api.New(cfg, log, router)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(log)
		job := jobs.NewForecastRefreshJob(a.service, a.respCache, cfg.Pipeline.Version, cfg.Scheduler.RefreshSpec, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("register refresh job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
