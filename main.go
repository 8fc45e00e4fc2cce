package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yash-Soni1/node-crew/config"
	"github.com/Yash-Soni1/node-crew/logging"
	"github.com/Yash-Soni1/node-crew/models"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var rootCmd = &cobra.Command{
	Use:   "tasks-service",
	Short: "Task tracking service with checklist-driven progress and dashboards",
	// Running without a subcommand serves HTTP.
	RunE:         runServe,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE:  runServe,
}

var dashboardUser string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print dashboard statistics as JSON",
	Long:  `Computes the dashboard straight from the record store. Without --user the dashboard covers every task.`,
	RunE:  runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardUser, "user", "", "user id to scope the dashboard to")
	rootCmd.AddCommand(serveCmd, dashboardCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	err = logging.InitLogger(logging.Options{
		FilePath:   cfg.Log.File,
		Level:      cfg.Log.Level,
		Console:    cfg.Log.Console,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Tasks Service...")

	a, err := newApp(cfg, true)
	if err != nil {
		logging.Logger.Errorf("Event ID: SERVICE_INIT_FAILED, Description: %v", err)
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Errorf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
			return err
		}
	case <-ctx.Done():
		logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	var dashboard *models.Dashboard
	if dashboardUser == "" {
		dashboard, err = a.aggregation.AdminDashboard(ctx, models.Caller{Role: models.RoleAdmin})
	} else {
		userID, parseErr := primitive.ObjectIDFromHex(dashboardUser)
		if parseErr != nil {
			return fmt.Errorf("invalid --user %q: %w", dashboardUser, parseErr)
		}
		dashboard, err = a.aggregation.UserDashboard(ctx, models.Caller{ID: userID, Role: models.RoleMember})
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(dashboard)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
