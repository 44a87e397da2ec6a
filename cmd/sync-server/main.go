// cmd/sync-server/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crm-sync/internal/common/closecrm"
	"crm-sync/internal/common/config"
	"crm-sync/internal/common/ghl"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/common/observability"
	"crm-sync/internal/orchestrator"

	fa "crm-sync/internal/workers/activities/fetch-activities"
	sa "crm-sync/internal/workers/activities/sync-activities"
	fc "crm-sync/internal/workers/contacts/fetch-contacts"
	fl "crm-sync/internal/workers/contacts/filter-contacts"
	lt "crm-sync/internal/workers/contacts/list-tags"
	pv "crm-sync/internal/workers/contacts/preview-contacts"
	pc "crm-sync/internal/workers/contacts/push-contacts"
)

var rootCmd = &cobra.Command{
	Use:   "sync-server",
	Short: "GoHighLevel and Close CRM sync service",
	Long: `Serves POST /api/sync, which moves contacts from GoHighLevel into Close as leads
and copies Close activities back onto GoHighLevel contacts as notes.

Configuration is read from configs/config.yaml (plus config.<APP_ENVIRONMENT>.yaml)
unless --config points at a file. GHL_API_KEY, GHL_LOCATION_ID and CLOSE_API_KEY
override the file values.`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().String("config", "", "path to a config file")
	rootCmd.Flags().String("addr", "", "listen address (overrides server.address)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.NewWithOptions(logger.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting sync server...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	server := orchestrator.NewServer(log, obs)
	if err := registerActions(server, cfg, log); err != nil {
		return err
	}
	zapLog.Info("All actions registered", zap.Strings("actions", server.Actions()))

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
		return err
	}

	zapLog.Info("Sync server stopped gracefully")
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Address = addr
	}
	return cfg, nil
}

// registerActions builds one client per CRM and shares it across the actions.
func registerActions(server *orchestrator.Server, cfg *config.Config, log logger.Logger) error {
	ghlClient := ghl.NewClient(ghl.ConfigFromApp(cfg.Integrations.GHL), log)
	closeClient := closecrm.NewClient(closecrm.ConfigFromApp(cfg.Integrations.Close), log)

	fetchHandler, err := fc.NewHandler(fc.HandlerOptions{AppConfig: cfg, Logger: log, GHL: ghlClient})
	if err != nil {
		return fmt.Errorf("failed to create fetch handler: %w", err)
	}
	server.Register(fc.ActionName, fetchHandler)

	previewHandler, err := pv.NewHandler(pv.HandlerOptions{AppConfig: cfg, Logger: log, GHL: ghlClient})
	if err != nil {
		return fmt.Errorf("failed to create preview handler: %w", err)
	}
	server.Register(pv.ActionName, previewHandler)

	pushHandler, err := pc.NewHandler(pc.HandlerOptions{AppConfig: cfg, Logger: log, Close: closeClient})
	if err != nil {
		return fmt.Errorf("failed to create push handler: %w", err)
	}
	server.Register(pc.ActionName, pushHandler)

	tagsHandler, err := lt.NewHandler(lt.HandlerOptions{AppConfig: cfg, Logger: log, GHL: ghlClient})
	if err != nil {
		return fmt.Errorf("failed to create fetchTags handler: %w", err)
	}
	server.Register(lt.ActionName, tagsHandler)

	filterHandler, err := fl.NewHandler(fl.HandlerOptions{AppConfig: cfg, Logger: log, GHL: ghlClient})
	if err != nil {
		return fmt.Errorf("failed to create fetchFiltered handler: %w", err)
	}
	server.Register(fl.ActionName, filterHandler)

	activitiesHandler, err := fa.NewHandler(fa.HandlerOptions{AppConfig: cfg, Logger: log, Close: closeClient})
	if err != nil {
		return fmt.Errorf("failed to create fetchActivities handler: %w", err)
	}
	server.Register(fa.ActionName, activitiesHandler)

	syncHandler, err := sa.NewHandler(sa.HandlerOptions{AppConfig: cfg, Logger: log, GHL: ghlClient})
	if err != nil {
		return fmt.Errorf("failed to create syncActivities handler: %w", err)
	}
	server.Register(sa.ActionName, syncHandler)

	return nil
}
