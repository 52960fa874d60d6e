package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"webready/internal/cache"
	"webready/internal/config"
	"webready/internal/db"
	"webready/internal/engine"
	"webready/internal/hub"
	"webready/internal/jobs"
	"webready/internal/server"
	"webready/internal/toolkit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis API server",
	Long:  `Starts the webready HTTP server with the job API, ZIP upload analysis, result export and a live progress websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if err := os.MkdirAll(cfg.Server.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.Server.DataDir, "webready.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		results, err := cache.New(cache.DefaultSize)
		if err != nil {
			return fmt.Errorf("creating result cache: %w", err)
		}

		store := jobs.NewStore(database)
		eng := engine.New(toolkit.DefaultRegistry(), cfg.Thresholds, cfg.MaxWorkers)
		h := hub.New()
		runner := jobs.NewRunner(store, eng, h, results)

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			DataDir:  cfg.Server.DataDir,
			AllowAll: cfg.Server.AllowAll,
		}, runner, store, h)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "webready server v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override the configured server port")
	rootCmd.AddCommand(serveCmd)
}
