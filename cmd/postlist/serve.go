package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/postlist/internal/server"
	"github.com/nikbrunner/postlist/internal/storage"
)

var (
	serveAddr     string
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the built site with search and share links",
	Long: `Serves serve_dir over HTTP together with the search index at /search.json
and a fuzzy search API at /api/search?q=. Post pages get their share links
filled in on the way out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, cmd.ErrOrStderr())

		addr := cfg.ServeAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		siteDir, err := storage.ExpandPath(cfg.ServeDir)
		if err != nil {
			return fmt.Errorf("serve_dir: %w", err)
		}
		indexPath, err := storage.ExpandPath(cfg.IndexPath)
		if err != nil {
			return fmt.Errorf("index_path: %w", err)
		}
		index := storage.NewIndexFile(indexPath)

		srv := server.New(server.Config{
			Addr:     addr,
			SiteDir:  siteDir,
			AllowAll: serveAllowAll,
			Fuzzy:    cfg.FuzzyOptions(),
		}, index.Load, logger)

		errCh := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", siteDir, addr)
			errCh <- srv.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			logger.Info("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow CORS requests from any origin")
	rootCmd.AddCommand(serveCmd)
}
