package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/postlist/internal/exporter"
	"github.com/nikbrunner/postlist/internal/storage"
)

var (
	exportExcerpt    int
	exportStandalone bool
	exportTitle      string
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Render the posts as an HTML post list",
	Long: `Renders the configured posts as a ul.post-list, one li per post in
collection order. Without a path the HTML is written to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		src, err := resolveSource(cfg)
		if err != nil {
			return err
		}
		store, err := src.load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading posts: %w", err)
		}

		html := exporter.ExportHTML(store, exporter.Options{
			Excerpt:    exportExcerpt,
			Standalone: exportStandalone,
			Title:      exportTitle,
		})
		if len(args) == 0 {
			_, err := fmt.Fprint(cmd.OutOrStdout(), html)
			return err
		}

		path, err := storage.ExpandPath(args[0])
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			return fmt.Errorf("writing file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d posts to %s\n", store.Len(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportExcerpt, "excerpt", exporter.DefaultExcerpt, "excerpt length in characters, negative to hide")
	exportCmd.Flags().BoolVar(&exportStandalone, "standalone", false, "write a complete page instead of a fragment")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "page title for --standalone")
	rootCmd.AddCommand(exportCmd)
}
