package main

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/postlist/internal/source"
	"github.com/nikbrunner/postlist/internal/storage"
)

var (
	indexOutput  string
	indexInclude []string
	indexQuiet   bool
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Build search.json from markdown posts",
	Long: `Reads the markdown posts under dir (content_dir by default) that match the
include patterns and writes the search index consumed by fuzzy search.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, cmd.ErrOrStderr())

		dir := cfg.ContentDir
		if len(args) == 1 {
			dir = args[0]
		}
		output := cfg.Output
		if indexOutput != "" {
			output = indexOutput
		}
		include := cfg.Include
		if len(indexInclude) > 0 {
			include = indexInclude
		}

		reporter := newReporter(cmd.ErrOrStderr(), indexQuiet)
		store, err := source.BuildIndex(dir, source.IndexOptions{
			Include:  include,
			Progress: reporter.Update,
		})
		reporter.Finish()
		if err != nil {
			return fmt.Errorf("building index: %w", err)
		}

		path, err := storage.ExpandPath(output)
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		if err := storage.NewIndexFile(path).Save(store); err != nil {
			return err
		}

		logger.Debug("index written", "dir", dir, "path", path, "entries", store.Len())
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d posts to %s\n", store.Len(), path)
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "", "index file to write (default from config)")
	indexCmd.Flags().StringSliceVar(&indexInclude, "include", nil, "glob patterns of posts to index (default from config)")
	indexCmd.Flags().BoolVarP(&indexQuiet, "quiet", "q", false, "no progress output")
	rootCmd.AddCommand(indexCmd)
}

// reporter shows indexing progress: a bar on a terminal, plain lines in CI.
type reporter struct {
	w     io.Writer
	quiet bool
	ci    bool
	bar   *progressbar.ProgressBar
}

func newReporter(w io.Writer, quiet bool) *reporter {
	return &reporter{
		w:     w,
		quiet: quiet,
		ci:    os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "",
	}
}

// Update matches source.IndexOptions.Progress.
func (r *reporter) Update(done, total int) {
	if r.quiet {
		return
	}
	if r.ci {
		fmt.Fprintf(r.w, "[%d/%d] indexed\n", done, total)
		return
	}
	if r.bar == nil {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionSetDescription("Indexing posts"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = r.bar.Set(done)
}

func (r *reporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
