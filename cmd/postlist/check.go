package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/postlist/internal/linkcheck"
)

var (
	checkConcurrency int
	checkTimeout     time.Duration
	checkQuiet       bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report posts whose links are dead or unreachable",
	Long: `Requests the link of every configured post, resolved against site_url,
and lists the ones that do not answer with a 2xx or 3xx status. Exits with
an error when any link is dead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, cmd.ErrOrStderr())

		src, err := resolveSource(cfg)
		if err != nil {
			return err
		}
		store, err := src.load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading posts: %w", err)
		}

		reporter := newReporter(cmd.ErrOrStderr(), checkQuiet)
		results, err := linkcheck.Check(cmd.Context(), store.Entries, cfg.SiteURL, linkcheck.Options{
			Concurrency: checkConcurrency,
			Timeout:     checkTimeout,
			Progress:    reporter.Update,
		})
		reporter.Finish()
		if err != nil {
			return fmt.Errorf("checking links: %w", err)
		}

		out := cmd.OutOrStdout()
		broken := linkcheck.Broken(results)
		dead := 0
		for _, r := range broken {
			if r.Status == linkcheck.Dead {
				dead++
			}
			reason := r.Error
			if reason == "" {
				reason = fmt.Sprintf("HTTP %d", r.StatusCode)
			}
			fmt.Fprintf(out, "%-11s %s (%s): %s\n", r.Status, r.Entry.Title, r.Entry.Href, reason)
			logger.Debug("broken link", "href", r.Entry.Href, "url", r.URL, "status", r.StatusCode)
		}
		fmt.Fprintf(out, "Checked %d posts: %d dead, %d unreachable\n", len(results), dead, len(broken)-dead)

		if dead > 0 {
			return fmt.Errorf("%d dead links", dead)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().IntVar(&checkConcurrency, "concurrency", linkcheck.DefaultConcurrency, "parallel requests")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", linkcheck.DefaultTimeout, "per-request timeout")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "no progress output")
	rootCmd.AddCommand(checkCmd)
}
