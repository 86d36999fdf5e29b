package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/postlist/internal/config"
	"github.com/nikbrunner/postlist/internal/model"
	"github.com/nikbrunner/postlist/internal/picker"
	"github.com/nikbrunner/postlist/internal/search"
	"github.com/nikbrunner/postlist/internal/tui"
)

// runTUI runs the full interactive TUI.
func runTUI(cfg *config.Config) error {
	logger, closeLog, err := tuiLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := resolveSource(cfg)
	if err != nil {
		return err
	}
	pref, closePref := openPreference(cfg, logger)
	defer closePref()

	logger.Info("starting", "source", src.name, "mode", cfg.Mode())

	app := tui.NewApp(tui.AppParams{
		Store:    src.store,
		Loader:   src.loader,
		Mode:     cfg.Mode(),
		Fuzzy:    cfg.FuzzyOptions(),
		PageSize: cfg.PageSize,
		Theme:    pref,
		SiteURL:  cfg.SiteURL,
		OpenURL:  openURL,
		Logger:   logger,
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}

// runQuickSearch ranks the posts against query and opens the chosen one.
func runQuickSearch(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, query string) error {
	src, err := resolveSource(cfg)
	if err != nil {
		return err
	}
	store, err := src.load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading posts: %w", err)
	}

	results := search.NewFuzzyIndex(store.Entries, cfg.FuzzyOptions()).Search(query)
	logger.Debug("quick search", "query", query, "results", len(results))

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "No posts found for '%s'\n", query)
		return nil
	}

	var selected *model.Entry
	if len(results) == 1 {
		selected = &results[0].Entry
		fmt.Fprintf(out, "Opening: %s\n", selected.Title)
	} else {
		finalModel, err := tea.NewProgram(picker.New(results, query)).Run()
		if err != nil {
			return fmt.Errorf("running picker: %w", err)
		}
		selected = finalModel.(picker.Picker).Selected()
	}
	if selected == nil {
		return nil
	}

	return openURL(entryURL(cfg.SiteURL, selected.Href))
}

// entryURL resolves href against the site root when there is one.
func entryURL(siteURL, href string) string {
	if siteURL == "" {
		return href
	}
	base, err := url.Parse(siteURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// openURL opens a URL in the default browser.
func openURL(u string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "linux":
		cmd = exec.Command("xdg-open", u)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		return fmt.Errorf("opening links is not supported on %s", runtime.GOOS)
	}
	return cmd.Start()
}
