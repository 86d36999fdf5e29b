package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/postlist/internal/config"
	"github.com/nikbrunner/postlist/internal/model"
	"github.com/nikbrunner/postlist/internal/source"
	"github.com/nikbrunner/postlist/internal/storage"
	"github.com/nikbrunner/postlist/internal/theme"
	"github.com/nikbrunner/postlist/internal/tui"
)

const fetchTimeout = 15 * time.Second

// entrySource is either a collection that is already in memory or a
// loader that fetches one.
type entrySource struct {
	store  *model.Store
	loader tui.Loader
	name   string
}

func resolveSource(cfg *config.Config) (entrySource, error) {
	switch {
	case cfg.ListFile != "":
		f, err := os.Open(cfg.ListFile)
		if err != nil {
			return entrySource{}, fmt.Errorf("opening list file: %w", err)
		}
		defer f.Close()
		store, err := source.ParsePostList(f)
		if err != nil {
			return entrySource{}, fmt.Errorf("reading %s: %w", cfg.ListFile, err)
		}
		return entrySource{store: store, name: cfg.ListFile}, nil

	case cfg.SiteURL != "":
		fetcher, err := source.NewFetcher(cfg.SiteURL)
		if err != nil {
			return entrySource{}, err
		}
		return entrySource{loader: fetcher.Fetch, name: fetcher.URL()}, nil

	default:
		path, err := storage.ExpandPath(cfg.IndexPath)
		if err != nil {
			return entrySource{}, fmt.Errorf("index_path: %w", err)
		}
		store, err := storage.NewIndexFile(path).Load()
		if err != nil {
			return entrySource{}, err
		}
		return entrySource{store: store, name: path}, nil
	}
}

// load returns the collection, running the loader if there is one.
func (s entrySource) load(ctx context.Context) (*model.Store, error) {
	if s.store != nil || s.loader == nil {
		return s.store, nil
	}
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	return s.loader(ctx)
}

// openPreference opens the theme store named by theme_store. A store that
// cannot be opened counts as having no stored theme. The returned close
// function is never nil.
func openPreference(cfg *config.Config, logger *slog.Logger) (*theme.Preference, func() error) {
	noop := func() error { return nil }
	if cfg.ThemeStore == "none" {
		return theme.New(nil, lipgloss.HasDarkBackground, logger), noop
	}
	kv, err := storage.OpenKV(cfg.ThemeStore, cfg.ThemePath)
	if err != nil {
		logger.Debug("theme store unavailable", "store", cfg.ThemeStore, "path", cfg.ThemePath, "err", err)
		return theme.New(nil, lipgloss.HasDarkBackground, logger), noop
	}
	return theme.New(kv, lipgloss.HasDarkBackground, logger), kv.Close
}
