// Package theme resolves and persists the light/dark preference.
//
// The initial theme is, in order of precedence: the stored preference, the
// environment's color-scheme signal, and finally Light. Storage failures are
// never surfaced; they read as "nothing stored".
package theme

import (
	"log/slog"
	"strings"
)

// Theme is the two-valued color preference.
type Theme int

const (
	Light Theme = iota
	Dark
)

// Key is the single key the preference is stored under.
const Key = "theme"

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Parse parses "light" or "dark". ok is false for anything else.
func Parse(s string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, true
	case "dark":
		return Dark, true
	default:
		return Light, false
	}
}

// Resolve applies the precedence rule to a stored value and the
// environment's dark-scheme signal.
func Resolve(stored string, prefersDark bool) Theme {
	if t, ok := Parse(stored); ok {
		return t
	}
	if prefersDark {
		return Dark
	}
	return Light
}

// Store is a best-effort string key-value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Detector reports whether the environment prefers a dark color scheme.
type Detector func() bool

// Preference tracks the active theme and writes every change to its store.
type Preference struct {
	store    Store
	detect   Detector
	logger   *slog.Logger
	current  Theme
	resolved bool
}

// New creates a Preference. store and detect may be nil.
func New(store Store, detect Detector, logger *slog.Logger) *Preference {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Preference{
		store:  store,
		detect: detect,
		logger: logger,
	}
}

// Current returns the active theme, resolving it on first use.
func (p *Preference) Current() Theme {
	if !p.resolved {
		p.current = Resolve(p.stored(), p.prefersDark())
		p.resolved = true
	}
	return p.current
}

// Toggle flips the theme, persists it and returns the new value.
func (p *Preference) Toggle() Theme {
	return p.Set(p.Current().Toggle())
}

// Set makes t the active theme and persists it.
func (p *Preference) Set(t Theme) Theme {
	p.current = t
	p.resolved = true
	p.persist(t)
	return t
}

func (p *Preference) stored() string {
	if p.store == nil {
		return ""
	}
	value, err := p.store.Get(Key)
	if err != nil {
		p.logger.Debug("theme preference unreadable, ignoring", "err", err)
		return ""
	}
	return value
}

func (p *Preference) prefersDark() bool {
	if p.detect == nil {
		return false
	}
	return p.detect()
}

func (p *Preference) persist(t Theme) {
	if p.store == nil {
		return
	}
	if err := p.store.Set(Key, t.String()); err != nil {
		p.logger.Debug("theme preference not saved", "theme", t, "err", err)
	}
}
