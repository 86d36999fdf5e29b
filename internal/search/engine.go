package search

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nikbrunner/postlist/internal/model"
)

// Mode selects one of the two filter configurations. They are alternatives
// and never combined: substring mode hides entries in place and keeps their
// order, fuzzy mode ranks matches and shows them in a separate results view.
type Mode int

const (
	ModeSubstring Mode = iota
	ModeFuzzy
)

// ParseMode parses "substring" or "fuzzy".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring", "simple":
		return ModeSubstring, nil
	case "fuzzy", "advanced":
		return ModeFuzzy, nil
	default:
		return ModeSubstring, fmt.Errorf("unknown search mode %q", s)
	}
}

func (m Mode) String() string {
	if m == ModeFuzzy {
		return "fuzzy"
	}
	return "substring"
}

// State is the readiness of the engine.
type State int

const (
	StateLoading State = iota
	StateReady
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "loading"
	}
}

var (
	ErrNotReady    = errors.New("search index not loaded")
	ErrUnavailable = errors.New("search unavailable")
)

// Status lines shown to the user.
const (
	StatusLoading     = "Search index loading…"
	StatusUnavailable = "Search unavailable"
)

// Sink receives the Visible Set after every recomputation.
type Sink interface {
	SetVisible(items []model.Entry)
}

// ResultsView is the separate ranked-results surface used in fuzzy mode.
// It also carries status messages for both modes.
type ResultsView interface {
	ShowResults(query string, results []Result)
	HideResults()
	ShowStatus(msg string)
}

// EngineParams holds parameters for creating a new Engine.
type EngineParams struct {
	Mode      Mode
	Presenter Sink
	Results   ResultsView  // optional
	Logger    *slog.Logger // optional
	Fuzzy     FuzzyOptions
}

// Engine computes the Visible Set from a query and hands it to the presenter.
type Engine struct {
	mode      Mode
	state     State
	err       error
	entries   []model.Entry
	index     *FuzzyIndex
	fuzzyOpts FuzzyOptions
	presenter Sink
	results   ResultsView
	logger    *slog.Logger
}

// NewEngine creates an Engine in the loading state.
func NewEngine(params EngineParams) *Engine {
	results := params.Results
	if results == nil {
		results = discardResults{}
	}
	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{
		mode:      params.Mode,
		state:     StateLoading,
		fuzzyOpts: params.Fuzzy,
		presenter: params.Presenter,
		results:   results,
		logger:    logger,
	}
}

// Mode returns the configured mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// State returns the current readiness state.
func (e *Engine) State() State {
	return e.state
}

// Err returns why the engine cannot filter, or nil when it is ready.
func (e *Engine) Err() error {
	switch e.state {
	case StateReady:
		return nil
	case StateUnavailable:
		if e.err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, e.err)
		}
		return ErrUnavailable
	default:
		return ErrNotReady
	}
}

// Entries returns the loaded collection.
func (e *Engine) Entries() []model.Entry {
	return e.entries
}

// Load makes the engine ready over entries. Callers should follow it with a
// Query carrying the live input value, since anything typed while loading
// was ignored.
func (e *Engine) Load(entries []model.Entry) {
	if e.state == StateUnavailable {
		return
	}

	e.entries = make([]model.Entry, len(entries))
	copy(e.entries, entries)
	if e.mode == ModeFuzzy {
		e.index = NewFuzzyIndex(e.entries, e.fuzzyOpts)
	}
	e.state = StateReady
	e.err = nil

	e.logger.Debug("search ready", "mode", e.mode, "entries", len(e.entries))
	e.results.ShowStatus("")
	e.publish(e.entries)
}

// Fail disables the engine. The failure is reported to the user and no
// filtering happens afterwards; there is no retry.
func (e *Engine) Fail(err error) {
	e.state = StateUnavailable
	e.err = err
	e.index = nil

	e.logger.Warn("search disabled", "mode", e.mode, "err", err)
	e.results.ShowStatus(e.unavailableStatus())
}

// Query recomputes visibility for q. It never returns an error: before the
// data is ready the input is ignored and a status line is shown instead.
func (e *Engine) Query(q string) {
	switch e.state {
	case StateLoading:
		e.results.ShowStatus(StatusLoading)
		return
	case StateUnavailable:
		e.results.ShowStatus(e.unavailableStatus())
		return
	}

	if e.mode == ModeSubstring {
		e.publish(Substring(q, e.entries))
		return
	}

	if strings.TrimSpace(q) == "" {
		e.results.HideResults()
		e.publish(e.entries)
		return
	}
	e.results.ShowResults(q, e.index.Search(q))
}

func (e *Engine) publish(items []model.Entry) {
	if e.presenter != nil {
		e.presenter.SetVisible(items)
	}
}

func (e *Engine) unavailableStatus() string {
	if e.err == nil {
		return StatusUnavailable
	}
	return fmt.Sprintf("%s: %v", StatusUnavailable, e.err)
}

type discardResults struct{}

func (discardResults) ShowResults(string, []Result) {}
func (discardResults) HideResults()                 {}
func (discardResults) ShowStatus(string)            {}
