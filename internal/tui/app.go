package tui

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/postlist/internal/model"
	"github.com/nikbrunner/postlist/internal/pager"
	"github.com/nikbrunner/postlist/internal/search"
	"github.com/nikbrunner/postlist/internal/share"
	"github.com/nikbrunner/postlist/internal/theme"
	"github.com/nikbrunner/postlist/internal/tui/layout"
)

const fetchTimeout = 15 * time.Second

// MessageType controls how the message line is styled.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageError
)

// Loader fetches the entry collection.
type Loader func(ctx context.Context) (*model.Store, error)

// indexLoadedMsg carries the result of the asynchronous index fetch.
type indexLoadedMsg struct {
	store *model.Store
	err   error
}

// App is the main bubbletea model for browsing a post list.
type App struct {
	keys         KeyMap
	styles       Styles
	fixedStyles  bool
	layoutConfig layout.Config

	engine    *search.Engine
	presenter *pager.Presenter
	list      *listView
	results   *resultsView
	input     textinput.Model
	loader    Loader

	pref      *theme.Preference
	theme     theme.Theme
	siteURL   *url.URL
	openURL   func(string) error
	clipboard func(string) error
	logger    *slog.Logger

	cursor int // index into the rows currently shown

	messageText string
	messageType MessageType

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	// Store, when set, is loaded immediately. Otherwise Loader is run from
	// Init and the list shows a loading status until it returns.
	Store  *model.Store
	Loader Loader

	Mode     search.Mode
	Fuzzy    search.FuzzyOptions
	PageSize int

	Theme     *theme.Preference  // optional, light when nil
	SiteURL   string             // base for relative links
	OpenURL   func(string) error // optional
	Clipboard func(string) error // optional, uses the system clipboard if nil
	Logger    *slog.Logger       // optional

	Keys   *KeyMap        // optional, uses default if nil
	Styles *Styles        // optional, follows the theme if nil
	Layout *layout.Config // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	layoutConfig := layout.DefaultConfig()
	if params.Layout != nil {
		layoutConfig = *params.Layout
	}

	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "search posts"

	list := &listView{}
	results := &resultsView{}
	presenter := pager.New(list, 0, params.PageSize)

	app := App{
		keys:         keys,
		layoutConfig: layoutConfig,
		presenter:    presenter,
		list:         list,
		results:      results,
		input:        input,
		loader:       params.Loader,
		pref:         params.Theme,
		openURL:      params.OpenURL,
		clipboard:    copyFn,
		logger:       logger,
		width:        80,
		height:       24,
	}

	app.engine = search.NewEngine(search.EngineParams{
		Mode:      params.Mode,
		Presenter: presenter,
		Results:   results,
		Logger:    logger,
		Fuzzy:     params.Fuzzy,
	})

	if params.SiteURL != "" {
		if u, err := url.Parse(params.SiteURL); err == nil {
			app.siteURL = u
		} else {
			logger.Warn("ignoring site url", "url", params.SiteURL, "err", err)
		}
	}

	if params.Theme != nil {
		app.theme = params.Theme.Current()
	}
	if params.Styles != nil {
		app.styles = *params.Styles
		app.fixedStyles = true
	} else {
		app.styles = StylesFor(app.theme)
	}

	if params.Store != nil {
		app.load(params.Store)
	}

	return app
}

// load hands a collection to the engine.
func (a *App) load(store *model.Store) {
	a.presenter.Resize(store.Len())
	a.list.resize(store.Len())
	a.engine.Load(store.All())
	a.cursor = 0
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.loader == nil || a.engine.State() != search.StateLoading {
		return nil
	}
	return fetchIndex(a.loader)
}

func fetchIndex(loader Loader) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		store, err := loader(ctx)
		return indexLoadedMsg{store: store, err: err}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case indexLoadedMsg:
		if msg.err != nil {
			a.engine.Fail(msg.err)
			return a, nil
		}
		a.load(msg.store)
		// Input typed while loading was ignored; catch up with it now.
		if a.input.Value() != "" {
			a.query()
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a, tea.Quit
	}

	if a.input.Focused() {
		if key.Matches(msg, a.keys.Blur) {
			a.input.Blur()
			return a, nil
		}
		before := a.input.Value()
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		if a.input.Value() != before {
			a.query()
		}
		return a, cmd
	}

	a.messageText = ""

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Search):
		cmd := a.input.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Down):
		if n := len(a.rows()); n > 0 && a.cursor < n-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.PrevPage):
		if !a.results.active && a.presenter.Prev() {
			a.cursor = 0
		}

	case key.Matches(msg, a.keys.NextPage):
		if !a.results.active && a.presenter.Next() {
			a.cursor = 0
		}

	case key.Matches(msg, a.keys.GoToPage):
		page := int(msg.String()[0] - '0')
		if !a.results.active && a.presenter.GoToPage(page) {
			a.cursor = 0
		}

	case key.Matches(msg, a.keys.Open):
		a.openSelected()

	case key.Matches(msg, a.keys.YankURL):
		if e := a.Selected(); e != nil {
			a.copy(a.entryURL(*e), "Copied URL")
		}

	case key.Matches(msg, a.keys.Share):
		if e := a.Selected(); e != nil {
			links := share.Build(a.entryURL(*e), e.Title)
			a.copy(links.Twitter, "Copied share link")
		}

	case key.Matches(msg, a.keys.Theme):
		a.toggleTheme()
	}

	return a, nil
}

// query runs the live input through the engine.
func (a *App) query() {
	a.engine.Query(a.input.Value())
	a.cursor = 0
}

func (a *App) openSelected() {
	e := a.Selected()
	if e == nil {
		return
	}
	if a.openURL == nil {
		a.setMessage(MessageError, "No browser configured")
		return
	}
	u := a.entryURL(*e)
	if err := a.openURL(u); err != nil {
		a.logger.Warn("open failed", "url", u, "err", err)
		a.setMessage(MessageError, fmt.Sprintf("Open failed: %v", err))
		return
	}
	a.setMessage(MessageInfo, "Opened "+e.Title)
}

func (a *App) copy(text, done string) {
	if err := a.clipboard(text); err != nil {
		a.logger.Warn("clipboard write failed", "err", err)
		a.setMessage(MessageError, fmt.Sprintf("Clipboard unavailable: %v", err))
		return
	}
	a.setMessage(MessageSuccess, done)
}

func (a *App) toggleTheme() {
	if a.pref != nil {
		a.theme = a.pref.Toggle()
	} else {
		a.theme = a.theme.Toggle()
	}
	if !a.fixedStyles {
		a.styles = StylesFor(a.theme)
	}
	a.setMessage(MessageInfo, "Theme: "+a.theme.String())
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

// entryURL resolves an entry's link against the site URL.
func (a App) entryURL(e model.Entry) string {
	if a.siteURL == nil {
		return e.Href
	}
	ref, err := url.Parse(e.Href)
	if err != nil {
		return e.Href
	}
	return a.siteURL.ResolveReference(ref).String()
}

// rows returns the entries currently listed: ranked results while a fuzzy
// query is active, otherwise the entries the presenter marked visible.
func (a App) rows() []model.Entry {
	if a.results.active {
		out := make([]model.Entry, len(a.results.results))
		for i, r := range a.results.results {
			out[i] = r.Entry
		}
		return out
	}

	var out []model.Entry
	for _, e := range a.engine.Entries() {
		if a.list.isVisible(e.Pos) {
			out = append(out, e)
		}
	}
	return out
}

// Selected returns the entry under the cursor, or nil.
func (a App) Selected() *model.Entry {
	rows := a.rows()
	if a.cursor < 0 || a.cursor >= len(rows) {
		return nil
	}
	e := rows[a.cursor]
	return &e
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Titles returns the titles of the rows currently listed.
func (a App) Titles() []string {
	rows := a.rows()
	titles := make([]string, len(rows))
	for i, e := range rows {
		titles[i] = e.Title
	}
	return titles
}

// CurrentPage returns the presenter's current page.
func (a App) CurrentPage() int {
	return a.presenter.CurrentPage()
}

// Controls returns the navigation row last drawn.
func (a App) Controls() pager.Controls {
	return a.list.controls
}

// SearchState returns the engine's readiness.
func (a App) SearchState() search.State {
	return a.engine.State()
}

// ResultsActive reports whether the ranked results pane replaces the list.
func (a App) ResultsActive() bool {
	return a.results.active
}

// Status returns the search status line.
func (a App) Status() string {
	if a.results.status == "" && a.engine.State() == search.StateLoading {
		return search.StatusLoading
	}
	return a.results.status
}

// Query returns the live search input.
func (a App) Query() string {
	return a.input.Value()
}

// Searching reports whether the search input has focus.
func (a App) Searching() bool {
	return a.input.Focused()
}

// Theme returns the active theme.
func (a App) Theme() theme.Theme {
	return a.theme
}

// Message returns the message line text.
func (a App) Message() string {
	return a.messageText
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
