package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/components/input"
	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/components/list"
	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/components/preview"
	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/components/status"
	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/keymap"
	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/messages"
	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/styles"
	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/logger"
)

// State is the interaction mode of the App.
type State int

const (
	// StateBrowsing moves through results with single-key commands.
	StateBrowsing State = iota
	// StateSearching sends keystrokes to the query input.
	StateSearching
	// StatePreviewing shows the selected document full screen.
	StatePreviewing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateSearching:
		return "searching"
	case StatePreviewing:
		return "previewing"
	default:
		return "unknown"
	}
}

// Notices shown in the preview pane after an index change.
const (
	noticeRemoved = "This file was removed from disk."
	noticeNoMatch = "This file no longer matches the query."
)

// listWidthRatio is the share of the width given to the result list.
const listWidthRatio = 0.45

// chromeHeight is the number of rows used by the title, the input, the
// query hint line and the status bar.
const chromeHeight = 1 + 3 + 1 + 1

// Options configures an App.
type Options struct {
	// Root is the directory being searched, shown in the title bar.
	Root string

	// Limit caps the number of results per query.
	Limit int

	// PreviewLines is the number of lines shown in the side preview.
	PreviewLines int

	// Theme overrides the default colours.
	Theme domain.ThemeSettings

	// Events delivers live index changes. Nil disables live updates.
	Events <-chan domain.IndexEvent

	// Report is the result of the initial build.
	Report domain.BuildReport
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	input     *input.SearchInput
	list      *list.ResultList
	preview   *preview.Pane
	statusbar *status.Bar

	state    State
	showHelp bool
	root     string
	limit    int
	events   <-chan domain.IndexEvent
	queryErr *domain.QueryError

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application and runs the empty query so the
// first frame lists every document.
func NewApp(ports *Ports, opts Options) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingSearchService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.NewStyles(styles.NewTheme(opts.Theme))
	a := &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keys:      keymap.DefaultKeyMap(),
		input:     input.NewSearchInput(s),
		list:      list.NewResultList(s),
		preview:   preview.NewPane(s, opts.PreviewLines),
		statusbar: status.NewBar(s),
		root:      opts.Root,
		limit:     opts.Limit,
		events:    opts.Events,
	}
	a.statusbar.SetSkipped(len(opts.Report.Skipped))
	if n := len(opts.Report.Skipped); n > 0 {
		a.statusbar.SetMessage(status.LevelWarning, fmt.Sprintf("%d files could not be read", n))
	}

	a.runSearch(false)
	a.refreshPreview()
	a.syncChrome()
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	title := "mdf"
	if a.root != "" {
		title += " - " + a.root
	}
	return tea.Batch(tea.SetWindowTitle(title), a.waitForEvent())
}

// waitForEvent turns the next index event into a message.
func (a *App) waitForEvent() tea.Cmd {
	if a.events == nil {
		return nil
	}
	events := a.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return messages.WatchStopped{}
		}
		return messages.IndexChanged{Event: event}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if a.showHelp {
			if key.Matches(msg, a.keys.Help, a.keys.Back, a.keys.Quit) {
				a.showHelp = false
			}
			return a, nil
		}

		var cmd tea.Cmd
		switch a.state {
		case StateSearching:
			cmd = a.updateSearching(msg)
		case StatePreviewing:
			cmd = a.updatePreviewing(msg)
		default:
			cmd = a.updateBrowsing(msg)
		}
		a.syncChrome()
		return a, cmd

	case messages.IndexChanged:
		a.handleIndexChanged(msg.Event)
		a.syncChrome()
		return a, a.waitForEvent()

	case messages.WatchStopped:
		a.events = nil
		logger.Debug("tui: index event stream closed")
		return a, nil

	case messages.ActionCompleted:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusbar.SetMessage(status.LevelError, msg.Err.Error())
			return a, nil
		}
		if msg.Action == messages.ActionCopyCode {
			a.statusbar.SetMessage(status.LevelInfo, fmt.Sprintf("%s %d from %s", msg.Action, msg.Block+1, msg.Path))
			return a, nil
		}
		a.statusbar.SetMessage(status.LevelInfo, fmt.Sprintf("%s %s", msg.Action, msg.Path))
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		if msg.Err != nil {
			a.statusbar.SetMessage(status.LevelError, msg.Err.Error())
		}
		return a, nil
	}

	if a.state == StateSearching {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateBrowsing(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
	case key.Matches(msg, a.keys.Search):
		return a.startSearching()
	case key.Matches(msg, a.keys.Up):
		a.list.MoveUp()
		a.refreshPreview()
	case key.Matches(msg, a.keys.Down):
		a.list.MoveDown()
		a.refreshPreview()
	case key.Matches(msg, a.keys.Preview):
		a.startPreviewing()
	case key.Matches(msg, a.keys.CopyPath):
		return a.action(messages.ActionCopyPath)
	case key.Matches(msg, a.keys.CopyContent):
		return a.action(messages.ActionCopyContent)
	case key.Matches(msg, a.keys.Open):
		return a.action(messages.ActionOpen)
	case key.Matches(msg, a.keys.Back):
		a.statusbar.ClearMessage()
		if a.input.Value() != "" {
			a.input.Reset()
			a.runSearch(false)
			a.refreshPreview()
		}
	case msg.Type == tea.KeyRunes:
		// Any other printable key starts a query with that character.
		focus := a.startSearching()
		return tea.Batch(focus, a.updateSearching(msg))
	}
	return nil
}

func (a *App) updateSearching(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.input.Blur()
		a.state = StateBrowsing
		return nil
	case key.Matches(msg, a.keys.Preview):
		if a.list.SelectedResult() == nil {
			return nil
		}
		a.input.Blur()
		a.startPreviewing()
		return nil
	case key.Matches(msg, a.keys.PrevResult):
		a.list.MoveUp()
		a.refreshPreview()
		return nil
	case key.Matches(msg, a.keys.NextResult):
		a.list.MoveDown()
		a.refreshPreview()
		return nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() != before {
		a.runSearch(false)
		a.refreshPreview()
	}
	return cmd
}

func (a *App) updatePreviewing(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Back, a.keys.Quit):
		a.state = StateBrowsing
		a.preview.SetFull(false)
		a.layout()
		a.refreshPreview()
		return nil
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil
	case key.Matches(msg, a.keys.CopyPath):
		return a.action(messages.ActionCopyPath)
	case key.Matches(msg, a.keys.CopyContent):
		return a.action(messages.ActionCopyContent)
	case key.Matches(msg, a.keys.CopyCode):
		return a.copyCodeBlock(keymap.CodeBlockIndex(msg.String()))
	case key.Matches(msg, a.keys.Open):
		return a.action(messages.ActionOpen)
	case key.Matches(msg, a.keys.Top):
		a.preview.GotoTop()
		return nil
	case key.Matches(msg, a.keys.Bottom):
		a.preview.GotoBottom()
		return nil
	}
	var cmd tea.Cmd
	a.preview, cmd = a.preview.Update(msg)
	return cmd
}

func (a *App) startSearching() tea.Cmd {
	a.state = StateSearching
	return a.input.Focus()
}

func (a *App) startPreviewing() {
	if a.list.SelectedResult() == nil {
		return
	}
	a.state = StatePreviewing
	a.preview.SetFull(true)
	a.layout()
	a.refreshPreview()
}

// actionTarget returns a copy of the selected result, or false after
// explaining in the status bar why no action can run.
func (a *App) actionTarget() (domain.SearchResult, bool) {
	selected := a.list.SelectedResult()
	if selected == nil {
		a.statusbar.SetMessage(status.LevelWarning, ErrNoSelection.Error())
		return domain.SearchResult{}, false
	}
	if a.ports.ResultAction == nil {
		a.statusbar.SetMessage(status.LevelWarning, "actions are not available")
		return domain.SearchResult{}, false
	}
	return *selected, true
}

// copyCodeBlock copies fenced code block n of the selection in the
// background.
func (a *App) copyCodeBlock(n int) tea.Cmd {
	result, ok := a.actionTarget()
	if !ok || n < 0 {
		return nil
	}
	svc := a.ports.ResultAction
	ctx := a.ctx
	return func() tea.Msg {
		err := svc.CopyCodeBlock(ctx, &result, n)
		return messages.ActionCompleted{Action: messages.ActionCopyCode, Path: result.RelPath, Block: n, Err: err}
	}
}

// action runs a result action in the background.
func (a *App) action(kind messages.Action) tea.Cmd {
	result, ok := a.actionTarget()
	if !ok {
		return nil
	}
	svc := a.ports.ResultAction
	ctx := a.ctx
	return func() tea.Msg {
		var err error
		switch kind {
		case messages.ActionCopyPath:
			err = svc.CopyPath(ctx, &result)
		case messages.ActionCopyContent:
			err = svc.CopyContent(ctx, &result)
		case messages.ActionOpen:
			err = svc.OpenDocument(ctx, &result)
		}
		return messages.ActionCompleted{Action: kind, Path: result.RelPath, Err: err}
	}
}

// runSearch re-runs the current query. With keepSelection the selected
// path stays selected when it is still in the results; the return value
// reports whether that happened.
func (a *App) runSearch(keepSelection bool) bool {
	var previous string
	if keepSelection {
		if r := a.list.SelectedResult(); r != nil {
			previous = r.Path
		}
	}

	results, err := a.ports.Search.Search(a.ctx, a.input.Value(), domain.SearchOptions{Limit: a.limit})
	a.queryErr = nil
	if qe, ok := domain.AsQueryError(err); ok {
		a.queryErr = qe
		results = nil
	} else if err != nil {
		a.err = err
		a.statusbar.SetMessage(status.LevelError, err.Error())
		results = nil
	}

	a.list.SetResults(results)
	if previous == "" {
		return false
	}
	return a.list.SelectPath(previous)
}

// refreshPreview loads the selected document into the preview pane.
func (a *App) refreshPreview() {
	selected := a.list.SelectedResult()
	if selected == nil {
		a.preview.Clear()
		return
	}
	doc, err := a.ports.Documents.Get(a.ctx, selected.Path)
	if err != nil {
		a.preview.Clear()
		a.preview.SetNotice(err.Error())
		return
	}
	a.preview.SetDocument(doc, a.input.Value())
}

// handleIndexChanged re-runs the query against the new index. A
// document open in full preview stays on screen with a notice when it
// drops out of the results.
func (a *App) handleIndexChanged(event domain.IndexEvent) {
	if event.Err != nil {
		a.statusbar.SetMessage(status.LevelError, event.Err.Error())
		var readErr *domain.FileReadError
		if errors.As(event.Err, &readErr) {
			a.statusbar.SetSkipped(a.statusbar.Skipped() + 1)
		}
	}

	var shown string
	if doc := a.preview.Document(); doc != nil {
		shown = doc.Path
	}
	kept := a.runSearch(true)

	if a.state == StatePreviewing && shown != "" && !kept {
		if _, err := a.ports.Documents.Get(a.ctx, shown); errors.Is(err, domain.ErrNotFound) {
			a.preview.SetNotice(noticeRemoved)
		} else {
			a.preview.SetNotice(noticeNoMatch)
		}
		return
	}
	a.refreshPreview()
}

// syncChrome updates the status bar for the current state.
func (a *App) syncChrome() {
	documents := a.list.Count()
	if a.ports.Index != nil {
		documents = a.ports.Index.Stats().Documents
	}
	a.statusbar.SetCounts(a.list.Count(), documents)

	switch a.state {
	case StateSearching:
		a.statusbar.SetBindings(a.keys.SearchingHelp())
	case StatePreviewing:
		a.statusbar.SetBindings(a.keys.PreviewingHelp())
	default:
		a.statusbar.SetBindings(a.keys.BrowsingHelp())
	}
}

// bodyHeight is the number of rows left for the list and preview.
func (a *App) bodyHeight() int {
	h := a.height - chromeHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) listWidth() int {
	return int(float64(a.width) * listWidthRatio)
}

// layout sizes every component for the current terminal and state.
func (a *App) layout() {
	if !a.ready {
		return
	}
	a.input.SetWidth(a.width)
	a.statusbar.SetWidth(a.width)

	body := a.bodyHeight()
	if a.state == StatePreviewing {
		a.preview.SetDimensions(a.width, body)
		return
	}
	lw := a.listWidth()
	a.list.SetDimensions(lw, body)
	a.preview.SetDimensions(a.width-lw-1, body)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	title := a.styles.Title.Render("mdf")
	if a.root != "" {
		title += " " + a.styles.Muted.Render(a.root)
	}

	var hint string
	if a.queryErr != nil {
		hint = a.styles.Error.Render(a.queryErr.Error())
		if a.queryErr.Hint != "" {
			hint += "  " + a.styles.Muted.Render(a.queryErr.Hint)
		}
	}

	height := a.bodyHeight()
	var body string
	switch {
	case a.showHelp:
		body = a.statusbar.FullHelp(a.keys.FullHelp())
	case a.state == StatePreviewing:
		body = a.preview.View()
	default:
		lw := a.listWidth()
		left := lipgloss.NewStyle().Width(lw).Height(height).Render(a.listView())
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", a.preview.View())
	}
	body = lipgloss.NewStyle().Height(height).MaxHeight(height).Render(body)

	return strings.Join([]string{title, a.input.View(), hint, body, a.statusbar.View()}, "\n")
}

func (a *App) listView() string {
	if !a.list.IsEmpty() {
		return a.list.View()
	}
	if a.queryErr != nil || a.input.Value() != "" {
		return a.styles.Muted.Render("No results")
	}
	return a.styles.Muted.Render("No markdown files found")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// State returns the current interaction state.
func (a *App) State() State {
	return a.state
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.input.Value()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.list.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.list.Selected()
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// QueryErr returns the syntax error of the current query, if any.
func (a *App) QueryErr() *domain.QueryError {
	return a.queryErr
}

// ShowHelp reports whether the full help is on screen.
func (a *App) ShowHelp() bool {
	return a.showHelp
}

// Notice returns the notice shown in the preview pane.
func (a *App) Notice() string {
	return a.preview.Notice()
}

// PreviewDocument returns the document in the preview pane.
func (a *App) PreviewDocument() *domain.Document {
	return a.preview.Document()
}

// StatusMessage returns the status bar message.
func (a *App) StatusMessage() string {
	_, msg := a.statusbar.Message()
	return msg
}
