package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskflow/internal/todo"
)

const (
	// DefaultNotifyDelay is how long a notification banner stays up.
	DefaultNotifyDelay = 3 * time.Second
	// DefaultFadeDelay is how long a deleted card fades before removal.
	DefaultFadeDelay = 300 * time.Millisecond
)

// Filter is the category filter applied to the card list.
type Filter int

const (
	FilterAll Filter = iota
	FilterHigh
	FilterCompleted
	FilterPending
)

var filterNames = []string{"All", "High", "Completed", "Pending"}

func (f Filter) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return "Unknown"
	}
	return filterNames[f]
}

// ParseFilter parses a filter name case-insensitively. Empty means all.
func ParseFilter(name string) (Filter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FilterAll, nil
	}
	for i, n := range filterNames {
		if strings.EqualFold(n, name) {
			return Filter(i), nil
		}
	}
	return FilterAll, fmt.Errorf("invalid filter %q, must be one of: all, high, completed, pending", name)
}

// Allows reports whether a task passes the filter.
func (f Filter) Allows(t todo.Task) bool {
	switch f {
	case FilterHigh:
		return t.Priority == todo.PriorityHigh
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}

// NotificationKind selects the banner style.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
	NotifyWarning NotificationKind = "warning"
)

type notification struct {
	kind    NotificationKind
	message string
	token   int
}

// card is the view projection of one task. Only favorite and the fade
// state are owned by the view; task is always a copy of a store record.
type card struct {
	task      todo.Task
	favorite  bool
	fading    bool
	fadeToken int
}

type notificationExpiredMsg struct {
	token int
}

type fadeDoneMsg struct {
	id    string
	token int
}

type modalKind int

const (
	modalNone modalKind = iota
	modalForm
	modalConfirm
	modalPrompt
)

// Option configures a Model.
type Option func(*Model)

// WithNotifyDelay sets how long notifications stay visible.
func WithNotifyDelay(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.notifyDelay = d
		}
	}
}

// WithFadeDelay sets the delete fade-out duration.
func WithFadeDelay(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.fadeDelay = d
		}
	}
}

// WithClock sets the clock used for due date validation.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger for store failures.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLoadReport shows a warning on start when the store loaded with problems.
func WithLoadReport(report todo.LoadReport) Option {
	return func(m *Model) {
		m.report = report
	}
}

// Model is the Bubble Tea model of the task list.
type Model struct {
	ctx         context.Context
	store       *todo.Store
	logger      *log.Logger
	now         func() time.Time
	notifyDelay time.Duration
	fadeDelay   time.Duration
	report      todo.LoadReport

	// cards are ordered most recent first.
	cards     []*card
	cursor    int
	filter    Filter
	search    textinput.Model
	searching bool

	modal   modalKind
	form    *taskForm
	confirm *confirmDialog
	prompt  *titlePrompt

	notification *notification
	notifySeq    int
	fadeSeq      int

	stats    todo.Stats
	progress progress.Model
	showHelp bool
	width    int
}

// NewModel builds the view over store. The store should already be loaded.
func NewModel(ctx context.Context, store *todo.Store, opts ...Option) *Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search tasks..."
	search.CharLimit = 128

	m := &Model{
		ctx:         ctx,
		store:       store,
		logger:      log.New(io.Discard),
		now:         time.Now,
		notifyDelay: DefaultNotifyDelay,
		fadeDelay:   DefaultFadeDelay,
		search:      search,
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
	for _, opt := range opts {
		opt(m)
	}

	tasks := store.Tasks()
	m.cards = make([]*card, 0, len(tasks))
	for i := len(tasks) - 1; i >= 0; i-- {
		m.cards = append(m.cards, &card{task: tasks[i]})
	}
	m.recomputeStats()
	return m
}

func (m *Model) Init() tea.Cmd {
	switch {
	case m.report.Corrupt != nil:
		return m.notify(NotifyWarning, "Saved tasks could not be read; starting with an empty list")
	case len(m.report.Skipped) > 0:
		return m.notify(NotifyWarning, pluralize(len(m.report.Skipped), "malformed task was", "malformed tasks were")+" skipped")
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = clamp(msg.Width-24, 10, 60)
		return m, nil
	case notificationExpiredMsg:
		if m.notification != nil && m.notification.token == msg.token {
			m.notification = nil
		}
		return m, nil
	case fadeDoneMsg:
		m.finishFade(msg)
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.modal != modalNone:
			return m, m.updateModal(msg)
		case m.searching:
			return m, m.updateSearch(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "esc":
		if m.showHelp {
			m.showHelp = false
		} else if m.search.Value() != "" {
			m.search.SetValue("")
			m.clampCursor()
		}
	case "n":
		return m, m.openForm()
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "0":
		m.setFilter(FilterAll)
	case "1":
		m.setFilter(FilterHigh)
	case "2":
		m.setFilter(FilterCompleted)
	case "3":
		m.setFilter(FilterPending)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case " ", "space", "x":
		return m, m.toggleSelected()
	case "f":
		if c := m.selected(); c != nil && !c.fading {
			c.favorite = !c.favorite
		}
	case "d":
		if c := m.selected(); c != nil && !c.fading {
			m.openConfirm(c)
		}
	case "e":
		if c := m.selected(); c != nil && !c.fading {
			return m, m.openPrompt(c)
		}
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.search.SetValue("")
		m.stopSearch()
		return nil
	case "enter":
		m.stopSearch()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.clampCursor()
	return cmd
}

func (m *Model) stopSearch() {
	m.searching = false
	m.search.Blur()
	m.clampCursor()
}

func (m *Model) setFilter(f Filter) {
	m.filter = f
	m.clampCursor()
}

// visible returns the cards passing both the category filter and the
// search term, in display order.
func (m *Model) visible() []*card {
	term := m.search.Value()
	out := make([]*card, 0, len(m.cards))
	for _, c := range m.cards {
		if m.filter.Allows(c.task) && c.task.Matches(term) {
			out = append(out, c)
		}
	}
	return out
}

func (m *Model) selected() *card {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return nil
	}
	return vis[m.cursor]
}

func (m *Model) clampCursor() {
	m.cursor = clamp(m.cursor, 0, len(m.visible())-1)
}

func (m *Model) cardIndex(id string) int {
	for i, c := range m.cards {
		if c.task.ID == id {
			return i
		}
	}
	return -1
}

// dropCard removes the card for id immediately.
func (m *Model) dropCard(id string) {
	if i := m.cardIndex(id); i >= 0 {
		m.cards = append(m.cards[:i], m.cards[i+1:]...)
	}
	m.clampCursor()
}

func (m *Model) recomputeStats() {
	m.stats = m.store.Stats()
}

func (m *Model) toggleSelected() tea.Cmd {
	c := m.selected()
	if c == nil || c.fading {
		return nil
	}
	task, found, err := m.store.ToggleCompletion(m.ctx, c.task.ID)
	if !found {
		m.dropCard(c.task.ID)
		m.recomputeStats()
		return nil
	}
	c.task = task
	m.recomputeStats()
	if err != nil {
		return m.storeFailed("toggle", err)
	}
	m.clampCursor()
	return nil
}

func (m *Model) deleteTask(id string) tea.Cmd {
	found, err := m.store.Delete(m.ctx, id)
	if err != nil {
		return m.storeFailed("delete", err)
	}
	if !found {
		m.dropCard(id)
		m.recomputeStats()
		return nil
	}

	m.recomputeStats()
	i := m.cardIndex(id)
	if i < 0 {
		return m.notify(NotifyInfo, "Task deleted successfully!")
	}
	m.fadeSeq++
	c := m.cards[i]
	c.fading = true
	c.fadeToken = m.fadeSeq
	return tea.Batch(
		fadeCmd(m.fadeDelay, id, c.fadeToken),
		m.notify(NotifyInfo, "Task deleted successfully!"),
	)
}

func (m *Model) finishFade(msg fadeDoneMsg) {
	i := m.cardIndex(msg.id)
	if i < 0 {
		return
	}
	c := m.cards[i]
	if !c.fading || c.fadeToken != msg.token {
		return
	}
	m.dropCard(msg.id)
}

func (m *Model) updateTitle(id, title string) tea.Cmd {
	changed, err := m.store.UpdateTitle(m.ctx, id, title)
	if err != nil {
		return m.storeFailed("update", err)
	}
	if !changed {
		return nil
	}
	if task, ok := m.store.Get(id); ok {
		if i := m.cardIndex(id); i >= 0 {
			m.cards[i].task = task
		}
	}
	m.clampCursor()
	return m.notify(NotifySuccess, "Task updated successfully!")
}

func (m *Model) createTask(fields todo.Fields) (tea.Cmd, bool) {
	task, err := m.store.Create(m.ctx, fields)
	if err != nil {
		return m.storeFailed("create", err), false
	}
	m.cards = append([]*card{{task: task}}, m.cards...)
	m.cursor = 0
	m.recomputeStats()
	return m.notify(NotifySuccess, "Task created successfully!"), true
}

func (m *Model) storeFailed(op string, err error) tea.Cmd {
	m.logger.Error("task store write failed", "op", op, "err", err)
	return m.notify(NotifyError, "Could not save changes: "+err.Error())
}

// notify replaces the current banner and schedules its dismissal.
func (m *Model) notify(kind NotificationKind, message string) tea.Cmd {
	m.notifySeq++
	m.notification = &notification{kind: kind, message: message, token: m.notifySeq}
	token := m.notifySeq
	return tea.Tick(m.notifyDelay, func(time.Time) tea.Msg {
		return notificationExpiredMsg{token: token}
	})
}

func fadeCmd(d time.Duration, id string, token int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return fadeDoneMsg{id: id, token: token}
	})
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
