package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mealbridge/mealbridge/internal/config"
	"github.com/mealbridge/mealbridge/internal/pickup"
	"github.com/mealbridge/mealbridge/internal/prefs"
	"github.com/mealbridge/mealbridge/internal/shadow"
	"github.com/mealbridge/mealbridge/internal/state"
	"github.com/mealbridge/mealbridge/internal/stats"
	"github.com/mealbridge/mealbridge/internal/sync"
)

type tab int

const (
	tabHome tab = iota
	tabDiscover
	tabPickups
	tabShare
	tabTracker
	tabHistory
)

var tabNames = []string{"Home", "Discover", "Pickups", "Share", "My Listings", "History"}

// confirmKind discriminates what a pending yes/no prompt commits.
type confirmKind int

const (
	confirmTransition confirmKind = iota
	confirmDonate
	confirmRequest
	confirmDelete
)

// confirmState is a pending yes/no prompt before a mutating action.
type confirmState struct {
	kind   confirmKind
	scope  state.Scope
	record pickup.Record
	action pickup.Action
}

// Options configure the UI runtime.
type Options struct {
	Engine    *sync.Engine
	Config    config.Config
	ThemeName string
	Role      string
	PrefsPath string
}

// Model is the root bubbletea model.
type Model struct {
	opts   Options
	theme  Theme
	styles Styles

	tab    tab
	width  int
	height int

	role       string
	rolePrompt bool

	spin      spinner.Model
	search    textinput.Model
	searching bool

	cursor map[tab]int

	// Working-set snapshots, re-read on every tick and broadcast.
	available state.WorkingSet
	owned     state.WorkingSet
	completed state.WorkingSet
	cart      state.WorkingSet
	impact    stats.Snapshot
	history   []shadow.Entry

	form        *foodForm
	confirm     *confirmState
	notice      string
	noticeStyle lipgloss.Style

	events    <-chan sync.Event
	cancelSub func()
}

func newModel(opts Options) Model {
	theme := themeByName(opts.ThemeName)
	styles := theme.Styles()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Accent

	search := textinput.New()
	search.Placeholder = "Search by location..."
	search.CharLimit = 64
	search.Width = 32

	events, cancelSub := opts.Engine.Events().Subscribe()

	m := Model{
		opts:       opts,
		theme:      theme,
		styles:     styles,
		role:       opts.Role,
		rolePrompt: opts.Role == "",
		spin:       spin,
		search:     search,
		cursor:     make(map[tab]int),
		events:     events,
		cancelSub:  cancelSub,
	}
	m.tab = homeTabForRole(m.role)
	return m
}

// homeTabForRole lands a donor on their sharing view and a receiver on
// discovery. Before a role is chosen the tab is irrelevant; the prompt
// covers the screen.
func homeTabForRole(role string) tab {
	switch role {
	case prefs.RoleDonor:
		return tabShare
	case prefs.RoleReceiver:
		return tabDiscover
	}
	return tabHome
}

// Init starts the tick loop, the spinner, and the broadcast listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spin.Tick, waitForEvent(m.events))
}

// readState re-reads every snapshot the views render from. Total re-read;
// nothing incremental to drift.
func (m Model) readState() Model {
	store := m.opts.Engine.Store()
	m.available = store.Snapshot(state.ScopeAvailable)
	m.owned = store.Snapshot(state.ScopeOwned)
	m.completed = store.Snapshot(state.ScopeCompleted)
	m.cart = store.Snapshot(state.ScopeCart)
	m.history = m.opts.Engine.Shadow().History()
	m.impact = m.opts.Engine.ComputeStats()

	// Lists shrink between polls; selections must follow.
	m = m.clampCursor(tabDiscover, len(m.discoverRecords()))
	m = m.clampCursor(tabPickups, len(m.available.Records))
	m = m.clampCursor(tabShare, len(m.cart.Records))
	m = m.clampCursor(tabTracker, len(m.owned.Records))
	m = m.clampCursor(tabHistory, len(m.history))
	return m
}

// discoverRecords applies the live location filter to the discovery list.
func (m Model) discoverRecords() []pickup.Record {
	return sync.ApplyFilter(m.completed.Records, sync.ByLocation(m.search.Value()))
}

// clampCursor keeps the selection inside the current list after removals.
func (m Model) clampCursor(t tab, length int) Model {
	if length == 0 {
		m.cursor[t] = 0
		return m
	}
	if m.cursor[t] >= length {
		m.cursor[t] = length - 1
	}
	if m.cursor[t] < 0 {
		m.cursor[t] = 0
	}
	return m
}
