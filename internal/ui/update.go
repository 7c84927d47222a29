package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mealbridge/mealbridge/internal/pickup"
	"github.com/mealbridge/mealbridge/internal/prefs"
	"github.com/mealbridge/mealbridge/internal/state"
	"github.com/mealbridge/mealbridge/internal/sync"
)

const (
	uiTickInterval = time.Second
	commitTimeout  = 10 * time.Second
)

func tickCmd() tea.Cmd {
	return tea.Tick(uiTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(events <-chan sync.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return busMsg(ev)
	}
}

func commitCmd(eng *sync.Engine, scope state.Scope, rec pickup.Record, action pickup.Action) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		updated, err := eng.CommitTransition(ctx, scope, rec, action)
		return commitDoneMsg{record: updated, action: action, err: err}
	}
}

func donateCmd(eng *sync.Engine, scope state.Scope, rec pickup.Record) tea.Cmd {
	return func() tea.Msg {
		return donateDoneMsg{id: rec.ID, err: eng.RecordDirectDonation(scope, rec)}
	}
}

func submitFoodCmd(eng *sync.Engine, rec pickup.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		_, err := eng.SubmitFood(ctx, rec)
		return cartDoneMsg{op: "add", err: err}
	}
}

func deleteFoodCmd(eng *sync.Engine, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		return cartDoneMsg{op: "delete", err: eng.RemoveFromCart(ctx, id)}
	}
}

func requestPickupCmd(eng *sync.Engine, rec pickup.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		return cartDoneMsg{op: "request", err: eng.RequestPickup(ctx, rec)}
	}
}

// Update handles all messages for the root model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m = m.readState()
		return m, tickCmd()

	case busMsg:
		// Best-effort early refresh of what we render; the pollers already
		// re-fetched on the same event.
		m = m.readState()
		return m, waitForEvent(m.events)

	case commitDoneMsg:
		m = m.readState()
		m.notice, m.noticeStyle = m.commitNotice(msg)
		return m, nil

	case donateDoneMsg:
		m = m.readState()
		if msg.err != nil {
			m.notice = "Could not record donation: " + msg.err.Error()
			m.noticeStyle = m.styles.Danger
		} else {
			m.notice = "Donation recorded. Thank you for sharing."
			m.noticeStyle = m.styles.Success
		}
		return m, nil

	case cartDoneMsg:
		m = m.readState()
		m.notice, m.noticeStyle = m.cartNotice(msg)
		if msg.op == "add" && msg.err == nil {
			m.form = nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The first-run role prompt covers everything until answered.
	if m.rolePrompt {
		return m.handleRoleKey(msg)
	}

	// A pending confirm swallows everything except its own answers.
	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			pending := *m.confirm
			m.confirm = nil
			switch pending.kind {
			case confirmDonate:
				return m, donateCmd(m.opts.Engine, pending.scope, pending.record)
			case confirmRequest:
				return m, requestPickupCmd(m.opts.Engine, pending.record)
			case confirmDelete:
				return m, deleteFoodCmd(m.opts.Engine, pending.record.ID)
			default:
				return m, commitCmd(m.opts.Engine, pending.scope, pending.record, pending.action)
			}
		case "n", "N", "esc":
			m.confirm = nil
			return m, nil
		case "ctrl+c":
			return m.quit()
		}
		return m, nil
	}

	// An open add-food form captures everything except its control keys.
	if m.form != nil {
		switch msg.String() {
		case "esc":
			m.form = nil
			return m, nil
		case "ctrl+c":
			return m.quit()
		case "enter", "tab", "down":
			if m.form.next() {
				return m, submitFoodCmd(m.opts.Engine, m.form.record())
			}
			return m, nil
		case "shift+tab", "up":
			m.form.prev()
			return m, nil
		}
		return m, m.form.update(msg)
	}

	// Search input captures printable keys while focused.
	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			m.searching = false
			m.search.Blur()
			return m, nil
		case "ctrl+c":
			return m.quit()
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m = m.clampCursor(tabDiscover, len(m.discoverRecords()))
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()
	case "tab", "right":
		m.tab = (m.tab + 1) % tab(len(tabNames))
		m.notice = ""
		return m, nil
	case "shift+tab", "left":
		m.tab = (m.tab + tab(len(tabNames)) - 1) % tab(len(tabNames))
		m.notice = ""
		return m, nil
	case "1", "2", "3", "4", "5", "6":
		m.tab = tab(msg.String()[0] - '1')
		m.notice = ""
		return m, nil
	case "up", "k":
		m.cursor[m.tab]--
		m = m.clampCursor(m.tab, m.listLength())
		return m, nil
	case "down", "j":
		m.cursor[m.tab]++
		m = m.clampCursor(m.tab, m.listLength())
		return m, nil
	case "/":
		if m.tab == tabDiscover {
			m.searching = true
			m.search.Focus()
		}
		return m, nil
	case "a":
		if m.tab == tabShare {
			m.form = newFoodForm()
			m.notice = ""
		}
		return m, nil
	case "d", "x":
		if m.tab == tabShare && len(m.cart.Records) > 0 {
			rec := m.cart.Records[m.cursor[tabShare]]
			m.confirm = &confirmState{kind: confirmDelete, scope: state.ScopeCart, record: rec}
		}
		return m, nil
	case "t":
		return m.toggleTheme(), nil
	case "enter", " ":
		return m.primaryAction()
	}

	return m, nil
}

// toggleTheme flips between the two palettes and persists the choice.
func (m Model) toggleTheme() Model {
	if m.theme.Name == themeHarvest.Name {
		m.theme = themeSlate
	} else {
		m.theme = themeHarvest
	}
	m.styles = m.theme.Styles()
	m.spin.Style = m.styles.Accent
	if err := prefs.Save(m.opts.PrefsPath, prefs.Prefs{Theme: m.theme.Name, Role: m.role}); err != nil {
		m.notice = "Theme changed for this session only: " + err.Error()
		m.noticeStyle = m.styles.Warning
	}
	return m
}

// cartNotice translates a cart mutation outcome into a user-facing line.
func (m Model) cartNotice(msg cartDoneMsg) (string, lipgloss.Style) {
	if msg.err == nil {
		switch msg.op {
		case "add":
			return "Food listed. Request a pickup when it is ready to go.", m.styles.Success
		case "delete":
			return "Listing removed from your cart.", m.styles.Success
		default:
			return "Pickup requested. Receivers can now claim this item.", m.styles.Success
		}
	}

	var verr *pickup.ValidationError
	if errors.As(msg.err, &verr) {
		return verr.Reason, m.styles.Warning
	}
	var nerr *sync.NotAuthenticatedError
	if errors.As(msg.err, &nerr) {
		return "Sign in to share food.", m.styles.Warning
	}
	return "Cart update failed: " + msg.err.Error(), m.styles.Danger
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancelSub != nil {
		m.cancelSub()
	}
	return m, tea.Quit
}

// listLength returns the size of the list the current tab navigates.
func (m Model) listLength() int {
	switch m.tab {
	case tabDiscover:
		return len(m.discoverRecords())
	case tabPickups:
		return len(m.available.Records)
	case tabShare:
		return len(m.cart.Records)
	case tabTracker:
		return len(m.owned.Records)
	case tabHistory:
		return len(m.history)
	}
	return 0
}

// primaryAction opens the confirm prompt for the selected record.
func (m Model) primaryAction() (tea.Model, tea.Cmd) {
	switch m.tab {
	case tabDiscover:
		records := m.discoverRecords()
		if len(records) == 0 {
			return m, nil
		}
		rec := records[m.cursor[tabDiscover]]
		m.confirm = &confirmState{kind: confirmDonate, scope: state.ScopeCompleted, record: rec}
		return m, nil

	case tabPickups:
		if len(m.available.Records) == 0 {
			return m, nil
		}
		rec := m.available.Records[m.cursor[tabPickups]]
		action, ok := pickup.ActionFor(rec.CurrentStatus())
		if !ok {
			return m, nil
		}
		m.confirm = &confirmState{kind: confirmTransition, scope: state.ScopeAvailable, record: rec, action: action}
		return m, nil

	case tabShare:
		if len(m.cart.Records) == 0 {
			return m, nil
		}
		rec := m.cart.Records[m.cursor[tabShare]]
		m.confirm = &confirmState{kind: confirmRequest, scope: state.ScopeCart, record: rec}
		return m, nil
	}
	return m, nil
}

// handleRoleKey answers the first-run role prompt and persists the pick.
func (m Model) handleRoleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "d", "D":
		return m.chooseRole(prefs.RoleDonor), nil
	case "r", "R":
		return m.chooseRole(prefs.RoleReceiver), nil
	case "q", "ctrl+c":
		return m.quit()
	}
	return m, nil
}

func (m Model) chooseRole(role string) Model {
	m.role = role
	m.rolePrompt = false
	m.tab = homeTabForRole(role)
	if err := prefs.Save(m.opts.PrefsPath, prefs.Prefs{Theme: m.theme.Name, Role: m.role}); err != nil {
		m.notice = "Role set for this session only: " + err.Error()
		m.noticeStyle = m.styles.Warning
	}
	return m
}

// commitNotice translates a transition outcome into a user-facing line.
func (m Model) commitNotice(msg commitDoneMsg) (string, lipgloss.Style) {
	if msg.err == nil {
		if pickup.IsTerminal(msg.record.Status) {
			return "Pickup completed. The item moved to the completed list.", m.styles.Success
		}
		return "Status updated to " + string(msg.record.Status) + ".", m.styles.Success
	}

	var verr *pickup.ValidationError
	if errors.As(msg.err, &verr) {
		return verr.Reason, m.styles.Warning
	}
	var serr *sync.StaleStateError
	if errors.As(msg.err, &serr) {
		return "Someone else got there first; the list has been refreshed.", m.styles.Warning
	}
	var nerr *sync.NotAuthenticatedError
	if errors.As(msg.err, &nerr) {
		return "Sign in to manage pickups.", m.styles.Warning
	}
	return "Update failed: " + msg.err.Error(), m.styles.Danger
}
