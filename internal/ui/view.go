package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mealbridge/mealbridge/internal/pickup"
	"github.com/mealbridge/mealbridge/internal/shadow"
)

// View renders the whole screen.
func (m Model) View() string {
	if m.rolePrompt {
		return m.renderRolePrompt()
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch {
	case m.confirm != nil:
		b.WriteString(m.renderConfirm())
	case m.form != nil:
		b.WriteString(m.renderForm())
	default:
		switch m.tab {
		case tabHome:
			b.WriteString(m.renderHome())
		case tabDiscover:
			b.WriteString(m.renderDiscover())
		case tabPickups:
			b.WriteString(m.renderPickups())
		case tabShare:
			b.WriteString(m.renderShare())
		case tabTracker:
			b.WriteString(m.renderTracker())
		case tabHistory:
			b.WriteString(m.renderHistory())
		}
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.noticeStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("mealbridge")
	if m.role != "" {
		title += "  " + m.styles.Muted.Render("("+m.role+")")
	}
	if m.completed.IsOffline() || m.available.IsOffline() {
		return title + "  " + m.styles.Danger.Render("BACKEND UNREACHABLE") + "  " + m.styles.Warning.Render("Retrying...")
	}
	if !m.completed.HasData && !m.available.HasData {
		return title + "  " + m.spin.View() + m.styles.Muted.Render(" connecting...")
	}
	return title + "  " + m.styles.Muted.Render("updated "+m.lastUpdatedClock())
}

func (m Model) renderRolePrompt() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2)

	body := m.styles.Title.Render("Welcome to mealbridge") + "\n\n" +
		m.styles.Text.Render("How will you use it?") + "\n\n" +
		m.styles.Success.Render("[d] Donate food") + "   " + m.styles.Accent.Render("[r] Receive food") + "\n\n" +
		m.styles.Muted.Render("Your choice is remembered; q quits.")
	return box.Render(body)
}

func (m Model) lastUpdatedClock() string {
	last := m.available.LastUpdated
	if m.completed.LastUpdated.After(last) {
		last = m.completed.LastUpdated
	}
	if last.IsZero() {
		return "never"
	}
	return last.Format("15:04:05")
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == m.tab {
			parts = append(parts, m.styles.TabActive.Render(label))
		} else {
			parts = append(parts, m.styles.TabIdle.Render(label))
		}
	}
	return strings.Join(parts, m.styles.Muted.Render("  |  "))
}

func (m Model) renderHome() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Your impact") + "\n\n")

	rows := []struct {
		label string
		value int
	}{
		{"Food items", m.impact.FoodItems},
		{"Meals served", m.impact.MealsServed},
		{"Lives saved", m.impact.LivesSaved},
		{"Surplus rescued", m.impact.SurplusSaved},
		{"Food banks supported", m.impact.FoodBanksSupported},
		{"Donations made", m.impact.DonationsMade},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			m.styles.StatNumber.Render(fmt.Sprintf("%6d", row.value)),
			m.styles.Text.Render(row.label)))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf(
		"Share (%d)   View (%d)",
		m.opts.Engine.Shadow().Counter(shadow.CounterDiscoveryCards),
		m.opts.Engine.Shadow().Counter(shadow.CounterPickupCards))))
	return b.String()
}

func (m Model) renderDiscover() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Food ready to donate") + "\n")
	b.WriteString(m.search.View() + "\n\n")

	records := m.discoverRecords()
	if len(records) == 0 {
		if !m.completed.HasData {
			return b.String() + m.spin.View() + m.styles.Muted.Render(" Finding food...")
		}
		return b.String() + m.styles.Muted.Render("No food available to dispatch.")
	}

	for i, rec := range records {
		b.WriteString(m.renderRecordLine(rec, i == m.cursor[tabDiscover], m.styles.Success.Render("Available for Dispatch")))
	}
	return b.String()
}

func (m Model) renderPickups() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Pickups") + "\n")
	b.WriteString(m.styles.Muted.Render("Follow this order: Accept Food -> Coming for food -> Completed") + "\n\n")

	if len(m.available.Records) == 0 {
		if !m.available.HasData {
			return b.String() + m.spin.View() + m.styles.Muted.Render(" loading...")
		}
		return b.String() + m.styles.Muted.Render("No pickup orders yet.")
	}

	for i, rec := range m.available.Records {
		status := rec.CurrentStatus()
		badge := m.theme.statusStyle(string(status)).Render(string(status))
		b.WriteString(m.renderRecordLine(rec, i == m.cursor[tabPickups], badge))
		b.WriteString("      " + m.renderProgress(status) + "\n")
		if i == m.cursor[tabPickups] {
			b.WriteString("      " + m.renderActionRow(status) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderShare() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Share food") + "\n")
	b.WriteString(m.styles.Muted.Render("Drafted listings stay in your cart until you request a pickup.") + "\n\n")

	if len(m.cart.Records) == 0 {
		if !m.cart.HasData {
			return b.String() + m.styles.Muted.Render("Sign in to list food, then press 'a' to add an item.")
		}
		return b.String() + m.styles.Muted.Render("Cart is empty. Press 'a' to list surplus food.")
	}

	for i, rec := range m.cart.Records {
		b.WriteString(m.renderRecordLine(rec, i == m.cursor[tabShare], m.styles.Warning.Render("In Cart")))
	}
	return b.String()
}

func (m Model) renderForm() string {
	f := m.form
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("List surplus food") + "\n\n")
	for i, label := range f.labels {
		style := m.styles.Muted
		if i == f.focus {
			style = m.styles.Text
		}
		b.WriteString("  " + style.Render(truncate(label, 44)) + "\n")
		b.WriteString("  " + f.fields[i].View() + "\n")
	}
	b.WriteString("\n" + m.styles.Muted.Render("enter/tab next  shift+tab back  enter on last field submits  esc cancel"))
	return b.String()
}

func (m Model) renderTracker() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("My listings") + "\n\n")

	if len(m.owned.Records) == 0 {
		if !m.owned.HasData {
			return b.String() + m.styles.Muted.Render("Sign in and list food to track pickups here.")
		}
		return b.String() + m.styles.Muted.Render("No listings yet.")
	}

	for i, rec := range m.owned.Records {
		status := rec.CurrentStatus()
		badge := m.theme.statusStyle(string(status)).Render(string(status))
		b.WriteString(m.renderRecordLine(rec, i == m.cursor[tabTracker], badge))
		b.WriteString("      " + m.renderProgress(status) + "\n")
	}
	return b.String()
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Donated directly") + "\n\n")

	if len(m.history) == 0 {
		return b.String() + m.styles.Muted.Render("Nothing donated directly yet.")
	}

	for i, entry := range m.history {
		marker := "  "
		if i == m.cursor[tabHistory] {
			marker = m.styles.Accent.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s %s\n",
			marker,
			m.styles.Text.Render(entry.RestaurantName),
			m.styles.Muted.Render(formatQuantity(entry.Record)),
			m.styles.Muted.Render(entry.Location),
			m.styles.Muted.Render(formatDonatedDate(entry)),
		))
	}
	return b.String()
}

func (m Model) renderRecordLine(rec pickup.Record, selected bool, badge string) string {
	marker := "  "
	restaurant := truncate(rec.RestaurantName, 24)
	name := m.styles.Text.Render(restaurant)
	if selected {
		marker = m.styles.Accent.Render("> ")
		name = m.styles.Selected.Render(restaurant)
	}
	return fmt.Sprintf("%s%s  %s  %s  %s  %s\n",
		marker,
		name,
		m.styles.Muted.Render(truncate(rec.FoodType, 18)),
		m.styles.Muted.Render(formatQuantity(rec)),
		m.styles.Muted.Render(truncate(rec.Location, 22)),
		badge,
	)
}

// renderActionRow shows the three workflow buttons with only the legal
// one enabled, mirroring the state machine's gating.
func (m Model) renderActionRow(status pickup.Status) string {
	parts := make([]string, 0, len(pickup.Actions))
	for _, action := range pickup.Actions {
		if pickup.CanApply(status, action) {
			parts = append(parts, m.styles.Success.Render("["+string(action)+"]"))
		} else {
			parts = append(parts, m.styles.Muted.Render(string(action)))
		}
	}
	row := strings.Join(parts, "  ")
	if enabled, ok := pickup.ActionFor(status); ok {
		row += m.styles.Muted.Render("  (enter to " + strings.ToLower(string(enabled)) + ")")
	}
	return row
}

func (m Model) renderProgress(status pickup.Status) string {
	return renderProgressBar(pickup.Progress(status), 24, m.theme)
}

func (m Model) renderConfirm() string {
	c := m.confirm
	var question string
	switch c.kind {
	case confirmDonate:
		question = "Have you given this food to someone who needs it?"
	case confirmRequest:
		question = "Request a pickup for this listing?"
	case confirmDelete:
		question = "Remove this listing from your cart?"
	default:
		switch c.action {
		case pickup.ActionAccept:
			question = "Are you sure you want to accept this food item?"
		case pickup.ActionComing:
			question = "Are you sure you want to pick up this food item?"
		default:
			question = "Have you received the food?"
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2)

	body := m.styles.Text.Render(c.record.RestaurantName+" - "+c.record.FoodType) + "\n\n" +
		m.styles.Text.Render(question) + "\n\n" +
		m.styles.Success.Render("[y] Yes") + "   " + m.styles.Danger.Render("[n] No")
	return box.Render(body)
}

func (m Model) renderFooter() string {
	help := "tab/1-6 switch  j/k move  enter act  t theme  q quit"
	switch m.tab {
	case tabDiscover:
		help = "tab/1-6 switch  j/k move  / search  enter donate  t theme  q quit"
	case tabShare:
		help = "tab/1-6 switch  j/k move  a add  enter request  d delete  t theme  q quit"
	}
	return m.styles.Muted.Render(help)
}

func formatDonatedDate(entry shadow.Entry) string {
	if len(entry.DonatedDate) >= 10 {
		return entry.DonatedDate[:10]
	}
	return entry.DonatedDate
}
