package errors

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/tracelens/tracelens/internal/services/runs"
	"github.com/tracelens/tracelens/internal/ui/components"
	"github.com/tracelens/tracelens/internal/ui/styles"
)

// View renders the errors tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	snapshot := m.state.GetSnapshot()
	if snapshot == nil || snapshot.FetchErr != nil {
		return m.renderError(snapshot)
	}
	if snapshot.Errors.Total == 0 {
		return m.renderEmpty(snapshot)
	}

	sections := []string{
		m.renderHeader(snapshot),
		m.renderCategories(snapshot),
		m.renderSamples(snapshot),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderError(snapshot *runs.Snapshot) string {
	detail := "No data received yet."
	if snapshot != nil && snapshot.FetchErr != nil {
		detail = snapshot.FetchErr.Error()
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Errors"),
		"",
		fmt.Sprintf("%s %s", styles.ErrorTextStyle.Render("Fetch failed:"), detail),
		styles.HelpStyle.Render("Press r to retry."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty(snapshot *runs.Snapshot) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Errors"),
		"",
		styles.SuccessTextStyle.Render("No failed runs in this window."),
		styles.HelpStyle.Render(fmt.Sprintf("Window: %s", snapshot.Range.String())),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader(snapshot *runs.Snapshot) string {
	title := styles.TitleStyle.Render("Errors")

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", snapshot.Range.String()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d failed runs between %s and %s",
		snapshot.Errors.Total,
		snapshot.Start.Format("Jan 2 15:04"),
		snapshot.End.Format("Jan 2 15:04"),
	))

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderCategories(snapshot *runs.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("🏷")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Categories")), "")

	// Highest count first, ties alphabetical for stable output.
	type entry struct {
		category string
		count    int
	}
	entries := make([]entry, 0, len(snapshot.Errors.Categories))
	for category, count := range snapshot.Errors.Categories {
		entries = append(entries, entry{category, count})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].count != entries[b].count {
			return entries[a].count > entries[b].count
		}
		return entries[a].category < entries[b].category
	})

	barWidth := max(cardWidth-8, 30)
	for _, e := range entries {
		rows = append(rows, "  "+components.CategoryBar(e.category, e.count, snapshot.Errors.Total, barWidth))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSamples(snapshot *runs.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("🧾")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon,
			styles.CardTitleStyle.Render(fmt.Sprintf("Recent Failures (%d)", len(snapshot.Errors.Samples)))),
		"",
	)

	timeStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	idStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	for _, sample := range snapshot.Errors.Samples {
		id := sample.ID
		if len(id) > 12 {
			id = id[:12]
		}
		rows = append(rows, fmt.Sprintf("  %s  %s",
			timeStyle.Render(sample.Timestamp.Format("Jan 2 15:04:05")),
			idStyle.Render(id),
		))
		msg := sample.Message
		if maxLen := cardWidth - 8; len(msg) > maxLen && maxLen > 3 {
			msg = msg[:maxLen-3] + "..."
		}
		rows = append(rows, "    "+styles.ErrorTextStyle.Render(msg), "")
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
