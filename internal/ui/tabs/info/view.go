package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/tracelens/tracelens/internal/ui/styles"
	"github.com/tracelens/tracelens/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderStatusCard(),
		m.renderAboutCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 50 {
		w = 50
	}
	if w > 80 {
		w = 80
	}
	return w
}

// renderConfigCard renders the effective configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"), "")

	if m.config != nil {
		rows = append(rows,
			m.renderRow("Endpoint", m.config.Endpoint),
			m.renderRow("Project", m.config.Project),
			m.renderRow("Refresh", m.config.RefreshInterval.String()),
			m.renderRow("Fetch Timeout", m.config.FetchTimeout.String()),
			m.renderRow("Bucket Width", m.config.BucketWidth.String()),
			m.renderRow("Freq Threshold", fmt.Sprintf("%d runs/bucket", m.config.FreqThreshold)),
			m.renderRow("Token Threshold", fmt.Sprintf("%.0f avg tokens", m.config.TokenThreshold)),
			m.renderRow("Error Threshold", fmt.Sprintf("%.0f%%", m.config.ErrorRateThreshold*100)),
		)
		if m.config.ModelRatesPath != "" {
			rows = append(rows, m.renderRow("Rates File", m.config.ModelRatesPath))
		}
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderStatusCard renders the live session status card.
func (m *Model) renderStatusCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Session"), "")

	rows = append(rows, m.renderRow("Time Range", m.state.GetTimeRange().String()))

	density := "sparse"
	if m.state.IsDense() {
		density = "dense"
	}
	rows = append(rows, m.renderRow("Buckets", density))

	rateCount := m.state.GetRateCount()
	rows = append(rows, m.renderRow("Pricing Models", fmt.Sprintf("%d", rateCount)))

	if snapshot := m.state.GetSnapshot(); snapshot != nil {
		rows = append(rows,
			m.renderRow("Last Fetch", snapshot.FetchedAt.Format("15:04:05")),
			m.renderRow("Runs Loaded", fmt.Sprintf("%d", snapshot.Summary.TotalRuns)),
		)
		if snapshot.Skipped > 0 {
			rows = append(rows, m.renderRow("Skipped", fmt.Sprintf("%d malformed", snapshot.Skipped)))
		}
	} else {
		rows = append(rows, styles.HelpStyle.Render("No snapshot yet"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderRow renders a key-value row.
func (m *Model) renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About TraceLens"), "")

	rows = append(rows,
		m.renderRow("Version", version.GetVersion()),
		m.renderRow("Build Date", version.GetDate()),
		m.renderRow("Git Commit", version.GetCommit()),
		m.renderRow("Go Version", runtime.Version()),
		m.renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
