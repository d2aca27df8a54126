package overview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tracelens/tracelens/internal/analytics"
	"github.com/tracelens/tracelens/internal/services/runs"
	"github.com/tracelens/tracelens/internal/ui/components"
	"github.com/tracelens/tracelens/internal/ui/styles"
)

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	snapshot := m.state.GetSnapshot()
	if snapshot == nil || snapshot.FetchErr != nil {
		return m.renderError(snapshot)
	}
	if !snapshot.HasData() {
		return m.renderEmpty(snapshot)
	}

	sections := []string{
		m.renderHeader(snapshot),
		m.renderSummary(snapshot),
		m.renderActivityChart(snapshot),
		m.renderPatterns(snapshot),
	}
	if suspicious := m.renderSuspiciousBuckets(snapshot); suspicious != "" {
		sections = append(sections, suspicious)
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
		styles.TitleStyle.Render("Overview"),
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
		m.renderHeader(snapshot),
		styles.HelpStyle.Render("No runs recorded in this window."),
		styles.HelpStyle.Render("Press t to widen the time range."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader(snapshot *runs.Snapshot) string {
	title := styles.TitleStyle.Render("Overview")

	// Time range indicator with toggle hint
	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", snapshot.Range.String()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	window := fmt.Sprintf("Window: %s → %s",
		snapshot.Start.Format("Jan 2 15:04"),
		snapshot.End.Format("Jan 2 15:04"),
	)
	if snapshot.Skipped > 0 {
		window += fmt.Sprintf("  (%d malformed records skipped)", snapshot.Skipped)
	}
	subtitle := styles.HelpStyle.Render(window)

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderSummary(snapshot *runs.Snapshot) string {
	cardWidth := max(m.width-6, 40)
	s := snapshot.Summary

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("📊")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Summary")), "")

	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Width(14)
	rows = append(rows,
		fmt.Sprintf("  %s %d", labelStyle.Render("Total runs"), s.TotalRuns),
		"  "+components.SimpleRatioBar(s.SuccessRate, "Success rate", cardWidth-6),
		fmt.Sprintf("  %s %.0f ms", labelStyle.Render("Avg latency"), s.AvgLatencyMS),
		fmt.Sprintf("  %s %d", labelStyle.Render("Total tokens"), s.TotalTokens),
		fmt.Sprintf("  %s $%.4f", labelStyle.Render("Total cost"), s.TotalCostUSD),
	)

	slowLine := fmt.Sprintf("  %s %d", labelStyle.Render("Slow runs"), s.SlowRuns)
	if s.SlowRuns > 0 {
		slowLine = fmt.Sprintf("  %s %s", labelStyle.Render("Slow runs"),
			styles.WarningTextStyle.Render(fmt.Sprintf("%d", s.SlowRuns)))
	}
	rows = append(rows, slowLine, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderActivityChart(snapshot *runs.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("📈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Runs vs Errors")), "")

	buckets := snapshot.Buckets
	if len(buckets) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No bucket data available"))
	} else {
		runData := make([]float64, len(buckets))
		errData := make([]float64, len(buckets))
		for i, b := range buckets {
			runData[i] = float64(b.RunCount)
			errData[i] = float64(b.ErrorCount)
		}

		chartWidth := max(cardWidth-12, 30)
		chartHeight := 8

		chart := components.RenderDualLineChart(runData, errData, chartWidth, chartHeight,
			fmt.Sprintf("%d buckets across the window", len(buckets)))

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		rows = append(rows, "")
		legend := components.RenderLegend([]components.LegendItem{
			{Label: "Runs", Color: components.ChartRunsColor},
			{Label: "Errors", Color: components.ChartErrorsColor},
		})
		rows = append(rows, "  "+legend)
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderPatterns(snapshot *runs.Snapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("🕐")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Activity Patterns")),
		"",
	)

	if len(snapshot.Hourly) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No hourly data available"))
	} else {
		hourlyData := make([]float64, 24)
		for _, h := range snapshot.Hourly {
			if h.Hour >= 0 && h.Hour < 24 {
				hourlyData[h.Hour] = float64(h.RunCount)
			}
		}

		rows = append(rows, "  "+components.RenderHourlyHeatmap(hourlyData))

		peakHour, peakCount := analytics.PeakHour(snapshot.Hourly)
		rows = append(rows, fmt.Sprintf("  Peak: %s (%d runs)",
			lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).
				Render(fmt.Sprintf("%02d:00-%02d:00", peakHour, (peakHour+1)%24)),
			peakCount,
		))
	}

	rows = append(rows, "")

	if len(snapshot.Weekdays) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No weekday data available"))
	} else {
		weeklyData := make([]float64, 7)
		dayNames := make([]string, 7)
		peakDay := ""
		peakCount := 0
		for _, w := range snapshot.Weekdays {
			if w.Weekday < 0 || w.Weekday > 6 {
				continue
			}
			weeklyData[w.Weekday] = float64(w.RunCount)
			dayNames[w.Weekday] = w.DayName[:3]
			if w.RunCount > peakCount {
				peakCount = w.RunCount
				peakDay = w.DayName
			}
		}

		chartWidth := max(cardWidth-12, 30)
		barChart := components.RenderBarChart(weeklyData, dayNames, chartWidth)

		for _, line := range strings.Split(barChart, "\n") {
			rows = append(rows, "  "+line)
		}

		if peakDay != "" {
			rows = append(rows,
				"",
				fmt.Sprintf("  Peak day: %s (%d runs)",
					lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(peakDay),
					peakCount,
				),
			)
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSuspiciousBuckets(snapshot *runs.Snapshot) string {
	var flagged []int
	for i, b := range snapshot.Buckets {
		if b.Suspicious {
			flagged = append(flagged, i)
		}
	}
	if len(flagged) == 0 {
		return ""
	}

	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Error).Render("⚠")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon,
			styles.SuspiciousStyle.Render(fmt.Sprintf("Suspicious Buckets (%d)", len(flagged)))),
		"",
	)

	for _, i := range flagged {
		b := snapshot.Buckets[i]
		rateStyle := styles.GetErrorRateStyle(b.ErrorRate)
		rows = append(rows, fmt.Sprintf("  %s  %d runs, %s errors, %.0f avg tokens",
			lipgloss.NewStyle().Bold(true).Render(b.Start.Format("Jan 2 15:04")),
			b.RunCount,
			rateStyle.Render(fmt.Sprintf("%.1f%%", b.ErrorRate*100)),
			b.AvgTokens,
		))
		rows = append(rows, "    "+styles.SuspicionReasonStyle.Render(strings.Join(b.SuspicionReasons, ", ")))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
