// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tracelens/tracelens/internal/logger"
	"github.com/tracelens/tracelens/internal/ui/styles"
)

// RatioBar renders a fraction as a progress bar with label and percentage.
type RatioBar struct {
	progress progress.Model
}

// NewRatioBar creates a new ratio bar with gradient colors.
func NewRatioBar() RatioBar {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#51cf66"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return RatioBar{progress: p}
}

// NewRatioBarWithWidth creates a ratio bar with a specific width.
func NewRatioBarWithWidth(width int) RatioBar {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#51cf66"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return RatioBar{progress: p}
}

// Init initializes the progress bar model.
func (b RatioBar) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (b RatioBar) Update(msg tea.Msg) (RatioBar, tea.Cmd) {
	model, cmd := b.progress.Update(msg)
	b.progress = model.(progress.Model)
	return b, cmd
}

// SetPercent animates the bar toward a fraction in [0, 1].
func (b *RatioBar) SetPercent(fraction float64) tea.Cmd {
	return b.progress.SetPercent(fraction)
}

// SetWidth sets the progress bar width.
func (b *RatioBar) SetWidth(width int) {
	b.progress.Width = width
}

// View renders the ratio bar with percentage and label. The fraction is
// in [0, 1]; the percent display is derived here, at the edge.
func (b RatioBar) View(fraction float64, label string, width int) string {
	barWidth := width - 30 // Reserve space for label and percentage
	if barWidth < 10 {
		barWidth = 10
	}
	b.progress.Width = barWidth

	bar := b.progress.ViewAs(fraction)

	percentStyle := styles.GetErrorRateStyle(1 - fraction)
	percentStr := percentStyle.Width(7).Align(lipgloss.Right).Render(fmt.Sprintf("%.1f%%", fraction*100))

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(15).
		Render(label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		bar,
		" ",
		percentStr,
	)
}

// ViewCompact renders a compact version without label.
func (b RatioBar) ViewCompact(fraction float64, width int) string {
	barWidth := width - 8
	if barWidth < 5 {
		barWidth = 5
	}
	b.progress.Width = barWidth

	bar := b.progress.ViewAs(fraction)
	percentStyle := styles.GetErrorRateStyle(1 - fraction)
	percentStr := percentStyle.Render(fmt.Sprintf("%.1f%%", fraction*100))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar part with gradient colors for a
// fraction in [0, 1].
func RenderGradientBar(fraction float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * fraction)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#ff6b6b", "#51cf66", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleRatioBar renders an ASCII progress bar with gradient colors for
// a fraction in [0, 1].
func SimpleRatioBar(fraction float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 7
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(fraction, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := styles.GetErrorRateStyle(1 - fraction).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.1f%%", fraction*100))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

// CategoryBar renders a single error category share as a solid bar.
func CategoryBar(category string, count, total, width int) string {
	labelWidth := 16
	countWidth := 6
	barWidth := width - labelWidth - countWidth - 4
	if barWidth < 5 {
		barWidth = 5
	}

	fraction := 0.0
	if total > 0 {
		fraction = float64(count) / float64(total)
	}
	filled := int(fraction * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	bar := styles.CategoryBarStyle.Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(styles.BgLight).Render(strings.Repeat("░", barWidth-filled))

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(labelWidth).
		Render(category)

	countStr := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(countWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%d", count))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, countStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
