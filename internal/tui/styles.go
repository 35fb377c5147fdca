package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the LEGENDS logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "LEGENDS" as a gold wave flowing left to right.
// Deep amber (#7a4e0a) -> bright gold (#fcd34d), followed by a static
// violet "PromptAI".
func renderShimmerLogo(frame int) string {
	const text = "LEGENDS"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(122 + b*(252-122))
		g := clampByte(78 + b*(211-78))
		bl := clampByte(10 + b*(77-10))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)
		out += lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color)).
			Render(string(text[i]))

		if i < n-1 {
			out += " "
		}
	}

	return out + "  " + brandStyle.Render("PromptAI")
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ca3af"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f5f3ff")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d1d5db"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280"))

	// Accents: gold for actions, violet for brand
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24"))

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fcd34d")).
			Bold(true)

	brandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c084fc")).
			Bold(true)

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f5f3ff")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a78bfa")).
				Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fbbf24")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4b5563"))

	// Surfaces
	borderColor = lipgloss.Color("#3b0764")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7e22ce")).
			Padding(1, 3)

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#2e1065"))

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a855f7"))

	// Category colors for the saved prompt library
	categoryColors = map[string]lipgloss.Color{
		"Product": lipgloss.Color("#fbbf24"),
		"Job":     lipgloss.Color("#60a5fa"),
		"Email":   lipgloss.Color("#34d399"),
		"Social":  lipgloss.Color("#f472b6"),
		"Support": lipgloss.Color("#a78bfa"),
	}
)

// CategoryStyle returns a bold style colored for a prompt category.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")).Bold(true)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins key/label pairs into a help line.
func helpBar(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

func helpItems(siteURL string) []helpItem {
	return []helpItem{
		{"Website", siteURL, siteURL},
		{"Reset password", siteURL + "/reset-password", siteURL + "/reset-password"},
		{"Support", "support@botme.tech", "mailto:support@botme.tech"},
	}
}

// helpView renders the interactive help overlay with a cursor.
func helpView(items []helpItem, cursor int) string {
	title := goldStyle.Render("L E G E N D S") + " " + brandStyle.Render("PromptAI")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Elevate your prompts from the terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fbbf24"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"legends", "Open the interactive app"},
		{"legends brief", "Generate a project brief from flags"},
		{"legends login", "Sign in with email and password"},
		{"legends signup", "Create an account"},
		{"legends logout", "Clear your session"},
		{"legends reset-password", "Email a password reset link"},
		{"legends whoami", "Show the signed-in account"},
		{"legends version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, quote)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range items {
		label := cmdStyle.Render(fmt.Sprintf("%-24s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-24s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
