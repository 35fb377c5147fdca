package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/legends/internal/auth"
	"github.com/naveenspark/legends/internal/brief"
	"github.com/naveenspark/legends/internal/catalog"
	"github.com/naveenspark/legends/pkg/domain"
)

type dashTab int

const (
	tabAnalytics dashTab = iota
	tabPrompts
)

type promptDownloadedMsg struct {
	title string
	path  string
	err   error
}

type dashboardModel struct {
	download   brief.Sink
	analytics  domain.Analytics
	monthly    []domain.MonthlyCount
	prompts    []domain.SavedPrompt
	categories []string

	tab       dashTab
	search    string
	searching bool
	category  int // 0 = all, otherwise categories[category-1]
	cursor    int
	preview   bool
	profile   bool
	status    string

	renderer *glamour.TermRenderer
	width    int
	height   int
}

func newDashboardModel(download brief.Sink) dashboardModel {
	prompts := catalog.SavedPrompts()
	return dashboardModel{
		download:   download,
		analytics:  catalog.Analytics(),
		monthly:    catalog.Monthly(),
		prompts:    prompts,
		categories: catalog.Categories(prompts),
		width:      80,
		height:     24,
		renderer:   newMarkdownRenderer(80),
	}
}

func (m dashboardModel) selectedCategory() string {
	if m.category == 0 || m.category > len(m.categories) {
		return ""
	}
	return m.categories[m.category-1]
}

func (m dashboardModel) filtered() []domain.SavedPrompt {
	return catalog.Filter(m.prompts, m.search, m.selectedCategory())
}

func (m dashboardModel) selected() (domain.SavedPrompt, bool) {
	list := m.filtered()
	if m.cursor < 0 || m.cursor >= len(list) {
		return domain.SavedPrompt{}, false
	}
	return list[m.cursor], true
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderer = newMarkdownRenderer(msg.Width)
		return m, nil

	case promptDownloadedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("download failed: " + msg.err.Error())
		} else {
			m.status = successStyle.Render("saved " + msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg), nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) dashboardModel {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
	default:
		m.search = editSearch(m.search, msg)
		m.cursor = 0
	}
	return m
}

func (m dashboardModel) updateKeys(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "tab", "left", "right":
		if m.tab == tabAnalytics {
			m.tab = tabPrompts
		} else {
			m.tab = tabAnalytics
		}
		m.preview = false
		return m, nil
	case "p":
		m.profile = !m.profile
		return m, nil
	}

	if m.tab != tabPrompts {
		return m, nil
	}

	n := len(m.filtered())
	switch msg.String() {
	case "/":
		m.searching = true
		m.preview = false
	case "c":
		m.category = (m.category + 1) % (len(m.categories) + 1)
		m.cursor = 0
		m.preview = false
	case "x":
		m.search = ""
		m.category = 0
		m.cursor = 0
	case "j", "down":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if n > 0 {
			m.preview = !m.preview
		}
	case "d":
		if p, ok := m.selected(); ok {
			return m, downloadPrompt(m.download, p)
		}
	}
	return m, nil
}

func downloadPrompt(sink brief.Sink, p domain.SavedPrompt) tea.Cmd {
	return func() tea.Msg {
		name := brief.FileName(brief.Fields{ProjectName: p.Title})
		path, err := sink.Export(name, p.Content)
		return promptDownloadedMsg{title: p.Title, path: path, err: err}
	}
}

// editing reports whether keystrokes should go to the search field.
func (m dashboardModel) editing() bool { return m.searching }

func (m dashboardModel) helpKeys() string {
	switch {
	case m.searching:
		return helpBar("type", "search", "enter", "done")
	case m.tab == tabPrompts && m.preview:
		return helpBar("enter", "close", "d", "download", "j/k", "nav", "esc", "home")
	case m.tab == tabPrompts:
		return helpBar("tab", "analytics", "j/k", "nav", "/", "search", "c", "category", "enter", "preview", "d", "download", "g", "generate", "o", "sign out", "p", "profile")
	}
	return helpBar("tab", "prompts", "g", "generate", "o", "sign out", "p", "profile", "esc", "home", "h", "help")
}

func (m dashboardModel) View(snap auth.Snapshot) string {
	if snap.Loading {
		return "\n" + center(dimStyle.Render("Loading..."), m.width)
	}
	if snap.Identity == nil {
		return "\n" + center(dimStyle.Render("Sign in to view your dashboard."), m.width)
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s\n", headingStyle.Render("Welcome, "+snap.Identity.Handle()))
	fmt.Fprintf(&b, " %s\n\n", dimStyle.Render("Manage your AI-enhanced prompts"))

	if m.profile {
		b.WriteString(m.profileView(*snap.Identity) + "\n\n")
	}

	b.WriteString(m.cardsView() + "\n\n")
	b.WriteString(m.tabsView() + "\n\n")

	switch m.tab {
	case tabAnalytics:
		fmt.Fprintf(&b, " %s\n\n", sectionHeaderStyle.Render("Prompt Generation Over Time"))
		b.WriteString(indent(renderChart(m.monthly, 10), " "))
	case tabPrompts:
		b.WriteString(m.promptsView())
	}

	if m.status != "" {
		b.WriteString("\n\n " + m.status)
	}
	return b.String()
}

func (m dashboardModel) profileView(id domain.Identity) string {
	body := headingStyle.Render("Profile") + "\n" +
		metaStyle.Render("Email  ") + normalStyle.Render(id.Email) + "\n" +
		metaStyle.Render("ID     ") + normalStyle.Render(id.ShortID()+"...")
	return indent(cardStyle.Render(body), " ")
}

func (m dashboardModel) cardsView() string {
	cards := []struct {
		label string
		value int
	}{
		{"Today", m.analytics.Day},
		{"This Week", m.analytics.Week},
		{"This Month", m.analytics.Month},
		{"This Year", m.analytics.Year},
	}
	w := (m.width - 2) / len(cards)
	if w < 16 {
		w = 16
	}
	var rendered []string
	for _, c := range cards {
		body := metaStyle.Render(c.label) + "\n" +
			goldStyle.Render(fmt.Sprintf("%d", c.value)) + " " + dimStyle.Render("prompts")
		rendered = append(rendered, cardStyle.Width(w-4).Render(body))
	}
	return indent(lipgloss.JoinHorizontal(lipgloss.Top, rendered...), " ")
}

func (m dashboardModel) tabsView() string {
	tab := func(label string, active bool) string {
		if active {
			return accentStyle.Render("▸ ") + selectedStyle.Underline(true).Render(label)
		}
		return "  " + dimStyle.Render(label)
	}
	return " " + tab("Analytics", m.tab == tabAnalytics) + "   " + tab("Saved Prompts", m.tab == tabPrompts)
}

func (m dashboardModel) promptsView() string {
	var b strings.Builder

	search := m.search
	if m.searching {
		search += "█"
	}
	if search == "" {
		search = inputPlaceholderStyle.Render("Search prompts...")
	} else {
		search = searchStyle.Render(search)
	}
	fmt.Fprintf(&b, " %s %s\n", inputPromptStyle.Render("/"), search)

	chips := []string{m.chip("All", m.category == 0)}
	for i, c := range m.categories {
		chips = append(chips, m.chip(c, m.category == i+1))
	}
	fmt.Fprintf(&b, " %s\n\n", strings.Join(chips, " "))

	list := m.filtered()
	if len(list) == 0 {
		b.WriteString(" " + dimStyle.Render("No prompts found matching your criteria."))
		return b.String()
	}

	if m.preview {
		if p, ok := m.selected(); ok {
			b.WriteString(renderMarkdown(m.renderer, p.Content))
			return b.String()
		}
	}

	for i, p := range list {
		title := truncStr(p.Title, m.width-30)
		line := fmt.Sprintf(" %s  %s  %s", CategoryStyle(p.Category).Render(fmt.Sprintf("%-8s", p.Category)), title, metaStyle.Render(formatDate(p.Date)))
		summary := "   " + dimStyle.Render(truncStr(catalog.Summary(p), m.width-6))
		if i == m.cursor {
			line = selectedRowBg.Render(accentStyle.Render(">") + line[1:])
		}
		b.WriteString(line + "\n" + summary + "\n")
	}
	return b.String()
}

func (m dashboardModel) chip(label string, active bool) string {
	if active {
		return selectedRowBg.Render(" " + selectedStyle.Render(label) + " ")
	}
	return " " + dimStyle.Render(label) + " "
}

// newMarkdownRenderer returns a glamour renderer wrapped to width, or nil
// when one cannot be built.
func newMarkdownRenderer(width int) *glamour.TermRenderer {
	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown renders prompt content with glamour, falling back to the
// raw text.
func renderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
