package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type landingSection int

const (
	sectionHero landingSection = iota
	sectionFeatures
	sectionCTA
	sectionAbout
	sectionGlobal
	numSections
)

type feature struct {
	title string
	desc  string
}

var landingFeatures = []feature{
	{"AI-Powered Analysis", "Our advanced AI analyzes your prompts to identify areas for improvement and enhancement."},
	{"Detailed Output Generation", "Get comprehensive, detailed outputs that exceed expectations and deliver exceptional results."},
	{"Unlimited Usage", "Use our tool as much as you need with no restrictions or hidden limitations."},
	{"Free Lifetime Access", "Enjoy all premium features completely free with lifetime access to our platform."},
}

type teamMember struct {
	name string
	role string
	bio  string
}

var landingTeam = []teamMember{
	{"Parth Gajera", "Developer", "Full-stack developer with expertise in AI integration and prompt engineering."},
	{"Devarsh Patel", "Developer", "Backend specialist with focus on scalable architecture and data processing."},
	{"Aalind Tiwari", "Partner", "Strategic partner overseeing business development and product vision."},
}

// landingModel is the scrollable marketing page.
type landingModel struct {
	offset int
	width  int
	height int
}

func newLandingModel() landingModel {
	return landingModel{width: 80, height: 24}
}

func (m landingModel) Update(msg tea.Msg) (landingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			m.offset++
		case "k", "up":
			m.offset--
		case "pgdown", " ":
			m.offset += m.height / 2
		case "pgup":
			m.offset -= m.height / 2
		case "home":
			m.offset = 0
		case "f":
			m.offset = m.sectionStart(sectionFeatures)
		case "a":
			m.offset = m.sectionStart(sectionAbout)
		}
		m.offset = m.clamp(m.offset)
	}
	return m, nil
}

func (m landingModel) clamp(off int) int {
	maxOff := len(m.lines()) - m.height
	if off > maxOff {
		off = maxOff
	}
	if off < 0 {
		off = 0
	}
	return off
}

// sectionStart returns the line a section begins on.
func (m landingModel) sectionStart(s landingSection) int {
	line := 0
	for i := sectionHero; i < s; i++ {
		line += strings.Count(m.section(i), "\n") + 1
	}
	return line
}

func (m landingModel) lines() []string {
	var parts []string
	for s := sectionHero; s < numSections; s++ {
		parts = append(parts, m.section(s))
	}
	return strings.Split(strings.Join(parts, "\n"), "\n")
}

func (m landingModel) section(s landingSection) string {
	w := m.width
	switch s {
	case sectionHero:
		return strings.Join([]string{
			"",
			center(headingStyle.Render("Elevate Your Prompts"), w),
			center(goldStyle.Render("AI-Powered Enhancement"), w),
			"",
			center(dimStyle.Render("Transform ordinary prompts into detailed, effective project briefs."), w),
			"",
			center(goldStyle.Render("[ Try Now ]")+" "+metaStyle.Render("t")+"    "+brandStyle.Render("[ Let's Generate The Prompt ]")+" "+metaStyle.Render("g"), w),
			"",
		}, "\n")

	case sectionFeatures:
		cardW := (w - 4) / 2
		if cardW < 24 {
			cardW = 24
		}
		var cards []string
		for _, f := range landingFeatures {
			body := goldStyle.Render(f.title) + "\n" + dimStyle.Render(strings.Join(wrap(f.desc, cardW-4), "\n"))
			cards = append(cards, cardStyle.Width(cardW-2).Render(body))
		}
		rows := []string{
			"",
			center(headingStyle.Render("Premium Features, ")+goldStyle.Render("Zero Cost"), w),
			"",
		}
		for i := 0; i < len(cards); i += 2 {
			row := cards[i]
			if i+1 < len(cards) {
				row = lipgloss.JoinHorizontal(lipgloss.Top, cards[i], " ", cards[i+1])
			}
			rows = append(rows, indent(row, " "))
		}
		return strings.Join(rows, "\n")

	case sectionCTA:
		var rows []string
		rows = append(rows, "", center(headingStyle.Render("Ready to Transform Your Prompts?"), w), "")
		for _, l := range wrap("Join thousands of users who are already creating better content with our AI-powered prompt enhancement tool.", w-8) {
			rows = append(rows, center(dimStyle.Render(l), w))
		}
		rows = append(rows, "", center(goldStyle.Render("[ Try Now — It's Free ]")+" "+metaStyle.Render("t"), w))
		return strings.Join(rows, "\n")

	case sectionAbout:
		cardW := (w - 4) / len(landingTeam)
		if cardW < 22 {
			cardW = 22
		}
		var cards []string
		for _, t := range landingTeam {
			body := headingStyle.Render(t.name) + "\n" + accentStyle.Render(t.role) + "\n" +
				dimStyle.Render(strings.Join(wrap(t.bio, cardW-4), "\n"))
			cards = append(cards, cardStyle.Width(cardW-2).Render(body))
		}
		return strings.Join([]string{
			"",
			center(headingStyle.Render("Meet Our ")+goldStyle.Render("Team"), w),
			"",
			indent(lipgloss.JoinHorizontal(lipgloss.Top, cards...), " "),
		}, "\n")

	case sectionGlobal:
		rows := []string{"", center(headingStyle.Render("Global ")+goldStyle.Render("Access"), w), ""}
		for _, l := range wrap("Craft prompts from anywhere. Legends runs wherever your terminal does, with the same briefs and the same library.", w-8) {
			rows = append(rows, center(dimStyle.Render(l), w))
		}
		rows = append(rows, "",
			center(metaStyle.Render("© 2023 LegendsPromptAI. All rights reserved."), w),
			center(metaStyle.Render("Support: ")+accentStyle.Render("support@botme.tech"), w),
		)
		return strings.Join(rows, "\n")
	}
	return ""
}

func (m landingModel) View() string {
	lines := m.lines()
	off := m.clamp(m.offset)
	end := off + m.height
	if end > len(lines) || m.height <= 0 {
		end = len(lines)
	}
	return strings.Join(lines[off:end], "\n")
}

func (m landingModel) helpKeys(signedIn bool) string {
	auth := "sign in"
	if signedIn {
		auth = "sign out"
	}
	return helpBar("t", "try now", "g", "generate", "f", "features", "a", "about", "d", "dashboard", "s", auth, "j/k", "scroll", "h", "help", "q", "quit")
}
