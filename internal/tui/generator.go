package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/naveenspark/legends/internal/brief"
	"github.com/naveenspark/legends/pkg/domain"
)

type genField int

const (
	genName genField = iota
	genDevType
	genIdea
	genAudience
	genFeatures
	genOutput
	genFileName
)

const numSteps = 3

// stepFields lists the fields of each wizard step in focus order.
var stepFields = [numSteps + 1][]genField{
	1: {genName, genDevType},
	2: {genIdea, genAudience},
	3: {genFeatures, genOutput, genFileName},
}

type briefGeneratedMsg struct {
	res brief.Result
	err error
}

type generatorModel struct {
	gen *brief.Generator

	step     int
	focus    int // index into stepFields[step]
	name     textinput.Model
	devType  int // -1 until chosen
	idea     textarea.Model
	audience textarea.Model
	features textinput.Model
	output   brief.Output
	fileName textinput.Model

	pending bool
	status  string
	preview string
	closed  bool

	renderer *glamour.TermRenderer
	width    int
	height   int
}

func newGeneratorModel(gen *brief.Generator) generatorModel {
	name := textinput.New()
	name.Placeholder = "E.g. E-commerce Website Redesign"
	name.Prompt = ""
	name.CharLimit = 120

	idea := textarea.New()
	idea.Placeholder = "Describe your project idea in detail..."
	idea.ShowLineNumbers = false
	idea.SetHeight(4)

	audience := textarea.New()
	audience.Placeholder = "Who is this project for?"
	audience.ShowLineNumbers = false
	audience.SetHeight(3)

	features := textinput.New()
	features.Placeholder = "E.g. User authentication, Payment processing, Dashboard"
	features.Prompt = ""

	fileName := textinput.New()
	fileName.Placeholder = "my-project-brief"
	fileName.Prompt = ""
	fileName.CharLimit = 120

	m := generatorModel{
		gen:      gen,
		step:     1,
		devType:  -1,
		name:     name,
		idea:     idea,
		audience: audience,
		features: features,
		fileName: fileName,
		width:    80,
		height:   24,
		renderer: newMarkdownRenderer(80),
	}
	m.resize(80)
	m, _ = m.focusField()
	return m
}

func (m *generatorModel) resize(width int) {
	w := width - 8
	if w < 20 {
		w = 20
	}
	m.name.Width = w
	m.features.Width = w
	m.fileName.Width = w
	m.idea.SetWidth(w)
	m.audience.SetWidth(w)
}

// Init focuses the first field of the current step.
func (m generatorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m generatorModel) current() genField {
	fields := m.visibleFields()
	if m.focus >= len(fields) {
		return fields[len(fields)-1]
	}
	return fields[m.focus]
}

// visibleFields drops the file name field unless the brief is downloaded.
func (m generatorModel) visibleFields() []genField {
	fields := stepFields[m.step]
	if m.step != 3 || m.output == brief.OutputDownload {
		return fields
	}
	return fields[:len(fields)-1]
}

func (m generatorModel) focusField() (generatorModel, tea.Cmd) {
	m.name.Blur()
	m.idea.Blur()
	m.audience.Blur()
	m.features.Blur()
	m.fileName.Blur()

	switch m.current() {
	case genName:
		return m, m.name.Focus()
	case genIdea:
		return m, m.idea.Focus()
	case genAudience:
		return m, m.audience.Focus()
	case genFeatures:
		return m, m.features.Focus()
	case genFileName:
		return m, m.fileName.Focus()
	}
	return m, nil
}

func (m generatorModel) fields() brief.Fields {
	f := brief.Fields{
		ProjectName: m.name.Value(),
		Idea:        m.idea.Value(),
		Audience:    m.audience.Value(),
		Features:    m.features.Value(),
		Output:      m.output,
	}
	if m.devType >= 0 && m.devType < len(domain.DevTypes) {
		f.DevType = domain.DevTypes[m.devType]
	}
	if m.output == brief.OutputDownload {
		f.FileName = strings.TrimSpace(m.fileName.Value())
	}
	return f
}

// canGenerate reports whether the Generate action is enabled.
func (m generatorModel) canGenerate() bool {
	return m.step == numSteps && m.output != brief.OutputNone && !m.pending
}

func (m generatorModel) Update(msg tea.Msg) (generatorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize(msg.Width)
		m.renderer = newMarkdownRenderer(msg.Width)
		return m, nil

	case briefGeneratedMsg:
		m.pending = false
		if msg.err != nil {
			m.status = errorStyle.Render("generation failed: " + msg.err.Error())
			return m, nil
		}
		switch msg.res.Output {
		case brief.OutputDownload:
			m.status = successStyle.Render("Downloaded " + msg.res.Path)
		case brief.OutputClipboard:
			m.status = successStyle.Render("Prompt copied to clipboard!")
		}
		m.preview = renderMarkdown(m.renderer, msg.res.Content)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m generatorModel) updateKeys(msg tea.KeyMsg) (generatorModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closed = true
		return m, nil
	case "ctrl+n":
		return m.nextStep()
	case "ctrl+b":
		return m.prevStep()
	case "ctrl+s":
		return m.generate()
	case "tab":
		m.focus = (m.focus + 1) % len(m.visibleFields())
		return m.focusField()
	case "shift+tab":
		n := len(m.visibleFields())
		m.focus = (m.focus - 1 + n) % n
		return m.focusField()
	}

	switch m.current() {
	case genDevType:
		switch msg.String() {
		case "left", "h":
			m.devType = cycle(m.devType, -1, len(domain.DevTypes))
		case "right", "l", " ":
			m.devType = cycle(m.devType, 1, len(domain.DevTypes))
		case "enter":
			return m.nextStep()
		}
		return m, nil

	case genOutput:
		switch msg.String() {
		case "d":
			m.output = brief.OutputDownload
		case "c":
			m.output = brief.OutputClipboard
		case "left", "right", "h", "l", " ":
			if m.output == brief.OutputDownload {
				m.output = brief.OutputClipboard
			} else {
				m.output = brief.OutputDownload
			}
		case "enter":
			return m.generate()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.current() {
	case genName:
		if msg.String() == "enter" {
			m.focus++
			return m.focusField()
		}
		m.name, cmd = m.name.Update(msg)
	case genIdea:
		m.idea, cmd = m.idea.Update(msg)
	case genAudience:
		m.audience, cmd = m.audience.Update(msg)
	case genFeatures:
		if msg.String() == "enter" {
			m.focus++
			return m.focusField()
		}
		m.features, cmd = m.features.Update(msg)
	case genFileName:
		if msg.String() == "enter" {
			return m.generate()
		}
		m.fileName, cmd = m.fileName.Update(msg)
	}
	return m, cmd
}

// cycle moves i by delta through n options, treating -1 as "nothing chosen".
func cycle(i, delta, n int) int {
	if i < 0 {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	return (i + delta + n) % n
}

func (m generatorModel) nextStep() (generatorModel, tea.Cmd) {
	if m.step >= numSteps {
		return m, nil
	}
	m.step++
	m.focus = 0
	m.status = ""
	return m.focusField()
}

func (m generatorModel) prevStep() (generatorModel, tea.Cmd) {
	if m.step <= 1 {
		return m, nil
	}
	m.step--
	m.focus = 0
	m.status = ""
	return m.focusField()
}

func (m generatorModel) generate() (generatorModel, tea.Cmd) {
	if !m.canGenerate() {
		return m, nil
	}
	m.pending = true
	m.status = ""
	gen, f := m.gen, m.fields()
	return m, func() tea.Msg {
		res, err := gen.Generate(f)
		return briefGeneratedMsg{res: res, err: err}
	}
}

func (m generatorModel) helpKeys() string {
	pairs := []string{"tab", "field"}
	if m.step < numSteps {
		pairs = append(pairs, "ctrl+n", "next")
	}
	if m.step > 1 {
		pairs = append(pairs, "ctrl+b", "back")
	}
	switch m.current() {
	case genDevType:
		pairs = append(pairs, "←/→", "type")
	case genOutput:
		pairs = append(pairs, "d/c", "output")
	}
	if m.canGenerate() {
		pairs = append(pairs, "ctrl+s", "generate")
	}
	pairs = append(pairs, "esc", "dashboard")
	return helpBar(pairs...)
}

func (m generatorModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, " %s  %s\n", headingStyle.Render("Prompt Generator"), metaStyle.Render(fmt.Sprintf("step %d of %d", m.step, numSteps)))
	b.WriteString(" " + m.progress() + "\n\n")

	label := func(f genField, text string) string {
		if m.current() == f {
			return " " + accentStyle.Render("> "+text)
		}
		return "   " + dimStyle.Render(text)
	}

	switch m.step {
	case 1:
		fmt.Fprintf(&b, "%s\n   %s\n\n", label(genName, "Enter Project Name:"), m.name.View())
		devType := inputPlaceholderStyle.Render("Select development type")
		if m.devType >= 0 {
			devType = goldStyle.Render(domain.DevTypes[m.devType])
		}
		fmt.Fprintf(&b, "%s\n   ‹ %s ›\n", label(genDevType, "Enter Development Type:"), devType)
	case 2:
		fmt.Fprintf(&b, "%s\n%s\n\n", label(genIdea, "Describe Your Project Idea:"), indent(m.idea.View(), "   "))
		fmt.Fprintf(&b, "%s\n%s\n", label(genAudience, "Target Audience:"), indent(m.audience.View(), "   "))
	case 3:
		fmt.Fprintf(&b, "%s\n   %s\n   %s\n\n", label(genFeatures, "Key Features:"), m.features.View(), metaStyle.Render("Separate features with commas"))
		fmt.Fprintf(&b, "%s\n   %s  %s\n", label(genOutput, "Output Method:"),
			m.outputOption("d", "Download", m.output == brief.OutputDownload),
			m.outputOption("c", "Copy to clipboard", m.output == brief.OutputClipboard))
		if m.output == brief.OutputDownload {
			fmt.Fprintf(&b, "\n%s\n   %s\n   %s\n", label(genFileName, "File Name (optional):"), m.fileName.View(), metaStyle.Render("saved as "+brief.FileName(m.fields())))
		}
		b.WriteString("\n   ")
		switch {
		case m.pending:
			b.WriteString(dimStyle.Render("Generating..."))
		case m.canGenerate():
			b.WriteString(goldStyle.Render("[ Generate ]") + " " + metaStyle.Render("ctrl+s"))
		default:
			b.WriteString(metaStyle.Render("[ Generate ]") + " " + inputPlaceholderStyle.Render("choose an output method"))
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n " + m.status + "\n")
	}
	if m.preview != "" && m.step == numSteps {
		b.WriteString("\n" + m.preview)
	}
	return b.String()
}

func (m generatorModel) progress() string {
	var parts []string
	for i := 1; i <= numSteps; i++ {
		if i <= m.step {
			parts = append(parts, accentStyle.Render("━━━━━━━━"))
		} else {
			parts = append(parts, metaStyle.Render("━━━━━━━━"))
		}
	}
	return strings.Join(parts, " ")
}

func (m generatorModel) outputOption(key, label string, on bool) string {
	box := "( )"
	if on {
		return goldStyle.Render("(•) "+label) + metaStyle.Render(" "+key)
	}
	return dimStyle.Render(box+" "+label) + metaStyle.Render(" "+key)
}
