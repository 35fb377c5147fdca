package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var greetings = [...]string{
	"A prompt unwritten is a brief nobody reads.",
	"Your best idea is still in your head. The generator can fix that.",
	"Twelve prompts generated today. None of them were yours.",
	"Vague in, vague out. Sign in and sharpen it.",
	"Every great project starts as a rough paragraph. Bring yours.",
	"The dashboard is ready. It is only missing you.",
	"Three steps to a brief. You have taken zero.",
	"Somewhere a product description is writing itself. Badly.",
	"Your saved prompts miss you. Probably.",
	"Features, audience, idea. You already know all three.",
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24")).Bold(true)
	brandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa")).Bold(true)
	quoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cmdStyle   = lipgloss.NewStyle().Bold(true)
)

func printHelp(w io.Writer, cmd *cobra.Command) {
	if cmd.HasParent() {
		fmt.Fprintln(w, cmd.UsageString())
		return
	}

	title := titleStyle.Render("L E G E N D S") + " " + brandStyle.Render("PromptAI")
	quote := quoteStyle.Render(`"Elevate your prompts with AI."`)

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, quote)
	fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", "legends")), dimStyle.Render("Open the interactive app"))
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", "legends "+c.Name())), dimStyle.Render(c.Short))
	}
	fmt.Fprintf(w, "\n  Flags:\n%s\n", cmd.PersistentFlags().FlagUsages())
}

func printGreeting(w io.Writer) {
	msg := greetings[rand.IntN(len(greetings))]

	title := titleStyle.Render("LEGENDS")
	quote := quoteStyle.Render(msg)
	hint := dimStyle.Render("Not signed in. To sign in: legends login --email you@example.com --password-stdin")

	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
