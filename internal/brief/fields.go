// Package brief builds the markdown project brief from the generator's
// answers and hands it to an export sink.
package brief

import (
	"errors"
	"fmt"
	"strings"
)

// Output selects where a generated brief goes.
type Output string

const (
	OutputNone      Output = ""
	OutputDownload  Output = "d"
	OutputClipboard Output = "c"
)

// ParseOutput accepts "d"/"download" and "c"/"clipboard".
func ParseOutput(s string) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "download":
		return OutputDownload, nil
	case "c", "clipboard":
		return OutputClipboard, nil
	case "":
		return OutputNone, ErrNoOutput
	}
	return OutputNone, fmt.Errorf("brief.ParseOutput: unknown output %q", s)
}

func (o Output) String() string {
	switch o {
	case OutputDownload:
		return "download"
	case OutputClipboard:
		return "clipboard"
	}
	return "none"
}

// ErrNoOutput is returned when no output method was chosen.
var ErrNoOutput = errors.New("brief: no output method selected")

// Fields are the generator's answers. Every text field is free-form and may
// be empty.
type Fields struct {
	ProjectName string
	DevType     string
	Idea        string
	Audience    string
	Features    string // comma-separated
	Output      Output
	FileName    string // download name without extension; optional
}

// FeatureList splits Features on commas and trims each entry. Empty entries
// are kept so that "a,,b" yields three bullets.
func (f Fields) FeatureList() []string {
	parts := strings.Split(f.Features, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
