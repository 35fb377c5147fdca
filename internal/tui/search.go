package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxSearchLen caps the title search; no saved prompt title is longer.
const maxSearchLen = 64

// editSearch applies one keystroke to the dashboard search terms. Typed or
// pasted runes are appended up to maxSearchLen, control characters are
// dropped, backspace removes a rune, ctrl+w a word and ctrl+u everything.
// Other named keys leave the terms alone.
func editSearch(terms string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if terms == "" {
			return terms
		}
		_, size := utf8.DecodeLastRuneInString(terms)
		return terms[:len(terms)-size]
	case tea.KeyCtrlW:
		trimmed := strings.TrimRightFunc(terms, unicode.IsSpace)
		cut := strings.LastIndexFunc(trimmed, unicode.IsSpace)
		return terms[:cut+1]
	case tea.KeyCtrlU:
		return ""
	case tea.KeySpace:
		if terms == "" {
			return terms
		}
		return appendSearch(terms, []rune{' '})
	case tea.KeyRunes:
		return appendSearch(terms, msg.Runes)
	}
	return terms
}

func appendSearch(terms string, rs []rune) string {
	room := maxSearchLen - utf8.RuneCountInString(terms)
	var b strings.Builder
	b.WriteString(terms)
	for _, r := range rs {
		if room == 0 {
			break
		}
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
		room--
	}
	return b.String()
}
