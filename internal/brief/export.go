package brief

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// MIMEType is the media type of a downloaded brief.
const MIMEType = "text/markdown"

// Sink receives a rendered brief. Export returns where the brief ended up,
// or "" when there is no location to report.
type Sink interface {
	Export(name, content string) (string, error)
}

// Clipboard copies the brief to the system clipboard.
type Clipboard struct {
	write func(string) error
}

// NewClipboard returns the system clipboard sink.
func NewClipboard() *Clipboard {
	return &Clipboard{write: clipboard.WriteAll}
}

func (c *Clipboard) Export(_, content string) (string, error) {
	if err := c.write(content); err != nil {
		return "", fmt.Errorf("brief.Clipboard.Export: %w", err)
	}
	return "", nil
}

// Download writes the brief to Dir under its file name. An existing file of
// the same name is overwritten.
type Download struct {
	Dir string
}

func (d Download) Export(name, content string) (string, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("brief.Download.Export: create dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("brief.Download.Export: %w", err)
	}
	return path, nil
}

// Result describes a finished export.
type Result struct {
	Output  Output
	Name    string
	Path    string
	Content string
}

// Generator renders briefs and routes them to the chosen sink.
type Generator struct {
	renderer  *Renderer
	clipboard Sink
	download  Sink
}

// NewGenerator wires a renderer to its two sinks.
func NewGenerator(r *Renderer, clip, download Sink) *Generator {
	if r == nil {
		r = defaultRenderer
	}
	return &Generator{renderer: r, clipboard: clip, download: download}
}

// Generate renders f and exports it per f.Output.
func (g *Generator) Generate(f Fields) (Result, error) {
	var sink Sink
	switch f.Output {
	case OutputDownload:
		sink = g.download
	case OutputClipboard:
		sink = g.clipboard
	default:
		return Result{}, ErrNoOutput
	}

	content, err := g.renderer.Render(f)
	if err != nil {
		return Result{}, err
	}
	res := Result{Output: f.Output, Name: FileName(f), Content: content}
	res.Path, err = sink.Export(res.Name, content)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
