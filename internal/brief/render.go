package brief

import (
	"fmt"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// DefaultTemplate is the built-in brief layout.
const DefaultTemplate = `# {{ project_name }} Project Brief

## Development Type
{{ dev_type }}

## Project Idea
{{ project_idea }}

## Target Audience
{{ target_audience }}

## Key Features
{% for feature in features %}- {{ feature }}
{% endfor %}`

// Renderer turns Fields into markdown.
type Renderer struct {
	tpl *pongo2.Template
}

// NewRenderer compiles the template at templatePath, or DefaultTemplate when
// the path is empty.
func NewRenderer(templatePath string) (*Renderer, error) {
	src := DefaultTemplate
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("brief.NewRenderer: read template: %w", err)
		}
		src = string(data)
	}
	return NewRendererFromString(src)
}

// NewRendererFromString compiles src as a brief template.
func NewRendererFromString(src string) (*Renderer, error) {
	// Briefs are markdown, not HTML.
	tpl, err := pongo2.FromString("{% autoescape off %}" + src + "{% endautoescape %}")
	if err != nil {
		return nil, fmt.Errorf("brief.NewRenderer: parse template: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render fills the template with f.
func (r *Renderer) Render(f Fields) (string, error) {
	features := f.FeatureList()
	out, err := r.tpl.Execute(pongo2.Context{
		"project_name":    f.ProjectName,
		"dev_type":        f.DevType,
		"project_idea":    f.Idea,
		"target_audience": f.Audience,
		"features":        features,
		"feature_list":    "- " + strings.Join(features, "\n- "),
	})
	if err != nil {
		return "", fmt.Errorf("brief.Render: %w", err)
	}
	return out, nil
}

var defaultRenderer = mustDefault()

func mustDefault() *Renderer {
	r, err := NewRendererFromString(DefaultTemplate)
	if err != nil {
		panic(err)
	}
	return r
}

// Render renders f with DefaultTemplate.
func Render(f Fields) (string, error) {
	return defaultRenderer.Render(f)
}
