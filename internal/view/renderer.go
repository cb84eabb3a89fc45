package view

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"
)

// fragmentTemplate is the entry point for POST /results responses.
const fragmentTemplate = "fragment"

// Renderer applies page descriptions to HTML using the partial templates.
type Renderer struct {
	templates *template.Template
}

// TemplateFuncs are available to every page and partial template.
var TemplateFuncs = template.FuncMap{
	"ms": func(d time.Duration) int64 { return d.Milliseconds() },
}

// NewRenderer parses partials/*.html from fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(TemplateFuncs).ParseFS(fsys, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse partial templates: %w", err)
	}
	if tmpl.Lookup(fragmentTemplate) == nil {
		return nil, fmt.Errorf("partial templates do not define %q", fragmentTemplate)
	}
	return &Renderer{templates: tmpl}, nil
}

// RenderFragment writes the results or error fragment for state.
func (r *Renderer) RenderFragment(w io.Writer, state PageState) error {
	return r.templates.ExecuteTemplate(w, fragmentTemplate, state)
}
