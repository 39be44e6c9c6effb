package mail

import (
	"embed"
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*
var templateFS embed.FS

// Rendered is a message body in both HTML and plain-text form.
type Rendered struct {
	HTML string
	Text string
}

// Renderer compiles embedded pongo2 templates once and caches them.
type Renderer struct {
	mu    sync.Mutex
	cache map[string]*pongo2.Template
}

func NewRenderer() *Renderer {
	return &Renderer{cache: make(map[string]*pongo2.Template)}
}

func (r *Renderer) template(file string) (*pongo2.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tpl, ok := r.cache[file]; ok {
		return tpl, nil
	}
	src, err := templateFS.ReadFile("templates/" + file)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", file, err)
	}
	tpl, err := pongo2.FromBytes(src)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", file, err)
	}
	r.cache[file] = tpl
	return tpl, nil
}

func (r *Renderer) Render(msg Message) (Rendered, error) {
	ctx := pongo2.Context(msg.Data)

	html, err := r.template(msg.Template + ".html")
	if err != nil {
		return Rendered{}, err
	}
	text, err := r.template(msg.Template + ".txt")
	if err != nil {
		return Rendered{}, err
	}

	var out Rendered
	if out.HTML, err = html.Execute(ctx); err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", msg.Template, err)
	}
	if out.Text, err = text.Execute(ctx); err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", msg.Template, err)
	}
	return out, nil
}
