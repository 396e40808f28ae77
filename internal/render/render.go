// Package render produces the site's HTML pages from embedded templates.
package render

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

// Site describes the documented framework.
type Site struct {
	Name    string
	Version string
	Module  string
	RepoURL string
	PkgURL  string
}

// Feature is one card on the landing page.
type Feature struct {
	Title       string
	Description string
}

var features = []Feature{
	{Title: "Minimal core", Description: "A small API surface: routes, context, middleware. Nothing you have to unlearn."},
	{Title: "Fast by default", Description: "Zero-allocation routing and predictable performance under load."},
	{Title: "Composable middleware", Description: "Logging, recovery and auth are plain functions you can stack in any order."},
	{Title: "Standard library friendly", Description: "Built on net/http so existing handlers and tooling keep working."},
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHighlightStyle selects the chroma style for code snippets.
func WithHighlightStyle(name string) Option {
	return func(r *Renderer) {
		r.hl = NewHighlighter(name)
	}
}

// WithClock overrides the time source used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// Renderer renders the site pages. It is safe for concurrent use.
type Renderer struct {
	site  Site
	hl    *Highlighter
	now   func() time.Time
	guide Guide
	css   []byte
	pages map[string]*template.Template
	frag  *template.Template
}

var pageFiles = []string{"landing.html", "guide.html", "reference.html", "notfound.html"}

func New(site Site, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		site:  site,
		hl:    NewHighlighter("github"),
		now:   time.Now,
		pages: make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}

	funcs := template.FuncMap{
		"snippet": func(lang, code string) template.HTML {
			return r.hl.Snippet(code, lang, "")
		},
	}

	for _, name := range pageFiles {
		t, err := template.New(name).Funcs(funcs).ParseFS(templates, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}

	frag, err := template.New("reference_content.html").Funcs(funcs).ParseFS(templates, "templates/reference_content.html")
	if err != nil {
		return nil, fmt.Errorf("parse reference_content.html: %w", err)
	}
	r.frag = frag

	guide, err := RenderGuide(guideSource, r.hl)
	if err != nil {
		return nil, err
	}
	r.guide = guide

	css, err := r.hl.CSS()
	if err != nil {
		return nil, err
	}
	r.css = css

	return r, nil
}

// pageData is what every page template receives.
type pageData struct {
	Site   Site
	Title  string
	Active string
	Year   int
	Body   any
}

func (r *Renderer) page(w io.Writer, name, title, active string, body any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", pageData{
		Site:   r.site,
		Title:  title,
		Active: active,
		Year:   r.now().Year(),
		Body:   body,
	})
}

type landingBody struct {
	Features []Feature
	Install  string
	Example  string
}

// Landing renders the marketing page.
func (r *Renderer) Landing(w io.Writer) error {
	return r.page(w, "landing.html", r.site.Name, "home", landingBody{
		Features: features,
		Install:  "go get " + r.site.Module,
		Example:  helloExample(r.site.Module),
	})
}

// Guide renders the usage guide with its sidebar.
func (r *Renderer) Guide(w io.Writer) error {
	return r.page(w, "guide.html", "Documentation", "docs", r.guide)
}

type referenceShell struct {
	Src string
}

// ReferenceShell renders the reference page in its loading state. The browser
// script replaces the placeholder with the fragment at src.
func (r *Renderer) ReferenceShell(w io.Writer, src string) error {
	return r.page(w, "reference.html", "API Reference", "reference", referenceShell{Src: src})
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(w io.Writer) error {
	return r.page(w, "notfound.html", "Not found", "", nil)
}

func helloExample(module string) string {
	return `package main

import (
	"net/http"

	framework "` + module + `"
)

func main() {
	app := framework.New()

	app.GET("/", func(c framework.Context) error {
		return c.String(http.StatusOK, "Hello, World!")
	})

	app.Listen(":8080")
}`
}
