package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter turns source text into class-annotated HTML.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter uses the named chroma style, falling back to chroma's
// default when the name is unknown.
func NewHighlighter(styleName string) *Highlighter {
	return &Highlighter{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.TabWidth(4)),
	}
}

// Highlight renders code in lang. Unknown languages are treated as plain text.
func (h *Highlighter) Highlight(code, lang string) (template.HTML, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", lang, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("format %s: %w", lang, err)
	}
	return template.HTML(buf.String()), nil
}

// CSS returns the stylesheet for the highlighter's style.
func (h *Highlighter) CSS() ([]byte, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return nil, fmt.Errorf("write highlight css: %w", err)
	}
	return buf.Bytes(), nil
}

var snippetTmpl = template.Must(template.New("snippet").Parse(
	`<div class="snippet">` +
		`<div class="snippet-bar"><span class="snippet-label">{{.Label}}</span>` +
		`<button type="button" class="snippet-copy" data-copy>Copy</button></div>` +
		`{{.Body}}</div>`))

// Snippet renders a labelled, copyable code box. An empty label shows the
// language.
func (h *Highlighter) Snippet(code, lang, label string) template.HTML {
	code = strings.TrimRight(code, "\n")
	if lang == "" {
		lang = "txt"
	}
	if label == "" {
		label = lang
	}

	body, err := h.Highlight(code, lang)
	if err != nil {
		body = template.HTML(`<pre class="chroma"><code>` + template.HTMLEscapeString(code) + `</code></pre>`)
	}

	var buf bytes.Buffer
	if err := snippetTmpl.Execute(&buf, struct {
		Label string
		Body  template.HTML
	}{label, body}); err != nil {
		return body
	}
	return template.HTML(buf.String())
}
