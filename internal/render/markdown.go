package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Guide is the rendered guide page content.
type Guide struct {
	HTML     template.HTML
	Sections []Heading // Sidebar entries, document order
}

// RenderGuide converts markdown to HTML. Code blocks become highlighted
// snippets and the h2 headings form the sidebar.
func RenderGuide(src []byte, hl *Highlighter) (Guide, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(&codeBlockRenderer{hl: hl}, 200)),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return Guide{}, fmt.Errorf("convert guide: %w", err)
	}

	sections, err := Outline(buf.Bytes(), 2)
	if err != nil {
		return Guide{}, err
	}

	return Guide{
		HTML:     template.HTML(buf.String()),
		Sections: sections,
	}, nil
}

// codeBlockRenderer replaces goldmark's <pre><code> output with snippets.
type codeBlockRenderer struct {
	hl *Highlighter
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *codeBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var lang string
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		lang = string(fenced.Language(source))
	}

	var code bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	if _, err := w.WriteString(string(r.hl.Snippet(code.String(), lang, ""))); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}
