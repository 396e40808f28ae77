package render

import (
	"go/doc/comment"
	"html/template"
)

const docLinkBase = "https://pkg.go.dev"

// DocHTML renders Go doc comment text. Doc links resolve on pkg.go.dev.
func DocHTML(text string) template.HTML {
	if text == "" {
		return ""
	}

	var p comment.Parser
	doc := p.Parse(text)

	pr := comment.Printer{
		DocLinkBaseURL: docLinkBase,
		HeadingLevel:   4,
	}
	return template.HTML(pr.HTML(doc))
}
