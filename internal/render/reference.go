package render

import (
	"html/template"
	"io"
	"net/url"
	"strings"
	"unicode"

	"github.com/dgallion1/falcondocs/internal/doctree"
)

// ReferencePath is where toggle links point.
const ReferencePath = "/reference"

// Unit is one expandable entry: a type, a method or a function.
type Unit struct {
	ID         string
	Name       string
	Doc        template.HTML
	Code       template.HTML // Highlighted snippet, empty when absent
	Open       bool
	ToggleHref string
	Methods    []Unit
}

// GroupView is one package section.
type GroupView struct {
	Key       string
	Anchor    string
	Types     []Unit
	Functions []Unit
}

// ReferenceView is the data behind the reference fragment.
type ReferenceView struct {
	State  ViewState
	Groups []GroupView
}

// BuildReference turns a grouped document into view data. Group order follows
// the tree.
func (r *Renderer) BuildReference(tree *doctree.Tree, state ViewState, open ExpandState) ReferenceView {
	view := ReferenceView{State: state}

	for _, g := range tree.Groups {
		gv := GroupView{
			Key:    g.Key,
			Anchor: slug("pkg", g.Key),
		}
		for _, typ := range g.Types {
			id := slug("type", g.Key, typ.Name)
			u := r.unit(id, typ.Name, typ.Doc, typ.Code, open)
			for _, m := range typ.Methods {
				u.Methods = append(u.Methods, r.unit(slug("method", g.Key, typ.Name, m.Name), m.Name, m.Doc, m.Code, open))
			}
			gv.Types = append(gv.Types, u)
		}
		for _, fn := range g.Functions {
			gv.Functions = append(gv.Functions, r.unit(slug("func", g.Key, fn.Name), fn.Name, fn.Doc, fn.Code, open))
		}
		view.Groups = append(view.Groups, gv)
	}

	return view
}

func (r *Renderer) unit(id, name, doc, code string, open ExpandState) Unit {
	u := Unit{
		ID:         id,
		Name:       name,
		Doc:        DocHTML(doc),
		Open:       open.IsOpen(id),
		ToggleHref: ToggleHref(open, id),
	}
	if code != "" {
		u.Code = r.hl.Snippet(code, "go", "")
	}
	return u
}

// Reference renders the reference fragment for tree.
func (r *Renderer) Reference(w io.Writer, tree *doctree.Tree, state ViewState, open ExpandState) error {
	return r.frag.ExecuteTemplate(w, "reference_content", r.BuildReference(tree, state, open))
}

// ToggleHref links to the reference page with id flipped in open.
func ToggleHref(open ExpandState, id string) string {
	next := open.Toggled(id)
	href := ReferencePath
	if next.Len() > 0 {
		href += "?" + url.Values{"open": {next.Encode()}}.Encode()
	}
	return href + "#" + id
}

// slug joins parts into a lowercase id safe for URLs and query lists.
func slug(parts ...string) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte('-')
		}
		for _, c := range strings.ToLower(part) {
			switch {
			case unicode.IsLetter(c) || unicode.IsDigit(c):
				b.WriteRune(c)
			default:
				b.WriteByte('_')
			}
		}
	}
	return b.String()
}
