package render

import "embed"

// templates holds the page layouts, assets the static CSS and JS served under
// /static/ and content the markdown for the guide page.
//
//go:embed templates/*.html
var templates embed.FS

//go:embed assets/*
var assets embed.FS

//go:embed content/guide.md
var guideSource []byte
