package render

import (
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

// HighlightCSS is the generated stylesheet name under /static/.
const HighlightCSS = "highlight.css"

// Static serves the embedded assets plus the generated highlight stylesheet.
// Mount it with the /static/ prefix stripped.
func (r *Renderer) Static() http.Handler {
	assetFS, err := fs.Sub(assets, "assets")
	if err != nil {
		panic("render: failed to load embedded assets: " + err.Error())
	}

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+req.URL.Path), "/")
		if name == HighlightCSS {
			w.Header().Set("Content-Type", contentTypeFor(name))
			_, _ = w.Write(r.css)
			return
		}

		data, err := fs.ReadFile(assetFS, name)
		if err != nil {
			http.NotFound(w, req)
			return
		}
		if ctype := contentTypeFor(name); ctype != "" {
			w.Header().Set("Content-Type", ctype)
		}
		_, _ = w.Write(data)
	})
}

func contentTypeFor(name string) string {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".svg":
		return "image/svg+xml"
	default:
		return mime.TypeByExtension(ext)
	}
}
