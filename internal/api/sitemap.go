package api

import (
	"net/http"

	"github.com/beevik/etree"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// publicPages are the paths listed in the sitemap.
var publicPages = []string{"/", "/docs", "/reference"}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	doc := buildSitemap(s.baseURL(r), publicPages)

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := doc.WriteTo(w); err != nil {
		s.log.Error("write sitemap", "error", err)
	}
}

// baseURL prefers the configured site URL and otherwise uses the request's
// scheme and host.
func (s *Server) baseURL(r *http.Request) string {
	if s.cfg.SiteURL != "" {
		return s.cfg.SiteURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func buildSitemap(base string, paths []string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapNS)
	for _, p := range paths {
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(base + p)
	}

	doc.Indent(2)
	return doc
}
