package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"github.com/dgallion1/falcondocs/internal/config"
	"github.com/dgallion1/falcondocs/internal/docsource"
	"github.com/dgallion1/falcondocs/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocs = `{
	"types": [
		{"name": "Context", "doc": "Context wraps a request.", "package": "falcon",
			"methods": [{"name": "JSON", "doc": "JSON writes a response."}]},
		{"name": "fakeServer", "doc": "test helper", "package": "test"}
	],
	"functions": [
		{"name": "New", "doc": "New creates an app.", "package": "falcon"},
		{"name": "Logger", "doc": "Logger logs requests.", "package": "middleware"}
	]
}`

type testEnv struct {
	server *Server
	logs   *bytes.Buffer
	hits   atomic.Int32
}

func newTestEnv(t *testing.T, status int, body string, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	env := &testEnv{logs: &bytes.Buffer{}}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Defaults()
	cfg.DocsURL = upstream.URL
	cfg.APIRate = 0
	for _, m := range mutate {
		m(&cfg)
	}

	log := slog.New(slog.NewTextHandler(env.logs, nil))
	client := docsource.NewClient(cfg.DocsURL, time.Second)
	t.Cleanup(func() { _ = client.Close() })

	pages, err := render.New(render.Site{
		Name:    cfg.Framework.Name,
		Version: cfg.Framework.Version,
		Module:  cfg.Framework.Module,
		RepoURL: cfg.Framework.RepoURL,
		PkgURL:  cfg.Framework.PkgURL,
	})
	require.NoError(t, err)

	env.server = NewServer(client, docsource.NewLoader(client, log), pages, log, cfg)
	return env
}

func (e *testEnv) get(path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func TestHandleDocs_PrettyPrintsUpstream(t *testing.T) {
	t.Parallel()

	upstream := `{"types":[{"name":"T","doc":"d"}],"functions":[]}`
	env := newTestEnv(t, http.StatusOK, upstream)

	rec := env.get("/api/docs")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{
  "types": [
    {
      "name": "T",
      "doc": "d"
    }
  ],
  "functions": []
}`, rec.Body.String())
	assert.JSONEq(t, upstream, rec.Body.String())
}

func TestHandleDocs_KeepsKeyOrderAndUnknownFields(t *testing.T) {
	t.Parallel()

	upstream := "{\"version\":\"v1\",\"types\":[],\"functions\":[{\"name\":\"F\",\"zeta\":1.50,\"alpha\":null}]}\n"
	env := newTestEnv(t, http.StatusOK, upstream)

	rec := env.get("/api/docs")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.JSONEq(t, upstream, body)
	assert.Less(t, strings.Index(body, `"version"`), strings.Index(body, `"types"`))
	assert.Less(t, strings.Index(body, `"zeta"`), strings.Index(body, `"alpha"`))
	assert.Contains(t, body, "1.50")
	assert.False(t, strings.HasSuffix(body, "\n"))
}

func TestHandleDocs_UpstreamStatusForwarded(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusInternalServerError, http.StatusNotFound, http.StatusServiceUnavailable} {
		env := newTestEnv(t, status, `upstream failure`)

		rec := env.get("/api/docs")

		assert.Equal(t, status, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"Failed to fetch docs"}`, rec.Body.String())
	}
}

func TestHandleDocs_MalformedUpstream(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, `{"types": [`)

	rec := env.get("/api/docs")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server error", body["error"])
	assert.NotEmpty(t, body["details"])
	assert.Contains(t, env.logs.String(), "docs proxy failed")
}

func TestHandleDocs_TransportFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, `{}`)
	unreachable := docsource.NewClient("http://127.0.0.1:1/docs.json", 200*time.Millisecond)
	t.Cleanup(func() { _ = unreachable.Close() })
	env.server.source = unreachable

	rec := env.get("/api/docs")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server error", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestHandleDocs_ETag(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, sampleDocs)

	first := env.get("/api/docs")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	second := env.get("/api/docs", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())

	stale := env.get("/api/docs", "If-None-Match", `"0000000000000000"`)
	assert.Equal(t, http.StatusOK, stale.Code)

	// Conditional requests still reach upstream every time.
	assert.Equal(t, 3, int(env.hits.Load()))
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, sampleDocs, func(c *config.Config) {
		c.APIRate = 0.001
		c.APIBurst = 2
	})

	assert.Equal(t, http.StatusOK, env.get("/api/docs").Code)
	assert.Equal(t, http.StatusOK, env.get("/api/docs").Code)

	rec := env.get("/api/docs")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Pages are not limited.
	assert.Equal(t, http.StatusOK, env.get("/").Code)
}

func TestPages(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, sampleDocs)

	testCases := []struct {
		path     string
		status   int
		contains string
	}{
		{path: "/", status: http.StatusOK, contains: "A minimal, fast toolkit"},
		{path: "/docs", status: http.StatusOK, contains: `id="getting-started"`},
		{path: "/reference", status: http.StatusOK, contains: "Loading docs..."},
		{path: "/no/such/page", status: http.StatusNotFound, contains: "Page not found"},
	}

	for _, tc := range testCases {
		rec := env.get(tc.path)
		assert.Equal(t, tc.status, rec.Code, tc.path)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"), tc.path)
		assert.Contains(t, rec.Body.String(), tc.contains, tc.path)
	}

	// The shell does not fetch upstream.
	assert.Equal(t, 0, int(env.hits.Load()))
}

func TestReferenceShell_PassesOpenUnits(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, sampleDocs)

	rec := env.get("/reference?open=func-falcon-new,type-falcon-context")

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	src := doc.Find("#reference").AttrOr("data-src", "")
	assert.Equal(t, "/reference/content?open=func-falcon-new%2Ctype-falcon-context", src)
}

func TestReferenceContent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, sampleDocs)

	rec := env.get("/reference/content?open=type-falcon-context")

	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, "loaded", doc.Find(".reference").AttrOr("data-state", ""))
	var groups []string
	doc.Find("section.group > h2").Each(func(_ int, s *goquery.Selection) {
		groups = append(groups, s.Text())
	})
	assert.Equal(t, []string{"falcon", "middleware"}, groups)
	assert.Equal(t, 0, doc.Find("#type-test-fakeserver").Length())

	_, open := doc.Find("details#type-falcon-context").Attr("open")
	assert.True(t, open)
	assert.Equal(t, 1, doc.Find("details#type-falcon-context .methods details#method-falcon-context-json").Length())
	assert.Equal(t, 1, int(env.hits.Load()))
}

func TestReferenceContent_UpstreamFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusInternalServerError, `boom`)

	rec := env.get("/reference/content")

	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "failed", doc.Find(".reference").AttrOr("data-state", ""))
	assert.Equal(t, 0, doc.Find("section.group").Length())
	assert.Equal(t, 1, doc.Find(".reference-body").Length())
	assert.Contains(t, env.logs.String(), "failed to fetch docs")
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, sampleDocs)

	rec := env.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatic(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, sampleDocs)

	rec := env.get("/static/site.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/javascript", rec.Header().Get("Content-Type"))

	rec = env.get("/static/highlight.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".chroma")
}

func TestSitemap(t *testing.T) {
	t.Parallel()

	t.Run("uses request host", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, http.StatusOK, sampleDocs)

		rec := env.get("/sitemap.xml", "X-Forwarded-Proto", "https")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))

		assert.Equal(t, []string{
			"https://example.com/", "https://example.com/docs", "https://example.com/reference",
		}, sitemapLocs(t, rec.Body))
	})

	t.Run("prefers configured site url", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, http.StatusOK, sampleDocs, func(c *config.Config) {
			c.SiteURL = "https://falcon.dev"
		})

		rec := env.get("/sitemap.xml")
		locs := sitemapLocs(t, rec.Body)
		require.Len(t, locs, 3)
		assert.Equal(t, "https://falcon.dev/", locs[0])
	})
}

func sitemapLocs(t *testing.T, r io.Reader) []string {
	t.Helper()

	doc := etree.NewDocument()
	_, err := doc.ReadFrom(r)
	require.NoError(t, err)

	root := doc.SelectElement("urlset")
	require.NotNil(t, root)
	assert.Equal(t, sitemapNS, root.SelectAttrValue("xmlns", ""))

	var locs []string
	for _, u := range root.SelectElements("url") {
		locs = append(locs, u.SelectElement("loc").Text())
	}
	return locs
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, sampleDocs)

	routes, err := env.server.Routes()
	require.NoError(t, err)

	patterns := make(map[string]bool)
	for _, r := range routes {
		patterns[r.Method+" "+r.Pattern] = true
	}
	for _, want := range []string{
		"GET /", "GET /docs", "GET /reference", "GET /reference/content", "GET /api/docs",
		"GET /health", "GET /sitemap.xml",
	} {
		assert.True(t, patterns[want], "missing route %s", want)
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, http.StatusOK, sampleDocs)

	env.get("/health")

	output := env.logs.String()
	assert.Contains(t, output, "msg=request")
	assert.Contains(t, output, "path=/health")
	assert.Contains(t, output, "status=200")
}

func TestEtagMatch(t *testing.T) {
	t.Parallel()

	assert.False(t, etagMatch("", `"a"`))
	assert.True(t, etagMatch(`"a"`, `"a"`))
	assert.True(t, etagMatch(`"b", W/"a"`, `"a"`))
	assert.True(t, etagMatch(`*`, `"a"`))
	assert.False(t, etagMatch(`"b"`, `"a"`))
}
