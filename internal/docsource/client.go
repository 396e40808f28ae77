package docsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/falcondocs/internal/doctree"
	"github.com/samber/oops"
	"resty.dev/v3"
)

// StatusError reports a non-success upstream response.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

// StatusCode returns the upstream status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}

// Client fetches the documentation document from its fixed upstream URL.
type Client struct {
	url    string
	client *resty.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		url:    url,
		client: client,
	}
}

// URL returns the upstream document URL.
func (c *Client) URL() string {
	return c.url
}

// Raw performs one GET and returns the unmodified success body.
func (c *Client) Raw(ctx context.Context) ([]byte, error) {
	response, err := c.client.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return nil, oops.
			Code("DOCS_UNAVAILABLE").
			With("url", c.url).
			Wrapf(err, "fetching docs")
	}
	defer response.Body.Close()

	status := response.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, oops.
			Code("DOCS_STATUS").
			With("url", c.url).
			With("status", status).
			Wrap(&StatusError{Status: status, URL: c.url})
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, oops.
			Code("DOCS_UNAVAILABLE").
			With("url", c.url).
			Wrapf(err, "reading docs body")
	}
	return body, nil
}

// Fetch retrieves and decodes the document.
func (c *Client) Fetch(ctx context.Context) (doctree.Document, error) {
	body, err := c.Raw(ctx)
	if err != nil {
		return doctree.Document{}, err
	}

	var doc doctree.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return doctree.Document{}, oops.
			Code("DOCS_MALFORMED").
			With("url", c.url).
			With("bytes", len(body)).
			Wrapf(err, "decoding docs")
	}
	return doc, nil
}

// Close releases idle upstream connections.
func (c *Client) Close() error {
	return c.client.Close()
}
