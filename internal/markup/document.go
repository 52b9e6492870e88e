// Package markup wraps fetched HTML in a tolerant, read-only document.
//
// Parsing goes through golang.org/x/net/html (via goquery), which repairs
// malformed markup instead of failing, so a Document built from any string is
// always queryable.
package markup

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Document is a fetched page: the raw markup plus its parsed tree.
type Document struct {
	raw  string
	tree *goquery.Document
}

// Parse builds a Document from raw markup. An empty input yields nil so that
// callers treat it like a failed fetch.
func Parse(raw string) *Document {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d := &Document{raw: raw}
	tree, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err == nil {
		d.tree = tree
	}
	return d
}

// Raw returns the markup as fetched.
func (d *Document) Raw() string {
	if d == nil {
		return ""
	}
	return d.raw
}

// Tree returns the parsed tree, or false when there is none.
func (d *Document) Tree() (*goquery.Document, bool) {
	if d == nil || d.tree == nil {
		return nil, false
	}
	return d.tree, true
}

// Decode converts a response body to UTF-8 using the Content-Type header and
// any <meta charset> found in the first bytes. Unknown encodings pass through.
func Decode(body io.Reader, contentType string) (string, error) {
	r, err := charset.NewReader(body, contentType)
	if err != nil {
		r = body
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
