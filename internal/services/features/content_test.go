package features

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"phishguard/internal/domain"
)

const pageURL = "https://www.example.com/login"

func page(body string) string {
	return "<html><head></head><body>" + body + "</body></html>"
}

func TestContentFeatures_NoDocumentIsNeutral(t *testing.T) {
	actx := newContext(t, pageURL, "")
	for _, key := range []domain.FeatureKey{
		domain.FaviconDomain, domain.RequestURL, domain.AnchorTags, domain.LinksInMeta,
		domain.ServerFormHandler, domain.SubmittingToEmail, domain.IframeUsage,
		domain.StatusBarManipulation, domain.ExternalFormAction,
	} {
		r := eval(t, key, actx)
		assert.Equal(t, 0, r.Value, key)
		assert.NotEmpty(t, r.Description, key)
	}
}

type rawPage string

func (p rawPage) Raw() string { return string(p) }

func TestContentFeatures_PageWithoutTree(t *testing.T) {
	actx := newContext(t, pageURL, "")
	actx.Document = rawPage(`<iframe src="x"></iframe><a onmouseover="window.status='x'">`)

	assert.Equal(t, 0, eval(t, domain.IframeUsage, actx).Value)
	assert.Equal(t, 1, eval(t, domain.StatusBarManipulation, actx).Value)
}

func TestContentFeatures_MalformedMarkupDoesNotPanic(t *testing.T) {
	actx := newContext(t, pageURL, `<<<form action=mailto:a@b.c <iframe><a href="http://[bad">`)
	assert.NotPanics(t, func() { EvaluateAll(actx) })
}

func TestFaviconDomain(t *testing.T) {
	external := `<html><head><link rel="icon" href="https://cdn.other.net/favicon.ico"></head></html>`
	r := eval(t, domain.FaviconDomain, newContext(t, pageURL, external))
	assert.Equal(t, 1, r.Value)
	assert.Equal(t, "Favicon loaded from external domain", r.Description)

	sameSite := `<html><head><link rel="Shortcut Icon" href="https://static.example.com/f.ico"></head></html>`
	assert.Equal(t, 0, eval(t, domain.FaviconDomain, newContext(t, pageURL, sameSite)).Value)

	relative := `<html><head><link rel="icon" href="/favicon.ico"></head></html>`
	assert.Equal(t, 0, eval(t, domain.FaviconDomain, newContext(t, pageURL, relative)).Value)

	stylesheet := `<html><head><link rel="stylesheet" href="https://cdn.other.net/a.css"></head></html>`
	assert.Equal(t, 0, eval(t, domain.FaviconDomain, newContext(t, pageURL, stylesheet)).Value)
}

func TestRequestURL(t *testing.T) {
	mostlyExternal := page(`
		<img src="https://cdn1.net/a.png"><img src="https://cdn2.net/b.png">
		<script src="https://cdn3.net/c.js"></script>
		<link rel="stylesheet" href="https://www.example.com/s.css">
		<img src="/local.png">`)
	r := eval(t, domain.RequestURL, newContext(t, pageURL, mostlyExternal))
	assert.Equal(t, -1, r.Value)
	assert.Equal(t, "3/4 external resources", r.Description)

	someExternal := page(`
		<img src="https://cdn1.net/a.png">
		<img src="https://www.example.com/b.png"><script src="https://example.com/c.js"></script>`)
	assert.Equal(t, 1, eval(t, domain.RequestURL, newContext(t, pageURL, someExternal)).Value)

	fewExternal := page(`
		<img src="https://cdn1.net/a.png"><img src="https://example.com/1.png">
		<img src="https://example.com/2.png"><img src="https://example.com/3.png">`)
	assert.Equal(t, 0, eval(t, domain.RequestURL, newContext(t, pageURL, fewExternal)).Value)

	onlyRelative := page(`<img src="/a.png"><script src="app.js"></script>`)
	r = eval(t, domain.RequestURL, newContext(t, pageURL, onlyRelative))
	assert.Equal(t, 0, r.Value)
	assert.Equal(t, "0/0 external resources", r.Description)
}

func anchors(external, internal int) string {
	var b strings.Builder
	for i := 0; i < external; i++ {
		b.WriteString(`<a href="https://elsewhere.org/x">x</a>`)
	}
	for i := 0; i < internal; i++ {
		b.WriteString(`<a href="https://example.com/y">y</a>`)
	}
	b.WriteString(`<a href="/relative">r</a><a href="#top">t</a><a>no href</a>`)
	return page(b.String())
}

func TestAnchorTags(t *testing.T) {
	cases := []struct {
		external, internal, want int
	}{
		{3, 2, -1}, // 0.6
		{1, 3, 1},  // 0.25
		{1, 4, 0},  // 0.2 exactly is not above the mild bound
		{0, 0, 0},
	}
	for _, c := range cases {
		r := eval(t, domain.AnchorTags, newContext(t, pageURL, anchors(c.external, c.internal)))
		assert.Equal(t, c.want, r.Value, "%d/%d", c.external, c.external+c.internal)
	}
}

func TestLinksInMeta(t *testing.T) {
	heavy := `<html><head>
		<meta property="og:image" content="https://img.other.net/a.png">
		<script src="https://js.other.net/a.js"></script>
		<link rel="preconnect" href="https://fonts.other.net">
		<meta name="description" content="not a url">
		</head></html>`
	r := eval(t, domain.LinksInMeta, newContext(t, pageURL, heavy))
	assert.Equal(t, -1, r.Value)
	assert.Equal(t, "3/3 external meta links", r.Description)

	mixed := `<html><head>
		<meta property="og:url" content="https://www.example.com/">
		<script src="https://js.other.net/a.js"></script>
		</head></html>`
	assert.Equal(t, 1, eval(t, domain.LinksInMeta, newContext(t, pageURL, mixed)).Value)

	local := `<html><head><meta property="og:url" content="https://example.com/"></head></html>`
	assert.Equal(t, 0, eval(t, domain.LinksInMeta, newContext(t, pageURL, local)).Value)
}

func TestServerFormHandler(t *testing.T) {
	cases := map[string]int{
		`<form action="#"></form>`:                             -1,
		`<form action=""></form>`:                              -1,
		`<form action="javascript:void(0)"></form>`:            -1,
		`<form action="https://collect.evil.net/post"></form>`: -1,
		`<form action="/login"></form>`:                        0,
		`<form action="https://login.example.com/do"></form>`:  0,
		`<form method="post"></form>`:                          0,
	}
	for body, want := range cases {
		assert.Equal(t, want, eval(t, domain.ServerFormHandler, newContext(t, pageURL, page(body))).Value, body)
	}
	r := eval(t, domain.ServerFormHandler, newContext(t, pageURL, page(`<form action="#"></form><form action=""></form>`)))
	assert.Equal(t, "2 suspicious form handlers found", r.Description)
}

func TestSubmittingToEmail(t *testing.T) {
	r := eval(t, domain.SubmittingToEmail, newContext(t, pageURL, page(`<form action="MAILTO:drop@evil.net"></form>`)))
	assert.Equal(t, -1, r.Value)
	assert.Equal(t, 0, eval(t, domain.SubmittingToEmail, newContext(t, pageURL, page(`<form action="/send"></form>`))).Value)
}

func TestIframeUsage(t *testing.T) {
	frames := func(n int) string { return page(strings.Repeat(`<iframe src="/f"></iframe>`, n)) }
	assert.Equal(t, -1, eval(t, domain.IframeUsage, newContext(t, pageURL, frames(4))).Value)
	assert.Equal(t, 1, eval(t, domain.IframeUsage, newContext(t, pageURL, frames(2))).Value)
	r := eval(t, domain.IframeUsage, newContext(t, pageURL, frames(1)))
	assert.Equal(t, 0, r.Value)
	assert.Equal(t, "1 iframe(s) detected", r.Description)
}

func TestStatusBarManipulation(t *testing.T) {
	for _, body := range []string{
		`<a href="/" onMouseOver="window.status='x'">x</a>`,
		`<script>defaultStatus = "ok"</script>`,
		`<a onmouseout="f()">x</a>`,
	} {
		assert.Equal(t, 1, eval(t, domain.StatusBarManipulation, newContext(t, pageURL, page(body))).Value, body)
	}
	assert.Equal(t, 0, eval(t, domain.StatusBarManipulation, newContext(t, pageURL, page(`<p>plain</p>`))).Value)
}

func TestExternalFormAction(t *testing.T) {
	r := eval(t, domain.ExternalFormAction, newContext(t, pageURL, page(`<form action="https://evil.net/steal"></form>`)))
	assert.Equal(t, -1, r.Value)
	assert.Equal(t, 0, eval(t, domain.ExternalFormAction, newContext(t, pageURL, page(`<form action="#"></form>`))).Value)
	assert.Equal(t, 0, eval(t, domain.ExternalFormAction, newContext(t, pageURL, page(`<form action="https://example.com/x"></form>`))).Value)
}

func TestIsExternal(t *testing.T) {
	assert.False(t, isExternal("example.com", "example.com"))
	assert.False(t, isExternal("a.b.example.com", "example.com"))
	assert.True(t, isExternal("notexample.com", "example.com"))
	assert.True(t, isExternal("example.com.evil.net", "example.com"))
}
