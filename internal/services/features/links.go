package features

import (
	"net/url"
	"strings"

	"phishguard/internal/domain"
)

// absoluteHost returns the lower-cased host of an absolute http(s) reference.
func absoluteHost(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	return host, true
}

// isExternal reports whether host lies outside the page's registrable domain.
func isExternal(host, registrable string) bool {
	if registrable == "" {
		return true
	}
	return host != registrable && !strings.HasSuffix(host, "."+registrable)
}

// linkTally counts absolute references and how many of them are external.
type linkTally struct {
	registrable string
	total       int
	external    int
}

func (t *linkTally) add(ref string) {
	host, ok := absoluteHost(ref)
	if !ok {
		return
	}
	t.total++
	if isExternal(host, t.registrable) {
		t.external++
	}
}

// grade maps the external ratio to a value: above risk is -1, above mild is 1.
// No absolute references is neutral.
func (t *linkTally) grade(risk, mild float64) int {
	if t.total == 0 {
		return domain.ValueNeutral
	}
	ratio := float64(t.external) / float64(t.total)
	switch {
	case ratio > risk:
		return domain.ValueRisk
	case ratio > mild:
		return domain.ValueMild
	}
	return domain.ValueNeutral
}
