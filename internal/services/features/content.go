package features

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"phishguard/internal/domain"
)

// Every document-based check falls back to neutral when the page is missing
// or could not be parsed.
const noContent = "Unable to analyze HTML content"

var statusBarMarkers = []string{
	"window.status", "onmouseover", "onmouseout", "status=", "defaultstatus",
}

type treeSource interface {
	Tree() (*goquery.Document, bool)
}

func tree(actx *domain.AnalysisContext) (*goquery.Document, bool) {
	src, ok := actx.Document.(treeSource)
	if !ok {
		return nil, false
	}
	return src.Tree()
}

func checkFaviconDomain(actx *domain.AnalysisContext) (int, string) {
	doc, ok := tree(actx)
	if !ok {
		return domain.ValueNeutral, "Favicon matches domain"
	}
	external := false
	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		if !strings.Contains(strings.ToLower(rel), "icon") {
			return true
		}
		href, _ := s.Attr("href")
		if host, ok := absoluteHost(href); ok && isExternal(host, actx.RegistrableDomain) {
			external = true
			return false
		}
		return true
	})
	if external {
		return domain.ValueMild, "Favicon loaded from external domain"
	}
	return domain.ValueNeutral, "Favicon matches domain"
}

func checkRequestURL(actx *domain.AnalysisContext) (int, string) {
	doc, ok := tree(actx)
	if !ok {
		return domain.ValueNeutral, noContent
	}
	t := linkTally{registrable: actx.RegistrableDomain}
	doc.Find("img, script, link").Each(func(_ int, s *goquery.Selection) {
		ref, ok := s.Attr("src")
		if !ok || ref == "" {
			ref, _ = s.Attr("href")
		}
		t.add(ref)
	})
	return t.grade(0.6, 0.3), fmt.Sprintf("%d/%d external resources", t.external, t.total)
}

func checkAnchorTags(actx *domain.AnalysisContext) (int, string) {
	doc, ok := tree(actx)
	if !ok {
		return domain.ValueNeutral, noContent
	}
	t := linkTally{registrable: actx.RegistrableDomain}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		t.add(href)
	})
	return t.grade(0.5, 0.2), fmt.Sprintf("%d/%d external links", t.external, t.total)
}

func checkLinksInMeta(actx *domain.AnalysisContext) (int, string) {
	doc, ok := tree(actx)
	if !ok {
		return domain.ValueNeutral, noContent
	}
	t := linkTally{registrable: actx.RegistrableDomain}
	doc.Find("meta, script, link").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"content", "src", "href"} {
			if v, ok := s.Attr(attr); ok {
				t.add(v)
			}
		}
	})
	return t.grade(0.7, 0.3), fmt.Sprintf("%d/%d external meta links", t.external, t.total)
}

// formActions returns the action attribute of every form that declares one.
func formActions(doc *goquery.Document) []string {
	var out []string
	doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		if action, ok := s.Attr("action"); ok {
			out = append(out, strings.TrimSpace(action))
		}
	})
	return out
}

func checkServerFormHandler(actx *domain.AnalysisContext) (int, string) {
	doc, ok := tree(actx)
	if !ok {
		return domain.ValueNeutral, noContent
	}
	suspicious := 0
	for _, action := range formActions(doc) {
		switch strings.ToLower(action) {
		case "", "#", "javascript:void(0)":
			suspicious++
			continue
		}
		if host, ok := absoluteHost(action); ok && isExternal(host, actx.RegistrableDomain) {
			suspicious++
		}
	}
	if suspicious > 0 {
		return domain.ValueRisk, fmt.Sprintf("%d suspicious form handlers found", suspicious)
	}
	return domain.ValueNeutral, "No suspicious form handlers"
}

func checkSubmittingToEmail(actx *domain.AnalysisContext) (int, string) {
	doc, ok := tree(actx)
	if !ok {
		return domain.ValueNeutral, noContent
	}
	for _, action := range formActions(doc) {
		if strings.HasPrefix(strings.ToLower(action), "mailto:") {
			return domain.ValueRisk, "Form submits to email address"
		}
	}
	return domain.ValueNeutral, "No email submission detected"
}

func checkIframeUsage(actx *domain.AnalysisContext) (int, string) {
	doc, ok := tree(actx)
	if !ok {
		return domain.ValueNeutral, noContent
	}
	n := doc.Find("iframe").Length()
	desc := fmt.Sprintf("%d iframe(s) detected", n)
	switch {
	case n > 3:
		return domain.ValueRisk, desc
	case n > 1:
		return domain.ValueMild, desc
	}
	return domain.ValueNeutral, desc
}

// Matches against the raw markup, so it does not need a parsed tree.
func checkStatusBarManipulation(actx *domain.AnalysisContext) (int, string) {
	if actx.Document == nil {
		return domain.ValueNeutral, noContent
	}
	raw := strings.ToLower(actx.Document.Raw())
	for _, m := range statusBarMarkers {
		if strings.Contains(raw, m) {
			return domain.ValueMild, "Status bar manipulation detected"
		}
	}
	return domain.ValueNeutral, "No status bar manipulation"
}

func checkExternalFormAction(actx *domain.AnalysisContext) (int, string) {
	doc, ok := tree(actx)
	if !ok {
		return domain.ValueNeutral, noContent
	}
	for _, action := range formActions(doc) {
		if host, ok := absoluteHost(action); ok && isExternal(host, actx.RegistrableDomain) {
			return domain.ValueRisk, "Form submits to external domain"
		}
	}
	return domain.ValueNeutral, "No external form actions"
}
