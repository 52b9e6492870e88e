package features

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"phishguard/internal/domain"
)

var (
	dottedQuad  = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
	doubleSlash = regexp.MustCompile(`//.*//`)
)

var urlShorteners = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly",
	"short.link", "tiny.cc", "is.gd", "buff.ly", "ift.tt",
}

var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".cc", ".pw", ".top"}

func checkIPAddress(actx *domain.AnalysisContext) (int, string) {
	if dottedQuad.MatchString(actx.URL.Hostname) {
		return domain.ValueRisk, "URL uses IP address instead of domain name"
	}
	return domain.ValueNeutral, "URL uses proper domain name"
}

func checkLongURL(actx *domain.AnalysisContext) (int, string) {
	n := utf8.RuneCountInString(actx.URL.Raw)
	desc := fmt.Sprintf("URL length: %d characters", n)
	switch {
	case n > 150:
		return domain.ValueRisk, desc
	case n > 75:
		return domain.ValueMild, desc
	}
	return domain.ValueNeutral, desc
}

// Substring match on purpose: shortener hosts embedded anywhere in the
// hostname count.
func checkURLShortener(actx *domain.AnalysisContext) (int, string) {
	for _, s := range urlShorteners {
		if strings.Contains(actx.URL.Hostname, s) {
			return domain.ValueMild, "URL uses shortening service"
		}
	}
	return domain.ValueNeutral, "URL does not use shortening service"
}

func checkAtSymbol(actx *domain.AnalysisContext) (int, string) {
	if strings.Contains(actx.URL.Raw, "@") {
		return domain.ValueRisk, "URL contains @ symbol (potential redirect)"
	}
	return domain.ValueNeutral, "No @ symbol found"
}

func checkRedirecting(actx *domain.AnalysisContext) (int, string) {
	if doubleSlash.MatchString(actx.URL.Raw) {
		return domain.ValueRisk, "URL contains redirecting //"
	}
	return domain.ValueNeutral, "No suspicious redirects found"
}

func checkPrefixSuffix(actx *domain.AnalysisContext) (int, string) {
	if strings.Contains(actx.URL.Hostname, "-") {
		return domain.ValueMild, "Domain contains prefix/suffix (-)"
	}
	return domain.ValueNeutral, "No prefix/suffix in domain"
}

func checkMultiSubdomain(actx *domain.AnalysisContext) (int, string) {
	n := strings.Count(actx.URL.Hostname, ".") - 1
	desc := fmt.Sprintf("Domain has %d subdomain(s)", n)
	switch {
	case n > 2:
		return domain.ValueRisk, desc
	case n > 1:
		return domain.ValueMild, desc
	}
	return domain.ValueNeutral, desc
}

func checkSSLCertificate(actx *domain.AnalysisContext) (int, string) {
	if actx.URL.Scheme == "https" {
		return domain.ValueNeutral, "HTTPS protocol detected"
	}
	return domain.ValueRisk, "No SSL/HTTPS detected"
}

func checkDomainRegistration(actx *domain.AnalysisContext) (int, string) {
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(actx.RegistrableDomain, tld) {
			return domain.ValueRisk, "Suspicious TLD detected"
		}
	}
	return domain.ValueNeutral, "Standard TLD used"
}

func checkNonStandardPort(actx *domain.AnalysisContext) (int, string) {
	if actx.URL.Port == "" {
		return domain.ValueNeutral, "Standard port used"
	}
	n, err := strconv.Atoi(actx.URL.Port)
	if err != nil {
		return domain.ValueMild, "Non-standard port detected: " + actx.URL.Port
	}
	// Port 0 means "unset" to most clients.
	switch n {
	case 0, 80, 443:
		return domain.ValueNeutral, "Standard port used"
	}
	return domain.ValueMild, "Non-standard port detected: " + strconv.Itoa(n)
}

func checkHTTPSInDomain(actx *domain.AnalysisContext) (int, string) {
	if strings.Contains(strings.ToLower(actx.URL.Hostname), "https") {
		return domain.ValueRisk, "HTTPS found in domain name (suspicious)"
	}
	return domain.ValueNeutral, "No HTTPS in domain name"
}
