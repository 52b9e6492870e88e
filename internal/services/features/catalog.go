// Package features holds the fixed battery of phishing heuristics. Each
// evaluator is pure: it reads only the AnalysisContext and returns one
// FeatureResult.
package features

import "phishguard/internal/domain"

// Definition is the constant metadata of a feature.
type Definition struct {
	Key    domain.FeatureKey `json:"key"`
	Name   string            `json:"name"`
	Weight int               `json:"weight"`
}

// Evaluator binds a feature's metadata to its check.
type Evaluator struct {
	Definition
	check func(actx *domain.AnalysisContext) (value int, description string)
}

// Evaluate runs the check and stamps the feature metadata on the result.
func (e Evaluator) Evaluate(actx *domain.AnalysisContext) domain.FeatureResult {
	value, desc := e.check(actx)
	return domain.FeatureResult{
		Key:         e.Key,
		Name:        e.Name,
		Weight:      e.Weight,
		Value:       value,
		Description: desc,
	}
}

// battery is the evaluation order. Weights are part of the scoring contract
// and never change at runtime.
var battery = [...]Evaluator{
	{Definition{domain.IPAddress, "IP Address in URL", 3}, checkIPAddress},
	{Definition{domain.LongURL, "Long URL", 2}, checkLongURL},
	{Definition{domain.URLShortener, "URL Shortener", 2}, checkURLShortener},
	{Definition{domain.AtSymbol, "@ Symbol in URL", 3}, checkAtSymbol},
	{Definition{domain.Redirecting, "Redirecting with //", 2}, checkRedirecting},
	{Definition{domain.PrefixSuffix, "Prefix/Suffix in Domain", 2}, checkPrefixSuffix},
	{Definition{domain.MultiSubdomain, "Multi Subdomain", 2}, checkMultiSubdomain},
	{Definition{domain.SSLCertificate, "SSL Certificate Validity", 3}, checkSSLCertificate},
	{Definition{domain.DomainRegistration, "Domain Registration Length", 2}, checkDomainRegistration},
	{Definition{domain.FaviconDomain, "Favicon Domain Match", 1}, checkFaviconDomain},
	{Definition{domain.NonStandardPort, "Non-standard Port", 2}, checkNonStandardPort},
	{Definition{domain.HTTPSInDomain, "HTTPS in Domain Name", 3}, checkHTTPSInDomain},
	{Definition{domain.RequestURL, "External Request URLs", 2}, checkRequestURL},
	{Definition{domain.AnchorTags, "External Anchor Tags", 2}, checkAnchorTags},
	{Definition{domain.LinksInMeta, "Links in Meta/Script/Link", 2}, checkLinksInMeta},
	{Definition{domain.ServerFormHandler, "Server Form Handler", 2}, checkServerFormHandler},
	{Definition{domain.SubmittingToEmail, "Submitting to Email", 3}, checkSubmittingToEmail},
	{Definition{domain.IframeUsage, "Iframe Usage", 2}, checkIframeUsage},
	{Definition{domain.StatusBarManipulation, "Status Bar Manipulation", 2}, checkStatusBarManipulation},
	{Definition{domain.DomainAge, "Domain Age", 2}, checkDomainAge},
	{Definition{domain.DNSRecord, "DNS Record Existence", 3}, checkDNSRecord},
	{Definition{domain.WhoisExpiration, "WHOIS Expiration", 2}, checkWhoisExpiration},
	{Definition{domain.WhoisCreation, "WHOIS Creation Date", 2}, checkWhoisCreation},
	{Definition{domain.ExternalFormAction, "External Form Action", 2}, checkExternalFormAction},
}

// Count is the number of features in the battery.
const Count = len(battery)

// TotalWeight is the sum of all feature weights.
var TotalWeight = func() int {
	total := 0
	for _, e := range battery {
		total += e.Weight
	}
	return total
}()

// Catalog returns the feature metadata in evaluation order.
func Catalog() []Definition {
	out := make([]Definition, len(battery))
	for i, e := range battery {
		out[i] = e.Definition
	}
	return out
}

// Lookup returns the evaluator for key.
func Lookup(key domain.FeatureKey) (Evaluator, bool) {
	for _, e := range battery {
		if e.Key == key {
			return e, true
		}
	}
	return Evaluator{}, false
}

// EvaluateAll runs every evaluator in battery order.
func EvaluateAll(actx *domain.AnalysisContext) []domain.FeatureResult {
	out := make([]domain.FeatureResult, len(battery))
	for i, e := range battery {
		out[i] = e.Evaluate(actx)
	}
	return out
}
