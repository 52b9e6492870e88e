package domain

import "time"

// Core domain models. The HTTP adapter serialises AnalysisReport directly, so
// json tags here are the wire contract.

// URLParts is the parsed form of the submitted URL.
type URLParts struct {
	Raw      string
	Scheme   string
	Hostname string // lower-cased, no port
	Port     string // empty when not given explicitly
}

// RegistrationRecord carries already-normalised registration dates. Either
// date may be unknown.
type RegistrationRecord struct {
	CreatedAt *time.Time
	ExpiresAt *time.Time
}

// Page is the fetched document as the evaluators see it. Implementations may
// also expose a parsed tree; evaluators that need one discover it themselves.
type Page interface {
	Raw() string
}

// AnalysisContext is everything the evaluators may look at. It is built once
// per request and never mutated afterwards.
type AnalysisContext struct {
	URL               URLParts
	RegistrableDomain string
	Document          Page // nil when the fetch failed
	DNSExists         bool
	Registration      *RegistrationRecord // nil when the lookup failed
	Now               time.Time
}

type FeatureKey string

const (
	IPAddress             FeatureKey = "IP_ADDRESS"
	LongURL               FeatureKey = "LONG_URL"
	URLShortener          FeatureKey = "URL_SHORTENER"
	AtSymbol              FeatureKey = "AT_SYMBOL"
	Redirecting           FeatureKey = "REDIRECTING"
	PrefixSuffix          FeatureKey = "PREFIX_SUFFIX"
	MultiSubdomain        FeatureKey = "MULTI_SUBDOMAIN"
	SSLCertificate        FeatureKey = "SSL_CERTIFICATE"
	DomainRegistration    FeatureKey = "DOMAIN_REGISTRATION"
	FaviconDomain         FeatureKey = "FAVICON_DOMAIN"
	NonStandardPort       FeatureKey = "NON_STANDARD_PORT"
	HTTPSInDomain         FeatureKey = "HTTPS_IN_DOMAIN"
	RequestURL            FeatureKey = "REQUEST_URL"
	AnchorTags            FeatureKey = "ANCHOR_TAGS"
	LinksInMeta           FeatureKey = "LINKS_IN_META"
	ServerFormHandler     FeatureKey = "SERVER_FORM_HANDLER"
	SubmittingToEmail     FeatureKey = "SUBMITTING_TO_EMAIL"
	IframeUsage           FeatureKey = "IFRAME_USAGE"
	StatusBarManipulation FeatureKey = "STATUS_BAR_MANIPULATION"
	DomainAge             FeatureKey = "DOMAIN_AGE"
	DNSRecord             FeatureKey = "DNS_RECORD"
	WhoisExpiration       FeatureKey = "WHOIS_EXPIRATION"
	WhoisCreation         FeatureKey = "WHOIS_CREATION"
	ExternalFormAction    FeatureKey = "EXTERNAL_FORM_ACTION"
)

// Feature values. Each evaluator owns what 1 means for its own signal.
const (
	ValueRisk    = -1
	ValueNeutral = 0
	ValueMild    = 1
)

type FeatureResult struct {
	Key         FeatureKey `json:"-"`
	Name        string     `json:"name"`
	Weight      int        `json:"weight"`
	Value       int        `json:"value"`
	Description string     `json:"description"`
}

type Classification string

const (
	Safe       Classification = "Safe"
	Suspicious Classification = "Suspicious"
	Phishing   Classification = "Phishing"
)

type AnalysisReport struct {
	URL             string          `json:"url"`
	OverallScore    float64         `json:"overall_score"`
	Classification  Classification  `json:"classification"`
	Confidence      float64         `json:"confidence"`
	Features        []FeatureResult `json:"features"`
	Recommendations []string        `json:"recommendations"`
}

// HighRiskCount is the number of features that reported a risk signal.
func (r AnalysisReport) HighRiskCount() int {
	n := 0
	for _, f := range r.Features {
		if f.Value == ValueRisk {
			n++
		}
	}
	return n
}

// VerdictRecord is the audit summary of one analysis. The full report is
// never stored.
type VerdictRecord struct {
	ID                string         `json:"id"`
	URL               string         `json:"url"`
	RegistrableDomain string         `json:"registrable_domain"`
	Classification    Classification `json:"classification"`
	Score             float64        `json:"overall_score"`
	Confidence        float64        `json:"confidence"`
	HighRiskCount     int            `json:"high_risk_count"`
	CreatedAt         time.Time      `json:"created_at"`
}
