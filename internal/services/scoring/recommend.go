package scoring

import (
	"fmt"

	"phishguard/internal/domain"
)

var (
	cautionAdvice = []string{
		"⚠️ Do not enter personal information on this website",
		"🔍 Verify the website URL carefully",
		"🛡️ Use official links from trusted sources",
	}
	safeAdvice = []string{
		"✅ URL appears to be legitimate",
		"🔒 Always verify HTTPS before entering sensitive data",
		"🎯 Double-check URL spelling and domain",
	}
)

// Recommend returns three fixed lines for the classification, plus a risk
// count line for non-safe results that carry at least one risk signal.
func Recommend(results []domain.FeatureResult, c domain.Classification) []string {
	if c == domain.Safe {
		return append([]string(nil), safeAdvice...)
	}
	out := append(make([]string, 0, len(cautionAdvice)+1), cautionAdvice...)
	risky := 0
	for _, r := range results {
		if r.Value == domain.ValueRisk {
			risky++
		}
	}
	if risky > 0 {
		out = append(out, fmt.Sprintf("🚨 High-risk features detected: %d", risky))
	}
	return out
}
