// Package scoring reduces feature results to a score, a classification and a
// confidence, and derives the advisory text shown with a report.
package scoring

import (
	"math"

	"phishguard/internal/domain"
)

// Classification thresholds on the normalised score. Both comparisons are
// strict.
const (
	PhishingBelow   = -30.0
	SuspiciousBelow = -10.0
)

// Confidence ceilings per classification.
const (
	PhishingCeiling   = 95.0
	SuspiciousCeiling = 85.0
	SafeCeiling       = 90.0
)

type Verdict struct {
	Score          float64
	Classification domain.Classification
	Confidence     float64
}

// Aggregate computes 100 * sum(value*weight) / sum(weight). The denominator is
// taken from the results themselves, which for a full battery equals the
// catalog total.
func Aggregate(results []domain.FeatureResult) Verdict {
	weighted, total := 0, 0
	for _, r := range results {
		weighted += r.Value * r.Weight
		total += r.Weight
	}
	if total == 0 {
		return Classify(0)
	}
	return Classify(100 * float64(weighted) / float64(total))
}

// Classify applies the threshold policy to a normalised score.
func Classify(score float64) Verdict {
	abs := math.Abs(score)
	switch {
	case score < PhishingBelow:
		return Verdict{score, domain.Phishing, math.Min(PhishingCeiling, abs+50)}
	case score < SuspiciousBelow:
		return Verdict{score, domain.Suspicious, math.Min(SuspiciousCeiling, abs+40)}
	}
	// Safe confidence grows with magnitude in either direction.
	return Verdict{score, domain.Safe, math.Min(SafeCeiling, 60+abs)}
}
