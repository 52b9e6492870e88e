package features

import (
	"fmt"
	"math"
	"time"

	"phishguard/internal/domain"
)

// wholeDays floors d to days, matching calendar-day arithmetic for negative
// spans as well.
func wholeDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

func createdAt(actx *domain.AnalysisContext) (time.Time, bool) {
	if actx.Registration == nil || actx.Registration.CreatedAt == nil {
		return time.Time{}, false
	}
	return *actx.Registration.CreatedAt, true
}

func gradeAge(days int) int {
	switch {
	case days < 30:
		return domain.ValueRisk
	case days < 180:
		return domain.ValueMild
	}
	return domain.ValueNeutral
}

func checkDomainAge(actx *domain.AnalysisContext) (int, string) {
	created, ok := createdAt(actx)
	if !ok {
		return domain.ValueMild, "Domain age information unavailable"
	}
	days := wholeDays(actx.Now.Sub(created))
	return gradeAge(days), fmt.Sprintf("Domain age: %d days", days)
}

// Same policy as checkDomainAge; both stay in the battery as separate
// weighted entries.
func checkWhoisCreation(actx *domain.AnalysisContext) (int, string) {
	created, ok := createdAt(actx)
	if !ok {
		return domain.ValueMild, "WHOIS creation information unavailable"
	}
	days := wholeDays(actx.Now.Sub(created))
	return gradeAge(days), fmt.Sprintf("Created %d days ago", days)
}

func checkWhoisExpiration(actx *domain.AnalysisContext) (int, string) {
	if actx.Registration == nil || actx.Registration.ExpiresAt == nil {
		return domain.ValueMild, "WHOIS expiration information unavailable"
	}
	days := wholeDays(actx.Registration.ExpiresAt.Sub(actx.Now))
	desc := fmt.Sprintf("Expires in %d days", days)
	switch {
	case days < 30:
		return domain.ValueRisk, desc
	case days < 365:
		return domain.ValueMild, desc
	}
	return domain.ValueNeutral, desc
}

func checkDNSRecord(actx *domain.AnalysisContext) (int, string) {
	if actx.DNSExists {
		return domain.ValueNeutral, "DNS record exists"
	}
	return domain.ValueRisk, "No DNS record found"
}
