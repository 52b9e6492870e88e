package ports

import "phishguard/internal/domain"

// VerdictSink accepts verdicts for write-behind storage. Submit must not block
// the request path; it reports false when the record was dropped.
type VerdictSink interface {
	Submit(v domain.VerdictRecord) bool
}
