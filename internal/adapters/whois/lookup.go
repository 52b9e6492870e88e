// Package whoisadapter looks up domain registration dates over WHOIS.
package whoisadapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"phishguard/internal/domain"
)

type Client struct {
	client *whois.Client
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{client: whois.NewClient().SetTimeout(timeout)}
}

// Lookup queries WHOIS for registrable. The underlying client is bounded by
// its own timeout and does not observe ctx beyond the initial check.
func (c *Client) Lookup(ctx context.Context, registrable string) (domain.RegistrationRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.RegistrationRecord{}, err
	}
	raw, err := c.client.Whois(registrable)
	if err != nil {
		return domain.RegistrationRecord{}, fmt.Errorf("whois %s: %w", registrable, err)
	}
	return Normalize(raw)
}

// Normalize parses a raw WHOIS response into a record with single-valued
// dates. Dates the parser could not read are left nil. A not-found response
// may come back either as an error wrapping whoisparser.ErrNotFoundDomain or
// as an empty record with no error; callers treat both as absent.
func Normalize(raw string) (domain.RegistrationRecord, error) {
	info, err := whoisparser.Parse(raw)
	if err != nil {
		return domain.RegistrationRecord{}, fmt.Errorf("parse whois: %w", err)
	}
	return fromInfo(info), nil
}

func fromInfo(info whoisparser.WhoisInfo) domain.RegistrationRecord {
	if info.Domain == nil {
		return domain.RegistrationRecord{}
	}
	return domain.RegistrationRecord{
		CreatedAt: pickDate(info.Domain.CreatedDateInTime, info.Domain.CreatedDate),
		ExpiresAt: pickDate(info.Domain.ExpirationDateInTime, info.Domain.ExpirationDate),
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

// pickDate prefers the parser's typed value and falls back to the first
// readable layout of the raw string. Multi-valued fields keep the first value.
func pickDate(typed *time.Time, raw string) *time.Time {
	if typed != nil && !typed.IsZero() {
		t := typed.UTC()
		return &t
	}
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, ",\n"); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
