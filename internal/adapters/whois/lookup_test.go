package whoisadapter

import (
	"context"
	"testing"
	"time"

	whoisparser "github.com/likexian/whois-parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verisignRecord = `   Domain Name: EXAMPLE.COM
   Registry Domain ID: 2336799_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.iana.org
   Registrar URL: http://res-dom.iana.org
   Updated Date: 2024-08-14T07:01:34Z
   Creation Date: 1995-08-14T04:00:00Z
   Registry Expiry Date: 2025-08-13T04:00:00Z
   Registrar: RESERVED-Internet Assigned Numbers Authority
   Registrar IANA ID: 376
   Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
   Name Server: A.IANA-SERVERS.NET
   Name Server: B.IANA-SERVERS.NET
   DNSSEC: signedDelegation
`

func TestNormalize(t *testing.T) {
	rec, err := Normalize(verisignRecord)
	require.NoError(t, err)
	require.NotNil(t, rec.CreatedAt)
	require.NotNil(t, rec.ExpiresAt)
	assert.Equal(t, time.Date(1995, 8, 14, 4, 0, 0, 0, time.UTC), *rec.CreatedAt)
	assert.Equal(t, time.Date(2025, 8, 13, 4, 0, 0, 0, time.UTC), *rec.ExpiresAt)
}

const notFoundRecord = "No match for domain \"NOPE-NOPE-NOPE.COM\".\n"

func TestNormalize_NotFound(t *testing.T) {
	rec, err := Normalize(notFoundRecord)
	if err != nil {
		assert.ErrorIs(t, err, whoisparser.ErrNotFoundDomain)
		return
	}
	assert.Nil(t, rec.CreatedAt)
	assert.Nil(t, rec.ExpiresAt)
}

func TestFromInfo(t *testing.T) {
	created := time.Date(2020, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	rec := fromInfo(whoisparser.WhoisInfo{Domain: &whoisparser.Domain{
		CreatedDateInTime: &created,
		ExpirationDate:    "2030-05-06",
	}})
	require.NotNil(t, rec.CreatedAt)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.True(t, created.Equal(*rec.CreatedAt))
	require.NotNil(t, rec.ExpiresAt)
	assert.Equal(t, time.Date(2030, 5, 6, 0, 0, 0, 0, time.UTC), *rec.ExpiresAt)

	assert.Equal(t, fromInfo(whoisparser.WhoisInfo{}), fromInfo(whoisparser.WhoisInfo{Domain: &whoisparser.Domain{}}))
	assert.Nil(t, fromInfo(whoisparser.WhoisInfo{}).CreatedAt)
}

func TestPickDate(t *testing.T) {
	cases := map[string]*time.Time{
		"2021-03-04T05:06:07Z":            ptr(time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)),
		"2021-03-04 05:06:07":             ptr(time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)),
		"04-Mar-2021":                     ptr(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)),
		"2021-03-04, 2022-03-04":          ptr(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)),
		"before the dawn of the internet": nil,
		"":                                nil,
	}
	for raw, want := range cases {
		got := pickDate(nil, raw)
		if want == nil {
			assert.Nil(t, got, raw)
			continue
		}
		require.NotNil(t, got, raw)
		assert.Equal(t, *want, *got, raw)
	}
}

func TestLookup_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(time.Second).Lookup(ctx, "example.com")
	assert.ErrorIs(t, err, context.Canceled)
}

func ptr(t time.Time) *time.Time { return &t }
