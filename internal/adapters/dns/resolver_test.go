package dnsadapter

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		switch req.Question[0].Name {
		case "example.com.":
			rr, _ := dns.NewRR("example.com. 300 IN A 93.184.216.34")
			m.Answer = append(m.Answer, rr)
		case "alias.example.":
			rr, _ := dns.NewRR("alias.example. 300 IN CNAME target.example.")
			m.Answer = append(m.Answer, rr)
		case "missing.example.":
			m.SetRcode(req, dns.RcodeNameError)
		case "broken.example.":
			m.SetRcode(req, dns.RcodeServerFailure)
		case "silent.example.":
			return
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

func TestHasARecord(t *testing.T) {
	r := New(startServer(t), time.Second)
	ctx := context.Background()

	ok, err := r.HasARecord(ctx, "example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.HasARecord(ctx, "alias.example")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.HasARecord(ctx, "missing.example")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.HasARecord(ctx, "broken.example")
	assert.ErrorContains(t, err, "SERVFAIL")
}

func TestHasARecord_Timeout(t *testing.T) {
	r := New(startServer(t), 150*time.Millisecond)
	start := time.Now()
	_, err := r.HasARecord(context.Background(), "silent.example")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHasARecord_ContextCancelled(t *testing.T) {
	r := New(startServer(t), 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := r.HasARecord(ctx, "silent.example")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNew_DefaultServer(t *testing.T) {
	r := New("", 0)
	assert.NotEmpty(t, r.server)
	_, _, err := net.SplitHostPort(r.server)
	assert.NoError(t, err)
}
