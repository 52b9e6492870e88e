// Package dnsadapter answers whether a name has an A record, using miekg/dns so every
// query carries an explicit timeout.
package dnsadapter

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

const (
	fallbackServer = "8.8.8.8:53"
	resolvConf     = "/etc/resolv.conf"
)

type Resolver struct {
	client *dns.Client
	server string
}

// New queries server (host:port). An empty server uses the first nameserver in
// /etc/resolv.conf, then 8.8.8.8:53.
func New(server string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if server == "" {
		server = systemServer()
	}
	return &Resolver{
		client: &dns.Client{Timeout: timeout},
		server: server,
	}
}

func systemServer() string {
	conf, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil || len(conf.Servers) == 0 {
		return fallbackServer
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}

// HasARecord reports true when the answer section holds at least one A record.
// NXDOMAIN is a negative answer, not an error.
func (r *Resolver) HasARecord(ctx context.Context, name string) (bool, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeA)

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return false, fmt.Errorf("query A %s: %w", name, err)
	}
	switch resp.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return false, nil
	default:
		return false, fmt.Errorf("query A %s: %s", name, dns.RcodeToString[resp.Rcode])
	}
	for _, ans := range resp.Answer {
		if _, ok := ans.(*dns.A); ok {
			return true, nil
		}
	}
	return false, nil
}
