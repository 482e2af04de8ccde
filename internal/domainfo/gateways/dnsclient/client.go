// Package dnsclient resolves addresses and name servers by forwarding
// queries to configured upstream DNS servers over UDP.
package dnsclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/tvaz/domainfo/internal/domainfo/domain"
	"github.com/tvaz/domainfo/internal/domainfo/services/lookup"
)

const defaultTimeout = 10 * time.Second

// ExchangeFunc sends one DNS message to a server and returns the reply.
// Injectable so tests can run without a network.
type ExchangeFunc func(ctx context.Context, msg *dns.Msg, server string) (*dns.Msg, error)

// Client implements lookup.DNSClient on top of miekg/dns. Servers are
// tried in order; the first successful reply wins.
type Client struct {
	servers  []string
	exchange ExchangeFunc
}

// Options configures a Client. Servers is required, in ip:port form.
type Options struct {
	Servers  []string
	Timeout  time.Duration
	Exchange ExchangeFunc
}

// New creates a DNS client for the given upstream servers.
func New(opts Options) (*Client, error) {
	if len(opts.Servers) == 0 {
		return nil, fmt.Errorf("no upstream DNS servers provided")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Exchange == nil {
		udp := &dns.Client{Timeout: opts.Timeout}
		opts.Exchange = func(ctx context.Context, msg *dns.Msg, server string) (*dns.Msg, error) {
			reply, _, err := udp.ExchangeContext(ctx, msg, server)
			return reply, err
		}
	}
	return &Client{servers: opts.Servers, exchange: opts.Exchange}, nil
}

// Query returns the first A record for the name. A reply without an A
// record is not an error; HasRecord is false.
func (c *Client) Query(ctx context.Context, name string) (domain.DNSResult, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeA)
	msg.RecursionDesired = true

	reply, err := c.ask(ctx, msg)
	if err != nil {
		return domain.DNSResult{}, err
	}

	for _, answer := range reply.Answer {
		if a, ok := answer.(*dns.A); ok {
			return domain.DNSResult{
				IP:        a.A.String(),
				TTL:       int(a.Hdr.Ttl),
				HasRecord: true,
			}, nil
		}
	}
	return domain.DNSResult{}, nil
}

// NameServers returns the NS targets for the name, lowercased and without
// the trailing dot. An answer without NS records yields an empty list.
func (c *Client) NameServers(ctx context.Context, name string) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeNS)
	msg.RecursionDesired = true

	reply, err := c.ask(ctx, msg)
	if err != nil {
		return nil, err
	}

	var servers []string
	for _, answer := range reply.Answer {
		if ns, ok := answer.(*dns.NS); ok {
			servers = append(servers, strings.ToLower(strings.TrimSuffix(ns.Ns, ".")))
		}
	}
	return servers, nil
}

// ask tries each upstream server in order and returns the first reply.
func (c *Client) ask(ctx context.Context, msg *dns.Msg) (*dns.Msg, error) {
	var lastErr error
	for _, server := range c.servers {
		reply, err := c.exchange(ctx, msg, server)
		if err != nil {
			lastErr = fmt.Errorf("server %s: %w", server, err)
			continue
		}
		return reply, nil
	}
	return nil, fmt.Errorf("all %d upstream DNS servers failed: %w", len(c.servers), lastErr)
}

var _ lookup.DNSClient = (*Client)(nil)
