// Package whoisclient queries WHOIS registries over TCP port 43. Domain
// queries go to the TLD registry (with one referral hop to the registrar
// server when advertised); IP queries go to ARIN.
package whoisclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/tvaz/domainfo/internal/domainfo/domain"
	"github.com/tvaz/domainfo/internal/domainfo/services/lookup"
)

const (
	whoisPort     = "43"
	defaultServer = "whois.iana.org"
	ipServer      = "whois.arin.net"

	defaultTimeout = 10 * time.Second
)

// tldServers maps common TLDs to their registry WHOIS server. Anything
// else goes to IANA, whose response still carries registration data for
// most TLDs.
var tldServers = map[string]string{
	"com":  "whois.verisign-grs.com",
	"net":  "whois.verisign-grs.com",
	"org":  "whois.pir.org",
	"info": "whois.afilias.net",
	"io":   "whois.nic.io",
	"co":   "whois.nic.co",
	"dev":  "whois.nic.google",
	"app":  "whois.nic.google",
	"br":   "whois.registro.br",
	"uk":   "whois.nic.uk",
	"de":   "whois.denic.de",
}

// organizationPrefixes are scanned in order against each response line to
// extract the owning-organization label. Registry and RIR formats differ,
// hence the mix.
var organizationPrefixes = []string{
	"Registrant Organization:",
	"OrgName:",
	"org-name:",
	"owner:",
	"Organization:",
}

// DialFunc establishes a network connection. Injectable for tests.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Client implements lookup.WhoisClient over raw TCP.
type Client struct {
	timeout time.Duration
	dial    DialFunc
}

// Options configures a Client. Both fields are optional.
type Options struct {
	Timeout time.Duration
	Dial    DialFunc
}

// New creates a WHOIS client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Dial == nil {
		opts.Dial = (&net.Dialer{}).DialContext
	}
	return &Client{timeout: opts.Timeout, dial: opts.Dial}
}

// Query performs a WHOIS lookup for a domain name or IP address and
// returns the raw registry text plus the extracted organization label.
func (c *Client) Query(ctx context.Context, target string) (domain.WhoisResponse, error) {
	server := serverFor(target)

	raw, err := c.queryServer(ctx, server, target)
	if err != nil {
		return domain.WhoisResponse{}, fmt.Errorf("whois %s via %s: %w", target, server, err)
	}

	// Thin registries answer with a pointer to the registrar's server,
	// which holds the detailed record. Follow it once.
	if referral := referralServer(raw); referral != "" && !strings.EqualFold(referral, server) {
		if detailed, err := c.queryServer(ctx, referral, target); err == nil && strings.TrimSpace(detailed) != "" {
			raw = detailed
		}
	}

	return domain.WhoisResponse{
		Organization: extractOrganization(raw),
		Raw:          raw,
	}, nil
}

// queryServer sends one WHOIS query and reads the response to EOF.
func (c *Client) queryServer(ctx context.Context, server, target string) (string, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dial(dialCtx, "tcp", net.JoinHostPort(server, whoisPort))
	if err != nil {
		return "", fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write([]byte(target + "\r\n")); err != nil {
		return "", fmt.Errorf("writing query: %w", err)
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return string(raw), nil
}

// serverFor picks the WHOIS server for a target: ARIN for IP addresses,
// the TLD registry for domains, IANA otherwise.
func serverFor(target string) string {
	if net.ParseIP(target) != nil {
		return ipServer
	}
	parts := strings.Split(strings.ToLower(target), ".")
	if len(parts) >= 2 {
		if server, ok := tldServers[parts[len(parts)-1]]; ok {
			return server
		}
	}
	return defaultServer
}

// referralServer extracts the registrar WHOIS server advertised in a thin
// registry response, if any.
func referralServer(raw string) string {
	const label = "Registrar WHOIS Server:"
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= len(label) && strings.EqualFold(line[:len(label)], label) {
			return strings.TrimSpace(line[len(label):])
		}
	}
	return ""
}

// extractOrganization scans the response for the first known organization
// field and returns its value, or empty when none is present.
func extractOrganization(raw string) string {
	for _, prefix := range organizationPrefixes {
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(line)
			if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
				if value := strings.TrimSpace(line[len(prefix):]); value != "" {
					return value
				}
			}
		}
	}
	return ""
}

var _ lookup.WhoisClient = (*Client)(nil)
