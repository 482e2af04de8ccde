package domain

import "time"

// View is the read-optimized projection returned to callers. It is rebuilt
// on every successful resolution and cached only in the in-memory layer;
// it is never persisted.
type View struct {
	ID          uint64       `json:"id"`
	Name        string       `json:"name"`
	IP          string       `json:"ip"`
	HostedAt    string       `json:"hostedAt"`
	NameServers []string     `json:"nameServers"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	TTL         int          `json:"ttl"`
	WhoisRaw    string       `json:"whoIs"`
	Whois       *WhoisRecord `json:"whoisData,omitempty"`
}

// DNSResult is the outcome of an address lookup through the DNS port.
type DNSResult struct {
	IP        string
	TTL       int
	HasRecord bool
}

// WhoisResponse is the outcome of a WHOIS query for a domain or IP.
// Raw carries the full registry text; Organization is the owner label
// extracted by the client.
type WhoisResponse struct {
	Organization string
	Raw          string
}
