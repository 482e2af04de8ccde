// Package domain contains the core entities of the domain resolution
// service: the persisted resolution record, the view returned to callers,
// the parsed WHOIS representation, and the domain name validator.
// It has no dependencies outside the standard library.
package domain

import "time"

// Record is the last known resolution of a domain name, persisted in the
// record store and keyed by the lowercased normalized name.
type Record struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	IP        string    `json:"ip"`
	HostedAt  string    `json:"hostedAt"`
	WhoisRaw  string    `json:"whoIs"`
	TTL       int       `json:"ttl"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EffectiveTTL returns the record TTL with the configured minimum applied.
// The floor avoids hammering upstream services for domains that publish
// very short TTLs.
func (r Record) EffectiveTTL(minimumSeconds int) int {
	if r.TTL < minimumSeconds {
		return minimumSeconds
	}
	return r.TTL
}

// IsFresh reports whether the record is still within its effective TTL at
// the given instant.
func (r Record) IsFresh(now time.Time, minimumSeconds int) bool {
	elapsed := now.Sub(r.UpdatedAt).Seconds()
	return elapsed <= float64(r.EffectiveTTL(minimumSeconds))
}

// Refresh overwrites the mutable fields with freshly fetched data. The
// surrogate ID is preserved so the store updates the row in place.
func (r *Record) Refresh(fresh Record) {
	r.Name = fresh.Name
	r.IP = fresh.IP
	r.HostedAt = fresh.HostedAt
	r.WhoisRaw = fresh.WhoisRaw
	r.TTL = fresh.TTL
	r.UpdatedAt = fresh.UpdatedAt
}
