package lookup

import (
	"context"

	"github.com/tvaz/domainfo/internal/domainfo/domain"
)

// DNSClient resolves addresses and enumerates name servers through an
// upstream DNS server. Both calls are network-bound and honor context
// cancellation.
type DNSClient interface {
	// Query returns the first address record for the name along with its
	// reported TTL. A missing record is not an error; HasRecord is false.
	Query(ctx context.Context, name string) (domain.DNSResult, error)

	// NameServers returns the hostnames authoritative for the name,
	// possibly empty.
	NameServers(ctx context.Context, name string) ([]string, error)
}

// WhoisClient queries a WHOIS registry for a domain name or an IP address.
type WhoisClient interface {
	Query(ctx context.Context, target string) (domain.WhoisResponse, error)
}

// Store is the persistent record store. Add and Update stage changes;
// Commit makes them durable. GetByName observes committed state only.
type Store interface {
	// GetByName returns the record for the lowercased domain name, or nil
	// when none exists.
	GetByName(name string) (*domain.Record, error)
	Add(rec *domain.Record)
	Update(rec *domain.Record)
	Commit() error
}

// ViewCache is the in-memory layer in front of the store. Entries expire
// after a fixed absolute lifetime configured at construction, independent
// of the record's own TTL.
type ViewCache interface {
	Get(key string) (domain.View, bool)
	Set(key string, view domain.View)
	Remove(key string)
}
