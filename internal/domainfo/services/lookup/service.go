// Package lookup contains the resolution orchestrator: given a normalized
// domain name it combines the in-memory view cache, the persistent record
// store and the DNS/WHOIS ports into one fully populated view, refreshing
// stale data along the way.
package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tvaz/domainfo/internal/domainfo/common/clock"
	"github.com/tvaz/domainfo/internal/domainfo/common/log"
	"github.com/tvaz/domainfo/internal/domainfo/common/whoistext"
	"github.com/tvaz/domainfo/internal/domainfo/domain"
)

const defaultNSTimeout = 5 * time.Second

// Service orchestrates domain resolution across the two cache tiers and
// the network ports. Two concurrent calls for the same expired key may both
// fetch and both write; the last writer wins, which wastes a WHOIS call but
// is never unsafe.
type Service struct {
	dns           DNSClient
	whois         WhoisClient
	store         Store
	cache         ViewCache
	clock         clock.Clock
	logger        log.Logger
	minTTLSeconds int
	nsTimeout     time.Duration
}

// Options configures a Service. DNS, Whois, Store and Cache are required;
// the rest default to production implementations.
type Options struct {
	DNS           DNSClient
	Whois         WhoisClient
	Store         Store
	Cache         ViewCache
	Clock         clock.Clock
	Logger        log.Logger
	MinTTLSeconds int
	NSTimeout     time.Duration
}

// NewService constructs a Service from the supplied collaborators.
func NewService(opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	if opts.NSTimeout <= 0 {
		opts.NSTimeout = defaultNSTimeout
	}
	return &Service{
		dns:           opts.DNS,
		whois:         opts.Whois,
		store:         opts.Store,
		cache:         opts.Cache,
		clock:         opts.Clock,
		logger:        opts.Logger,
		minTTLSeconds: opts.MinTTLSeconds,
		nsTimeout:     opts.NSTimeout,
	}
}

// Resolve returns the resolution view for a normalized domain name. It
// returns (nil, nil) when the domain has no address record, and an error
// only when an upstream port fails on the primary fetch path. A refresh
// failure on a previously resolved domain serves the stale record instead
// of erroring.
func (s *Service) Resolve(ctx context.Context, name string) (*domain.View, error) {
	key := strings.ToLower(name)

	if view, ok := s.cache.Get(key); ok {
		s.logger.Debug(map[string]any{"domain": key}, "Serving domain from in-memory cache")
		return &view, nil
	}

	rec, err := s.store.GetByName(key)
	if err != nil {
		return nil, fmt.Errorf("reading record for %s: %w", key, err)
	}

	if rec == nil {
		fresh, err := s.fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		if fresh == nil {
			s.logger.Warn(map[string]any{"domain": key}, "Domain could not be resolved")
			return nil, nil
		}
		// No partial record may land after cancellation.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.store.Add(fresh)
		s.logger.Info(map[string]any{
			"domain":    key,
			"ip":        fresh.IP,
			"hosted_at": fresh.HostedAt,
		}, "Domain resolved and recorded")
		rec = fresh
	} else if !rec.IsFresh(s.clock.Now(), s.minTTLSeconds) {
		s.logger.Info(map[string]any{
			"domain": key,
			"ttl":    rec.EffectiveTTL(s.minTTLSeconds),
		}, "Record TTL expired, refreshing")
		fresh, err := s.fetch(ctx, key)
		if err != nil || fresh == nil {
			s.logger.Warn(map[string]any{
				"domain": key,
				"error":  err,
			}, "Refresh failed, serving last known record")
		} else {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rec.Refresh(*fresh)
			s.store.Update(rec)
			s.cache.Remove(key)
			s.logger.Info(map[string]any{"domain": key, "ip": rec.IP}, "Record refreshed")
		}
	} else {
		s.logger.Debug(map[string]any{"domain": key}, "Record still fresh, skipping network refresh")
	}

	if err := s.store.Commit(); err != nil {
		return nil, fmt.Errorf("committing record for %s: %w", key, err)
	}

	view := s.buildView(ctx, rec)
	s.cache.Set(key, *view)
	return view, nil
}

// fetch performs the fresh lookup: WHOIS for the domain, DNS for the
// address, then WHOIS again for the resolved IP to obtain the hosting
// organization. It returns (nil, nil) when no address record exists.
func (s *Service) fetch(ctx context.Context, name string) (*domain.Record, error) {
	whoisResp, err := s.whois.Query(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("whois query for %s: %w", name, err)
	}

	dnsResult, err := s.dns.Query(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("dns query for %s: %w", name, err)
	}
	if !dnsResult.HasRecord || strings.TrimSpace(dnsResult.IP) == "" {
		s.logger.Warn(map[string]any{"domain": name}, "No address record found")
		return nil, nil
	}

	hostResp, err := s.whois.Query(ctx, dnsResult.IP)
	if err != nil {
		return nil, fmt.Errorf("whois query for %s: %w", dnsResult.IP, err)
	}

	ttl := dnsResult.TTL
	if ttl < s.minTTLSeconds {
		ttl = s.minTTLSeconds
	}

	return &domain.Record{
		Name:      name,
		IP:        dnsResult.IP,
		HostedAt:  hostResp.Organization,
		WhoisRaw:  whoisResp.Raw,
		TTL:       ttl,
		UpdatedAt: s.clock.Now(),
	}, nil
}

// buildView projects the record into a caller-facing view. Name servers
// are volatile enough to re-fetch on every call regardless of the TTL
// decision; a failure there degrades to an empty list. A WHOIS parse
// producing nothing leaves the structured field unset.
func (s *Service) buildView(ctx context.Context, rec *domain.Record) *domain.View {
	nsCtx, cancel := context.WithTimeout(ctx, s.nsTimeout)
	defer cancel()

	nameServers, err := s.dns.NameServers(nsCtx, rec.Name)
	if err != nil {
		s.logger.Warn(map[string]any{
			"domain": rec.Name,
			"error":  err,
		}, "Name server lookup failed, continuing without name servers")
		nameServers = nil
	}
	if nameServers == nil {
		nameServers = []string{}
	}

	return &domain.View{
		ID:          rec.ID,
		Name:        rec.Name,
		IP:          rec.IP,
		HostedAt:    rec.HostedAt,
		NameServers: nameServers,
		UpdatedAt:   rec.UpdatedAt,
		TTL:         rec.TTL,
		WhoisRaw:    rec.WhoisRaw,
		Whois:       whoistext.Parse(rec.WhoisRaw),
	}
}
