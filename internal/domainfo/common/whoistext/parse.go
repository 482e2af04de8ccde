// Package whoistext converts raw WHOIS registry output into a structured
// record. Parsing is a single line-oriented pass with no backtracking;
// registries are inconsistent enough that every field is optional and
// malformed values are tolerated rather than fatal.
package whoistext

import (
	"strings"
	"time"

	"github.com/tvaz/domainfo/internal/domainfo/domain"
)

// section identifies which contact block subsequent contact-field lines
// are routed to.
type section int

const (
	sectionNone section = iota
	sectionRegistrant
	sectionAdmin
	sectionTech
)

// label returns the field prefix used by this section ("Registrant Name:",
// "Admin Phone:" and so on).
func (s section) label() string {
	switch s {
	case sectionRegistrant:
		return "Registrant"
	case sectionAdmin:
		return "Admin"
	case sectionTech:
		return "Tech"
	}
	return ""
}

// whoisDateFormats lists known registry timestamp layouts in priority
// order; the first one that parses wins.
var whoisDateFormats = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// contactFields maps a contact field suffix to its setter. Order matters:
// a line contributes to the first matching entry only. "Phone Ext:" and
// "Fax Ext:" cannot collide with "Phone:"/"Fax:" because prefix matching
// requires the colon.
var contactFields = []struct {
	suffix string
	set    func(*domain.Contact, string)
}{
	{"Name", func(c *domain.Contact, v string) { c.Name = v }},
	{"Organization", func(c *domain.Contact, v string) { c.Organization = v }},
	{"Street", func(c *domain.Contact, v string) { c.Street = v }},
	{"City", func(c *domain.Contact, v string) { c.City = v }},
	{"State/Province", func(c *domain.Contact, v string) { c.State = v }},
	{"State", func(c *domain.Contact, v string) { c.State = v }},
	{"Postal Code", func(c *domain.Contact, v string) { c.PostalCode = v }},
	{"Country", func(c *domain.Contact, v string) { c.Country = v }},
	{"Phone", func(c *domain.Contact, v string) { c.Phone = v }},
	{"Phone Ext", func(c *domain.Contact, v string) { c.PhoneExt = v }},
	{"Fax", func(c *domain.Contact, v string) { c.Fax = v }},
	{"Fax Ext", func(c *domain.Contact, v string) { c.FaxExt = v }},
	{"Email", func(c *domain.Contact, v string) { c.Email = v }},
}

// Parse converts a raw WHOIS text blob into a structured record. It returns
// nil for blank input. Fields absent from the text stay unset; dates that
// match none of the known formats stay nil.
func Parse(raw string) *domain.WhoisRecord {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	rec := &domain.WhoisRecord{}
	current := sectionNone

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if v, ok := extractValue(line, "Domain Name:"); ok {
			rec.DomainName = v
			continue
		}
		if v, ok := extractValue(line, "Registry Domain ID:"); ok {
			rec.RegistryDomainID = v
			continue
		}
		if v, ok := extractValue(line, "Registrar WHOIS Server:"); ok {
			rec.RegistrarWhoisServer = v
			continue
		}
		if v, ok := extractValue(line, "Registrar URL:"); ok {
			rec.RegistrarURL = v
			continue
		}
		if t, ok := extractDate(line, "Updated Date:"); ok {
			rec.UpdatedDate = t
			continue
		}
		if t, ok := extractDate(line, "Creation Date:"); ok {
			rec.CreationDate = t
			continue
		}
		if t, ok := extractDate(line, "Registrar Registration Expiration Date:"); ok {
			rec.ExpirationDate = t
			continue
		}
		if t, ok := extractDate(line, "Registry Expiry Date:"); ok {
			rec.ExpirationDate = t
			continue
		}
		if v, ok := extractValue(line, "Registrar:"); ok {
			rec.Registrar = v
			continue
		}
		if v, ok := extractValue(line, "Registrar IANA ID:"); ok {
			rec.RegistrarIANAID = v
			continue
		}
		if v, ok := extractValue(line, "Domain Status:"); ok {
			rec.AddStatus(v)
			continue
		}
		if v, ok := extractValue(line, "Registrar Abuse Contact Email:"); ok {
			rec.RegistrarAbuseContactEmail = v
			continue
		}
		if v, ok := extractValue(line, "Registrar Abuse Contact Phone:"); ok {
			rec.RegistrarAbuseContactPhone = v
			continue
		}
		if v, ok := extractValue(line, "DNSSEC:"); ok {
			rec.DNSSEC = v
			continue
		}

		// Registries decorate this line with free text on both sides
		// (">>> ... <<<"), so it is matched by substring rather than prefix
		// and the trailing decoration is trimmed off.
		const lastUpdateLabel = "Last update of WHOIS database:"
		if idx := indexFold(line, lastUpdateLabel); idx >= 0 {
			value := strings.TrimSpace(strings.TrimRight(line[idx+len(lastUpdateLabel):], "<> "))
			if t := parseDate(value); t != nil {
				rec.LastUpdateOfWhoisDatabase = t
			}
			continue
		}

		// Registry <Type> ID lines open the corresponding contact section.
		if v, ok := extractValue(line, "Registry Registrant ID:"); ok {
			rec.RegistryRegistrantID = v
			current = sectionRegistrant
			continue
		}
		if v, ok := extractValue(line, "Registry Admin ID:"); ok {
			rec.RegistryAdminID = v
			current = sectionAdmin
			continue
		}
		if v, ok := extractValue(line, "Registry Tech ID:"); ok {
			rec.RegistryTechID = v
			current = sectionTech
			continue
		}

		// A <Type> Name line also opens a section, then falls through so
		// the name itself is captured by the contact dispatch below.
		if hasPrefixFold(line, "Registrant Name:") {
			current = sectionRegistrant
		} else if hasPrefixFold(line, "Admin Name:") {
			current = sectionAdmin
		} else if hasPrefixFold(line, "Tech Name:") {
			current = sectionTech
		}

		if current == sectionNone {
			continue
		}
		contact := contactFor(rec, current)
		for _, field := range contactFields {
			prefix := current.label() + " " + field.suffix + ":"
			if v, ok := extractValue(line, prefix); ok {
				field.set(contact, v)
				break
			}
		}
	}

	return rec
}

// contactFor returns the contact block for the active section, allocating
// it on first use.
func contactFor(rec *domain.WhoisRecord, s section) *domain.Contact {
	switch s {
	case sectionRegistrant:
		if rec.Registrant == nil {
			rec.Registrant = &domain.Contact{}
		}
		return rec.Registrant
	case sectionAdmin:
		if rec.Admin == nil {
			rec.Admin = &domain.Contact{}
		}
		return rec.Admin
	case sectionTech:
		if rec.Tech == nil {
			rec.Tech = &domain.Contact{}
		}
		return rec.Tech
	}
	return &domain.Contact{}
}

// extractValue matches a case-insensitive line prefix and returns the
// trimmed remainder. An empty remainder counts as no match.
func extractValue(line, prefix string) (string, bool) {
	if !hasPrefixFold(line, prefix) {
		return "", false
	}
	value := strings.TrimSpace(line[len(prefix):])
	if value == "" {
		return "", false
	}
	return value, true
}

// extractDate is extractValue followed by date parsing. A prefix match with
// an unparseable date reports no match so the line can fall through.
func extractDate(line, prefix string) (*time.Time, bool) {
	value, ok := extractValue(line, prefix)
	if !ok {
		return nil, false
	}
	if t := parseDate(value); t != nil {
		return t, true
	}
	return nil, false
}

// parseDate tries each known WHOIS timestamp layout in order, then falls
// back to RFC 3339. Returns nil if nothing parses.
func parseDate(value string) *time.Time {
	for _, layout := range whoisDateFormats {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &t
		}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}
