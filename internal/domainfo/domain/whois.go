package domain

import "time"

// Contact holds one WHOIS contact block (registrant, admin or tech).
// Fields absent from the source text stay empty.
type Contact struct {
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	Country      string `json:"country,omitempty"`
	Phone        string `json:"phone,omitempty"`
	PhoneExt     string `json:"phoneExt,omitempty"`
	Fax          string `json:"fax,omitempty"`
	FaxExt       string `json:"faxExt,omitempty"`
	Email        string `json:"email,omitempty"`
}

// WhoisRecord is the structured form of a raw WHOIS response. It is a pure
// derived view: the raw text is the durable source of truth and this record
// is recomputed from it whenever needed, never mutated incrementally after
// parsing.
//
// Date fields are pointers because WHOIS output is wildly inconsistent
// across registries; a date that fails to parse is left nil rather than
// fabricated.
type WhoisRecord struct {
	DomainName                 string     `json:"domainName,omitempty"`
	RegistryDomainID           string     `json:"registryDomainId,omitempty"`
	RegistrarWhoisServer       string     `json:"registrarWhoisServer,omitempty"`
	RegistrarURL               string     `json:"registrarUrl,omitempty"`
	UpdatedDate                *time.Time `json:"updatedDate,omitempty"`
	CreationDate               *time.Time `json:"creationDate,omitempty"`
	ExpirationDate             *time.Time `json:"expirationDate,omitempty"`
	Registrar                  string     `json:"registrar,omitempty"`
	RegistrarIANAID            string     `json:"registrarIanaId,omitempty"`
	DomainStatus               []string   `json:"domainStatus,omitempty"`
	RegistryRegistrantID       string     `json:"registryRegistrantId,omitempty"`
	Registrant                 *Contact   `json:"registrant,omitempty"`
	RegistryAdminID            string     `json:"registryAdminId,omitempty"`
	Admin                      *Contact   `json:"admin,omitempty"`
	RegistryTechID             string     `json:"registryTechId,omitempty"`
	Tech                       *Contact   `json:"tech,omitempty"`
	DNSSEC                     string     `json:"dnssec,omitempty"`
	RegistrarAbuseContactEmail string     `json:"registrarAbuseContactEmail,omitempty"`
	RegistrarAbuseContactPhone string     `json:"registrarAbuseContactPhone,omitempty"`
	LastUpdateOfWhoisDatabase  *time.Time `json:"lastUpdateOfWhoisDatabase,omitempty"`
}

// AddStatus appends a domain status value, preserving first-appearance
// order and dropping duplicates.
func (w *WhoisRecord) AddStatus(status string) {
	for _, s := range w.DomainStatus {
		if s == status {
			return
		}
	}
	w.DomainStatus = append(w.DomainStatus, status)
}
