package whoistext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWhois = `Domain Name: EXAMPLE.COM
Registry Domain ID: 2336799_DOMAIN_COM-VRSN
Registrar WHOIS Server: whois.iana.org
Registrar URL: http://res-dom.iana.org
Updated Date: 2024-08-14T07:01:31Z
Creation Date: 2020-01-02T03:04:05Z
Registry Expiry Date: 2025-08-13T04:00:00Z
Registrar: RESERVED-Internet Assigned Numbers Authority
Registrar IANA ID: 376
Registrar Abuse Contact Email: abuse@iana.org
Registrar Abuse Contact Phone: +1.3103015800
Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
Domain Status: clientTransferProhibited https://icann.org/epp#clientTransferProhibited
Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
Registry Registrant ID: RT-100
Registrant Name: Jane Doe
Registrant Organization: Example Org
Registrant Street: 123 Example Road
Registrant City: Springfield
Registrant State/Province: OR
Registrant Postal Code: 97475
Registrant Country: US
Registrant Phone: +1.5551234567
Registrant Phone Ext: 42
Registrant Email: jane@example.com
Registry Admin ID: RT-101
Admin Name: John Smith
Admin Organization: Example Org
Admin Email: john@example.com
Registry Tech ID: RT-102
Tech Name: Ops Team
Tech Email: ops@example.com
DNSSEC: unsigned
>>> Last update of WHOIS database: 2024-11-26T00:05:03Z <<<
`

func TestParse_CanonicalSample(t *testing.T) {
	rec := Parse(sampleWhois)
	require.NotNil(t, rec)

	assert.Equal(t, "EXAMPLE.COM", rec.DomainName)
	assert.Equal(t, "2336799_DOMAIN_COM-VRSN", rec.RegistryDomainID)
	assert.Equal(t, "whois.iana.org", rec.RegistrarWhoisServer)
	assert.Equal(t, "http://res-dom.iana.org", rec.RegistrarURL)
	assert.Equal(t, "RESERVED-Internet Assigned Numbers Authority", rec.Registrar)
	assert.Equal(t, "376", rec.RegistrarIANAID)
	assert.Equal(t, "abuse@iana.org", rec.RegistrarAbuseContactEmail)
	assert.Equal(t, "+1.3103015800", rec.RegistrarAbuseContactPhone)
	assert.Equal(t, "unsigned", rec.DNSSEC)

	require.NotNil(t, rec.CreationDate)
	assert.Equal(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), *rec.CreationDate)
	require.NotNil(t, rec.UpdatedDate)
	assert.Equal(t, time.Date(2024, 8, 14, 7, 1, 31, 0, time.UTC), *rec.UpdatedDate)
	require.NotNil(t, rec.ExpirationDate)
	assert.Equal(t, time.Date(2025, 8, 13, 4, 0, 0, 0, time.UTC), *rec.ExpirationDate)
	require.NotNil(t, rec.LastUpdateOfWhoisDatabase)
	assert.Equal(t, time.Date(2024, 11, 26, 0, 5, 3, 0, time.UTC), *rec.LastUpdateOfWhoisDatabase)
}

func TestParse_StatusDeduplicatedInOrder(t *testing.T) {
	rec := Parse(sampleWhois)
	require.NotNil(t, rec)

	assert.Equal(t, []string{
		"clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited",
		"clientTransferProhibited https://icann.org/epp#clientTransferProhibited",
	}, rec.DomainStatus)
}

func TestParse_ContactRouting(t *testing.T) {
	rec := Parse(sampleWhois)
	require.NotNil(t, rec)

	assert.Equal(t, "RT-100", rec.RegistryRegistrantID)
	require.NotNil(t, rec.Registrant)
	assert.Equal(t, "Jane Doe", rec.Registrant.Name)
	assert.Equal(t, "Example Org", rec.Registrant.Organization)
	assert.Equal(t, "123 Example Road", rec.Registrant.Street)
	assert.Equal(t, "Springfield", rec.Registrant.City)
	assert.Equal(t, "OR", rec.Registrant.State)
	assert.Equal(t, "97475", rec.Registrant.PostalCode)
	assert.Equal(t, "US", rec.Registrant.Country)
	assert.Equal(t, "+1.5551234567", rec.Registrant.Phone)
	assert.Equal(t, "42", rec.Registrant.PhoneExt)
	assert.Equal(t, "jane@example.com", rec.Registrant.Email)

	assert.Equal(t, "RT-101", rec.RegistryAdminID)
	require.NotNil(t, rec.Admin)
	assert.Equal(t, "John Smith", rec.Admin.Name)
	assert.Equal(t, "john@example.com", rec.Admin.Email)

	assert.Equal(t, "RT-102", rec.RegistryTechID)
	require.NotNil(t, rec.Tech)
	assert.Equal(t, "Ops Team", rec.Tech.Name)
	assert.Equal(t, "ops@example.com", rec.Tech.Email)
}

func TestParse_ContactSectionWithoutRegistryID(t *testing.T) {
	raw := `Admin Name: Solo Admin
Admin City: Lisbon
`
	rec := Parse(raw)
	require.NotNil(t, rec)
	require.NotNil(t, rec.Admin)
	assert.Equal(t, "Solo Admin", rec.Admin.Name)
	assert.Equal(t, "Lisbon", rec.Admin.City)
	assert.Nil(t, rec.Registrant)
	assert.Nil(t, rec.Tech)
}

func TestParse_BlankInput(t *testing.T) {
	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse("   \n\t  "))
}

func TestParse_DateFormats(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"utc zulu", "2024-11-26T00:05:03Z", time.Date(2024, 11, 26, 0, 5, 3, 0, time.UTC)},
		{"fractional zulu", "2024-11-26T00:05:03.000Z", time.Date(2024, 11, 26, 0, 5, 3, 0, time.UTC)},
		{"no zone", "2024-11-26T00:05:03", time.Date(2024, 11, 26, 0, 5, 3, 0, time.UTC)},
		{"space separated", "2024-11-26 00:05:03", time.Date(2024, 11, 26, 0, 5, 3, 0, time.UTC)},
		{"date only", "2024-11-26", time.Date(2024, 11, 26, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Parse("Creation Date: " + tt.value + "\n")
			require.NotNil(t, rec)
			require.NotNil(t, rec.CreationDate)
			assert.Equal(t, tt.want, *rec.CreationDate)
		})
	}
}

func TestParse_MalformedDateTolerated(t *testing.T) {
	rec := Parse("Domain Name: example.com\nCreation Date: not-a-date\n")
	require.NotNil(t, rec)
	assert.Equal(t, "example.com", rec.DomainName)
	assert.Nil(t, rec.CreationDate)
}

func TestParse_RegistrarExpirationVariant(t *testing.T) {
	rec := Parse("Registrar Registration Expiration Date: 2026-01-01T00:00:00Z\n")
	require.NotNil(t, rec)
	require.NotNil(t, rec.ExpirationDate)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *rec.ExpirationDate)
}

func TestParse_UnknownLinesIgnored(t *testing.T) {
	raw := `% IANA WHOIS server
remarks: some free text
Domain Name: example.org
`
	rec := Parse(raw)
	require.NotNil(t, rec)
	assert.Equal(t, "example.org", rec.DomainName)
}
