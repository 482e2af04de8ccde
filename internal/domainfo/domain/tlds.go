package domain

import (
	"sort"
	"strings"
)

// knownTLDs is a fixed set of common generic and country-code suffixes.
// It backs an auxiliary plausibility check for stricter validation
// policies; the grammar check in Normalize remains authoritative.
// Full registry: https://www.iana.org/domains/root/db
var knownTLDs = []string{
	// generic TLDs
	"com", "org", "net", "edu", "gov", "mil", "int",
	"info", "biz", "name", "pro", "mobi", "asia", "jobs", "tel", "travel",
	"aero", "coop", "museum", "onion", "bitcoin",

	// newer gTLDs
	"app", "dev", "io", "tech", "online", "site", "website", "store", "shop",
	"blog", "cloud", "digital", "email", "host", "media", "news", "space",
	"tv", "video", "watch", "wiki", "xyz",

	// country codes
	"br", "us", "uk", "ca", "au", "de", "fr", "it", "es", "nl",
	"jp", "cn", "in", "ru", "mx", "ar", "cl", "co", "pe", "za",
	"nz", "sg", "hk", "kr", "tw", "th", "id", "my", "ph", "vn",
	"pl", "se", "no", "dk", "fi", "ie", "pt", "gr", "tr", "il",
	"ae", "sa", "eg", "ng", "ke", "ma", "tz", "ug", "gh", "et",
	"ch", "at", "be", "cz", "hu", "ro", "bg", "hr", "si", "sk",
	"lt", "lv", "ee", "is", "lu", "mt", "cy",

	// composite country suffixes
	"co.uk", "com.br", "com.mx", "com.au", "com.ar", "co.za",
	"gov.br", "org.br", "edu.br", "net.br",

	// special-use
	"test", "localhost", "local",
}

var knownTLDSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(knownTLDs))
	for _, tld := range knownTLDs {
		set[tld] = struct{}{}
	}
	return set
}()

// KnownTLD reports whether the suffix is in the known TLD set. The check is
// case-insensitive and tolerates a leading dot.
func KnownTLD(tld string) bool {
	tld = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tld), "."))
	if tld == "" {
		return false
	}
	_, ok := knownTLDSet[tld]
	return ok
}

// KnownTLDs returns all known TLDs in lexical order.
func KnownTLDs() []string {
	all := make([]string, len(knownTLDs))
	copy(all, knownTLDs)
	sort.Strings(all)
	return all
}

// KnownTLDCount returns the number of known TLDs.
func KnownTLDCount() int {
	return len(knownTLDs)
}
