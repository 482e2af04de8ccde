package domain

import (
	"errors"
	"regexp"
	"strings"
)

// Validation errors returned by Normalize. The HTTP boundary maps any of
// these to a client error; none of them ever reach the orchestrator.
var (
	ErrNameRequired   = errors.New("domain name is required")
	ErrNameSpaces     = errors.New("domain name must not contain spaces")
	ErrNameEdgeDot    = errors.New("domain name must not start or end with a dot")
	ErrNameDoubleDot  = errors.New("domain name must not contain consecutive dots")
	ErrNameEdgeHyphen = errors.New("domain name must not start or end with a hyphen")
	ErrNameFormat     = errors.New("invalid domain format, expected a full domain such as example.com")
	ErrNameShortLabel = errors.New("each part of the domain needs at least 2 characters")
	ErrNameWWWTypo    = errors.New(`that looks like a typo of "www.", check the domain and try again`)
)

var (
	schemePrefix  = regexp.MustCompile(`(?i)^https?://`)
	wwwPrefix     = regexp.MustCompile(`(?i)^www\.`)
	domainGrammar = regexp.MustCompile(`(?i)^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}$`)
	labelChars    = regexp.MustCompile(`(?i)^[a-z0-9-]+$`)
)

// Normalize validates a user-supplied domain name and returns its canonical
// form: trimmed, with any http(s) scheme and leading "www." stripped. Case
// is preserved; callers lowercase the result when they need a cache key.
//
// This is pure text validation. No network or store access happens here,
// and the result is a fixed point: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrNameRequired
	}

	name = schemePrefix.ReplaceAllString(name, "")
	name = wwwPrefix.ReplaceAllString(name, "")

	if strings.ContainsAny(name, " \t") {
		return "", ErrNameSpaces
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return "", ErrNameEdgeDot
	}
	if strings.Contains(name, "..") {
		return "", ErrNameDoubleDot
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return "", ErrNameEdgeHyphen
	}
	if !domainGrammar.MatchString(name) {
		return "", ErrNameFormat
	}

	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return "", ErrNameFormat
	}
	if len(parts[len(parts)-1]) < 2 {
		return "", ErrNameFormat
	}

	for _, label := range parts[:len(parts)-1] {
		// A lone w/ww/wwww almost always means the user mistyped "www.";
		// surface a corrective message instead of the generic one.
		switch strings.ToLower(label) {
		case "w", "ww", "wwww":
			return "", ErrNameWWWTypo
		}
		if label == "" || label == "-" || !labelChars.MatchString(label) {
			return "", ErrNameFormat
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return "", ErrNameEdgeHyphen
		}
		if len(label) < 2 {
			return "", ErrNameShortLabel
		}
	}

	return name, nil
}
