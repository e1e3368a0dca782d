package domain

import (
	"fmt"
	"strings"
)

// Provider identifies a violation data source by its canonical host name.
type Provider string

const (
	// ProviderCheckPhatNguoi is the checkphatnguoi.vn JSON API.
	ProviderCheckPhatNguoi Provider = "checkphatnguoi.vn"
	// ProviderCSGT is the official csgt.vn portal, captcha-gated.
	ProviderCSGT Provider = "csgt.vn"
	// ProviderPhatNguoi is the phatnguoi.vn HTML table API.
	ProviderPhatNguoi Provider = "phatnguoi.vn"
	// ProviderTraCuuPhatNguoi is the tracuuphatnguoi.net mirror with
	// rotating CSRF tokens.
	ProviderTraCuuPhatNguoi Provider = "tracuuphatnguoi.net"
	// ProviderZMIO is the api.zm.io.vn aggregation API.
	ProviderZMIO Provider = "zm.io.vn"
	// ProviderETraffic is the etraffic.gtelict.vn citizen API,
	// credential-gated.
	ProviderETraffic Provider = "etraffic.gtelict.vn"
)

// AllProviders lists every supported provider in display order.
func AllProviders() []Provider {
	return []Provider{
		ProviderCheckPhatNguoi,
		ProviderCSGT,
		ProviderPhatNguoi,
		ProviderTraCuuPhatNguoi,
		ProviderZMIO,
		ProviderETraffic,
	}
}

// ParseProvider maps a configured provider name to its Provider value.
// Matching is case-insensitive and tolerates surrounding whitespace.
func ParseProvider(s string) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, p := range AllProviders() {
		if name == string(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}

// String returns the canonical host name.
func (p Provider) String() string {
	return string(p)
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	for _, known := range AllProviders() {
		if p == known {
			return true
		}
	}
	return false
}

// RequiresCredentials reports whether the provider needs configured
// account credentials before it can be queried.
func (p Provider) RequiresCredentials() bool {
	return p == ProviderETraffic
}

// RequiresCaptcha reports whether lookups against the provider are gated
// behind an image captcha.
func (p Provider) RequiresCaptcha() bool {
	return p == ProviderCSGT
}
