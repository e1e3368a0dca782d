// Package maps builds Google Maps links for violation locations so a
// summary reader can jump straight to the reported spot.
package maps

import "net/url"

const searchBase = "https://www.google.com/maps/search/"

// SearchURL returns a Google Maps search link for a free-form location.
// Empty locations return an empty string so callers can skip the line.
func SearchURL(location string) string {
	if location == "" {
		return ""
	}
	return searchBase + url.QueryEscape(location)
}
