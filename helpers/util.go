package helpers

import (
	"net/url"
	"strings"
)

// ResolveURL joins a link found in a page with the site base URL.
// Absolute links are returned unchanged.
func ResolveURL(baseURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if u, err := url.Parse(href); err == nil && u.IsAbs() {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return strings.TrimRight(baseURL, "/") + href
}
