// Package fetch - platform.go recognises job pages by URL.
package fetch

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform represents a known job marketplace.
type Platform string

const (
	// PlatformUpwork is the Upwork marketplace
	PlatformUpwork Platform = "upwork"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// NotJobPageMessage is shown when a URL is not an Upwork job details page.
const NotJobPageMessage = "Navigate to an Upwork job details page first."

var jobURLPattern = regexp.MustCompile(`upwork\.com/(jobs/|nx/find-work/(.*/)?details/)`)

// DetectPlatform identifies the marketplace from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	if host == "upwork.com" || strings.HasSuffix(host, ".upwork.com") {
		return PlatformUpwork
	}

	return PlatformUnknown
}

// IsJobURL reports whether the URL points at an Upwork job details page,
// either the public /jobs/ form or the in-app find-work details form.
func IsJobURL(urlStr string) bool {
	if urlStr == "" {
		return false
	}
	return jobURLPattern.MatchString(urlStr)
}
