package hostrouter

import (
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/dmitrymomot/edge/internal"
)

// GetDomain returns the normalized domain from the request Host header.
// Strips port, handles IPv6, and converts to lowercase.
//
// Examples:
//
//	"example.com:8080" -> "example.com"
//	"[::1]:8080" -> "[::1]"
//	"Example.COM" -> "example.com"
func GetDomain(r *http.Request) string {
	return NormalizeHost(r.Host)
}

// GetSubdomain extracts the subdomain from a request given a base domain.
// Returns empty string if host doesn't match the base domain or has no subdomain.
//
// Examples:
//
//	GetSubdomain(req, "example.com") // req.Host = "foo.example.com" -> "foo"
//	GetSubdomain(req, "example.com") // req.Host = "bar.foo.example.com" -> "bar.foo"
//	GetSubdomain(req, "example.com") // req.Host = "example.com" -> ""
func GetSubdomain(r *http.Request, baseDomain string) string {
	host := NormalizeHost(r.Host)
	base := NormalizeHost(baseDomain)
	if base == "" || host == base {
		return ""
	}
	sub, ok := strings.CutSuffix(host, "."+base)
	if !ok {
		return ""
	}
	return sub
}

// NormalizeHost strips the port and lower-cases a host value.
//
// For bracketed IPv6 literals everything after the closing bracket is dropped.
// For any other value everything from the first ':' onward is dropped.
func NormalizeHost(host string) string {
	return internal.NormalizeHost(host)
}

// validHost reports whether a raw Host header value can be routed.
func validHost(host string) bool {
	if host == "" || !httpguts.ValidHostHeader(host) {
		return false
	}
	return NormalizeHost(host) != ""
}
