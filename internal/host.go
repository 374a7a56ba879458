package internal

import "strings"

// NormalizeHost strips the port and lower-cases a host value.
//
// For bracketed IPv6 literals everything after the closing bracket is dropped.
// For any other value everything from the first ':' onward is dropped.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if strings.HasPrefix(host, "[") {
		if end := strings.IndexByte(host, ']'); end != -1 {
			host = host[:end+1]
		}
	} else if idx := strings.IndexByte(host, ':'); idx != -1 {
		host = host[:idx]
	}
	return strings.ToLower(host)
}
