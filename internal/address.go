package internal

import (
	"net"
	"strconv"
	"strings"
)

// BindHost maps the "localhost" alias to the all-interfaces address.
func BindHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" || strings.EqualFold(host, "localhost") {
		return "0.0.0.0"
	}
	return host
}

// BindAddress joins the bind host and port into a listen address.
func BindAddress(host string, port int) string {
	return net.JoinHostPort(BindHost(host), strconv.Itoa(port))
}

// DisplayURL renders a listen address for humans.
// Unspecified addresses are shown as localhost.
func DisplayURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" {
		host = "localhost"
	} else if ip := net.ParseIP(host); ip != nil && ip.IsUnspecified() {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
