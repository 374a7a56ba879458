// Package hostrouter dispatches HTTP requests to handlers by virtual host.
//
// The hostname is taken from the request Host header, stripped of any port,
// lower-cased and looked up in a [Registry] snapshot built at startup. The
// selected [Handler] is called exactly once; its response passes through
// untouched.
//
// # Host Patterns
//
// Two pattern types are supported:
//
//   - Exact: "api.example.com" matches only that host
//   - Wildcard: "*.example.com" matches any subdomain (foo.example.com, a.b.example.com)
//
// Exact matches take priority over wildcard matches, and longer wildcard
// suffixes take priority over shorter ones.
//
// # Responses produced by the router
//
//   - Missing or malformed Host header: 400 "Bad Request"
//   - Unknown host: 404 "Not Found" (or the configured not-found handler)
//   - Handler error or panic: 500 "Internal Server Error"
//
// Handler errors are logged, never echoed to the client. If the handler had
// already started writing the response the router only logs the error.
//
// # Usage
//
//	reg := hostrouter.NewRegistry()
//	_ = reg.Register("www.example.com", hostrouter.FromHTTP(files))
//	_ = reg.Register("api.example.com", counter.NewHandler(store))
//
//	router := hostrouter.New(reg, hostrouter.WithLogger(log))
//	http.ListenAndServe(":8080", router)
//
// # IPv6 Support
//
// Bracketed IPv6 literals keep their brackets during normalization, so
// "[::1]:8080" resolves to "[::1]".
package hostrouter
