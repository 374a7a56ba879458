package hostrouter

import (
	"io"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/edge/pkg/logger"
)

// Registry maps host patterns to handlers.
// It is filled once during startup; a Router takes a snapshot of it.
type Registry struct {
	mu       sync.RWMutex
	exact    map[string]Handler // "api.example.com" -> handler
	wildcard map[string]Handler // "example.com" -> handler (for *.example.com)
	logger   *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for registration events.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		exact:    make(map[string]Handler),
		wildcard: make(map[string]Handler),
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register inserts or replaces the handler for a host pattern.
// The pattern is normalized the same way request hosts are, so matching is
// case-insensitive and any port is ignored.
//
// Registering a pattern twice keeps the last handler. The replacement is
// logged, and the replaced handler is closed if it implements io.Closer.
func (r *Registry) Register(pattern string, h Handler) error {
	if h == nil {
		return ErrNilHandler
	}

	table, key, err := r.parse(pattern)
	if err != nil {
		return err
	}

	r.mu.Lock()
	prev, replaced := table[key]
	table[key] = h
	r.mu.Unlock()

	if strings.HasPrefix(strings.TrimSpace(pattern), "*.") {
		key = "*." + key
	}

	if !replaced {
		r.logger.Debug("host registered", slog.String("host", key), slog.String("pattern", pattern))
		return nil
	}

	r.logger.Warn("host handler replaced", slog.String("host", key), slog.String("pattern", pattern))
	if c, ok := prev.(io.Closer); ok && !sameHandler(prev, h) {
		if err := c.Close(); err != nil {
			r.logger.Error("failed to close replaced handler",
				slog.String("host", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// Lookup returns the handler registered for the hostname.
func (r *Registry) Lookup(hostname string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return match(r.exact, r.wildcard, NormalizeHost(hostname))
}

// Hosts returns the registered patterns in sorted order.
func (r *Registry) Hosts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hosts := make([]string, 0, len(r.exact)+len(r.wildcard))
	for h := range r.exact {
		hosts = append(hosts, h)
	}
	for h := range r.wildcard {
		hosts = append(hosts, "*."+h)
	}
	slices.Sort(hosts)
	return hosts
}

// Len returns the number of registered patterns.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.exact) + len(r.wildcard)
}

// snapshot copies the current tables.
func (r *Registry) snapshot() (exact, wildcard map[string]Handler) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exact = make(map[string]Handler, len(r.exact))
	for k, v := range r.exact {
		exact[k] = v
	}
	wildcard = make(map[string]Handler, len(r.wildcard))
	for k, v := range r.wildcard {
		wildcard[k] = v
	}
	return exact, wildcard
}

// parse picks the table for a pattern and returns its key.
func (r *Registry) parse(pattern string) (map[string]Handler, string, error) {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return nil, "", ErrEmptyHostname
	}

	if rest, ok := strings.CutPrefix(p, "*."); ok {
		key := NormalizeHost(rest)
		if key == "" || strings.Contains(key, "*") {
			return nil, "", ErrInvalidPattern
		}
		return r.wildcard, key, nil
	}

	key := NormalizeHost(p)
	if key == "" {
		return nil, "", ErrEmptyHostname
	}
	if strings.Contains(key, "*") {
		return nil, "", ErrInvalidPattern
	}
	return r.exact, key, nil
}

// sameHandler reports whether both values are the same comparable handler.
// Values holding funcs, including funcs wrapped in structs or interfaces,
// are treated as distinct.
func sameHandler(a, b Handler) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// match finds the handler for a normalized host.
// Exact entries win; otherwise the longest matching wildcard suffix is used.
func match(exact, wildcard map[string]Handler, host string) (Handler, bool) {
	if h, ok := exact[host]; ok {
		return h, true
	}
	if len(wildcard) == 0 {
		return nil, false
	}

	rest := host
	for {
		_, domain, ok := strings.Cut(rest, ".")
		if !ok || domain == "" {
			return nil, false
		}
		if h, ok := wildcard[domain]; ok {
			return h, true
		}
		rest = domain
	}
}
