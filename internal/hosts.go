package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Hosts file errors.
var (
	ErrInvalidHostsFile = errors.New("invalid hosts file")
	ErrHostRequired     = errors.New("host is required")
	ErrHostKind         = errors.New("exactly one of static or api is required")
	ErrDuplicateHost    = errors.New("duplicate host")
	ErrReservedHost     = errors.New("host is reserved")
)

// HostEntry describes one extra virtual host.
type HostEntry struct {
	Host   string `yaml:"host"`
	Static string `yaml:"static,omitempty"`
	SPA    bool   `yaml:"spa,omitempty"`
	API    bool   `yaml:"api,omitempty"`
}

type hostsFile struct {
	Hosts []HostEntry `yaml:"hosts"`
}

// LoadHosts reads and validates a hosts file.
// Entries naming one of the reserved hosts are rejected.
func LoadHosts(path string, reserved ...string) ([]HostEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidHostsFile, err)
	}
	return ParseHosts(data, reserved...)
}

// ParseHosts decodes a hosts document. Unknown keys are rejected.
// Hosts are compared the way requests are routed: without port and case.
func ParseHosts(data []byte, reserved ...string) ([]HostEntry, error) {
	var doc hostsFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidHostsFile, err)
	}

	taken := make(map[string]bool, len(reserved))
	for _, h := range reserved {
		if h = NormalizeHost(h); h != "" {
			taken[h] = true
		}
	}

	seen := make(map[string]int, len(doc.Hosts))
	var errs []error
	for i, e := range doc.Hosts {
		host := NormalizeHost(e.Host)
		if taken[host] {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i, host, ErrReservedHost))
			continue
		}
		switch {
		case host == "":
			errs = append(errs, fmt.Errorf("entry %d: %w", i, ErrHostRequired))
			continue
		case (e.Static == "") == !e.API:
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i, host, ErrHostKind))
		case e.SPA && e.API:
			errs = append(errs, fmt.Errorf("entry %d (%s): spa applies to static hosts only: %w", i, host, ErrHostKind))
		}
		if first, ok := seen[host]; ok {
			errs = append(errs, fmt.Errorf("entry %d (%s), first at %d: %w", i, host, first, ErrDuplicateHost))
			continue
		}
		seen[host] = i
		doc.Hosts[i].Host = host
	}

	if len(errs) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidHostsFile}, errs...)...)
	}
	return doc.Hosts, nil
}
