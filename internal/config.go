package internal

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/edge/pkg/logger"
	"github.com/dmitrymomot/edge/pkg/redis"
)

// Config errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidHost   = errors.New("bind host must be an IP address or localhost")
	ErrInvalidPort   = errors.New("port must be between 1 and 65535")
	ErrEmptyDomain   = errors.New("domain must not be empty")
)

// Config is the process configuration, read from the environment.
type Config struct {
	Host   string `env:"EDGE_HOST" envDefault:"localhost"`
	Port   int    `env:"EDGE_PORT" envDefault:"80"`
	Domain string `env:"EDGE_DOMAIN" envDefault:"localhost"`

	StaticRoot  string `env:"EDGE_STATIC_ROOT" envDefault:"./web/dist"`
	SPAFallback bool   `env:"EDGE_SPA_FALLBACK" envDefault:"false"`

	// YAML file with extra virtual hosts. Empty disables it.
	HostsFile string `env:"EDGE_HOSTS_FILE"`

	// Listen address for health endpoints, e.g. "127.0.0.1:9090". Empty disables it.
	AdminAddr string `env:"EDGE_ADMIN_ADDR"`

	// Defaults to the http and https origins of www.<domain>.
	CORSOrigins []string `env:"EDGE_CORS_ORIGINS" envSeparator:","`

	ShutdownTimeout time.Duration `env:"EDGE_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Log   logger.Config
	Redis redis.Config
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parseConfig(env.Options{})
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(vars map[string]string) (Config, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	return parseConfig(env.Options{Environment: vars})
}

func parseConfig(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	cfg.Domain = strings.ToLower(strings.TrimSpace(cfg.Domain))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if ip := net.ParseIP(BindHost(c.Host)); ip == nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidHost, c.Host))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidPort, c.Port))
	}
	if c.Domain == "" {
		errs = append(errs, ErrEmptyDomain)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive: %s", c.ShutdownTimeout))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Address returns the listen address with the localhost alias applied.
func (c Config) Address() string {
	return BindAddress(c.Host, c.Port)
}

// WWWHost is the host serving the static site.
func (c Config) WWWHost() string {
	return "www." + c.Domain
}

// APIHost is the host serving the call counter.
func (c Config) APIHost() string {
	return "api." + c.Domain
}

// AllowedOrigins returns the CORS origins for the API host.
func (c Config) AllowedOrigins() []string {
	if len(c.CORSOrigins) > 0 {
		return c.CORSOrigins
	}
	return []string{"http://" + c.WWWHost(), "https://" + c.WWWHost()}
}
