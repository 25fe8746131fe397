package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.temporal.io/sdk/client"

	platformobservability "github.com/dohungiy/ManageContacts/internal/platform/observability"
	"github.com/dohungiy/ManageContacts/internal/platform/persistence"
	"github.com/dohungiy/ManageContacts/internal/shared/pagination"
)

// Config carries environment-driven settings shared by the API, worker and purger processes.
type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	PostgresDSN       string        `env:"POSTGRES_DSN"`
	TemporalAddress   string        `env:"TEMPORAL_ADDRESS"`
	TemporalNamespace string        `env:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool          `env:"TEMPORAL_DISABLED"`
	DefaultPageSize   int           `env:"CONTACTS_DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize       int           `env:"CONTACTS_MAX_PAGE_SIZE" envDefault:"100"`
	BulkBatchSize     int           `env:"BULK_BATCH_SIZE" envDefault:"500"`
	GroupRetention    time.Duration `env:"GROUP_PURGE_RETENTION" envDefault:"720h"`
	DBMaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"20"`
	DBSlowQuery       time.Duration `env:"POSTGRES_SLOW_QUERY" envDefault:"200ms"`

	Telemetry platformobservability.Settings
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	return loadConfig(env.Options{})
}

func loadConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.PostgresDSN = strings.TrimSpace(cfg.PostgresDSN)
	if cfg.TemporalAddress == "" {
		cfg.TemporalAddress = client.DefaultHostPort
	}
	if cfg.TemporalNamespace == "" {
		cfg.TemporalNamespace = client.DefaultNamespace
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.DefaultPageSize <= 0 {
		errs = append(errs, errors.New("CONTACTS_DEFAULT_PAGE_SIZE must be a positive integer"))
	}
	if c.MaxPageSize < c.DefaultPageSize {
		errs = append(errs, errors.New("CONTACTS_MAX_PAGE_SIZE must not be lower than CONTACTS_DEFAULT_PAGE_SIZE"))
	}
	if c.BulkBatchSize <= 0 {
		errs = append(errs, errors.New("BULK_BATCH_SIZE must be a positive integer"))
	}
	if c.GroupRetention < 0 {
		errs = append(errs, errors.New("GROUP_PURGE_RETENTION must not be negative"))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PageLimits returns the listing limits for the contacts service.
func (c Config) PageLimits() pagination.Limits {
	return pagination.Limits{DefaultSize: c.DefaultPageSize, MaxSize: c.MaxPageSize}
}

// BatchSize returns the bulk statement size, falling back to the persistence default.
func (c Config) BatchSize() int {
	if c.BulkBatchSize <= 0 {
		return persistence.DefaultBatchSize
	}
	return c.BulkBatchSize
}
