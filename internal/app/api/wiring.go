package api

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	contactsmemory "github.com/dohungiy/ManageContacts/internal/domains/contacts/adapters/memory"
	contactsobs "github.com/dohungiy/ManageContacts/internal/domains/contacts/adapters/observability"
	contactspostgres "github.com/dohungiy/ManageContacts/internal/domains/contacts/adapters/persistence/postgres"
	contactsapp "github.com/dohungiy/ManageContacts/internal/domains/contacts/application"
	contactsports "github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	"github.com/dohungiy/ManageContacts/internal/platform/migrations"
	platformobservability "github.com/dohungiy/ManageContacts/internal/platform/observability"
	"github.com/dohungiy/ManageContacts/internal/platform/persistence"
	platformpostgres "github.com/dohungiy/ManageContacts/internal/platform/postgres"
)

// Contacts bundles the wired contacts service and the resources it holds.
type Contacts struct {
	Service contactsports.Service
	Cleanup func()
	// Durable is false when the service fell back to the in-memory store.
	Durable bool
}

// BuildContacts wires the contacts service against postgres, or against the in-memory store
// when no database is reachable. Every write is routed through the audit interceptor and
// every list write through the audited bulk writer.
func BuildContacts(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Contacts, error) {
	logger := effectiveLogger(instruments)

	var (
		repo      contactsports.Repository
		committer persistence.Committer
		bulk      persistence.BulkPrimitive
	)
	db, cleanup := platformpostgres.Open(ctx, cfg.PostgresDSN, platformpostgres.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		SlowQuery:    cfg.DBSlowQuery,
		Logger:       logger,
	})
	if db != nil {
		if err := migrations.Run(db); err != nil {
			cleanup()
			return nil, err
		}
		repo = contactspostgres.NewRepository(db)
		committer = persistence.NewGormCommitter(db)
		bulk = persistence.NewGormBulk(db, cfg.BatchSize())
		logger.Info("contacts store configured with postgres")
	} else {
		store := contactsmemory.NewStore()
		repo, committer, bulk = store, store, store
	}

	core := contactsapp.NewService(
		repo,
		persistence.NewAuditInterceptor(committer, nil),
		persistence.NewBulkWriter(bulk, nil),
		contactsapp.WithPageLimits(cfg.PageLimits()),
	)
	service := contactsobs.New(
		core,
		contactsobs.WithLogger(logger),
		contactsobs.WithTracer(instruments.Tracer("internal.contacts.application")),
		contactsobs.WithMeter(instruments.Meter("internal.contacts.application")),
	)
	return &Contacts{Service: service, Cleanup: cleanup, Durable: db != nil}, nil
}

// ConnectTemporal dials the Temporal frontend with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, component string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(component),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
