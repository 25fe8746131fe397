package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/dohungiy/ManageContacts/internal/app/api"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	platformobservability "github.com/dohungiy/ManageContacts/internal/platform/observability"
)

// group-purger physically removes groups that were soft deleted longer than
// GROUP_PURGE_RETENTION ago. It is meant to run as a scheduled job.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN not set; cannot purge groups")
	}
	logger := platformobservability.NewLogger(os.Stdout, cfg.Telemetry)
	instruments := &platformobservability.Instruments{Logger: logger}

	contacts, err := api.BuildContacts(ctx, cfg, instruments)
	if err != nil {
		log.Fatalf("failed to wire contacts: %v", err)
	}
	defer contacts.Cleanup()
	if !contacts.Durable {
		logger.Error("postgres unavailable; refusing to purge the in-memory store")
		os.Exit(1)
	}

	before := time.Now().UTC().Add(-cfg.GroupRetention)
	purged, err := contacts.Service.PurgeDeletedGroups(ctx, types.PurgeGroupsInput{Before: before})
	if err != nil {
		logger.Error("failed to purge groups", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("group purge completed", slog.Int("purged", purged), slog.Time("before", before))
}
