package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/dohungiy/ManageContacts/internal/app/api"
	platformobservability "github.com/dohungiy/ManageContacts/internal/platform/observability"
	contactactivities "github.com/dohungiy/ManageContacts/internal/platform/temporal/activities/contacts"
	contactworkflows "github.com/dohungiy/ManageContacts/internal/platform/temporal/workflows/contacts"
)

func main() {
	ctx := context.Background()
	const serviceName = "contacts-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	contacts, err := api.BuildContacts(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to wire contacts", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer contacts.Cleanup()
	contactActivities := contactactivities.NewActivities(contacts.Service)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, contactworkflows.ContactImportTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(contactworkflows.ContactImportWorkflow, workflow.RegisterOptions{Name: contactworkflows.ContactImportWorkflowName})
	w.RegisterActivityWithOptions(contactActivities.ImportContacts, activity.RegisterOptions{Name: contactactivities.ImportContactsActivityName})

	logger.Info("worker listening", slog.String("taskQueue", contactworkflows.ContactImportTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
