package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	contactshandler "github.com/dohungiy/ManageContacts/internal/domains/contacts/adapters/http/handler"
	contactsworkflows "github.com/dohungiy/ManageContacts/internal/domains/contacts/adapters/workflows"
	contactsports "github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	platformobservability "github.com/dohungiy/ManageContacts/internal/platform/observability"
)

const serviceName = "contacts-api"

// Run boots the contacts HTTP API with observability, persistence, and workflows wired.
// It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	contacts, err := BuildContacts(ctx, cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to wire contacts: %w", err)
	}
	defer contacts.Cleanup()

	var workflows contactsports.WorkflowOrchestrator = contactsworkflows.NewInlineContactWorkflows(contacts.Service)
	if temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, running imports inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		workflows = contactsworkflows.NewTemporalContactWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	api := contactshandler.NewContactAPI(contacts.Service, workflows, contactshandler.NewResponder())
	router := contactshandler.NewRouter(api, otelgin.Middleware(serviceName))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("contacts API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("contacts API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("contacts API shutting down")
	return server.Shutdown(shutdownCtx)
}
