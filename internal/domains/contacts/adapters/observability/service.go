package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
)

const tracerName = "github.com/dohungiy/ManageContacts/internal/domains/contacts/adapters/observability/service"

// Service decorates the contacts application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) List(ctx context.Context, input types.ListContactsInput) (*types.ContactPage, error) {
	ctx, span := s.startSpan(ctx, "Service.List",
		attribute.String("contact.search", input.Search),
		attribute.String("contact.sort", input.Sort),
		attribute.Int("page.index", input.PageIndex),
		attribute.Int("page.size", input.PageSize),
	)
	defer span.End()

	page, err := s.inner.List(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list contacts", slog.String("search", input.Search))
	}
	span.SetAttributes(attribute.Int("contact.result.count", len(page.Items)), attribute.Int64("contact.result.total", page.TotalCount))
	s.logInfo(ctx, "listed contacts", slog.Int("count", len(page.Items)), slog.Int64("total", page.TotalCount))
	return page, nil
}

func (s *Service) Get(ctx context.Context, input types.ContactIdentifier) (*domain.Contact, error) {
	ctx, span := s.startSpan(ctx, "Service.Get", attribute.String("contact.id", input.ID.String()))
	defer span.End()

	contact, err := s.inner.Get(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load contact", slog.String("contact.id", input.ID.String()))
	}
	return contact, nil
}

// GetUnscoped also resolves soft-deleted contacts.
func (s *Service) GetUnscoped(ctx context.Context, input types.ContactIdentifier) (*domain.Contact, error) {
	ctx, span := s.startSpan(ctx, "Service.GetUnscoped", attribute.String("contact.id", input.ID.String()))
	defer span.End()

	contact, err := s.inner.GetUnscoped(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load contact", slog.String("contact.id", input.ID.String()))
	}
	span.SetAttributes(attribute.Bool("contact.deleted", contact.Deleted))
	return contact, nil
}

func (s *Service) ListByGroup(ctx context.Context, input types.GroupIdentifier) ([]*domain.Contact, error) {
	ctx, span := s.startSpan(ctx, "Service.ListByGroup", attribute.String("group.id", input.ID.String()))
	defer span.End()

	contacts, err := s.inner.ListByGroup(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list group contacts", slog.String("group.id", input.ID.String()))
	}
	span.SetAttributes(attribute.Int("contact.result.count", len(contacts)))
	return contacts, nil
}

// Create persists a new contact with instrumentation.
func (s *Service) Create(ctx context.Context, input types.ContactInput) (*domain.Contact, error) {
	ctx, span := s.startSpan(ctx, "Service.Create")
	defer span.End()

	s.logInfo(ctx, "creating contact")
	contact, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create contact")
	}
	span.SetAttributes(attribute.String("contact.id", contact.ID.String()))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "contact created", slog.String("contact.id", contact.ID.String()))
	return contact, nil
}

func (s *Service) Update(ctx context.Context, input types.UpdateContactInput) (*domain.Contact, error) {
	ctx, span := s.startSpan(ctx, "Service.Update", attribute.String("contact.id", input.ID.String()))
	defer span.End()

	s.logInfo(ctx, "updating contact", slog.String("contact.id", input.ID.String()))
	contact, err := s.inner.Update(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update contact", slog.String("contact.id", input.ID.String()))
	}
	s.metrics.recordUpdated(ctx, 1)
	s.logInfo(ctx, "contact updated", slog.String("contact.id", contact.ID.String()))
	return contact, nil
}

func (s *Service) Delete(ctx context.Context, input types.ContactIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.Delete", attribute.String("contact.id", input.ID.String()))
	defer span.End()

	if err := s.inner.Delete(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete contact", slog.String("contact.id", input.ID.String()))
	}
	s.logInfo(ctx, "contact deleted", slog.String("contact.id", input.ID.String()))
	return nil
}

func (s *Service) CreateGroup(ctx context.Context, input types.GroupInput) (*domain.Group, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateGroup", attribute.String("group.name", input.Name))
	defer span.End()

	group, err := s.inner.CreateGroup(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create group", slog.String("group.name", input.Name))
	}
	s.logInfo(ctx, "group created", slog.String("group.id", group.ID.String()), slog.String("group.name", group.Name))
	return group, nil
}

func (s *Service) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	ctx, span := s.startSpan(ctx, "Service.ListGroups")
	defer span.End()

	groups, err := s.inner.ListGroups(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list groups")
	}
	span.SetAttributes(attribute.Int("group.result.count", len(groups)))
	return groups, nil
}

func (s *Service) DeleteGroup(ctx context.Context, input types.GroupIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteGroup", attribute.String("group.id", input.ID.String()))
	defer span.End()

	if err := s.inner.DeleteGroup(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete group", slog.String("group.id", input.ID.String()))
	}
	s.logInfo(ctx, "group deleted", slog.String("group.id", input.ID.String()))
	return nil
}

// AssignGroup moves contacts in one bulk update.
func (s *Service) AssignGroup(ctx context.Context, input types.AssignGroupInput) ([]*domain.Contact, error) {
	ctx, span := s.startSpan(ctx, "Service.AssignGroup",
		attribute.String("group.id", input.GroupID.String()),
		attribute.Int("contact.requested", len(input.ContactIDs)),
	)
	defer span.End()

	contacts, err := s.inner.AssignGroup(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to assign group", slog.String("group.id", input.GroupID.String()))
	}
	s.metrics.recordUpdated(ctx, int64(len(contacts)))
	s.logInfo(ctx, "contacts assigned", slog.String("group.id", input.GroupID.String()), slog.Int("count", len(contacts)))
	return contacts, nil
}

// ImportContacts bulk inserts a batch of contacts.
func (s *Service) ImportContacts(ctx context.Context, input types.ImportContactsInput) (*types.ImportResult, error) {
	ctx, span := s.startSpan(ctx, "Service.ImportContacts", attribute.Int("contact.requested", len(input.Contacts)))
	defer span.End()

	s.logInfo(ctx, "importing contacts", slog.Int("requested", len(input.Contacts)))
	result, err := s.inner.ImportContacts(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to import contacts", slog.Int("requested", len(input.Contacts)))
	}
	span.SetAttributes(
		attribute.Int("contact.imported", len(result.Imported)),
		attribute.Int("contact.skipped", result.Skipped),
	)
	s.metrics.recordImported(ctx, len(result.Imported), result.Skipped)
	s.logInfo(ctx, "contacts imported", slog.Int("imported", len(result.Imported)), slog.Int("skipped", result.Skipped))
	return result, nil
}

func (s *Service) PurgeDeletedGroups(ctx context.Context, input types.PurgeGroupsInput) (int, error) {
	ctx, span := s.startSpan(ctx, "Service.PurgeDeletedGroups", attribute.String("purge.before", input.Before.UTC().String()))
	defer span.End()

	purged, err := s.inner.PurgeDeletedGroups(ctx, input)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to purge groups")
	}
	s.metrics.recordPurged(ctx, purged)
	s.logInfo(ctx, "purged deleted groups", slog.Int("count", purged), slog.Time("before", input.Before))
	return purged, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	created  metric.Int64Counter
	updated  metric.Int64Counter
	imported metric.Int64Counter
	skipped  metric.Int64Counter
	purged   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("contacts.service.created", metric.WithDescription("Number of contacts created"))
	updated, _ := m.Int64Counter("contacts.service.updated", metric.WithDescription("Number of contacts updated, including group moves"))
	imported, _ := m.Int64Counter("contacts.service.imported", metric.WithDescription("Number of contacts bulk imported"))
	skipped, _ := m.Int64Counter("contacts.service.import_skipped", metric.WithDescription("Number of duplicate contacts skipped on import"))
	purged, _ := m.Int64Counter("contacts.service.groups_purged", metric.WithDescription("Number of soft-deleted groups physically removed"))
	return serviceMetrics{
		created:  created,
		updated:  updated,
		imported: imported,
		skipped:  skipped,
		purged:   purged,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	addCounter(ctx, m.created, 1)
}

func (m serviceMetrics) recordUpdated(ctx context.Context, n int64) {
	addCounter(ctx, m.updated, n)
}

func (m serviceMetrics) recordImported(ctx context.Context, imported, skipped int) {
	addCounter(ctx, m.imported, int64(imported))
	addCounter(ctx, m.skipped, int64(skipped))
}

func (m serviceMetrics) recordPurged(ctx context.Context, n int) {
	addCounter(ctx, m.purged, int64(n))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil || value == 0 {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
