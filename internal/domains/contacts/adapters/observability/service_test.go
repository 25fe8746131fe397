package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
)

// stubService answers the calls the tests exercise; anything else panics via the nil embed.
type stubService struct {
	ports.Service
	created *domain.Contact
	imports *types.ImportResult
	err     error
}

func (s *stubService) Create(context.Context, types.ContactInput) (*domain.Contact, error) {
	return s.created, s.err
}

func (s *stubService) ImportContacts(context.Context, types.ImportContactsInput) (*types.ImportResult, error) {
	return s.imports, s.err
}

func instrumented(t *testing.T, inner ports.Service) (ports.Service, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})
	svc := New(inner, WithTracer(tp.Tracer(tracerName)), WithMeter(mp.Meter(tracerName)))
	return svc, spans, reader
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestService_CreateRecordsSpanAndCounter(t *testing.T) {
	contact := &domain.Contact{ID: uuid.New(), FirstName: "Ann"}
	svc, spans, reader := instrumented(t, &stubService{created: contact})

	got, err := svc.Create(context.Background(), types.ContactInput{FirstName: "Ann"})
	require.NoError(t, err)
	assert.Same(t, contact, got)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "Service.Create", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Equal(t, int64(1), counterValue(t, reader, "contacts.service.created"))
}

func TestService_ErrorMarksSpan(t *testing.T) {
	boom := errors.New("boom")
	svc, spans, reader := instrumented(t, &stubService{err: boom})

	_, err := svc.Create(context.Background(), types.ContactInput{})
	require.ErrorIs(t, err, boom)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Zero(t, counterValue(t, reader, "contacts.service.created"))
}

func TestService_ImportCountsImportedAndSkipped(t *testing.T) {
	result := &types.ImportResult{Imported: []uuid.UUID{uuid.New(), uuid.New()}, Skipped: 3}
	svc, _, reader := instrumented(t, &stubService{imports: result})

	_, err := svc.ImportContacts(context.Background(), types.ImportContactsInput{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), counterValue(t, reader, "contacts.service.imported"))
	assert.Equal(t, int64(3), counterValue(t, reader, "contacts.service.import_skipped"))
}
