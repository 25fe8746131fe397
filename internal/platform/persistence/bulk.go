package persistence

import (
	"context"
	"errors"

	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

// BulkPrimitive writes whole slices without per-row change tracking.
// records is always a slice of entities (values or pointers).
type BulkPrimitive interface {
	BulkInsert(ctx context.Context, records any) error
	BulkUpdate(ctx context.Context, records any) error
	BulkDelete(ctx context.Context, records any) error
	// BulkTransaction runs fn against a primitive whose writes commit together or not at all.
	BulkTransaction(ctx context.Context, fn func(tx BulkPrimitive) error) error
}

// BulkWriter stamps audit fields on every list member before calling the bulk primitive.
//
// Unlike the AuditInterceptor, a bulk delete is not turned into an update: members are
// flagged as deleted and then handed to the physical delete primitive. Callers choose
// the primitive that matches their intent.
type BulkWriter struct {
	next    BulkPrimitive
	stamper *audit.Stamper
}

// NewBulkWriter decorates next. A nil stamper uses UTC wall-clock time.
func NewBulkWriter(next BulkPrimitive, stamper *audit.Stamper) *BulkWriter {
	if stamper == nil {
		stamper = audit.NewStamper()
	}
	return &BulkWriter{next: next, stamper: stamper}
}

var errBulkNotConfigured = errors.New("bulk writer not configured")

// Transaction runs fn with a writer bound to one transaction of the underlying primitive.
// Every bulk call fn makes is rolled back when fn or any call fails.
func (w *BulkWriter) Transaction(ctx context.Context, fn func(tx *BulkWriter) error) error {
	if w == nil || w.next == nil {
		return errBulkNotConfigured
	}
	return w.next.BulkTransaction(ctx, func(tx BulkPrimitive) error {
		return fn(&BulkWriter{next: tx, stamper: w.stamper})
	})
}

// BulkInsert stamps creation fields and inserts records.
func BulkInsert[T any](ctx context.Context, w *BulkWriter, records []T) error {
	if w == nil || w.next == nil {
		return errBulkNotConfigured
	}
	for i := range records {
		w.stamper.Created(ctx, element(&records[i]))
	}
	return w.next.BulkInsert(ctx, records)
}

// BulkUpdate stamps modification fields and updates records.
func BulkUpdate[T any](ctx context.Context, w *BulkWriter, records []T) error {
	if w == nil || w.next == nil {
		return errBulkNotConfigured
	}
	for i := range records {
		w.stamper.Modified(ctx, element(&records[i]))
	}
	return w.next.BulkUpdate(ctx, records)
}

// BulkDelete flags soft-deletable records and physically deletes every record.
func BulkDelete[T any](ctx context.Context, w *BulkWriter, records []T) error {
	if w == nil || w.next == nil {
		return errBulkNotConfigured
	}
	for i := range records {
		w.stamper.Deleted(element(&records[i]))
	}
	return w.next.BulkDelete(ctx, records)
}

// BulkInsertAsync is the non-blocking form of BulkInsert.
func BulkInsertAsync[T any](ctx context.Context, w *BulkWriter, records []T) <-chan error {
	return Async(ctx, func(ctx context.Context) error { return BulkInsert(ctx, w, records) })
}

// BulkUpdateAsync is the non-blocking form of BulkUpdate.
func BulkUpdateAsync[T any](ctx context.Context, w *BulkWriter, records []T) <-chan error {
	return Async(ctx, func(ctx context.Context) error { return BulkUpdate(ctx, w, records) })
}

// BulkDeleteAsync is the non-blocking form of BulkDelete.
func BulkDeleteAsync[T any](ctx context.Context, w *BulkWriter, records []T) <-chan error {
	return Async(ctx, func(ctx context.Context) error { return BulkDelete(ctx, w, records) })
}

// element returns the stampable view of a slice member: the member itself when it
// already carries a capability (pointer elements), otherwise its address.
func element[T any](p *T) any {
	if v := any(*p); audit.Capable(v) {
		return v
	}
	return p
}
