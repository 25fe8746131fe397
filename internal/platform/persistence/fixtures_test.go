package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

type auditedRow struct {
	ID   int
	Name string
	audit.CreationAudit
	audit.ModificationAudit
	audit.DeletionAudit
}

type createdOnlyRow struct {
	ID int
	audit.CreationAudit
}

type plainRow struct {
	ID   int
	Name string
}

type recordingCommitter struct {
	mu      sync.Mutex
	calls   [][]Entry
	err     error
	blocked chan struct{}
}

func (r *recordingCommitter) Commit(ctx context.Context, entries []Entry) error {
	if r.blocked != nil {
		select {
		case <-r.blocked:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]Entry(nil), entries...))
	return r.err
}

func (r *recordingCommitter) last() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

type bulkCall struct {
	op      Operation
	records any
}

type recordingBulk struct {
	calls []bulkCall
	err   error
}

func (r *recordingBulk) BulkInsert(ctx context.Context, records any) error {
	return r.record(ctx, OpInsert, records)
}

func (r *recordingBulk) BulkUpdate(ctx context.Context, records any) error {
	return r.record(ctx, OpUpdate, records)
}

func (r *recordingBulk) BulkDelete(ctx context.Context, records any) error {
	return r.record(ctx, OpDelete, records)
}

// BulkTransaction drops the calls made by a failed fn, like a rollback.
func (r *recordingBulk) BulkTransaction(ctx context.Context, fn func(tx BulkPrimitive) error) error {
	mark := len(r.calls)
	if err := fn(r); err != nil {
		r.calls = r.calls[:mark]
		return err
	}
	return nil
}

func (r *recordingBulk) record(ctx context.Context, op Operation, records any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.calls = append(r.calls, bulkCall{op: op, records: records})
	return r.err
}

// tickingClock advances a second per read.
func tickingClock(start time.Time) audit.Clock {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}
