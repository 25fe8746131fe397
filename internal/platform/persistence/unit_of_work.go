package persistence

import (
	"context"
	"errors"
	"sync"
)

// ErrNilEntity is returned when a nil entity is queued.
var ErrNilEntity = errors.New("cannot track nil entity")

// UnitOfWork batches pending changes and commits them together.
// A unit of work is scoped to a single request.
type UnitOfWork struct {
	mu        sync.Mutex
	committer Committer
	entries   []Entry
}

// NewUnitOfWork binds a unit of work to the commit primitive, usually an AuditInterceptor.
func NewUnitOfWork(committer Committer) *UnitOfWork {
	return &UnitOfWork{committer: committer}
}

// Insert queues an entity for insertion.
func (u *UnitOfWork) Insert(entities ...any) error { return u.track(OpInsert, entities) }

// Update queues an entity for update.
func (u *UnitOfWork) Update(entities ...any) error { return u.track(OpUpdate, entities) }

// Delete queues an entity for deletion. Soft-deletable entities are retained on commit.
func (u *UnitOfWork) Delete(entities ...any) error { return u.track(OpDelete, entities) }

// Attach tracks an entity without scheduling a write.
func (u *UnitOfWork) Attach(entities ...any) error { return u.track(OpUnchanged, entities) }

func (u *UnitOfWork) track(op Operation, entities []any) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, entity := range entities {
		if entity == nil {
			return ErrNilEntity
		}
		if i := u.indexOf(entity); i >= 0 {
			u.entries[i].Op = merge(u.entries[i].Op, op)
			continue
		}
		u.entries = append(u.entries, Entry{Entity: entity, Op: op})
	}
	return nil
}

// merge combines two classifications of the same entity within one unit of work.
func merge(current, next Operation) Operation {
	switch {
	case current == OpInsert && next == OpUpdate:
		return OpInsert
	case next == OpUnchanged:
		return current
	default:
		return next
	}
}

func (u *UnitOfWork) indexOf(entity any) int {
	for i, e := range u.entries {
		if e.Entity == entity {
			return i
		}
	}
	return -1
}

// Entries returns a snapshot of the tracked changes.
func (u *UnitOfWork) Entries() []Entry {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Entry(nil), u.entries...)
}

// Pending reports the number of tracked entries with a write scheduled.
func (u *UnitOfWork) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, e := range u.entries {
		if e.Op != OpUnchanged {
			n++
		}
	}
	return n
}

// Commit hands every tracked entry to the committer. On success the unit of work is
// cleared; on failure the entries stay tracked and the error is returned unchanged.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.committer == nil {
		return errors.New("unit of work has no committer")
	}
	if len(u.entries) == 0 {
		return nil
	}
	if err := u.committer.Commit(ctx, u.entries); err != nil {
		return err
	}
	u.entries = nil
	return nil
}

// CommitAsync behaves like Commit without blocking the caller.
func (u *UnitOfWork) CommitAsync(ctx context.Context) <-chan error {
	return Async(ctx, u.Commit)
}
