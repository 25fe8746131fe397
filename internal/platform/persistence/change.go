// Package persistence provides the unit of work used by the application services,
// the audit interceptor wrapped around every commit, and the GORM-backed commit and
// bulk primitives.
package persistence

import (
	"context"
	"fmt"
)

// Operation classifies a pending change.
type Operation int

const (
	OpUnchanged Operation = iota
	OpInsert
	OpUpdate
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpUnchanged:
		return "unchanged"
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// Entry is a tracked entity and its pending operation. Entity must be a pointer.
type Entry struct {
	Entity any
	Op     Operation
}

// Committer persists a batch of pending changes atomically, in order.
type Committer interface {
	Commit(ctx context.Context, entries []Entry) error
}

// CommitFunc adapts a function into a Committer.
type CommitFunc func(ctx context.Context, entries []Entry) error

// Commit calls f.
func (f CommitFunc) Commit(ctx context.Context, entries []Entry) error {
	return f(ctx, entries)
}

// Async runs fn in its own goroutine and delivers its result on the returned channel.
func Async(ctx context.Context, fn func(context.Context) error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- fn(ctx)
	}()
	return done
}
