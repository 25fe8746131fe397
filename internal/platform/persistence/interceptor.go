package persistence

import (
	"context"
	"errors"

	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

// AuditInterceptor stamps audit fields on pending changes before delegating to the
// wrapped commit primitive.
type AuditInterceptor struct {
	next    Committer
	stamper *audit.Stamper
}

// NewAuditInterceptor decorates next. A nil stamper uses UTC wall-clock time.
func NewAuditInterceptor(next Committer, stamper *audit.Stamper) *AuditInterceptor {
	if stamper == nil {
		stamper = audit.NewStamper()
	}
	return &AuditInterceptor{next: next, stamper: stamper}
}

// Commit applies the audit rules to entries in place and forwards them.
func (i *AuditInterceptor) Commit(ctx context.Context, entries []Entry) error {
	if i == nil || i.next == nil {
		return errors.New("audit interceptor not configured")
	}
	i.Stamp(ctx, entries)
	return i.next.Commit(ctx, entries)
}

// Stamp runs the audit pass without committing. Running it twice only refreshes timestamps.
//
// Inserts get creation stamps, updates get modification stamps. A delete of a
// soft-deletable entity is flagged and reclassified as an update, so the row is kept,
// and then receives the modification stamp like any other update.
func (i *AuditInterceptor) Stamp(ctx context.Context, entries []Entry) {
	for idx := range entries {
		entry := &entries[idx]
		switch entry.Op {
		case OpInsert:
			i.stamper.Created(ctx, entry.Entity)
		case OpUpdate:
			i.stamper.Modified(ctx, entry.Entity)
		case OpDelete:
			if i.stamper.Deleted(entry.Entity) {
				entry.Op = OpUpdate
				i.stamper.Modified(ctx, entry.Entity)
			}
		}
	}
}

var _ Committer = (*AuditInterceptor)(nil)
