package persistence

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBatchSize bounds the rows sent per statement by GormBulk.
const DefaultBatchSize = 500

var errNoDB = errors.New("gorm persistence not configured")

var (
	// ErrDuplicateKey reports a write that collided with an existing primary or unique key.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrForeignKey reports a write referencing a missing parent row.
	ErrForeignKey = errors.New("foreign key violation")
)

// constraintError maps driver constraint failures onto the package sentinels. It relies on
// gorm.Config.TranslateError being enabled.
func constraintError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	default:
		return err
	}
}

// GormCommitter applies unit-of-work entries inside one database transaction.
// Associations are never cascaded; every row is written by its own entry.
type GormCommitter struct {
	db *gorm.DB
}

// NewGormCommitter wires a committer over db. The caller owns the DB lifecycle.
func NewGormCommitter(db *gorm.DB) *GormCommitter {
	return &GormCommitter{db: db}
}

// Commit writes the entries in order and rolls back on the first failure.
func (c *GormCommitter) Commit(ctx context.Context, entries []Entry) error {
	if c == nil || c.db == nil {
		return errNoDB
	}
	return constraintError(c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if err := apply(tx, entry); err != nil {
				return err
			}
		}
		return nil
	}))
}

func apply(tx *gorm.DB, entry Entry) error {
	session := tx.Omit(clause.Associations)
	switch entry.Op {
	case OpUnchanged:
		return nil
	case OpInsert:
		return session.Create(entry.Entity).Error
	case OpUpdate:
		return session.Save(entry.Entity).Error
	case OpDelete:
		return session.Delete(entry.Entity).Error
	default:
		return fmt.Errorf("unsupported operation %s", entry.Op)
	}
}

// GormBulk implements BulkPrimitive with batched statements.
type GormBulk struct {
	db        *gorm.DB
	batchSize int
}

// NewGormBulk wires the bulk primitive. Non-positive batch sizes use DefaultBatchSize.
func NewGormBulk(db *gorm.DB, batchSize int) *GormBulk {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &GormBulk{db: db, batchSize: batchSize}
}

// BulkInsert inserts records in batches.
func (b *GormBulk) BulkInsert(ctx context.Context, records any) error {
	if b == nil || b.db == nil {
		return errNoDB
	}
	return constraintError(b.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(records, b.batchSize).Error)
}

// BulkUpdate upserts records keyed by primary key, overwriting every column.
func (b *GormBulk) BulkUpdate(ctx context.Context, records any) error {
	if b == nil || b.db == nil {
		return errNoDB
	}
	err := b.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(records, b.batchSize).Error
	return constraintError(err)
}

// BulkDelete physically deletes records by primary key.
func (b *GormBulk) BulkDelete(ctx context.Context, records any) error {
	if b == nil || b.db == nil {
		return errNoDB
	}
	if isEmpty(records) {
		return nil
	}
	return constraintError(b.db.WithContext(ctx).Delete(records).Error)
}

// BulkTransaction binds a GormBulk to one database transaction for the duration of fn.
func (b *GormBulk) BulkTransaction(ctx context.Context, fn func(tx BulkPrimitive) error) error {
	if b == nil || b.db == nil {
		return errNoDB
	}
	return constraintError(b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormBulk{db: tx, batchSize: b.batchSize})
	}))
}

// isEmpty guards Delete, which rejects a statement without primary keys.
func isEmpty(records any) bool {
	v := reflect.Indirect(reflect.ValueOf(records))
	return !v.IsValid() || (v.Kind() == reflect.Slice && v.Len() == 0)
}

var (
	_ Committer     = (*GormCommitter)(nil)
	_ BulkPrimitive = (*GormBulk)(nil)
)
