package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dohungiy/ManageContacts/internal/shared/audit"
)

func TestBulkInsertStampsPointerAndValueElements(t *testing.T) {
	primitive := &recordingBulk{}
	writer := NewBulkWriter(primitive, audit.NewStamper(audit.WithClock(tickingClock(epoch))))

	pointers := []*auditedRow{{ID: 1}, {ID: 2}}
	require.NoError(t, BulkInsert(context.Background(), writer, pointers))
	values := []auditedRow{{ID: 3}, {ID: 4}}
	require.NoError(t, BulkInsert(context.Background(), writer, values))

	for _, r := range pointers {
		assert.False(t, r.CreatedTime.IsZero())
	}
	for _, r := range values {
		assert.False(t, r.CreatedTime.IsZero())
	}
	require.Len(t, primitive.calls, 2)
	assert.Equal(t, OpInsert, primitive.calls[0].op)
}

func TestBulkUpdateStampsModification(t *testing.T) {
	primitive := &recordingBulk{}
	writer := NewBulkWriter(primitive, nil)
	rows := []*auditedRow{{ID: 1}, {ID: 2}}

	require.NoError(t, BulkUpdate(context.Background(), writer, rows))

	for _, r := range rows {
		assert.NotNil(t, r.ModifiedTime)
		assert.True(t, r.CreatedTime.IsZero())
	}
	assert.Equal(t, OpUpdate, primitive.calls[0].op)
}

func TestBulkDeleteFlagsButStillDeletesPhysically(t *testing.T) {
	primitive := &recordingBulk{}
	writer := NewBulkWriter(primitive, nil)
	rows := []*auditedRow{{ID: 1}, {ID: 2}}

	require.NoError(t, BulkDelete(context.Background(), writer, rows))

	for _, r := range rows {
		assert.True(t, r.Deleted)
		assert.Nil(t, r.ModifiedTime)
	}
	require.Len(t, primitive.calls, 1)
	assert.Equal(t, OpDelete, primitive.calls[0].op, "bulk delete is not rerouted to an update")
}

func TestBulkPassesPlainEntitiesThrough(t *testing.T) {
	primitive := &recordingBulk{}
	writer := NewBulkWriter(primitive, nil)
	rows := []plainRow{{ID: 1, Name: "a"}}

	require.NoError(t, BulkInsert(context.Background(), writer, rows))
	require.NoError(t, BulkDelete(context.Background(), writer, rows))

	assert.Equal(t, []plainRow{{ID: 1, Name: "a"}}, rows)
	assert.Len(t, primitive.calls, 2)
}

func TestBulkPropagatesPrimitiveFailure(t *testing.T) {
	boom := errors.New("copy failed")
	writer := NewBulkWriter(&recordingBulk{err: boom}, nil)

	assert.Same(t, boom, BulkUpdate(context.Background(), writer, []*auditedRow{{ID: 1}}))
	assert.Same(t, boom, <-BulkInsertAsync(context.Background(), writer, []*auditedRow{{ID: 2}}))
}

func TestBulkAsyncVariants(t *testing.T) {
	primitive := &recordingBulk{}
	writer := NewBulkWriter(primitive, nil)
	rows := []*auditedRow{{ID: 1}}

	require.NoError(t, <-BulkInsertAsync(context.Background(), writer, rows))
	require.NoError(t, <-BulkUpdateAsync(context.Background(), writer, rows))
	require.NoError(t, <-BulkDeleteAsync(context.Background(), writer, rows))

	assert.False(t, rows[0].CreatedTime.IsZero())
	assert.NotNil(t, rows[0].ModifiedTime)
	assert.True(t, rows[0].Deleted)
	assert.Len(t, primitive.calls, 3)
}

func TestBulkAsyncCancelled(t *testing.T) {
	writer := NewBulkWriter(&recordingBulk{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, <-BulkDeleteAsync(ctx, writer, []*auditedRow{{ID: 1}}), context.Canceled)
}

func TestBulkWriterRequiresPrimitive(t *testing.T) {
	assert.Error(t, BulkInsert(context.Background(), nil, []plainRow{{}}))
	assert.Error(t, BulkInsert(context.Background(), NewBulkWriter(nil, nil), []plainRow{{}}))
}

func TestBulkTransactionStampsAndRollsBack(t *testing.T) {
	primitive := &recordingBulk{}
	writer := NewBulkWriter(primitive, nil)
	rows := []*auditedRow{{ID: 1}}

	require.NoError(t, writer.Transaction(context.Background(), func(tx *BulkWriter) error {
		return BulkInsert(context.Background(), tx, rows)
	}))
	assert.False(t, rows[0].CreatedTime.IsZero())
	require.Len(t, primitive.calls, 1)

	boom := errors.New("second table failed")
	err := writer.Transaction(context.Background(), func(tx *BulkWriter) error {
		if err := BulkUpdate(context.Background(), tx, rows); err != nil {
			return err
		}
		return boom
	})
	assert.Same(t, boom, err)
	assert.Len(t, primitive.calls, 1)

	var nilWriter *BulkWriter
	assert.Error(t, nilWriter.Transaction(context.Background(), func(*BulkWriter) error { return nil }))
}
