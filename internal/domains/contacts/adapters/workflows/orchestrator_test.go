package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/temporal"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application"
	contacttypes "github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	contactactivities "github.com/dohungiy/ManageContacts/internal/platform/temporal/activities/contacts"
)

type importOnly struct {
	ports.Service
	got contacttypes.ImportContactsInput
}

func (s *importOnly) ImportContacts(_ context.Context, input contacttypes.ImportContactsInput) (*contacttypes.ImportResult, error) {
	s.got = input
	return &contacttypes.ImportResult{Skipped: 1}, nil
}

func TestInlineContactWorkflows_Delegates(t *testing.T) {
	svc := &importOnly{}
	input := contacttypes.ImportContactsInput{Contacts: []contacttypes.ContactInput{{FirstName: "Ann"}}}

	result, err := NewInlineContactWorkflows(svc).ImportContacts(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, input, svc.got)
}

func TestInlineContactWorkflows_NotConfigured(t *testing.T) {
	_, err := NewInlineContactWorkflows(nil).ImportContacts(context.Background(), contacttypes.ImportContactsInput{})
	assert.Error(t, err)
}

func TestUnwrapApplicationError(t *testing.T) {
	tests := []struct {
		kind string
		want error
	}{
		{contactactivities.ErrorTypeInvalidInput, application.ErrInvalidInput},
		{contactactivities.ErrorTypeConflict, application.ErrConflict},
		{contactactivities.ErrorTypeNotFound, ports.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			err := temporal.NewNonRetryableApplicationError("boom", tc.kind, nil)
			assert.ErrorIs(t, unwrapApplicationError(err), tc.want)
		})
	}

	plain := errors.New("timeout")
	assert.Same(t, plain, unwrapApplicationError(plain))
}

func TestBuildImportWorkflowID(t *testing.T) {
	keyed := contacttypes.ImportContactsInput{IdempotencyKey: "batch-42"}
	first := buildImportWorkflowID(keyed, "trace-a")
	assert.Equal(t, first, buildImportWorkflowID(keyed, "trace-b"))
	assert.Contains(t, first, "contact-import-idem-")

	anon := contacttypes.ImportContactsInput{}
	assert.NotEqual(t, buildImportWorkflowID(anon, "t"), buildImportWorkflowID(anon, "t"))
}

func TestImportStartOptions(t *testing.T) {
	keyed := importStartOptions(contacttypes.ImportContactsInput{IdempotencyKey: "batch-42"}, "wf-1", "Q")
	assert.Equal(t, "wf-1", keyed.ID)
	assert.Equal(t, "Q", keyed.TaskQueue)
	assert.True(t, keyed.WorkflowExecutionErrorWhenAlreadyStarted)
	assert.Equal(t, enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY, keyed.WorkflowIDReusePolicy)

	anon := importStartOptions(contacttypes.ImportContactsInput{}, "wf-2", "Q")
	assert.False(t, anon.WorkflowExecutionErrorWhenAlreadyStarted)
	assert.Equal(t, enums.WORKFLOW_ID_REUSE_POLICY_UNSPECIFIED, anon.WorkflowIDReusePolicy)
}

func TestTemporalImportJoinsRecordedRun(t *testing.T) {
	input := contacttypes.ImportContactsInput{IdempotencyKey: "batch-42"}
	workflowID := buildImportWorkflowID(input, "")
	recorded := contacttypes.ImportResult{Imported: []uuid.UUID{uuid.New()}}

	run := &mocks.WorkflowRun{}
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*contacttypes.ImportResult) = recorded
	}).Return(nil)

	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(opts client.StartWorkflowOptions) bool {
		return opts.ID == workflowID && opts.WorkflowExecutionErrorWhenAlreadyStarted
	}), mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1"))
	temporalClient.On("GetWorkflow", mock.Anything, workflowID, "run-1").Return(run)

	result, err := NewTemporalContactWorkflows(temporalClient).ImportContacts(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, recorded.Imported, result.Imported)
	temporalClient.AssertExpectations(t)
	run.AssertExpectations(t)
}

func TestTemporalImportWithoutKeySurfacesDuplicate(t *testing.T) {
	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1"))

	_, err := NewTemporalContactWorkflows(temporalClient).ImportContacts(context.Background(), contacttypes.ImportContactsInput{})
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	require.ErrorAs(t, err, &alreadyStarted)
	temporalClient.AssertNotCalled(t, "GetWorkflow", mock.Anything, mock.Anything, mock.Anything)
}
