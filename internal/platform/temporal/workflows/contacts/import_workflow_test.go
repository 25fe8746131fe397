package contacts

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	contactsmemory "github.com/dohungiy/ManageContacts/internal/domains/contacts/adapters/memory"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application"
	contacttypes "github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	"github.com/dohungiy/ManageContacts/internal/platform/persistence"
	contactactivities "github.com/dohungiy/ManageContacts/internal/platform/temporal/activities/contacts"
	"github.com/dohungiy/ManageContacts/internal/shared/pagination"
)

type importWorkflowSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env   *testsuite.TestWorkflowEnvironment
	store *contactsmemory.Store
	svc   *application.Service
}

func TestImportWorkflowSuite(t *testing.T) {
	suite.Run(t, new(importWorkflowSuite))
}

func (s *importWorkflowSuite) SetupTest() {
	s.store = contactsmemory.NewStore()
	s.svc = application.NewService(s.store,
		persistence.NewAuditInterceptor(s.store, nil),
		persistence.NewBulkWriter(s.store, nil),
	)
	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterWorkflowWithOptions(ContactImportWorkflow, workflow.RegisterOptions{Name: ContactImportWorkflowName})
	s.env.RegisterActivityWithOptions(
		contactactivities.NewActivities(s.svc).ImportContacts,
		activity.RegisterOptions{Name: contactactivities.ImportContactsActivityName},
	)
}

func (s *importWorkflowSuite) TearDownTest() {
	s.env.AssertExpectations(s.T())
}

func (s *importWorkflowSuite) TestImportsBatchAsActor() {
	actor := uuid.New()
	s.env.ExecuteWorkflow(ContactImportWorkflowName, ContactImportWorkflowInput{
		Command: contacttypes.ImportContactsInput{Contacts: []contacttypes.ContactInput{
			{FirstName: "Ann", LastName: "Lee"},
			{FirstName: "ann", LastName: "Ray"},
			{FirstName: "Bob", LastName: "Moss"},
		}},
		ActorID: &actor,
		TraceID: "trace-1",
	})

	require.True(s.T(), s.env.IsWorkflowCompleted())
	require.NoError(s.T(), s.env.GetWorkflowError())
	var result contacttypes.ImportResult
	require.NoError(s.T(), s.env.GetWorkflowResult(&result))
	assert.Len(s.T(), result.Imported, 2)
	assert.Equal(s.T(), 1, result.Skipped)

	page, _, err := s.store.ListContacts(context.Background(), ports.ContactQuery{Page: pagination.Request{PageIndex: 1, PageSize: 10}})
	require.NoError(s.T(), err)
	require.Len(s.T(), page, 2)
	for _, c := range page {
		require.NotNil(s.T(), c.CreatorID)
		assert.Equal(s.T(), actor, *c.CreatorID)
	}
}

func (s *importWorkflowSuite) TestInvalidBatchIsNotRetried() {
	attempts := 0
	s.env.SetOnActivityStartedListener(func(*activity.Info, context.Context, converter.EncodedValues) { attempts++ })

	s.env.ExecuteWorkflow(ContactImportWorkflowName, ContactImportWorkflowInput{
		Command: contacttypes.ImportContactsInput{Contacts: []contacttypes.ContactInput{
			{FirstName: "Ann"},
			{NickName: "nameless"},
		}},
	})

	require.True(s.T(), s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	require.Error(s.T(), err)
	var appErr *temporal.ApplicationError
	require.True(s.T(), errors.As(err, &appErr))
	assert.Equal(s.T(), contactactivities.ErrorTypeInvalidInput, appErr.Type())
	assert.Equal(s.T(), 1, attempts)
}
