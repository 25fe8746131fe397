package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/adapters/http/mapper"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	apierrors "github.com/dohungiy/ManageContacts/internal/shared/errors"
)

// IdempotencyKeyHeader deduplicates retried imports when Temporal orchestrates them.
const IdempotencyKeyHeader = "Idempotency-Key"

// ContactAPI wires HTTP transport with the contacts service and workflows.
type ContactAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	responder *apierrors.Responder
}

// NewContactAPI creates a ContactAPI. workflows may be nil, in which case imports run on
// the service directly.
func NewContactAPI(service ports.Service, workflows ports.WorkflowOrchestrator, responder *apierrors.Responder) *ContactAPI {
	if responder == nil {
		responder = NewResponder()
	}
	return &ContactAPI{service: service, workflows: workflows, responder: responder}
}

// Get /v1/contacts
func (api *ContactAPI) ListContacts(c *gin.Context) {
	pageIndex, ok := api.queryInt(c, "pageIndex")
	if !ok {
		return
	}
	pageSize, ok := api.queryInt(c, "pageSize")
	if !ok {
		return
	}
	page, err := api.service.List(c.Request.Context(), types.ListContactsInput{
		Search:    c.Query("search"),
		Sort:      c.Query("sort"),
		PageIndex: pageIndex,
		PageSize:  pageSize,
	})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromContactPage(page))
}

// Get /v1/contacts/:contactId
// includeDeleted=true also resolves soft-deleted contacts.
func (api *ContactAPI) GetContact(c *gin.Context) {
	id, ok := api.parseID(c, "contactId")
	if !ok {
		return
	}
	get := api.service.Get
	if includeDeleted, _ := strconv.ParseBool(c.Query("includeDeleted")); includeDeleted {
		get = api.service.GetUnscoped
	}
	contact, err := get(c.Request.Context(), types.ContactIdentifier{ID: id})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromContact(contact))
}

// Post /v1/contacts
func (api *ContactAPI) CreateContact(c *gin.Context) {
	var payload mapper.ContactRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	input, err := mapper.ToContactInput(payload)
	if err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	contact, err := api.service.Create(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Header("Location", "/v1/contacts/"+contact.ID.String())
	c.JSON(http.StatusCreated, mapper.FromContact(contact))
}

// Put /v1/contacts/:contactId
func (api *ContactAPI) UpdateContact(c *gin.Context) {
	id, ok := api.parseID(c, "contactId")
	if !ok {
		return
	}
	var payload mapper.ContactRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	input, err := mapper.ToContactInput(payload)
	if err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	contact, err := api.service.Update(c.Request.Context(), types.UpdateContactInput{ID: id, ContactInput: input})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromContact(contact))
}

// Delete /v1/contacts/:contactId
func (api *ContactAPI) DeleteContact(c *gin.Context) {
	id, ok := api.parseID(c, "contactId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), types.ContactIdentifier{ID: id}); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/contacts/import
func (api *ContactAPI) ImportContacts(c *gin.Context) {
	var payload mapper.ImportRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	input, err := mapper.ToImportInput(payload)
	if err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	input.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)
	result, err := api.importContacts(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromImportResult(result))
}

func (api *ContactAPI) importContacts(ctx context.Context, input types.ImportContactsInput) (*types.ImportResult, error) {
	if api.workflows != nil {
		return api.workflows.ImportContacts(ctx, input)
	}
	return api.service.ImportContacts(ctx, input)
}

func (api *ContactAPI) parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		api.responder.BadRequest(c, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (api *ContactAPI) queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		api.responder.BadRequest(c, name+" must be an integer")
		return 0, false
	}
	return v, true
}
