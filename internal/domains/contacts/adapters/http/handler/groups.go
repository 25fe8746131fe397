package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/adapters/http/mapper"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application/types"
)

// Get /v1/groups
func (api *ContactAPI) ListGroups(c *gin.Context) {
	groups, err := api.service.ListGroups(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromGroupList(groups))
}

// Post /v1/groups
func (api *ContactAPI) CreateGroup(c *gin.Context) {
	var payload mapper.GroupRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	group, err := api.service.CreateGroup(c.Request.Context(), mapper.ToGroupInput(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromGroup(group))
}

// Delete /v1/groups/:groupId
// The group is soft deleted; its contacts keep their membership until the group is purged.
func (api *ContactAPI) DeleteGroup(c *gin.Context) {
	id, ok := api.parseID(c, "groupId")
	if !ok {
		return
	}
	if err := api.service.DeleteGroup(c.Request.Context(), types.GroupIdentifier{ID: id}); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/groups/:groupId/contacts
func (api *ContactAPI) ListGroupContacts(c *gin.Context) {
	id, ok := api.parseID(c, "groupId")
	if !ok {
		return
	}
	contacts, err := api.service.ListByGroup(c.Request.Context(), types.GroupIdentifier{ID: id})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromContactList(contacts))
}

// Put /v1/groups/:groupId/contacts
func (api *ContactAPI) AssignGroup(c *gin.Context) {
	id, ok := api.parseID(c, "groupId")
	if !ok {
		return
	}
	var payload mapper.AssignRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	contacts, err := api.service.AssignGroup(c.Request.Context(), mapper.ToAssignInput(id, payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromContactList(contacts))
}
