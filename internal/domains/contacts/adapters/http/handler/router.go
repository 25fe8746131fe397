package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route describes one endpoint of the contacts API.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes lists the contacts endpoints relative to the /v1 group.
func (api *ContactAPI) Routes() []Route {
	return []Route{
		{"ListContacts", http.MethodGet, "/contacts", api.ListContacts},
		{"CreateContact", http.MethodPost, "/contacts", api.CreateContact},
		{"ImportContacts", http.MethodPost, "/contacts/import", api.ImportContacts},
		{"GetContact", http.MethodGet, "/contacts/:contactId", api.GetContact},
		{"UpdateContact", http.MethodPut, "/contacts/:contactId", api.UpdateContact},
		{"DeleteContact", http.MethodDelete, "/contacts/:contactId", api.DeleteContact},
		{"ListGroups", http.MethodGet, "/groups", api.ListGroups},
		{"CreateGroup", http.MethodPost, "/groups", api.CreateGroup},
		{"DeleteGroup", http.MethodDelete, "/groups/:groupId", api.DeleteGroup},
		{"ListGroupContacts", http.MethodGet, "/groups/:groupId/contacts", api.ListGroupContacts},
		{"AssignGroup", http.MethodPut, "/groups/:groupId/contacts", api.AssignGroup},
	}
}

// NewRouter builds a gin engine exposing the contacts API under /v1. Extra middleware runs
// before the actor middleware.
func NewRouter(api *ContactAPI, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	router.Use(ActorMiddleware(api.responder))
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	v1 := router.Group("/v1")
	for _, route := range api.Routes() {
		v1.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}
