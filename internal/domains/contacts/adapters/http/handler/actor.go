package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dohungiy/ManageContacts/internal/shared/audit"
	apierrors "github.com/dohungiy/ManageContacts/internal/shared/errors"
)

// ActorHeader carries the id of the user performing the request.
const ActorHeader = "X-User-Id"

// ActorMiddleware copies the acting user from ActorHeader into the request context so the
// audit stamps can record it. The header is optional; a malformed value is rejected.
// This is propagation only, not authentication.
func ActorMiddleware(responder *apierrors.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(ActorHeader))
		if raw == "" {
			c.Next()
			return
		}
		actor, err := uuid.Parse(raw)
		if err != nil {
			responder.BadRequest(c, ActorHeader+" must be a UUID")
			return
		}
		c.Request = c.Request.WithContext(audit.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}
