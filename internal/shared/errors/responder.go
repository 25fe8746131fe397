package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper translates an application error into a problem. ok is false when the mapper
// does not recognize err.
type ErrorMapper func(err error) (problem ProblemDetail, ok bool)

// Responder writes Problem Details responses. Mappers run in order; the first match wins.
// Unmatched errors become 500s whose cause is logged but not echoed to the client.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
	logger  *slog.Logger
}

// NewResponder creates a responder. baseURI is prepended to relative problem types.
func NewResponder(baseURI string, logger *slog.Logger, mappers ...ErrorMapper) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{baseURI: baseURI, mappers: mappers, logger: logger}
}

// AddMapper appends an error mapper to the chain.
func (r *Responder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// Respond sends problem with the problem+json content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError maps err and responds.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.logger.ErrorContext(c.Request.Context(), "unhandled request error",
		slog.String("path", c.FullPath()),
		slog.String("error", err.Error()),
	)
	r.Respond(c, ErrInternal)
}

// BadRequest sends a 400 problem response.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

// ValidationFailed sends a 400 problem response with field errors.
func (r *Responder) ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	r.Respond(c, NewValidationProblem(fieldErrors))
}

// HTTPStatusFromError extracts the HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem.Status
	}
	return http.StatusInternalServerError
}
