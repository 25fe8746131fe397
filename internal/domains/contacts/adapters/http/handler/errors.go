package handler

import (
	"errors"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/application"
	"github.com/dohungiy/ManageContacts/internal/domains/contacts/ports"
	apierrors "github.com/dohungiy/ManageContacts/internal/shared/errors"
)

// MapServiceError translates contacts service errors into problem details.
func MapServiceError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrNotImplemented):
		return apierrors.ErrNotImplemented.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// NewResponder returns a problem responder that understands the contacts error kinds.
func NewResponder(opts ...apierrors.ErrorMapper) *apierrors.Responder {
	r := apierrors.NewResponder("", nil, MapServiceError)
	for _, m := range opts {
		r.AddMapper(m)
	}
	return r
}
