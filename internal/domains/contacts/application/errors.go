package application

import (
	"errors"
	"fmt"

	"github.com/dohungiy/ManageContacts/internal/domains/contacts/domain"
	"github.com/dohungiy/ManageContacts/internal/platform/persistence"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid contact input")
	// ErrConflict signals an active record already holds a unique value.
	ErrConflict = errors.New("contact conflict")
	// ErrNotImplemented is returned by use cases the service does not support.
	ErrNotImplemented = errors.New("operation not implemented")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyGroupName) ||
		errors.Is(err, domain.ErrEmptyPhone) ||
		errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrEmptyCompany) ||
		errors.Is(err, domain.ErrInvalidBirthday) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, persistence.ErrDuplicateKey) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	if errors.Is(err, persistence.ErrForeignKey) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
