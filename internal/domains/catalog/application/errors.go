package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

// ErrInvalidInput signals the request violated a catalog invariant.
var ErrInvalidInput = fmt.Errorf("invalid catalog input: %w", apierrors.ErrValidation)

var errMissingID = fmt.Errorf("%w: id is required", ErrInvalidInput)

func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyCode) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrInvalidTableNumber) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, apierrors.ErrValidation) {
		return err
	}
	if errors.Is(err, ports.ErrNotFound) ||
		errors.Is(err, ports.ErrDuplicate) ||
		errors.Is(err, ports.ErrInUse) {
		return err
	}
	return apierrors.NewPersistenceError(op, err)
}
