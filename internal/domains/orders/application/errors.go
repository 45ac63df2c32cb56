package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

// ErrInvalidInput signals the request referenced something the catalog does not know.
var ErrInvalidInput = fmt.Errorf("invalid order input: %w", apierrors.ErrValidation)

// ErrCommitInProgress is returned when a checkout or clear for the same table
// has not finished yet.
var ErrCommitInProgress = errors.New("a commit for this table is already in progress")

var (
	errMissingTableID = fmt.Errorf("%w: table id is required", ErrInvalidInput)
	errMissingItemID  = fmt.Errorf("%w: item id is required", ErrInvalidInput)
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnknownItem) ||
		errors.Is(err, domain.ErrUnknownTable) ||
		errors.Is(err, domain.ErrQuantityOverflow) ||
		errors.Is(err, domain.ErrEmptyOrder) ||
		errors.Is(err, domain.ErrInvalidLine) ||
		errors.Is(err, domain.ErrTotalMismatch) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func mapGatewayError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apierrors.ErrValidation) {
		return err
	}
	return apierrors.NewPersistenceError(op, err)
}
