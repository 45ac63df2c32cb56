package posserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogports "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/go-gin-pos-server/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

// Session routes report backend failures as 502. The backend routes are the
// backend, so the same failures are theirs and answer 500.
var (
	sessionResponder = newResponder(http.StatusBadGateway)
	backendResponder = newResponder(http.StatusInternalServerError)
)

func newResponder(persistenceStatus int) *apierrors.ChainedResponder {
	return apierrors.NewChainedResponder("",
		mapCommitInProgress,
		mapSentinel(catalogports.ErrNotFound, apierrors.ErrNotFound),
		mapSentinel(orderports.ErrTableNotFound, apierrors.ErrNotFound),
		mapSentinel(catalogports.ErrDuplicate, apierrors.ErrConflict),
		mapSentinel(catalogports.ErrInUse, apierrors.ErrConflict),
		mapValidation,
		mapPersistence(persistenceStatus),
	)
}

// respondBadRequest reports a payload the handler could not decode.
func respondBadRequest(c *gin.Context, err error) {
	apierrors.DefaultResponder.BadRequest(c, err.Error())
}

func mapCommitInProgress(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, ordersapp.ErrCommitInProgress) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ErrConflict.WithDetail(err.Error()), true
}

// mapSentinel renders errors matching sentinel with a backend-supplied message
// when there is one, otherwise with the sentinel's own text.
func mapSentinel(sentinel error, problem apierrors.ProblemDetail) apierrors.ErrorMapper {
	return func(err error) (apierrors.ProblemDetail, bool) {
		if !errors.Is(err, sentinel) {
			return apierrors.ProblemDetail{}, false
		}
		var pe *apierrors.PersistenceError
		if errors.As(err, &pe) && strings.TrimSpace(pe.Message) != "" {
			return problem.WithDetail(pe.Message), true
		}
		return problem.WithDetail(sentinel.Error()), true
	}
}

func mapValidation(err error) (apierrors.ProblemDetail, bool) {
	if !apierrors.IsValidation(err) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ErrValidationProblem.WithDetail(apierrors.Message(err)), true
}

func mapPersistence(status int) apierrors.ErrorMapper {
	return func(err error) (apierrors.ProblemDetail, bool) {
		if !apierrors.IsPersistence(err) {
			return apierrors.ProblemDetail{}, false
		}
		problem := apierrors.ErrBadGateway
		if status == http.StatusInternalServerError {
			problem = apierrors.ErrInternal
		}
		return problem.WithDetail(apierrors.Message(err)), true
	}
}
