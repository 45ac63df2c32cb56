package posserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	catalogports "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/go-gin-pos-server/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

func respondWith(t *testing.T, responder *apierrors.ChainedResponder, err error) apierrors.ProblemDetail {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/anything", nil)
	responder.RespondError(c, err)

	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, rec.Code, problem.Status)
	require.Equal(t, "/api/anything", problem.Instance)
	return problem
}

func TestResponder_PersistenceStatusDependsOnRouteGroup(t *testing.T) {
	err := apierrors.NewPersistenceError("refresh catalog", errors.New("dial tcp: refused"))

	session := respondWith(t, sessionResponder, err)
	require.Equal(t, http.StatusBadGateway, session.Status)
	require.Equal(t, "refresh catalog failed: the backend could not complete the request", session.Detail)

	backend := respondWith(t, backendResponder, err)
	require.Equal(t, http.StatusInternalServerError, backend.Status)
	require.Equal(t, apierrors.TypeInternal, backend.Type)
}

func TestResponder_BackendMessageWins(t *testing.T) {
	err := &apierrors.PersistenceError{
		Op:      "create item",
		Message: "code B1 is taken",
		Err:     fmt.Errorf("backend responded 409: %w", catalogports.ErrDuplicate),
	}
	problem := respondWith(t, sessionResponder, err)
	require.Equal(t, http.StatusConflict, problem.Status)
	require.Equal(t, "code B1 is taken", problem.Detail)

	problem = respondWith(t, sessionResponder, apierrors.NewPersistenceError("delete item", catalogports.ErrNotFound))
	require.Equal(t, http.StatusNotFound, problem.Status)
	require.Equal(t, catalogports.ErrNotFound.Error(), problem.Detail)
}

func TestResponder_MapsEngineErrors(t *testing.T) {
	require.Equal(t, http.StatusConflict, respondWith(t, sessionResponder, ordersapp.ErrCommitInProgress).Status)
	require.Equal(t, http.StatusBadRequest, respondWith(t, sessionResponder, ordersapp.ErrInvalidInput).Status)
	require.Equal(t, http.StatusInternalServerError, respondWith(t, sessionResponder, errors.New("boom")).Status)
}
