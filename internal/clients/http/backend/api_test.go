package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientWithResponses_KeepsBasePathAndRunsEditors(t *testing.T) {
	var path, terminal string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		terminal = r.Header.Get("X-Terminal")
		_, _ = io.WriteString(w, `[{"id":"t1","number":4,"status":"idle"}]`)
	}))
	t.Cleanup(srv.Close)

	api, err := NewClientWithResponses(srv.URL+"/pos", WithHTTPClient(srv.Client()),
		WithRequestEditorFn(func(_ context.Context, req *http.Request) error {
			req.Header.Set("X-Terminal", "bar-1")
			return nil
		}))
	require.NoError(t, err)

	resp, err := api.ListTablesWithResponse(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Equal(t, "/pos/api/tables", path)
	require.Equal(t, "bar-1", terminal)
	require.NotNil(t, resp.JSON200)
	require.Equal(t, 4, (*resp.JSON200)[0].Number)
}

func TestNewCommitOrderRequest_SetsIdempotencyKey(t *testing.T) {
	key := "o-9"
	req, err := NewCommitOrderRequest("http://backend.local/", &CommitOrderParams{IdempotencyKey: &key}, OrderRequest{ID: key, TableID: "t1"})
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "http://backend.local/api/orders", req.URL.String())
	require.Equal(t, "o-9", req.Header.Get(IdempotencyKeyHeader))
	require.Equal(t, "application/json", req.Header.Get("Content-Type"))

	req, err = NewCommitOrderRequest("http://backend.local/", nil, OrderRequest{TableID: "t1"})
	require.NoError(t, err)
	require.Empty(t, req.Header.Get(IdempotencyKeyHeader))
}

func TestResourceRequests_RejectBlankIDs(t *testing.T) {
	_, err := NewDeleteItemRequest("http://backend.local/", " ")
	require.Error(t, err)
	_, err = NewClearTableRequest("http://backend.local/", "")
	require.Error(t, err)
}
