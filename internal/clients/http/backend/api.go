package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// HttpRequestDoer performs HTTP requests.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn is the function signature for the RequestEditor callback function.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// APIClient issues raw requests against the backend routes.
type APIClient struct {
	// The endpoint of the server conforming to the backend routes. Always
	// carries a trailing slash.
	Server string

	// Doer for performing requests, typically a *http.Client.
	Client HttpRequestDoer

	// Editors applied to every request before it is sent.
	RequestEditors []RequestEditorFn
}

// ClientOption allows setting custom parameters during construction.
type ClientOption func(*APIClient) error

// NewAPIClient creates a new APIClient with reasonable defaults.
func NewAPIClient(server string, opts ...ClientOption) (*APIClient, error) {
	client := APIClient{Server: server}
	for _, o := range opts {
		if err := o(&client); err != nil {
			return nil, err
		}
	}
	if !strings.HasSuffix(client.Server, "/") {
		client.Server += "/"
	}
	if client.Client == nil {
		client.Client = &http.Client{}
	}
	return &client, nil
}

// WithHTTPClient allows overriding the default Doer.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *APIClient) error {
		c.Client = doer
		return nil
	}
}

// WithRequestEditorFn allows setting up a callback function, which will be
// called right before sending the request.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *APIClient) error {
		c.RequestEditors = append(c.RequestEditors, fn)
		return nil
	}
}

// CommitOrderParams defines parameters for CommitOrder.
type CommitOrderParams struct {
	IdempotencyKey *string `json:"Idempotency-Key,omitempty"`
}

func (c *APIClient) ListItems(ctx context.Context, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewListItemsRequest(c.Server)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, reqEditors)
}

func (c *APIClient) CreateItem(ctx context.Context, body Item, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewCreateItemRequest(c.Server, body)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, reqEditors)
}

func (c *APIClient) UpdateItem(ctx context.Context, id string, body Item, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewUpdateItemRequest(c.Server, id, body)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, reqEditors)
}

func (c *APIClient) DeleteItem(ctx context.Context, id string, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewDeleteItemRequest(c.Server, id)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, reqEditors)
}

func (c *APIClient) ListTables(ctx context.Context, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewListTablesRequest(c.Server)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, reqEditors)
}

func (c *APIClient) CreateTable(ctx context.Context, body Table, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewCreateTableRequest(c.Server, body)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, reqEditors)
}

func (c *APIClient) DeleteTable(ctx context.Context, id string, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewDeleteTableRequest(c.Server, id)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, reqEditors)
}

func (c *APIClient) CommitOrder(ctx context.Context, params *CommitOrderParams, body OrderRequest, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewCommitOrderRequest(c.Server, params, body)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, reqEditors)
}

func (c *APIClient) ClearTable(ctx context.Context, tableID string, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewClearTableRequest(c.Server, tableID)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, reqEditors)
}

func (c *APIClient) send(ctx context.Context, req *http.Request, additionalEditors []RequestEditorFn) (*http.Response, error) {
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	for _, r := range c.RequestEditors {
		if err := r(ctx, req); err != nil {
			return nil, err
		}
	}
	for _, r := range additionalEditors {
		if err := r(ctx, req); err != nil {
			return nil, err
		}
	}
	return c.Client.Do(req)
}

// NewListItemsRequest generates requests for ListItems.
func NewListItemsRequest(server string) (*http.Request, error) {
	return newRequest(server, http.MethodGet, "/api/items", nil)
}

// NewCreateItemRequest calls the generic CreateItem builder with application/json body.
func NewCreateItemRequest(server string, body Item) (*http.Request, error) {
	return newJSONRequest(server, http.MethodPost, "/api/items", body)
}

// NewUpdateItemRequest generates requests for UpdateItem with application/json body.
func NewUpdateItemRequest(server string, id string, body Item) (*http.Request, error) {
	path, err := resourcePath("/api/items", "id", id)
	if err != nil {
		return nil, err
	}
	return newJSONRequest(server, http.MethodPut, path, body)
}

// NewDeleteItemRequest generates requests for DeleteItem.
func NewDeleteItemRequest(server string, id string) (*http.Request, error) {
	path, err := resourcePath("/api/items", "id", id)
	if err != nil {
		return nil, err
	}
	return newRequest(server, http.MethodDelete, path, nil)
}

// NewListTablesRequest generates requests for ListTables.
func NewListTablesRequest(server string) (*http.Request, error) {
	return newRequest(server, http.MethodGet, "/api/tables", nil)
}

// NewCreateTableRequest generates requests for CreateTable with application/json body.
func NewCreateTableRequest(server string, body Table) (*http.Request, error) {
	return newJSONRequest(server, http.MethodPost, "/api/tables", body)
}

// NewDeleteTableRequest generates requests for DeleteTable.
func NewDeleteTableRequest(server string, id string) (*http.Request, error) {
	path, err := resourcePath("/api/tables", "id", id)
	if err != nil {
		return nil, err
	}
	return newRequest(server, http.MethodDelete, path, nil)
}

// NewCommitOrderRequest generates requests for CommitOrder with application/json body.
func NewCommitOrderRequest(server string, params *CommitOrderParams, body OrderRequest) (*http.Request, error) {
	req, err := newJSONRequest(server, http.MethodPost, "/api/orders", body)
	if err != nil {
		return nil, err
	}
	if params != nil && params.IdempotencyKey != nil {
		headerParam, err := runtime.StyleParamWithLocation("simple", false, IdempotencyKeyHeader, runtime.ParamLocationHeader, *params.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		req.Header.Set(IdempotencyKeyHeader, headerParam)
	}
	return req, nil
}

// NewClearTableRequest generates requests for ClearTable.
func NewClearTableRequest(server string, tableID string) (*http.Request, error) {
	path, err := resourcePath("/api/orders", "tableId", tableID)
	if err != nil {
		return nil, err
	}
	return newRequest(server, http.MethodDelete, path, nil)
}

func newJSONRequest(server, method, path string, body any) (*http.Request, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := newRequest(server, method, path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	return req, nil
}

func newRequest(server, method, path string, body io.Reader) (*http.Request, error) {
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	operationPath := strings.TrimPrefix(path, "/")
	queryURL, err := serverURL.Parse(operationPath)
	if err != nil {
		return nil, err
	}
	return http.NewRequest(method, queryURL.String(), body)
}

func resourcePath(collection, param, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%s is required", param)
	}
	styled, err := runtime.StyleParamWithLocation("simple", false, param, runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", param, err)
	}
	return collection + "/" + styled, nil
}

// ClientWithResponses builds on APIClient to offer response payloads.
type ClientWithResponses struct {
	api *APIClient
}

// NewClientWithResponses creates a new ClientWithResponses, which wraps
// APIClient with return type handling.
func NewClientWithResponses(server string, opts ...ClientOption) (*ClientWithResponses, error) {
	client, err := NewAPIClient(server, opts...)
	if err != nil {
		return nil, err
	}
	return &ClientWithResponses{api: client}, nil
}

// Response is the raw outcome of a call: the status line and the body.
type Response struct {
	Body         []byte
	HTTPResponse *http.Response
}

// Status returns HTTPResponse.Status
func (r Response) Status() string {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.Status
	}
	return http.StatusText(0)
}

// StatusCode returns HTTPResponse.StatusCode
func (r Response) StatusCode() int {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.StatusCode
	}
	return 0
}

type ListItemsResponse struct {
	Response
	JSON200 *[]Item
}

type ItemResponse struct {
	Response
	JSON200 *Item
	JSON201 *Item
}

type ListTablesResponse struct {
	Response
	JSON200 *[]Table
}

type TableResponse struct {
	Response
	JSON201 *Table
}

type CommitOrderResponse struct {
	Response
	JSON201 *Order
}

type AckResponse struct {
	Response
	JSON200 *Ack
}

// ListItemsWithResponse request returning *ListItemsResponse
func (c *ClientWithResponses) ListItemsWithResponse(ctx context.Context, reqEditors ...RequestEditorFn) (*ListItemsResponse, error) {
	rsp, err := c.api.ListItems(ctx, reqEditors...)
	if err != nil {
		return nil, err
	}
	raw, err := readResponse(rsp)
	if err != nil {
		return nil, err
	}
	out := &ListItemsResponse{Response: raw}
	if isArray(raw) {
		var dest []Item
		if err := json.Unmarshal(raw.Body, &dest); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		out.JSON200 = &dest
	}
	return out, nil
}

// CreateItemWithResponse request returning *ItemResponse
func (c *ClientWithResponses) CreateItemWithResponse(ctx context.Context, body Item, reqEditors ...RequestEditorFn) (*ItemResponse, error) {
	rsp, err := c.api.CreateItem(ctx, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return parseItemResponse(rsp)
}

// UpdateItemWithResponse request returning *ItemResponse
func (c *ClientWithResponses) UpdateItemWithResponse(ctx context.Context, id string, body Item, reqEditors ...RequestEditorFn) (*ItemResponse, error) {
	rsp, err := c.api.UpdateItem(ctx, id, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return parseItemResponse(rsp)
}

// DeleteItemWithResponse request returning *AckResponse
func (c *ClientWithResponses) DeleteItemWithResponse(ctx context.Context, id string, reqEditors ...RequestEditorFn) (*AckResponse, error) {
	rsp, err := c.api.DeleteItem(ctx, id, reqEditors...)
	if err != nil {
		return nil, err
	}
	return parseAckResponse(rsp)
}

// ListTablesWithResponse request returning *ListTablesResponse
func (c *ClientWithResponses) ListTablesWithResponse(ctx context.Context, reqEditors ...RequestEditorFn) (*ListTablesResponse, error) {
	rsp, err := c.api.ListTables(ctx, reqEditors...)
	if err != nil {
		return nil, err
	}
	raw, err := readResponse(rsp)
	if err != nil {
		return nil, err
	}
	out := &ListTablesResponse{Response: raw}
	if isArray(raw) {
		var dest []Table
		if err := json.Unmarshal(raw.Body, &dest); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		out.JSON200 = &dest
	}
	return out, nil
}

// CreateTableWithResponse request returning *TableResponse
func (c *ClientWithResponses) CreateTableWithResponse(ctx context.Context, body Table, reqEditors ...RequestEditorFn) (*TableResponse, error) {
	rsp, err := c.api.CreateTable(ctx, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	raw, err := readResponse(rsp)
	if err != nil {
		return nil, err
	}
	out := &TableResponse{Response: raw}
	if succeeded(raw) {
		var dest Table
		if err := decodeBody(raw, &dest); err != nil {
			return nil, err
		}
		out.JSON201 = &dest
	}
	return out, nil
}

// DeleteTableWithResponse request returning *AckResponse
func (c *ClientWithResponses) DeleteTableWithResponse(ctx context.Context, id string, reqEditors ...RequestEditorFn) (*AckResponse, error) {
	rsp, err := c.api.DeleteTable(ctx, id, reqEditors...)
	if err != nil {
		return nil, err
	}
	return parseAckResponse(rsp)
}

// CommitOrderWithResponse request returning *CommitOrderResponse
func (c *ClientWithResponses) CommitOrderWithResponse(ctx context.Context, params *CommitOrderParams, body OrderRequest, reqEditors ...RequestEditorFn) (*CommitOrderResponse, error) {
	rsp, err := c.api.CommitOrder(ctx, params, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	raw, err := readResponse(rsp)
	if err != nil {
		return nil, err
	}
	out := &CommitOrderResponse{Response: raw}
	if succeeded(raw) {
		var dest Order
		if err := decodeBody(raw, &dest); err != nil {
			return nil, err
		}
		out.JSON201 = &dest
	}
	return out, nil
}

// ClearTableWithResponse request returning *AckResponse
func (c *ClientWithResponses) ClearTableWithResponse(ctx context.Context, tableID string, reqEditors ...RequestEditorFn) (*AckResponse, error) {
	rsp, err := c.api.ClearTable(ctx, tableID, reqEditors...)
	if err != nil {
		return nil, err
	}
	return parseAckResponse(rsp)
}

func parseItemResponse(rsp *http.Response) (*ItemResponse, error) {
	raw, err := readResponse(rsp)
	if err != nil {
		return nil, err
	}
	out := &ItemResponse{Response: raw}
	if !succeeded(raw) {
		return out, nil
	}
	var dest Item
	if err := decodeBody(raw, &dest); err != nil {
		return nil, err
	}
	if raw.StatusCode() == http.StatusCreated {
		out.JSON201 = &dest
	} else {
		out.JSON200 = &dest
	}
	return out, nil
}

func parseAckResponse(rsp *http.Response) (*AckResponse, error) {
	raw, err := readResponse(rsp)
	if err != nil {
		return nil, err
	}
	out := &AckResponse{Response: raw}
	if succeeded(raw) {
		var dest Ack
		if err := decodeBody(raw, &dest); err != nil {
			return nil, err
		}
		out.JSON200 = &dest
	}
	return out, nil
}

func readResponse(rsp *http.Response) (Response, error) {
	defer func() { _ = rsp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(rsp.Body, 4<<20))
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}
	return Response{Body: body, HTTPResponse: rsp}, nil
}

func succeeded(raw Response) bool {
	return raw.StatusCode() >= http.StatusOK && raw.StatusCode() < http.StatusMultipleChoices
}

func isArray(raw Response) bool {
	if !succeeded(raw) {
		return false
	}
	trimmed := bytes.TrimSpace(raw.Body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeBody leaves dest untouched for an empty body.
func decodeBody(raw Response, dest any) error {
	if len(bytes.TrimSpace(raw.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw.Body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
