package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	catalogdomain "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	orderdomain "github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

var (
	_ catalogports.Repository = (*Client)(nil)
	_ orderports.Gateway      = (*Client)(nil)
)

// IdempotencyKeyHeader carries the draft id on commits.
const IdempotencyKeyHeader = "Idempotency-Key"

// Client talks to a remote backend over its REST routes. It serves as both the
// catalog repository and the orders gateway of a terminal.
type Client struct {
	api *ClientWithResponses
}

// NewClient instantiates the backend client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("backend base URL %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	api, err := NewClientWithResponses(parsed.String(), WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("build backend client: %w", err)
	}
	return &Client{api: api}, nil
}

func (c *Client) ListItems(ctx context.Context) ([]catalogdomain.MenuItem, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.api.ListItemsWithResponse(ctx)
	if err := check("list items", resp, err, catalogNotFound); err != nil {
		return nil, err
	}
	items := []catalogdomain.MenuItem{}
	if resp.JSON200 != nil {
		for _, item := range *resp.JSON200 {
			items = append(items, item.toDomain())
		}
	}
	return items, nil
}

func (c *Client) ListTables(ctx context.Context) ([]catalogdomain.Table, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.api.ListTablesWithResponse(ctx)
	if err := check("list tables", resp, err, catalogNotFound); err != nil {
		return nil, err
	}
	tables := []catalogdomain.Table{}
	if resp.JSON200 != nil {
		for _, table := range *resp.JSON200 {
			tables = append(tables, table.toDomain())
		}
	}
	return tables, nil
}

func (c *Client) CreateItem(ctx context.Context, fields catalogdomain.ItemFields) (*catalogdomain.MenuItem, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.api.CreateItemWithResponse(ctx, itemFromFields(fields))
	if err := check("create item", resp, err, catalogNotFound); err != nil {
		return nil, err
	}
	return resp.item(), nil
}

func (c *Client) UpdateItem(ctx context.Context, id string, fields catalogdomain.ItemFields) (*catalogdomain.MenuItem, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.api.UpdateItemWithResponse(ctx, id, itemFromFields(fields))
	if err := check("update item", resp, err, catalogNotFound); err != nil {
		return nil, err
	}
	return resp.item(), nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	if err := c.ready(); err != nil {
		return err
	}
	resp, err := c.api.DeleteItemWithResponse(ctx, id)
	return check("delete item", resp, err, catalogNotFound)
}

func (c *Client) CreateTable(ctx context.Context, fields catalogdomain.TableFields) (*catalogdomain.Table, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.api.CreateTableWithResponse(ctx, Table{Number: fields.Number})
	if err := check("create table", resp, err, catalogNotFound); err != nil {
		return nil, err
	}
	table := catalogdomain.Table{Number: fields.Number, Status: catalogdomain.TableIdle}
	if resp.JSON201 != nil {
		table = resp.JSON201.toDomain()
	}
	return &table, nil
}

func (c *Client) DeleteTable(ctx context.Context, id string) error {
	if err := c.ready(); err != nil {
		return err
	}
	resp, err := c.api.DeleteTableWithResponse(ctx, id)
	return check("delete table", resp, err, catalogNotFound)
}

// CommitOrder posts the draft to /api/orders. The draft id is sent in the body
// and as the Idempotency-Key so the backend can deduplicate retries.
func (c *Client) CommitOrder(ctx context.Context, draft orderdomain.OrderDraft) (*orderdomain.OrderRecord, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	req := OrderRequest{ID: draft.ID, TableID: draft.TableID, TotalAmount: draft.Total}
	for _, line := range draft.Lines {
		req.Items = append(req.Items, OrderItem{ID: line.ItemID, Quantity: line.Quantity, Price: line.PriceAtTime})
	}
	var params *CommitOrderParams
	if key := strings.TrimSpace(draft.ID); key != "" {
		params = &CommitOrderParams{IdempotencyKey: &key}
	}
	resp, err := c.api.CommitOrderWithResponse(ctx, params, req)
	if err := check("commit order", resp, err, orderports.ErrTableNotFound); err != nil {
		return nil, err
	}
	if resp.JSON201 == nil {
		return nil, apierrors.NewPersistenceError("commit order", errors.New("backend returned no order"))
	}
	record := resp.JSON201.toDomain()
	if len(record.Lines) == 0 {
		record.Lines = append([]orderdomain.OrderLine(nil), draft.Lines...)
	}
	return record, nil
}

func (c *Client) ClearTable(ctx context.Context, tableID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	resp, err := c.api.ClearTableWithResponse(ctx, tableID)
	return check("clear table", resp, err, orderports.ErrTableNotFound)
}

var catalogNotFound = catalogports.ErrNotFound

func (c *Client) ready() error {
	if c == nil || c.api == nil {
		return errors.New("backend client not configured")
	}
	return nil
}

// statusResponse is implemented by every typed response.
type statusResponse interface {
	StatusCode() int
	body() []byte
}

func (r Response) body() []byte { return r.Body }

// check turns a transport error or an error status into a PersistenceError
// carrying the backend's message.
func check(op string, resp statusResponse, err error, notFound error) error {
	if err != nil {
		return apierrors.NewPersistenceError(op, fmt.Errorf("call backend: %w", err))
	}
	if status := resp.StatusCode(); status >= http.StatusBadRequest {
		return &apierrors.PersistenceError{
			Op:      op,
			Message: backendMessage(resp.body()),
			Err:     statusError(status, notFound),
		}
	}
	return nil
}

func (r *ItemResponse) item() *catalogdomain.MenuItem {
	wire := r.JSON201
	if wire == nil {
		wire = r.JSON200
	}
	if wire == nil {
		return &catalogdomain.MenuItem{}
	}
	item := wire.toDomain()
	return &item
}

func statusError(status int, notFound error) error {
	text := fmt.Sprintf("backend responded %d %s", status, http.StatusText(status))
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", text, notFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", text, catalogports.ErrDuplicate)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w", text, apierrors.ErrValidation)
	default:
		return errors.New(text)
	}
}

func backendMessage(payload []byte) string {
	var body errorBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	for _, candidate := range []string{body.Detail, body.Error, body.Title} {
		if msg := strings.TrimSpace(candidate); msg != "" {
			return msg
		}
	}
	return ""
}

func itemFromFields(fields catalogdomain.ItemFields) Item {
	return Item{Name: fields.Name, Code: fields.Code, Price: fields.Price, Category: fields.Category}
}

func (i Item) toDomain() catalogdomain.MenuItem {
	return catalogdomain.MenuItem{ID: i.ID, Name: i.Name, Code: i.Code, Price: i.Price, Category: i.Category}
}

func (t Table) toDomain() catalogdomain.Table {
	status, err := catalogdomain.ParseTableStatus(t.Status)
	if err != nil {
		status = catalogdomain.TableIdle
	}
	return catalogdomain.Table{ID: t.ID, Number: t.Number, Status: status}
}

func (o Order) toDomain() *orderdomain.OrderRecord {
	record := &orderdomain.OrderRecord{
		ID:        o.ID,
		TableID:   o.TableID,
		Total:     o.TotalAmount,
		Status:    orderdomain.OrderStatus(o.Status),
		CreatedAt: o.CreatedAt,
	}
	for _, item := range o.Items {
		record.Lines = append(record.Lines, orderdomain.OrderLine{ItemID: item.ID, Quantity: item.Quantity, PriceAtTime: item.Price})
	}
	return record
}
