// Package baserow implements domain.DestinationRepository against the
// Baserow REST API, hosted or self-hosted.
package baserow

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

// Config configures the Baserow client.
type Config struct {
	Token   string
	BaseURL string        // defaults to DefaultBaseURL; self-hosted instances set their own
	Timeout time.Duration // dial timeout, defaults to 10s
}

// Client wraps a Hertz client for the Baserow API.
type Client struct {
	client  *client.Client
	baseURL string
	token   string
}

// NewClient creates a new Baserow API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("baserow token is required")
	}
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid baserow URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	c, err := client.NewClient(
		client.WithDialTimeout(cfg.Timeout),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Client{
		client:  c,
		baseURL: baseURL,
		token:   cfg.Token,
	}, nil
}

// normalizeBaseURL ensures the URL has a scheme and no trailing slash.
// Self-hosted instances may live under a path prefix, which is kept.
func normalizeBaseURL(raw string) (string, error) {
	if raw == "" {
		return DefaultBaseURL, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// ListTables lists all tables of a database.
func (c *Client) ListTables(ctx context.Context, databaseID int) ([]*entity.DestinationTable, error) {
	path := fmt.Sprintf(endpointDatabaseTables, databaseID)

	var resp []table
	if err := c.do(ctx, consts.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	tables := make([]*entity.DestinationTable, 0, len(resp))
	for _, t := range resp {
		tables = append(tables, &entity.DestinationTable{ID: t.ID, Name: t.Name})
	}
	return tables, nil
}

// ListFields returns the field metadata of a table.
func (c *Client) ListFields(ctx context.Context, tableID int) ([]*entity.DestinationField, error) {
	path := fmt.Sprintf(endpointTableFields, tableID)

	var resp []field
	if err := c.do(ctx, consts.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	fields := make([]*entity.DestinationField, 0, len(resp))
	for _, f := range resp {
		fields = append(fields, f.toEntity())
	}
	return fields, nil
}

// CreateRow creates one row and returns its id. Values are keyed
// field_<id>.
func (c *Client) CreateRow(ctx context.Context, tableID int, values map[string]any) (int, error) {
	path := fmt.Sprintf(endpointTableRows, tableID)

	var resp rowResponse
	if err := c.do(ctx, consts.MethodPost, path, values, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpdateRow patches an existing row.
func (c *Client) UpdateRow(ctx context.Context, tableID, rowID int, values map[string]any) error {
	path := fmt.Sprintf(endpointTableRow, tableID, rowID)
	return c.do(ctx, "PATCH", path, values, nil)
}

// do performs one authenticated request with a JSON body and decodes the
// response into out when non-nil. Failures come back as *domain.APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.Set("Authorization", "Token "+c.token)

	if in != nil {
		body, err := sonic.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		req.Header.SetContentTypeBytes([]byte("application/json"))
		req.SetBody(body)
	}

	if err := c.client.Do(ctx, req, resp); err != nil {
		return &domain.APIError{Service: "baserow", Endpoint: path, Err: err}
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return &domain.APIError{
			Service:    "baserow",
			StatusCode: status,
			Endpoint:   path,
			Body:       string(resp.Body()),
		}
	}

	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(resp.Body(), out); err != nil {
		return &domain.APIError{Service: "baserow", Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
