// Package airtable implements domain.SourceRepository against the
// Airtable REST API.
package airtable

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

const (
	defaultPageSize = 100
	// Airtable asks clients to pause on 429 before retrying.
	rateLimitWait = 30 * time.Second
	maxAttempts   = 3
)

// Config configures the Airtable client.
type Config struct {
	Token    string
	BaseURL  string        // defaults to DefaultBaseURL
	PageSize int           // records per page, defaults to 100 (the API maximum)
	Timeout  time.Duration // dial timeout, defaults to 10s
}

// Client wraps a Hertz client for the Airtable API.
type Client struct {
	client   *client.Client
	baseURL  string
	token    string
	pageSize int
	// wait is stubbed in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new Airtable API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("airtable token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 || cfg.PageSize > defaultPageSize {
		cfg.PageSize = defaultPageSize
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
		client:   c,
		baseURL:  cfg.BaseURL,
		token:    cfg.Token,
		pageSize: cfg.PageSize,
		wait:     sleepCtx,
	}, nil
}

// ListTables fetches the base schema: every table with its field ids,
// names, and kinds.
func (c *Client) ListTables(ctx context.Context, baseID string) ([]*entity.SourceTable, error) {
	path := fmt.Sprintf(endpointBaseSchema, baseID)

	var resp schemaResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	tables := make([]*entity.SourceTable, 0, len(resp.Tables))
	for _, t := range resp.Tables {
		table := &entity.SourceTable{
			ID:     t.ID,
			Name:   t.Name,
			Fields: make([]entity.SourceField, 0, len(t.Fields)),
		}
		for _, f := range t.Fields {
			table.Fields = append(table.Fields, entity.SourceField{
				ID:   f.ID,
				Name: f.Name,
				Kind: f.Type,
			})
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// ListRecords fetches one page of records. The offset cursor comes from
// the previous page; "" fetches the first page.
func (c *Client) ListRecords(ctx context.Context, baseID, tableID, offset string) (*entity.RecordPage, error) {
	path := fmt.Sprintf(endpointRecords, url.PathEscape(baseID), url.PathEscape(tableID))

	query := url.Values{}
	query.Set("pageSize", fmt.Sprint(c.pageSize))
	if offset != "" {
		query.Set("offset", offset)
	}

	var resp recordsResponse
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, err
	}

	page := &entity.RecordPage{
		Records: make([]*entity.SourceRecord, 0, len(resp.Records)),
		Offset:  resp.Offset,
	}
	for _, r := range resp.Records {
		page.Records = append(page.Records, &entity.SourceRecord{
			ID:     r.ID,
			Fields: r.Fields,
		})
	}
	return page, nil
}

// get performs an authenticated GET, retrying on 429 with the pause the
// API asks for. Retries are transparent to the caller: the call either
// returns a decoded value or a terminal *domain.APIError.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	for attempt := 1; ; attempt++ {
		req := protocol.AcquireRequest()
		resp := protocol.AcquireResponse()

		req.SetMethod(consts.MethodGet)
		req.SetRequestURI(uri)
		req.Header.Set("Authorization", "Bearer "+c.token)

		err := c.client.Do(ctx, req, resp)
		status := resp.StatusCode()
		body := append([]byte(nil), resp.Body()...)
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)

		if err != nil {
			return &domain.APIError{Service: "airtable", Endpoint: path, Err: err}
		}

		if status == consts.StatusTooManyRequests && attempt < maxAttempts {
			if err := c.wait(ctx, rateLimitWait); err != nil {
				return &domain.APIError{Service: "airtable", Endpoint: path, Err: err}
			}
			continue
		}

		if status != consts.StatusOK {
			return &domain.APIError{
				Service:    "airtable",
				StatusCode: status,
				Endpoint:   path,
				Body:       string(body),
			}
		}

		if err := sonic.Unmarshal(body, out); err != nil {
			return &domain.APIError{Service: "airtable", Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
