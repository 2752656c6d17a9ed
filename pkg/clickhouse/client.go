package clickhouse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethpandaops/injuryboard/pkg/observability"
	"github.com/sirupsen/logrus"
)

// Define static errors
var (
	ErrClickHouseResponse = errors.New("clickhouse error")
	ErrMalformedResponse  = errors.New("malformed clickhouse response")
)

// clickhouseResponse represents the JSON response from ClickHouse HTTP interface.
type clickhouseResponse struct {
	Data     []json.RawMessage `json:"data"`
	Meta     []Column          `json:"meta"`
	Rows     int               `json:"rows"`
	RowsRead int               `json:"rows_read"` //nolint:tagliatelle // ClickHouse API uses snake_case
}

// ClientInterface defines the methods for interacting with ClickHouse
type ClientInterface interface {
	// Query executes a query and returns the decoded rows
	Query(ctx context.Context, query string) (*Rows, error)
	// Execute runs a query and returns the raw response body
	Execute(ctx context.Context, query string) ([]byte, error)
	// Start initializes the client
	Start() error
	// Stop closes the client
	Stop() error
}

// client implements the ClientInterface using HTTP
type client struct {
	log          logrus.FieldLogger
	httpClient   *http.Client
	baseURL      string
	debug        bool
	queryTimeout time.Duration
}

// NewClient creates a new HTTP-based ClickHouse client
func NewClient(logger logrus.FieldLogger, cfg *Config) (ClientInterface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Set defaults
	cfg.SetDefaults()

	// Create HTTP client with keep-alive settings
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     cfg.KeepAlive,
		DisableKeepAlives:   false,
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   0, // We'll set per-request timeouts
	}

	c := &client{
		log:          logger.WithField("component", "clickhouse-http"),
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		debug:        cfg.Debug,
		queryTimeout: cfg.QueryTimeout,
	}

	return c, nil
}

func (c *client) Start() error {
	// Test connectivity
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := c.Execute(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	c.log.Info("Connected to ClickHouse HTTP interface")

	return nil
}

func (c *client) Stop() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}

	c.log.Info("Closed ClickHouse HTTP client")

	return nil
}

func (c *client) Query(ctx context.Context, query string) (*Rows, error) {
	start := time.Now()

	rows, err := c.query(ctx, query)
	if err != nil {
		observability.RecordClickHouseQuery("select", "error", time.Since(start).Seconds())
		return nil, err
	}

	observability.RecordClickHouseQuery("select", "success", time.Since(start).Seconds())
	observability.RecordClickHouseRows("select", float64(rows.Len()))

	return rows, nil
}

func (c *client) query(ctx context.Context, query string) (*Rows, error) {
	// Add FORMAT JSON to query
	formattedQuery := strings.TrimRight(strings.TrimSpace(query), ";") + " FORMAT JSON"

	resp, err := c.executeHTTPRequest(ctx, formattedQuery, c.getTimeout(ctx))
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	// Parse response
	var result clickhouseResponse
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Meta) == 0 && len(result.Data) > 0 {
		return nil, fmt.Errorf("%w: data without meta", ErrMalformedResponse)
	}

	rows := &Rows{
		Columns:  result.Meta,
		Records:  make([]map[string]interface{}, 0, len(result.Data)),
		RowsRead: result.RowsRead,
	}

	// Decode each row against the declared column types
	for i, data := range result.Data {
		raw := make(map[string]interface{}, len(result.Meta))

		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()

		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to unmarshal row %d: %w", i, err)
		}

		record := make(map[string]interface{}, len(raw))
		for _, col := range result.Meta {
			value, ok := raw[col.Name]
			if !ok {
				continue
			}

			record[col.Name] = decodeValue(col.Type, value)
		}

		rows.Records = append(rows.Records, record)
	}

	c.log.WithFields(logrus.Fields{
		"rows":      result.Rows,
		"rows_read": result.RowsRead,
	}).Debug("Decoded ClickHouse result")

	return rows, nil
}

func (c *client) Execute(ctx context.Context, query string) ([]byte, error) {
	body, err := c.executeHTTPRequest(ctx, query, c.getTimeout(ctx))
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}

	return body, nil
}

func (c *client) executeHTTPRequest(ctx context.Context, query string, timeout time.Duration) ([]byte, error) {
	// Create request with timeout
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-ClickHouse-Format", "JSON")

	if c.debug {
		c.log.WithField("query", query).Debug("Executing ClickHouse query")
	}

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.WithError(closeErr).Debug("Failed to close response body")
		}
	}()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Check status code
	if resp.StatusCode != http.StatusOK {
		// Try to parse error message
		var errorResp struct {
			Exception string `json:"exception"`
		}

		if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil && errorResp.Exception != "" {
			return nil, fmt.Errorf("%w (status %d): %s", ErrClickHouseResponse, resp.StatusCode, errorResp.Exception)
		}

		return nil, fmt.Errorf("%w (status %d): %s", ErrClickHouseResponse, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if c.debug && len(body) < 1000 {
		c.log.WithField("response", string(body)).Debug("ClickHouse response")
	}

	return body, nil
}

func (c *client) getTimeout(ctx context.Context) time.Duration {
	// Check if context already has a deadline
	if deadline, ok := ctx.Deadline(); ok {
		return time.Until(deadline)
	}

	return c.queryTimeout
}
