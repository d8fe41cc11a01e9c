package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"datatalk/cache"
	"datatalk/config"
)

const (
	apiKeyHeader       = "X-DreamFactory-API-Key"
	sessionTokenHeader = "X-DreamFactory-Session-Token"
)

// DataPlatformClient is a typed facade over the data platform's REST API.
// One client is built per incoming chat request: the schema cache and the
// endpoint log belong to a single request and never cross users.
type DataPlatformClient struct {
	baseURL      string
	apiKey       string
	sessionToken string
	httpClient   *http.Client
	schemaCache  *cache.Cache
	endpoints    []string
}

// NewDataPlatformClient builds a request-scoped client. The session token is
// a hard precondition; callers must not construct a client without one.
func NewDataPlatformClient(cfg config.PlatformConfig, sessionToken string) (*DataPlatformClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("platform base URL is not configured")
	}
	if sessionToken == "" {
		return nil, ErrNotAuthenticated
	}
	return &DataPlatformClient{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		sessionToken: sessionToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		schemaCache: cache.NewNoExpiry(),
	}, nil
}

// Endpoints returns the fully-qualified URLs invoked so far, in call order.
// The returned slice is a copy; callers cannot alias the client's log.
func (c *DataPlatformClient) Endpoints() []string {
	return append([]string(nil), c.endpoints...)
}

// ResetEndpoints clears the endpoint log. The orchestrator calls this at the
// start of every run.
func (c *DataPlatformClient) ResetEndpoints() {
	c.endpoints = nil
}

// get issues a GET against the platform and decodes the JSON response. The
// full URL is logged before dispatch, whether or not the call succeeds.
func (c *DataPlatformClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	fullURL := c.baseURL
	if path != "" {
		fullURL += "/" + path
	}
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	c.endpoints = append(c.endpoints, fullURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set(sessionTokenHeader, c.sessionToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach platform: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return upstreamError(resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// upstreamError translates a non-success platform response. 403s are tagged
// as AccessForbiddenError so the boundary layer can name the denied
// resource.
func upstreamError(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	message := string(body)
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}
	if status == http.StatusForbidden || strings.Contains(message, "Access Forbidden") {
		return &AccessForbiddenError{
			StatusCode: status,
			Message:    message,
			Resource:   extractDeniedResource(message),
		}
	}
	return &UpstreamError{StatusCode: status, Message: message}
}

// ListServices fetches the services connected to the platform.
func (c *DataPlatformClient) ListServices(ctx context.Context) ([]Service, error) {
	var payload struct {
		Services []Service `json:"services"`
		Resource []Service `json:"resource"`
	}
	if err := c.get(ctx, "", nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Services) > 0 {
		return payload.Services, nil
	}
	return payload.Resource, nil
}

// GetServiceSchema fetches every table schema of a service. Cached by
// service name for the lifetime of the client; the first call hits the
// network, later calls return the cached value.
func (c *DataPlatformClient) GetServiceSchema(ctx context.Context, serviceName string) ([]TableSchema, error) {
	cacheKey := "schema:" + serviceName
	if cached, found := c.schemaCache.Get(cacheKey); found {
		return cached.([]TableSchema), nil
	}

	var payload struct {
		Resource []TableSchema `json:"resource"`
	}
	if err := c.get(ctx, serviceName+"/_schema", nil, &payload); err != nil {
		return nil, err
	}
	c.schemaCache.SetDefault(cacheKey, payload.Resource)
	return payload.Resource, nil
}

// GetTableSchema fetches one table's field and relationship metadata, cached
// by "service/table" with the same contract as GetServiceSchema.
func (c *DataPlatformClient) GetTableSchema(ctx context.Context, serviceName, table string) (*TableSchema, error) {
	cacheKey := "schema:" + serviceName + "/" + table
	if cached, found := c.schemaCache.Get(cacheKey); found {
		schema := cached.(TableSchema)
		return &schema, nil
	}

	var schema TableSchema
	if err := c.get(ctx, serviceName+"/_schema/"+table, nil, &schema); err != nil {
		return nil, err
	}
	c.schemaCache.SetDefault(cacheKey, schema)
	return &schema, nil
}

// ListTables returns the table names of a service, minus internal tables
// (reserved underscore prefix).
func (c *DataPlatformClient) ListTables(ctx context.Context, serviceName string) ([]string, error) {
	schemas, err := c.GetServiceSchema(ctx, serviceName)
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, s := range schemas {
		if strings.HasPrefix(s.Name, reservedPrefix) {
			continue
		}
		tables = append(tables, s.Name)
	}
	return tables, nil
}

// QueryTable runs a filtered query against a table. The table name is
// validated against ListTables before any query is sent; filters are
// normalized to a canonical form.
func (c *DataPlatformClient) QueryTable(ctx context.Context, serviceName, table string, params QueryParams) (*QueryResult, error) {
	tables, err := c.ListTables(ctx, serviceName)
	if err != nil {
		return nil, err
	}
	if !containsString(tables, table) {
		return nil, &UnknownTableError{Table: table, Valid: tables}
	}

	query := url.Values{}
	if params.Filter != "" {
		query.Set("filter", NormalizeFilter(params.Filter))
	}
	if params.Related != "" {
		query.Set("related", params.Related)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.Order != "" {
		query.Set("order", params.Order)
	}
	if params.Fields != "" {
		query.Set("fields", params.Fields)
	}
	if params.IncludeCount {
		query.Set("include_count", "true")
	}
	if params.IncludeSchema {
		query.Set("include_schema", "true")
	}

	var result QueryResult
	if err := c.get(ctx, serviceName+"/_table/"+table, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchTableByField queries a table on one field: equality when exact,
// prefix match otherwise. The field must exist in the table's schema.
func (c *DataPlatformClient) SearchTableByField(ctx context.Context, serviceName, table, field, value string, exact bool, related string) (*QueryResult, error) {
	schema, err := c.GetTableSchema(ctx, serviceName, table)
	if err != nil {
		return nil, err
	}
	if err := c.validateFields(schema, table, field); err != nil {
		return nil, err
	}
	return c.QueryTable(ctx, serviceName, table, QueryParams{
		Filter:  BuildFieldFilter(field, value, exact),
		Related: related,
	})
}

// SearchByName looks a person up by free-text name. Empty field names
// default to first_name / last_name. Both fields are validated against the
// table schema before the filter is built.
func (c *DataPlatformClient) SearchByName(ctx context.Context, serviceName, table, name, firstNameField, lastNameField, related string) (*QueryResult, error) {
	if firstNameField == "" {
		firstNameField = "first_name"
	}
	if lastNameField == "" {
		lastNameField = "last_name"
	}

	schema, err := c.GetTableSchema(ctx, serviceName, table)
	if err != nil {
		return nil, err
	}
	if err := c.validateFields(schema, table, firstNameField, lastNameField); err != nil {
		return nil, err
	}

	filter, err := BuildNameFilter(firstNameField, lastNameField, name)
	if err != nil {
		return nil, err
	}
	return c.QueryTable(ctx, serviceName, table, QueryParams{
		Filter:  filter,
		Related: related,
	})
}

// SearchTable runs the generalized free-text search over a table's string
// fields. Results are best effort; see BuildSearchFilter.
func (c *DataPlatformClient) SearchTable(ctx context.Context, serviceName, table, phrase, related string) (*QueryResult, error) {
	schema, err := c.GetTableSchema(ctx, serviceName, table)
	if err != nil {
		return nil, err
	}
	filter, err := BuildSearchFilter(table, schema.Fields, phrase)
	if err != nil {
		return nil, err
	}
	return c.QueryTable(ctx, serviceName, table, QueryParams{
		Filter:  filter,
		Related: related,
	})
}

func (c *DataPlatformClient) validateFields(schema *TableSchema, table string, fields ...string) error {
	valid := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		valid = append(valid, f.Name)
	}
	for _, field := range fields {
		if !containsString(valid, field) {
			return &UnknownFieldError{Field: field, Table: table, Valid: valid}
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
