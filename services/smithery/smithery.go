// Package smithery reads the Smithery MCP server registry.
package smithery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"towgo/models"
	"towgo/observability"
	"towgo/services/degrade"

	"go.uber.org/zap"
)

const (
	component       = "smithery"
	defaultPageSize = 10
	maxPageSize     = 100
)

var (
	ErrUnavailable    = errors.New("smithery registry is not configured")
	ErrServerNotFound = errors.New("smithery server not found")
)

// Config holds the registry settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client queries the registry.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a registry client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

func emptyList(page, pageSize int) models.SmitheryServerList {
	return models.SmitheryServerList{
		Servers:    []models.SmitheryServer{},
		Pagination: models.SmitheryPagination{CurrentPage: page, PageSize: pageSize},
	}
}

// ListServers searches the registry. Failures return an empty page.
func (c *Client) ListServers(ctx context.Context, query string, page, pageSize int) degrade.Result[models.SmitheryServerList] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	if !c.Enabled() {
		c.logger.Warn("Smithery API key not configured, returning empty server list")
		observability.RecordDegraded(component, degrade.ReasonMissingCredential)
		return degrade.Fallback(emptyList(page, pageSize), degrade.ReasonMissingCredential)
	}

	params := url.Values{}
	if q := strings.TrimSpace(query); q != "" {
		params.Add("q", q)
	}
	params.Add("page", strconv.Itoa(page))
	params.Add("pageSize", strconv.Itoa(pageSize))

	var list models.SmitheryServerList
	err := c.get(ctx, "/servers?"+params.Encode(), &list)
	observability.RecordUpstream(component, err)
	if err != nil {
		c.logger.Error("Smithery server list failed", zap.Error(err))
		reason := degrade.ReasonUpstreamError
		if errors.Is(err, errMalformed) {
			reason = degrade.ReasonMalformedResponse
		}
		observability.RecordDegraded(component, reason)
		return degrade.Fallback(emptyList(page, pageSize), reason)
	}
	if list.Servers == nil {
		list.Servers = []models.SmitheryServer{}
	}
	return degrade.OK(list)
}

// GetServer fetches one server by qualified name, e.g. "@owner/name".
func (c *Client) GetServer(ctx context.Context, qualifiedName string) (*models.SmitheryServer, error) {
	if !c.Enabled() {
		return nil, ErrUnavailable
	}
	name := strings.TrimSpace(qualifiedName)
	if name == "" {
		return nil, ErrServerNotFound
	}

	var server models.SmitheryServer
	err := c.get(ctx, "/servers/"+escapeSegments(name), &server)
	observability.RecordUpstream(component, err)
	if err != nil {
		return nil, err
	}
	return &server, nil
}

// escapeSegments keeps the separator in "@owner/name" literal.
func escapeSegments(name string) string {
	segments := strings.Split(name, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

var errMalformed = errors.New("malformed smithery response")

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Smithery API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrServerNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Smithery API error (status %d): %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}
