package curseforge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mpm/internal/domain"
)

const (
	defaultBaseURL = "https://api.curseforge.com"
	maxPageSize    = 50
)

// Client wraps the CurseForge REST API v1
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a new CurseForge API client
func NewClient(httpClient *http.Client, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
}

// SetAPIKey sets the API key for authentication
func (c *Client) SetAPIKey(key string) {
	c.apiKey = key
}

// SetBaseURL points the client at another API host, such as a caching proxy
func (c *Client) SetBaseURL(u string) {
	if u != "" {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// IsAuthenticated returns true if an API key is configured
func (c *Client) IsAuthenticated() bool {
	return c.apiKey != ""
}

// doRequest performs an HTTP request with authentication
func (c *Client) doRequest(ctx context.Context, method, path string, result interface{}) (err error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing response body: %w", cerr)
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		if c.apiKey == "" {
			return fmt.Errorf("%w: CurseForge API key required", domain.ErrAuthRequired)
		}
		return fmt.Errorf("%w: access denied (check API key is valid)", domain.ErrAuthRequired)
	case http.StatusNotFound:
		return fmt.Errorf("%w: resource not found", domain.ErrModNotFound)
	default:
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 10*1024)) // Limit error body to 10KB
		if readErr != nil {
			return fmt.Errorf("API error (status %d); reading body: %w", resp.StatusCode, readErr)
		}
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// SearchParams holds the optional filters for SearchMods
type SearchParams struct {
	Query         string
	ClassID       int
	CategoryID    int
	GameVersion   string
	ModLoaderType int
	SortField     int
	PageSize      int
	Index         int
}

// SearchMods searches Minecraft projects with the given parameters
func (c *Client) SearchMods(ctx context.Context, p SearchParams) ([]Mod, *Pagination, error) {
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := url.Values{}
	params.Set("gameId", strconv.Itoa(GameMinecraft))
	if p.Query != "" {
		params.Set("searchFilter", p.Query)
	}
	if p.ClassID > 0 {
		params.Set("classId", strconv.Itoa(p.ClassID))
	}
	if p.CategoryID > 0 {
		params.Set("categoryId", strconv.Itoa(p.CategoryID))
	}
	if p.GameVersion != "" {
		params.Set("gameVersion", p.GameVersion)
	}
	if p.ModLoaderType > 0 {
		params.Set("modLoaderType", strconv.Itoa(p.ModLoaderType))
	}
	if p.SortField > 0 {
		params.Set("sortField", strconv.Itoa(p.SortField))
		params.Set("sortOrder", "desc")
	}
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("index", strconv.Itoa(p.Index))

	var resp PaginatedResponse[[]Mod]
	if err := c.doRequest(ctx, http.MethodGet, "/v1/mods/search?"+params.Encode(), &resp); err != nil {
		return nil, nil, fmt.Errorf("searching mods: %w", err)
	}

	return resp.Data, &resp.Pagination, nil
}

// GetMod fetches a single project by ID
func (c *Client) GetMod(ctx context.Context, modID int) (*Mod, error) {
	path := fmt.Sprintf("/v1/mods/%d", modID)

	var resp APIResponse[Mod]
	if err := c.doRequest(ctx, http.MethodGet, path, &resp); err != nil {
		return nil, fmt.Errorf("getting mod: %w", err)
	}
	return &resp.Data, nil
}

// GetModFiles fetches all files of a project matching the game version and loader type.
// Empty gameVersion and ModLoaderAny disable the respective filter.
// Pages are followed until the API reports no more results.
func (c *Client) GetModFiles(ctx context.Context, modID int, gameVersion string, modLoaderType int) ([]File, error) {
	var all []File
	index := 0

	for {
		params := url.Values{}
		if gameVersion != "" {
			params.Set("gameVersion", gameVersion)
		}
		if modLoaderType != ModLoaderAny {
			params.Set("modLoaderType", strconv.Itoa(modLoaderType))
		}
		params.Set("pageSize", strconv.Itoa(maxPageSize))
		params.Set("index", strconv.Itoa(index))

		path := fmt.Sprintf("/v1/mods/%d/files?%s", modID, params.Encode())

		var resp PaginatedResponse[[]File]
		if err := c.doRequest(ctx, http.MethodGet, path, &resp); err != nil {
			return nil, fmt.Errorf("getting mod files: %w", err)
		}

		all = append(all, resp.Data...)

		p := resp.Pagination
		if len(resp.Data) == 0 || p.Index+p.PageSize >= p.TotalCount {
			break
		}
		index += p.PageSize
	}

	return all, nil
}

// GetModFile fetches a specific file of a project
func (c *Client) GetModFile(ctx context.Context, modID, fileID int) (*File, error) {
	path := fmt.Sprintf("/v1/mods/%d/files/%d", modID, fileID)

	var resp APIResponse[File]
	if err := c.doRequest(ctx, http.MethodGet, path, &resp); err != nil {
		return nil, fmt.Errorf("getting mod file: %w", err)
	}
	return &resp.Data, nil
}

// ValidateAPIKey checks apiKey against the API without changing the client's key
func (c *Client) ValidateAPIKey(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("%w: API key cannot be empty", domain.ErrAuthRequired)
	}
	check := &Client{httpClient: c.httpClient, apiKey: apiKey, baseURL: c.baseURL}

	var resp APIResponse[Game]
	if err := check.doRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/games/%d", GameMinecraft), &resp); err != nil {
		return fmt.Errorf("validating API key: %w", err)
	}
	return nil
}
