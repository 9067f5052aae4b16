package shopclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/belugagoods/storefront-backend/pkg/logger"
	lru "github.com/hashicorp/golang-lru"
)

const (
	clientIDHeader = "X-Client-ID"
	productsPath   = "/api/products"
	categoriesPath = "/api/categories"
)

// Client is a typed client for the storefront REST API. GET responses are
// cached by path and query until a mutation invalidates them. Nothing is
// retried.
type Client struct {
	config     Config
	httpClient *http.Client
	cache      *lru.Cache

	mu       sync.RWMutex
	token    string
	clientID string
}

// NewClient creates a new storefront client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cache, err := lru.New(config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}
	// 관리자 세션 쿠키 유지
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout, Jar: jar},
		cache:      cache,
		clientID:   config.ClientID,
	}, nil
}

// ClientID returns the anonymous client id the server assigned.
func (c *Client) ClientID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Invalidate drops every cached response whose key starts with prefix.
func (c *Client) Invalidate(prefix string) {
	for _, key := range c.cache.Keys() {
		if k, ok := key.(string); ok && strings.HasPrefix(k, prefix) {
			c.cache.Remove(k)
		}
	}
}

func cacheKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// get serves from the cache when it can, and caches successful responses.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	key := cacheKey(path, query)
	if cached, ok := c.cache.Get(key); ok {
		return json.Unmarshal(cached.([]byte), out)
	}

	body, err := c.doRequest(ctx, http.MethodGet, key, nil)
	if err != nil {
		return err
	}
	c.cache.Add(key, body)
	return json.Unmarshal(body, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload, out interface{}) error {
	body, err := c.doRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s %s response: %w", method, path, err)
	}
	return nil
}

// doRequest performs an HTTP request against the storefront API
func (c *Client) doRequest(ctx context.Context, method, pathAndQuery string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+pathAndQuery, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	token, clientID := c.token, c.clientID
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if clientID != "" {
		req.Header.Set(clientIDHeader, clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if assigned := resp.Header.Get(clientIDHeader); assigned != "" && assigned != clientID {
		c.mu.Lock()
		c.clientID = assigned
		c.mu.Unlock()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = GenericErrorMessage
		}
		logger.Debug("Storefront API error", map[string]interface{}{
			"method": method,
			"path":   pathAndQuery,
			"status": resp.StatusCode,
			"code":   apiErr.Code,
		})
		return nil, apiErr
	}

	return body, nil
}

func productPath(id uint) string {
	return productsPath + "/" + strconv.FormatUint(uint64(id), 10)
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.CategoryID != 0 {
		v.Set("category_id", strconv.FormatUint(uint64(q.CategoryID), 10))
	}
	if q.SubcategoryID != 0 {
		v.Set("subcategory_id", strconv.FormatUint(uint64(q.SubcategoryID), 10))
	}
	if q.Featured != nil {
		v.Set("featured", strconv.FormatBool(*q.Featured))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}
