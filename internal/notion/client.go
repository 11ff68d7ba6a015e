// Package notion reads pages from the Notion API as Markdown.
package notion

import (
	"bytes"
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

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/alnah/go-cheatsync"
)

// Defaults.
const (
	DefaultBaseURL           = "https://api.notion.com"
	DefaultVersion           = "2022-06-28"
	DefaultPageSize          = 100
	DefaultRequestsPerSecond = 3
	DefaultSelectProperty    = "Arsenyc"
	DefaultTitleProperty     = "Name"
)

const (
	maxResponseSize = 16 << 20
	maxRetries      = 3
	defaultBackoff  = time.Second
)

// Sentinel errors for client construction.
var (
	ErrMissingToken = errors.New("notion token is empty")
)

// APIError is a non-2xx answer from the Notion API.
type APIError struct {
	Status  int
	Code    string // e.g. "unauthorized", "object_not_found"
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: HTTP %d", e.Status)
	}
	return fmt.Sprintf("notion: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// IsUnauthorized reports whether err is an authentication or sharing error.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// Client is a minimal Notion API client. It implements
// cheatsync.DocumentSource and is safe for concurrent use.
type Client struct {
	token          string
	baseURL        string
	version        string
	pageSize       int
	selectProperty string
	titleProperty  string
	http           *http.Client
	limiter        *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// New creates a client authenticated with an integration token.
func New(token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		token:          token,
		baseURL:        DefaultBaseURL,
		version:        DefaultVersion,
		pageSize:       DefaultPageSize,
		selectProperty: DefaultSelectProperty,
		titleProperty:  DefaultTitleProperty,
		http:           &http.Client{},
		limiter:        rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithBaseURL points the client at another API root (e.g., a test server).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithVersion sets the Notion-Version header.
func WithVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.version = v
		}
	}
}

// WithPageSize sets the page size of paginated requests (1-100).
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 && n <= DefaultPageSize {
			c.pageSize = n
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables
// the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithSelectProperty names the checkbox property that opts a page in.
func WithSelectProperty(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.selectProperty = name
		}
	}
}

// WithTitleProperty names the title property of listed pages.
func WithTitleProperty(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.titleProperty = name
		}
	}
}

// ListCandidates returns every page shared with the integration. A page is
// selected when its select checkbox is ticked.
func (c *Client) ListCandidates(ctx context.Context) ([]cheatsync.PageRef, error) {
	var refs []cheatsync.PageRef
	cursor := ""

	for {
		body := map[string]any{
			"filter":    map[string]string{"value": "page", "property": "object"},
			"page_size": c.pageSize,
		}
		if cursor != "" {
			body["start_cursor"] = cursor
		}

		resp, err := c.do(ctx, http.MethodPost, "/v1/search", body)
		if err != nil {
			return nil, err
		}

		for _, page := range resp.Get("results").Array() {
			if page.Get("object").String() != "page" {
				continue
			}
			props := page.Get("properties")
			refs = append(refs, cheatsync.PageRef{
				ID:       page.Get("id").String(),
				Title:    c.pageTitle(props),
				Selected: checkbox(props, c.selectProperty),
			})
		}

		if !resp.Get("has_more").Bool() {
			return refs, nil
		}
		cursor = resp.Get("next_cursor").String()
		if cursor == "" {
			return refs, nil
		}
	}
}

// FetchDocument returns a page's title and its top-level blocks as
// Markdown.
func (c *Client) FetchDocument(ctx context.Context, id string) (*cheatsync.RemoteDocument, error) {
	page, err := c.do(ctx, http.MethodGet, "/v1/pages/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var blocks []gjson.Result
	cursor := ""
	for {
		q := url.Values{"page_size": {strconv.Itoa(c.pageSize)}}
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}
		resp, err := c.do(ctx, http.MethodGet, "/v1/blocks/"+url.PathEscape(id)+"/children?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, resp.Get("results").Array()...)

		cursor = resp.Get("next_cursor").String()
		if !resp.Get("has_more").Bool() || cursor == "" {
			break
		}
	}

	return &cheatsync.RemoteDocument{
		ID:       id,
		Title:    c.pageTitle(page.Get("properties")),
		Markdown: BlocksToMarkdown(blocks),
	}, nil
}

// pageTitle reads the configured title property, falling back to the
// first property of type title.
func (c *Client) pageTitle(props gjson.Result) string {
	if p := props.Get(gjson.Escape(c.titleProperty)); p.Get("type").String() == "title" {
		return plainText(p.Get("title"))
	}
	var title string
	props.ForEach(func(_, p gjson.Result) bool {
		if p.Get("type").String() == "title" {
			title = plainText(p.Get("title"))
			return false
		}
		return true
	})
	return title
}

// checkbox returns the value of a checkbox property, false when absent.
func checkbox(props gjson.Result, name string) bool {
	p := props.Get(gjson.Escape(name))
	return p.Get("type").String() == "checkbox" && p.Get("checkbox").Bool()
}

// do sends one request and returns the parsed JSON body. Requests are
// rate limited; 429 and 5xx answers are retried with backoff.
func (c *Client) do(ctx context.Context, method, path string, body any) (gjson.Result, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return gjson.Result{}, fmt.Errorf("notion: encoding request: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return gjson.Result{}, err
		}

		status, data, retryAfter, err := c.send(ctx, method, path, payload)
		if err != nil {
			return gjson.Result{}, err
		}
		if status >= 200 && status < 300 {
			if !gjson.ValidBytes(data) {
				return gjson.Result{}, errors.New("notion: invalid JSON response")
			}
			return gjson.ParseBytes(data), nil
		}

		apiErr := &APIError{
			Status:  status,
			Code:    gjson.GetBytes(data, "code").String(),
			Message: gjson.GetBytes(data, "message").String(),
		}
		if !retryable(status) || attempt >= maxRetries {
			return gjson.Result{}, apiErr
		}

		wait := retryAfter
		if wait < 0 {
			wait = defaultBackoff << attempt
		}
		select {
		case <-ctx.Done():
			return gjson.Result{}, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("notion: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req) // #nosec G107 -- base URL is configured, not user content
	if err != nil {
		return 0, nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, 0, fmt.Errorf("notion: reading response: %w", err)
	}
	return resp.StatusCode, data, retryAfter(resp.Header.Get("Retry-After")), nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// retryAfter parses a Retry-After header given in seconds, returning -1
// when it is absent or malformed.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return -1
	}
	return time.Duration(secs) * time.Second
}
