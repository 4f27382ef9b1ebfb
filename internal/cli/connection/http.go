package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/rentdash-go/internal/telemetry/logger"
	"github.com/yndnr/rentdash-go/internal/telemetry/metric"
)

// Defaults for NewHTTPClient.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10
	DefaultUserAgent = "rentdash-cli/dev"
)

// HeaderRequestID carries the per-call request id.
const HeaderRequestID = "X-Request-ID"

// HTTPClient provides HTTP communication with the backend.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	metrics   *metric.Registry
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRateLimit caps requests per second. Zero or less disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
}

// WithCookieJar sets the jar that carries the session cookie.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *HTTPClient) {
		c.client.Jar = jar
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMetrics records request metrics into reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(c *HTTPClient) {
		c.metrics = reg
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) {
		c.client.Transport = rt
	}
}

// NewHTTPClient creates a new HTTP client for the backend at server.
func NewHTTPClient(server string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:   NormalizeBaseURL(server),
		client:    &http.Client{Timeout: DefaultTimeout},
		limiter:   rate.NewLimiter(DefaultRateLimit, DefaultRateLimit),
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeBaseURL adds a missing http:// scheme and drops trailing slashes.
func NormalizeBaseURL(server string) string {
	baseURL := strings.TrimSpace(server)
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with JSON body.
func (c *HTTPClient) Put(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *HTTPClient) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends a request. A non-nil body is encoded as JSON.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := ulid.Make().String()
	c.addHeaders(req, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	route := RouteOf(path)
	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)

	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.ObserveRequest(method, route, code, elapsed)
	}
	logger.L(logger.WithRequestID(ctx, requestID)).Debug("backend request",
		"method", method,
		"route", route,
		"status", code,
		"duration", elapsed,
	)

	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, route, err)
	}
	return resp, nil
}

// addHeaders adds the common headers.
func (c *HTTPClient) addHeaders(req *http.Request, requestID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, requestID)
}

func (c *HTTPClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	start := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RateLimitWait.Observe(time.Since(start).Seconds())
	}
	return nil
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Jar returns the cookie jar, if any.
func (c *HTTPClient) Jar() http.CookieJar {
	return c.client.Jar
}

var idSegment = regexp.MustCompile(`/\d+(/|$)`)

// RouteOf replaces numeric path segments with {id} so metric labels stay
// bounded.
func RouteOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return idSegment.ReplaceAllString(path, "/{id}$1")
}

// envelope is the success payload shape.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// ParseResponse reads resp and closes its body.
//
// A status of 400 or above yields an *APIError carrying the message field
// of the payload. Otherwise the data member of the envelope is decoded
// into target; a nil target skips decoding.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if resp.Request != nil {
			apiErr.RequestID = resp.Request.Header.Get(HeaderRequestID)
		}
		var errResp struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
