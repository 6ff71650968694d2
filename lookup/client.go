// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/siemens/addrdig/types"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the base URL of Shodan's InternetDB service.
const DefaultBaseURL = "https://internetdb.shodan.io"

// maxBodySize limits how much of a response body we're willing to swallow.
const maxBodySize = 4 << 20

// Result is the outcome of looking up a single address value.
type Result struct {
	Outcome types.Outcome   // Found, NotFound, or Failed.
	Data    json.RawMessage // payload if Found, otherwise nil.
	Err     error           // cause if Failed, otherwise nil.
}

// Client looks up address values at a remote lookup service.
type Client struct {
	baseURL   string
	userAgent string
	httpc     *http.Client
	limiter   *rate.Limiter // global request pacing, or nil.
}

// ClientOption can be passed to New when creating new [Client] objects.
type ClientOption func(*Client)

// New returns a new lookup [Client]. The client defaults to querying Shodan's
// InternetDB using a plain [http.Client] without any timeout other than what
// the transport provides.
//
// The client can be configured during creation using several options:
//   - [WithBaseURL]
//   - [WithHTTPClient]
//   - [WithTimeout]
//   - [WithRateLimit]
//   - [WithUserAgent]
func New(options ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: "addrdig",
		httpc:     &http.Client{},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// WithBaseURL sets the base URL of the lookup service; the address value to
// look up gets appended as the final path element.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client to use for lookups.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// WithTimeout bounds the latency of individual lookups by setting the timeout
// of the client's HTTP client. A zero timeout means no timeout.
//
// Please note that WithTimeout modifies the HTTP client passed using
// [WithHTTPClient] if it comes later in the option list.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		httpc := *c.httpc
		httpc.Timeout = timeout
		c.httpc = &httpc
	}
}

// WithRateLimit limits the rate of lookup requests per second across all
// goroutines using the same client. A rate less or equal zero disables rate
// limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header value sent with lookup requests.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// BaseURL returns the base URL of the lookup service.
func (c *Client) BaseURL() string { return c.baseURL }

// Lookup the specified address value, returning its classified outcome. Lookup
// never retries.
func (c *Client) Lookup(ctx context.Context, value string) Result {
	data, err := c.fetch(ctx, value)
	if err != nil {
		var herr *HTTPError
		if errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound {
			return Result{Outcome: types.NotFound}
		}
		return Result{Outcome: types.Failed, Err: err}
	}
	return Result{Outcome: types.Found, Data: data}
}

// fetch does the real work of GETting the payload for an address value. It
// returns an *HTTPError for any non-2xx response, including 404.
func (c *Client) fetch(ctx context.Context, value string) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("lookup %s: rate limiter: %w", value, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+url.PathEscape(value), nil)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", value, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", value, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("lookup %s: reading response: %w", value, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(value, resp, body)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("lookup %s: response too large, exceeding %d bytes",
			value, maxBodySize)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("lookup %s: malformed response body: %s",
			value, snippet(body))
	}
	return json.RawMessage(body), nil
}
