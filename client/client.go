// Package client implements the data-access layer for the Savvy API: a JSON
// HTTP client plus per-resource services that read through a local expiring
// cache and invalidate it on mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/time/rate"
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the API origin, without a trailing slash.
	BaseURL string
	// Session provides the bearer token and device id attached to requests.
	Session *Session
	// Timeout bounds each request end to end. Defaults to 30 seconds.
	Timeout time.Duration
	// HTTPClient overrides the underlying transport, mainly for tests.
	HTTPClient *http.Client
	// RequestsPerSecond throttles outbound calls. 0 disables throttling.
	RequestsPerSecond float64
	// StrictStatus disables the legacy tolerance where a non-JSON response
	// with an empty body is reported as successful empty data regardless of
	// the HTTP status. The tolerance matches what shipped clients rely on
	// for empty DELETE responses, so it stays on unless asked otherwise.
	StrictStatus bool
}

// Client issues JSON requests against the API and normalizes every outcome
// into either a Result or an *ErrorInfo.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	timeout      time.Duration
	session      *Session
	limiter      *rate.Limiter
	strictStatus bool
}

// New creates a new API client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		timeout:      timeout,
		session:      cfg.Session,
		limiter:      limiter,
		strictStatus: cfg.StrictStatus,
	}
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Result is a successful (or tolerated, see Config.StrictStatus) response.
// Body is valid JSON when JSON is true, raw text otherwise.
type Result struct {
	Status int
	Body   []byte
	JSON   bool
}

// Decode unmarshals the response body into dest. The returned error, if any,
// is an *ErrorInfo.
func (r *Result) Decode(dest any) error {
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return &ErrorInfo{
			Message:       "unexpected response shape",
			Status:        r.Status,
			OriginalError: err.Error(),
		}
	}
	return nil
}

// Do executes one API request. The returned error is always an *ErrorInfo;
// exactly one of the result and the error is non-nil.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) (*Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &ErrorInfo{Message: err.Error(), Status: 0, OriginalError: err.Error()}
		}
	}

	url := c.baseURL + endpoint

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &ErrorInfo{Message: "failed to encode request body", Status: 0, OriginalError: err.Error()}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &ErrorInfo{Message: err.Error(), Status: 0, OriginalError: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", shortuuid.New())
	if c.session != nil {
		if token := c.session.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		req.Header.Set("X-Device-ID", c.session.DeviceID(ctx))
	}

	slog.Debug("api request", slog.String("method", method), slog.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(err)
	}

	slog.Debug("api response", slog.String("url", url), slog.Int("status", resp.StatusCode))

	result := &Result{Status: resp.StatusCode}
	contentType := resp.Header.Get("Content-Type")
	if len(text) > 0 && strings.Contains(contentType, "json") {
		var raw json.RawMessage
		if err := json.Unmarshal(text, &raw); err != nil {
			slog.Error("invalid JSON in api response",
				slog.String("url", url),
				slog.Int("status", resp.StatusCode),
				slog.String("error", err.Error()))
			return nil, &ErrorInfo{
				Message:       "invalid JSON response from server",
				Status:        resp.StatusCode,
				OriginalError: err.Error(),
			}
		}
		result.Body = raw
		result.JSON = true
	} else if len(text) == 0 {
		result.Body = []byte("{}")
		result.JSON = true
		if !c.strictStatus {
			// The empty-body tolerance evaluates before the status check.
			return result, nil
		}
	} else {
		result.Body = text
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := "Request failed"
		if result.JSON {
			var payload struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			}
			if json.Unmarshal(result.Body, &payload) == nil {
				if payload.Error != "" {
					message = payload.Error
				} else if payload.Message != "" {
					message = payload.Message
				}
			}
		}
		slog.Warn("api error response", slog.String("url", url), slog.Int("status", resp.StatusCode), slog.String("message", message))
		return nil, &ErrorInfo{Message: message, Status: resp.StatusCode}
	}

	return result, nil
}

// transportError maps a low-level failure to the user-facing taxonomy:
// deadline expiry reads as a timeout, connection failures name the configured
// origin to aid diagnosis, anything else passes through.
func (c *Client) transportError(err error) *ErrorInfo {
	message := "Network error"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		message = "Request timeout: the server took too long to respond"
	case isConnectFailure(err):
		message = "Cannot reach the API server at " + c.baseURL + ". Make sure it is running and accessible"
	case err.Error() != "":
		message = err.Error()
	}
	return &ErrorInfo{Message: message, Status: 0, OriginalError: err.Error()}
}

func isConnectFailure(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpoint string) (*Result, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*Result, error) {
	return c.Do(ctx, http.MethodPost, endpoint, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any) (*Result, error) {
	return c.Do(ctx, http.MethodPut, endpoint, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string) (*Result, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil)
}
