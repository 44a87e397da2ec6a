// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/common/metrics"
)

const (
	DefaultTimeout = 30 * time.Second

	// maxErrorSnippet bounds the raw body echoed in a vendor error when no message field exists.
	maxErrorSnippet = 200
)

// Options configures a vendor client.
type Options struct {
	BaseURL string
	// Vendor labels errors, logs and metrics ("GHL", "Close").
	Vendor  string
	Timeout time.Duration
	// Authorize sets credentials and vendor headers on each request.
	Authorize func(req *http.Request)
	// ErrorFields are the payload keys checked, in order, for a vendor error message.
	ErrorFields []string
	Logger      logger.Logger
	HTTPClient  *http.Client
}

// Client is a JSON REST client that normalises every failure into a *errors.StandardError.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	vendor      string
	authorize   func(req *http.Request)
	errorFields []string
	logger      logger.Logger
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	errorFields := opts.ErrorFields
	if len(errorFields) == 0 {
		errorFields = []string{"message"}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		vendor:      opts.Vendor,
		authorize:   opts.Authorize,
		errorFields: errorFields,
		logger:      log,
	}
}

// Do sends one request and decodes a 2xx JSON body into out. It never retries.
// The returned int is the HTTP status, 0 when no response was received.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, errors.NewInternalError(fmt.Sprintf("failed to marshal %s request: %v", c.vendor, err))
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, errors.NewTransportError(c.vendor, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authorize != nil {
		c.authorize(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.VendorRequestsTotal.WithLabelValues(c.vendor, "transport_error").Inc()
		c.logger.Warn("Vendor request failed", map[string]interface{}{
			"vendor": c.vendor,
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return 0, errors.NewTransportError(c.vendor, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.VendorRequestsTotal.WithLabelValues(c.vendor, "transport_error").Inc()
		return resp.StatusCode, errors.NewTransportError(c.vendor, err)
	}

	c.logger.Debug("Vendor response received", map[string]interface{}{
		"vendor":       c.vendor,
		"method":       method,
		"path":         path,
		"status":       resp.StatusCode,
		"responseSize": len(raw),
		"durationMs":   time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.VendorRequestsTotal.WithLabelValues(c.vendor, "http_error").Inc()
		return resp.StatusCode, errors.NewVendorError(c.vendor, resp.StatusCode, c.vendorMessage(raw))
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			metrics.VendorRequestsTotal.WithLabelValues(c.vendor, "parse_error").Inc()
			return resp.StatusCode, errors.NewParseError(c.vendor, resp.StatusCode, err)
		}
	}

	metrics.VendorRequestsTotal.WithLabelValues(c.vendor, "success").Inc()
	return resp.StatusCode, nil
}

// vendorMessage extracts the error message from a non-2xx body: the first configured field
// holding a string or list of strings, else a prefix of the raw body.
func (c *Client) vendorMessage(raw []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, field := range c.errorFields {
			switch v := payload[field].(type) {
			case string:
				if v != "" {
					return v
				}
			case []interface{}:
				parts := make([]string, 0, len(v))
				for _, item := range v {
					if s, ok := item.(string); ok && s != "" {
						parts = append(parts, s)
					}
				}
				if len(parts) > 0 {
					return strings.Join(parts, ", ")
				}
			}
		}
	}

	text := strings.TrimSpace(string(raw))
	if len(text) > maxErrorSnippet {
		text = text[:maxErrorSnippet]
	}
	return text
}
