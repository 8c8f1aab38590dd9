// Package httpclient executes replayed HTTP calls against live services.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ErenKizilay/parroton/internal/config"
	"github.com/ErenKizilay/parroton/internal/logger"
)

// Param is one query or header pair.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Request is a fully resolved outbound call.
type Request struct {
	Method      string
	URL         string
	QueryParams []Param
	Headers     []Param
	Body        any
	ContentType string
}

// Result is a completed call with its decoded JSON body. A body that is not
// valid JSON is kept as its raw string.
type Result struct {
	StatusCode int
	Body       any
}

// StatusError reports a non-2xx response. It is distinct from transport
// errors so callers can record the status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// StatusCodeOf extracts the status code carried by err, 0 for transport
// failures.
func StatusCodeOf(err error) int {
	if statusErr, ok := err.(*StatusError); ok {
		return statusErr.StatusCode
	}
	return 0
}

// Client executes replay requests. It never retries; per-action failures
// are the replay engine's data, not the transport's problem.
type Client struct {
	http *http.Client
}

// New builds a client from configuration.
func New(cfg *config.ClientConfig) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: time.Duration(cfg.ConnectTimeout) * time.Second,
		}).DialContext,
	}
	if cfg.SkipTLSVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client := &http.Client{
		Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
		Transport: transport,
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return &Client{http: client}
}

// Execute performs the call. 2xx responses return a Result; other statuses
// return a StatusError; anything else is a transport error.
func (c *Client) Execute(ctx context.Context, req Request) (*Result, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Debug("executing request",
		zap.String("method", req.Method), zap.String("url", req.URL))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return &Result{StatusCode: resp.StatusCode, Body: decodeBody(data)}, nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	body, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), buildURL(req), body)
	if err != nil {
		return nil, err
	}

	for _, header := range req.Headers {
		// HTTP/2 pseudo header names from captures lose their colon.
		name := strings.ReplaceAll(header.Key, ":", "")
		if name == "" {
			continue
		}
		httpReq.Header.Set(name, header.Value)
	}
	if req.Body != nil && req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	return httpReq, nil
}

func buildURL(req Request) string {
	if len(req.QueryParams) == 0 {
		return req.URL
	}
	values := url.Values{}
	for _, param := range req.QueryParams {
		values.Add(param.Key, param.Value)
	}
	return req.URL + "?" + values.Encode()
}

func encodeBody(req Request) (io.Reader, error) {
	if req.Body == nil {
		return nil, nil
	}
	if strings.Contains(req.ContentType, "application/x-www-form-urlencoded") {
		fields, ok := req.Body.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("form body must be an object, got %T", req.Body)
		}
		values := url.Values{}
		for key, value := range fields {
			values.Set(key, stringify(value))
		}
		return strings.NewReader(values.Encode()), nil
	}
	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func decodeBody(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return string(data)
	}
	return value
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}
