package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultConnectTimeout = 20 * time.Second
	DefaultTimeout        = 120 * time.Second

	maxErrorBody = 512
)

type ClientOptions struct {
	ConnectTimeout time.Duration
	Timeout        time.Duration
}

// Client posts chat-completion requests. It performs no retries.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(opts ClientOptions) *Client {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = opts.ConnectTimeout
	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: opts.Timeout},
		timeout:    opts.Timeout,
	}
}

// NewClientWithHTTP wraps an existing http.Client, e.g. one backed by a mock transport.
func NewClientWithHTTP(hc *http.Client) *Client {
	if hc == nil {
		return NewClient(ClientOptions{})
	}
	return &Client{httpClient: hc, timeout: hc.Timeout}
}

type chatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// Send posts req to endpoint and returns choices[0].message.content.
func (c *Client) Send(ctx context.Context, endpoint, apiKey string, req ChatRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: marshal chat request: %v", ErrRequest, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSpace(endpoint), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrRequest, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(apiKey))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: no response within %s, check the network or try again", ErrTimeout, c.timeout)
		}
		return "", fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: response body not received within %s", ErrTimeout, c.timeout)
		}
		return "", fmt.Errorf("%w: read response: %v", ErrRequest, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrRequest, resp.StatusCode, truncate(string(body), maxErrorBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrRequest, err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrNoChoices
	}
	return parsed.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// CloseIdleConnections releases pooled connections held by the underlying transport.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
