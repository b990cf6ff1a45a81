package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/prudentjag/inventory-pos/internal/auth"
)

const maxResponseBody = 1 << 20 // 1MB

// Client talks to the sales backend over its REST API. The bearer token
// comes from the explicit session, never from ambient state.
type Client struct {
	http    *http.Client
	baseURL string
	sess    auth.Session
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
}

func NewClient(baseURL string, sess auth.Session, timeout time.Duration) *Client {
	st := gobreaker.Settings{
		Name: "sales-backend",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// a backend rejection is an answer, not an outage
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError
		},
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		sess:    sess,
		breaker: gobreaker.NewCircuitBreaker[json.RawMessage](st),
	}
}

// envelope is the {status, message, data} wrapper on every backend response.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.sess.Token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if errDecode := json.Unmarshal(raw, &env); errDecode != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("decode backend response: %w", errDecode)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return env.Data, nil
}

// get routes read calls through the circuit breaker; a backend that keeps
// timing out stops being hammered by the 5s poll loop.
func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.breaker.Execute(func() (json.RawMessage, error) {
		return c.do(ctx, http.MethodGet, path, nil, nil)
	})
}
