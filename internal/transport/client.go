package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token at send time. The session store
// implements it; the token is never captured at request construction.
type TokenSource interface {
	Token() string
}

// Client is the single outbound pipeline every resource client goes
// through. It attaches authorization, tags requests, and maps failures
// onto the Kind taxonomy. It does not retry and does not interpret
// payloads beyond JSON decoding into the caller's value.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// Do issues one request. body is JSON-encoded when non-nil; on a 2xx
// response the body is decoded into out when out is non-nil. Any other
// outcome returns a *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "request failed", cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "reading response failed", cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Kind: KindProtocol, Status: resp.StatusCode, Message: "undecodable response body", cause: err}
		}
	}
	return nil
}

func statusError(status int, body []byte) *Error {
	message := serverMessage(body)
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	switch {
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindAuthentication, Status: status, Message: message}
	case status >= 400 && status < 500:
		return &Error{Kind: KindValidation, Status: status, Message: message}
	case status >= 500:
		return &Error{Kind: KindServer, Status: status, Message: message}
	default:
		// A 3xx that survived the client's redirect handling (e.g. 304)
		// is outside the contract: the service answers 2xx or an error.
		return &Error{Kind: KindProtocol, Status: status, Message: message}
	}
}

// serverMessage pulls the human-readable reason out of an error body,
// preferring "message" over "error".
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
