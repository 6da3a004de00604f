/*
Copyright 2025 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package client

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

	"github.com/unikorn-cloud/toolshop-apitest/pkg/schema"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var (
	// ErrUnexpectedStatus is returned when the API responds with a status
	// the caller did not ask for.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrUnauthorized is returned when the API rejects the credentials
	// attached to a request.
	ErrUnauthorized = errors.New("unauthorized")
)

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the raw result of a login call.  Interpreting it is left
// to the caller.
type LoginResponse struct {
	// StatusCode is the HTTP status.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the unparsed response body.
	Body []byte
	// TraceID identifies the request in server side logs.
	TraceID string
}

// User is the profile returned for the authenticated account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Option customises an APIClient.
type Option func(*APIClient)

// WithRequestLogging logs the status and duration of every request.
func WithRequestLogging(enabled bool) Option {
	return func(c *APIClient) {
		c.logRequests = enabled
	}
}

// WithResponseLogging logs every response body.
func WithResponseLogging(enabled bool) Option {
	return func(c *APIClient) {
		c.logResponses = enabled
	}
}

// WithValidator checks successful responses against the API description.
func WithValidator(validator *schema.Validator) Option {
	return func(c *APIClient) {
		c.validator = validator
	}
}

type APIClient struct {
	baseURL      string
	client       *http.Client
	endpoints    *Endpoints
	validator    *schema.Validator
	logRequests  bool
	logResponses bool
}

// New returns a client for the API rooted at baseURL.  All requests are
// issued through httpClient, which supplies any authentication.
func New(baseURL string, httpClient *http.Client, options ...Option) *APIClient {
	c := &APIClient{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    httpClient,
		endpoints: NewEndpoints(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// BaseURL returns the API root.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying client.
func (c *APIClient) HTTPClient() *http.Client {
	return c.client
}

// Close releases idle connections held by the client.
func (c *APIClient) Close() {
	c.client.CloseIdleConnections()
}

// exchange issues a single request and reads the whole response.
func (c *APIClient) exchange(ctx context.Context, method, path string, body io.Reader) (*http.Request, *http.Response, []byte, error) {
	log := log.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Error(err, "http request failed", "method", method, "path", path, "duration", duration, "traceID", extractTraceID(traceParent))

		return req, nil, nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(err, "reading response body", "method", method, "path", path, "status", resp.StatusCode, "traceID", extractTraceID(traceParent))

		return req, resp, nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.logRequests {
		log.Info("request", "method", method, "path", path, "status", resp.StatusCode, "duration", duration, "traceparent", traceParent)
	}

	if c.logResponses && len(respBody) > 0 {
		log.Info("response", "method", method, "path", path, "body", string(respBody))
	}

	return req, resp, respBody, nil
}

func (c *APIClient) doRequest(ctx context.Context, method, path string, body io.Reader, expectedStatus int) (*http.Response, []byte, error) {
	req, resp, respBody, err := c.exchange(ctx, method, path, body)
	if err != nil {
		return resp, respBody, err
	}

	traceID := extractTraceID(req.Header.Get("Traceparent"))

	if expectedStatus > 0 && resp.StatusCode != expectedStatus {
		log.FromContext(ctx).Info("unexpected status", "method", method, "path", path, "expected", expectedStatus, "status", resp.StatusCode, "traceID", traceID)

		return resp, respBody, fmt.Errorf("%w: expected %d, got %d, body: %s (trace ID: %s)", ErrUnexpectedStatus, expectedStatus, resp.StatusCode, string(respBody), traceID)
	}

	if c.validator != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := c.validator.ValidateResponse(ctx, req, path, resp.StatusCode, resp.Header, respBody); err != nil {
			return resp, respBody, fmt.Errorf("%w (trace ID: %s)", err, traceID)
		}
	}

	return resp, respBody, nil
}

// Login posts credentials to the login endpoint.  Only transport failures
// are reported as errors, the caller decides what a usable answer is.
func (c *APIClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	bodyBytes, err := json.Marshal(&LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("marshaling login body: %w", err)
	}

	//nolint:bodyclose // response body is closed in exchange
	req, resp, respBody, err := c.exchange(ctx, http.MethodPost, c.endpoints.Login(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	return &LoginResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		TraceID:    extractTraceID(req.Header.Get("Traceparent")),
	}, nil
}

// GetCurrentUser returns the profile of the account the client is
// authenticated as.
func (c *APIClient) GetCurrentUser(ctx context.Context) (*User, error) {
	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, http.MethodGet, c.endpoints.CurrentUser(), nil, 0)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var user User
		if err := json.Unmarshal(respBody, &user); err != nil {
			return nil, fmt.Errorf("unmarshaling user response: %w", err)
		}

		return &user, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: current user access denied (status: %d)", ErrUnauthorized, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: %d, body: %s", ErrUnexpectedStatus, resp.StatusCode, string(respBody))
	}
}

// GetCurrentUserRaw performs the same call as GetCurrentUser but hands back
// the status and body untouched, for tests that assert on failures.
func (c *APIClient) GetCurrentUserRaw(ctx context.Context) (*http.Response, []byte, error) {
	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, http.MethodGet, c.endpoints.CurrentUser(), nil, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("getting current user: %w", err)
	}

	return resp, respBody, nil
}
