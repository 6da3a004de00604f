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


package client_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/unikorn-cloud/toolshop-apitest/pkg/auth"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/client"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/constants"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/schema"
	"github.com/unikorn-cloud/toolshop-apitest/test/fake"
)

var traceParentPattern = regexp.MustCompile(`^00-([0-9a-f]{32})-[0-9a-f]{16}-01$`)

// recorder is a canned API that remembers the last request headers.
type recorder struct {
	lock   sync.Mutex
	header http.Header
	status int
	body   string
}

func (r *recorder) handle(w http.ResponseWriter, req *http.Request) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.header = req.Header.Clone()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.status)

	_, _ = w.Write([]byte(r.body))
}

func (r *recorder) lastHeader() http.Header {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.header
}

func newRecorder(t *testing.T, status int, body string) (*recorder, string) {
	t.Helper()

	r := &recorder{
		status: status,
		body:   body,
	}

	router := chi.NewRouter()
	router.Post("/users/login", r.handle)
	router.Get("/users/me", r.handle)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return r, server.URL
}

func login(t *testing.T, server *fake.Server) string {
	t.Helper()

	resp, err := client.New(server.URL(), &http.Client{}).Login(t.Context(), constants.DefaultEmail, constants.DefaultPassword)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
	}

	require.NoError(t, json.Unmarshal(resp.Body, &body))
	require.NotEmpty(t, body.AccessToken)

	return body.AccessToken
}

// TestLoginTraceContext checks requests carry W3C trace context and the
// trace ID is reported back.
func TestLoginTraceContext(t *testing.T) {
	t.Parallel()

	r, url := newRecorder(t, http.StatusOK, `{"access_token":"abc"}`)

	resp, err := client.New(url+"/", &http.Client{}).Login(t.Context(), "a@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"access_token":"abc"}`, string(resp.Body))

	header := r.lastHeader()

	matches := traceParentPattern.FindStringSubmatch(header.Get("Traceparent"))
	require.Len(t, matches, 2)
	require.Equal(t, matches[1], resp.TraceID)
	require.Equal(t, "test-automation=ginkgo", header.Get("Tracestate"))
	require.Equal(t, "application/json", header.Get("Content-Type"))
	require.Empty(t, header.Get("Authorization"))
}

// TestLoginUniqueTraceIDs checks each request starts a new trace.
func TestLoginUniqueTraceIDs(t *testing.T) {
	t.Parallel()

	_, url := newRecorder(t, http.StatusOK, `{}`)

	c := client.New(url, &http.Client{})

	first, err := c.Login(t.Context(), "a@example.com", "pw")
	require.NoError(t, err)

	second, err := c.Login(t.Context(), "a@example.com", "pw")
	require.NoError(t, err)

	require.NotEqual(t, first.TraceID, second.TraceID)
}

// TestLoginRejected checks non-200 logins are returned rather than raised.
func TestLoginRejected(t *testing.T) {
	t.Parallel()

	server := fake.NewServer()
	defer server.Close()

	resp, err := client.New(server.URL(), &http.Client{}).Login(t.Context(), constants.DefaultEmail, "wrong")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, `{"error":"Unauthorized"}`, string(resp.Body))
}

// TestGetCurrentUser checks the authenticated user is returned.
func TestGetCurrentUser(t *testing.T) {
	t.Parallel()

	server := fake.NewServer()
	defer server.Close()

	httpClient, err := auth.NewHTTPClient(&http.Client{}, login(t, server))
	require.NoError(t, err)

	validator, err := schema.New()
	require.NoError(t, err)

	user, err := client.New(server.URL(), httpClient, client.WithValidator(validator)).GetCurrentUser(t.Context())
	require.NoError(t, err)

	expected := server.Lookup(constants.DefaultEmail)

	require.Equal(t, expected.ID, user.ID)
	require.Equal(t, constants.DefaultEmail, user.Email)
	require.Equal(t, "John", user.FirstName)
	require.Equal(t, "Doe", user.LastName)
}

// TestGetCurrentUserUnauthenticated checks requests without credentials are denied.
func TestGetCurrentUserUnauthenticated(t *testing.T) {
	t.Parallel()

	server := fake.NewServer()
	defer server.Close()

	c := client.New(server.URL(), &http.Client{})

	_, err := c.GetCurrentUser(t.Context())
	require.ErrorIs(t, err, client.ErrUnauthorized)

	resp, body, err := c.GetCurrentUserRaw(t.Context())
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, string(body), "Unauthorized")

	require.Equal(t, []string{"", ""}, server.Authorizations())
}

// TestGetCurrentUserTamperedToken checks a modified signature is rejected.
func TestGetCurrentUserTamperedToken(t *testing.T) {
	t.Parallel()

	server := fake.NewServer()
	defer server.Close()

	token := login(t, server)
	tampered := token[:strings.LastIndex(token, ".")+1] + "invalid"

	httpClient, err := auth.NewHTTPClient(nil, tampered)
	require.NoError(t, err)

	_, err = client.New(server.URL(), httpClient).GetCurrentUser(t.Context())
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

// TestGetCurrentUserUnexpectedStatus checks other statuses are surfaced.
func TestGetCurrentUserUnexpectedStatus(t *testing.T) {
	t.Parallel()

	_, url := newRecorder(t, http.StatusInternalServerError, `{"error":"boom"}`)

	_, err := client.New(url, &http.Client{}).GetCurrentUser(t.Context())
	require.ErrorIs(t, err, client.ErrUnexpectedStatus)
	require.Contains(t, err.Error(), "boom")
}

// TestGetCurrentUserSchemaViolation checks malformed success bodies fail validation.
func TestGetCurrentUserSchemaViolation(t *testing.T) {
	t.Parallel()

	_, url := newRecorder(t, http.StatusOK, `{"email":"a@example.com"}`)

	validator, err := schema.New()
	require.NoError(t, err)

	_, err = client.New(url, &http.Client{}, client.WithValidator(validator)).GetCurrentUser(t.Context())
	require.Error(t, err)

	// Without a validator the same body decodes.
	user, err := client.New(url, &http.Client{}).GetCurrentUser(t.Context())
	require.NoError(t, err)
	require.Empty(t, user.ID)
}

// TestBaseURL checks trailing slashes are dropped.
func TestBaseURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "http://localhost:8091", client.New("http://localhost:8091/", &http.Client{}).BaseURL())
}
