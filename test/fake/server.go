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

// Package fake implements an in-process stand-in for the Toolshop users API
// so the harness can be exercised without network access.
//
// Access tokens are real HS256 JWTs signed with a per-server key, so a token
// issued by one server is rejected by another, and every login yields a
// distinct token.
package fake

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/unikorn-cloud/toolshop-apitest/pkg/constants"
)

const (
	// TokenLifetime is the advertised lifetime of issued tokens.
	TokenLifetime = 5 * time.Minute

	bearerPrefix = "Bearer "
)

var (
	errMissingBearer = errors.New("missing bearer token")
	errUnknownUser   = errors.New("token subject does not exist")
)

// User is an account known to the server.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
}

// Server is a running fake.
type Server struct {
	server *httptest.Server
	key    []byte
	logger logr.Logger

	lock          sync.Mutex
	users         map[string]*User
	loginOverride *cannedResponse
	authorization []string

	logins atomic.Int64
}

type cannedResponse struct {
	status int
	body   string
}

// NewServer starts a fake seeded with the default administrator account.
// Option configures a Server.
type Option func(*Server)

// WithLogger logs every request handled by the server.
func WithLogger(logger logr.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func NewServer(options ...Option) *Server {
	key := make([]byte, 32)
	_, _ = rand.Read(key)

	s := &Server{
		key:    key,
		logger: logr.Discard(),
		users:  map[string]*User{},
	}

	for _, option := range options {
		option(s)
	}

	s.AddUser("John", "Doe", constants.DefaultEmail, constants.DefaultPassword)

	router := chi.NewRouter()
	router.Use(s.logRequests)
	router.Post("/users/login", s.login)
	router.Get("/users/me", s.me)

	s.server = httptest.NewServer(router)

	return s
}

// URL is the base URL of the fake API.
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.server.Close()
}

// AddUser registers an account.
func (s *Server) AddUser(firstName, lastName, email, password string) *User {
	user := &User{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.users[email] = user

	return user
}

// Lookup returns the account registered for email.
func (s *Server) Lookup(email string) *User {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.users[email]
}

// Logins returns the number of login attempts served.
func (s *Server) Logins() int {
	return int(s.logins.Load())
}

// Authorizations returns the Authorization headers seen on protected
// requests, in arrival order.  Requests without one record an empty string.
func (s *Server) Authorizations() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]string(nil), s.authorization...)
}

// SetLoginResponse makes every subsequent login answer with the given
// status and raw body, regardless of the credentials.
func (s *Server) SetLoginResponse(status int, body string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.loginOverride = &cannedResponse{
		status: status,
		body:   body,
	}
}

// ResetLoginResponse restores normal login handling.
func (s *Server) ResetLoginResponse() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.loginOverride = nil
}

// IssueToken mints a token for the user, as a successful login would.
func (s *Server) IssueToken(user *User) (string, error) {
	now := time.Now()

	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("fake api request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start), "traceparent", r.Header.Get("Traceparent"))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.logins.Add(1)

	s.lock.Lock()
	override := s.loginOverride
	s.lock.Unlock()

	if override != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(override.status)

		_, _ = w.Write([]byte(override.body))

		return
	}

	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	user := s.Lookup(request.Email)
	if user == nil || user.Password != request.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	token, err := s.IssueToken(user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(TokenLifetime.Seconds()),
	})
}

func (s *Server) authenticate(r *http.Request) (*User, error) {
	header := r.Header.Get("Authorization")

	s.lock.Lock()
	s.authorization = append(s.authorization, header)
	s.lock.Unlock()

	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, errMissingBearer
	}

	claims := &jwt.RegisteredClaims{}

	keyFunc := func(*jwt.Token) (any, error) {
		return s.key, nil
	}

	if _, err := jwt.ParseWithClaims(strings.TrimPrefix(header, bearerPrefix), claims, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		return nil, fmt.Errorf("invalid bearer token: %w", err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	for _, user := range s.users {
		if user.ID == claims.Subject {
			return user, nil
		}
	}

	return nil, errUnknownUser
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.authenticate(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}
