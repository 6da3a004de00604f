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

package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is matched by every AuthenticationError.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotAuthenticated is returned when a token is required but none
	// has been acquired or persisted.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// AuthenticationError is returned when the login call does not yield a
// usable token.  It is always fatal to whatever needed the token.
type AuthenticationError struct {
	// StatusCode is the login response status, zero if there was none.
	StatusCode int
	// Reason is a short description of what was wrong.
	Reason string
	// TraceID identifies the login request in server logs, if one was sent.
	TraceID string
	// Err is the underlying cause, if any.
	Err error
}

func (e *AuthenticationError) Error() string {
	message := "authentication failed: " + e.Reason

	if e.StatusCode != 0 {
		message += fmt.Sprintf(" (status: %d)", e.StatusCode)
	}

	if e.TraceID != "" {
		message += fmt.Sprintf(" (trace ID: %s)", e.TraceID)
	}

	if e.Err != nil {
		message += ": " + e.Err.Error()
	}

	return message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication //nolint:errorlint
}
