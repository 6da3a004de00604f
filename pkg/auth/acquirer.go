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
	"context"
	"encoding/json"
	"net/http"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Acquirer logs in with a fixed set of credentials.
type Acquirer struct {
	client   LoginClient
	email    string
	password string
}

// Ensure the interface is implemented.
var _ TokenAcquirer = &Acquirer{}

// NewAcquirer returns an acquirer that logs in as email.
func NewAcquirer(client LoginClient, email, password string) *Acquirer {
	return &Acquirer{
		client:   client,
		email:    email,
		password: password,
	}
}

// Acquire performs exactly one login call and returns the access token.
// Anything other than a 200 response carrying a non-empty string
// access_token is an AuthenticationError.
func (a *Acquirer) Acquire(ctx context.Context) (string, error) {
	log := log.FromContext(ctx).WithValues("email", a.email)

	if a.email == "" || a.password == "" {
		return "", &AuthenticationError{Reason: "email and password are required"}
	}

	log.V(1).Info("acquiring access token")

	resp, err := a.client.Login(ctx, a.email, a.password)
	if err != nil {
		return "", &AuthenticationError{Reason: "login request failed", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Reason: "login rejected", TraceID: resp.TraceID}
	}

	var body map[string]any

	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Reason: "unparsable login response", TraceID: resp.TraceID, Err: err}
	}

	value, ok := body["access_token"]
	if !ok {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Reason: "no access token received", TraceID: resp.TraceID}
	}

	token, ok := value.(string)
	if !ok {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Reason: "access token is not a string", TraceID: resp.TraceID}
	}

	if token == "" {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Reason: "no access token received", TraceID: resp.TraceID}
	}

	log.Info("access token acquired")

	return token, nil
}
