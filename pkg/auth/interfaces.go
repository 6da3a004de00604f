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

	"github.com/unikorn-cloud/toolshop-apitest/pkg/client"
)

//go:generate mockgen -source=interfaces.go -destination=mock/interfaces.go -package=mock

// LoginClient performs the raw login exchange.
type LoginClient interface {
	Login(ctx context.Context, email, password string) (*client.LoginResponse, error)
}

// TokenAcquirer obtains a new token from the API.
type TokenAcquirer interface {
	Acquire(ctx context.Context) (string, error)
}

// CredentialStore keeps a single token between phases.
type CredentialStore interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
}

// TokenProvider hands out the token a client should present.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
