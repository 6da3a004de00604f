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
	"errors"
	"fmt"
	"sync"

	"github.com/unikorn-cloud/toolshop-apitest/pkg/credential"
)

var errMissingDependency = errors.New("missing dependency")

// EphemeralProvider logs in every time a token is requested, so no two
// clients share a token.
type EphemeralProvider struct {
	acquirer TokenAcquirer
}

// Ensure the interface is implemented.
var _ TokenProvider = &EphemeralProvider{}

func NewEphemeralProvider(acquirer TokenAcquirer) *EphemeralProvider {
	return &EphemeralProvider{
		acquirer: acquirer,
	}
}

func (p *EphemeralProvider) Token(ctx context.Context) (string, error) {
	return p.acquirer.Acquire(ctx)
}

// SharedProvider logs in at most once and hands the same token to every
// caller thereafter.
type SharedProvider struct {
	acquirer TokenAcquirer
	store    CredentialStore
	lock     sync.Mutex
}

// Ensure the interface is implemented.
var _ TokenProvider = &SharedProvider{}

// NewSharedProvider returns a provider caching in store.  acquirer may be
// nil when the token is always seeded up front, in which case asking before
// seeding yields ErrNotAuthenticated.
func NewSharedProvider(acquirer TokenAcquirer, store CredentialStore) *SharedProvider {
	return &SharedProvider{
		acquirer: acquirer,
		store:    store,
	}
}

// Seed stores a token obtained elsewhere, typically by a setup phase that
// ran before this process started handing out clients.
func (p *SharedProvider) Seed(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotAuthenticated
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	return p.store.Save(ctx, token)
}

func (p *SharedProvider) Token(ctx context.Context) (string, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	token, err := p.store.Load(ctx)
	if err != nil {
		return "", err
	}

	if token != "" {
		return token, nil
	}

	if p.acquirer == nil {
		return "", fmt.Errorf("%w: shared token has not been seeded", ErrNotAuthenticated)
	}

	token, err = p.acquirer.Acquire(ctx)
	if err != nil {
		return "", err
	}

	if err := p.store.Save(ctx, token); err != nil {
		return "", err
	}

	return token, nil
}

// PersistedProvider reads the token written by Setup.  It never logs in.
type PersistedProvider struct {
	store CredentialStore
}

// Ensure the interface is implemented.
var _ TokenProvider = &PersistedProvider{}

func NewPersistedProvider(store CredentialStore) *PersistedProvider {
	return &PersistedProvider{
		store: store,
	}
}

func (p *PersistedProvider) Token(ctx context.Context) (string, error) {
	token, err := p.store.Load(ctx)
	if err != nil {
		return "", err
	}

	if token == "" {
		return "", fmt.Errorf("%w: storage state holds no token", ErrNotAuthenticated)
	}

	return token, nil
}

// NewProvider returns the provider for strategy.  The ephemeral and
// shared-memory strategies need an acquirer, the persisted strategy needs
// the store the setup phase wrote to.  The shared-memory strategy keeps its
// token in store if given, otherwise in a private memory store.
func NewProvider(strategy Strategy, acquirer TokenAcquirer, store CredentialStore) (TokenProvider, error) {
	switch strategy {
	case StrategyEphemeral:
		if acquirer == nil {
			return nil, fmt.Errorf("%w: %s strategy requires an acquirer", errMissingDependency, strategy)
		}

		return NewEphemeralProvider(acquirer), nil
	case StrategySharedMemory:
		if acquirer == nil {
			return nil, fmt.Errorf("%w: %s strategy requires an acquirer", errMissingDependency, strategy)
		}

		if store == nil {
			store = credential.NewMemoryStore()
		}

		return NewSharedProvider(acquirer, store), nil
	case StrategyPersisted:
		if store == nil {
			return nil, fmt.Errorf("%w: %s strategy requires a credential store", errMissingDependency, strategy)
		}

		return NewPersistedProvider(store), nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, strategy)
}
