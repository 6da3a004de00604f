/*
Copyright 2024-2025 the Unikorn Authors.

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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/toolshop-apitest/pkg/auth"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/client"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/credential"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/schema"
)

// NewAPIClient creates a client for the configured API using the given
// transport, applying the logging and validation settings.
func NewAPIClient(cfg *TestConfig, httpClient *http.Client) (*client.APIClient, error) {
	options := []client.Option{
		client.WithRequestLogging(cfg.LogRequests),
		client.WithResponseLogging(cfg.LogResponses),
	}

	if cfg.ValidateResponses {
		validator, err := schema.New()
		if err != nil {
			return nil, err
		}

		options = append(options, client.WithValidator(validator))
	}

	return client.New(cfg.BaseURL, httpClient, options...), nil
}

// NewUnauthenticatedAPIClient returns a client that sends no credentials.
// Idle connections are closed when the current spec ends.
func NewUnauthenticatedAPIClient(cfg *TestConfig) *client.APIClient {
	apiClient, err := NewAPIClient(cfg, &http.Client{Timeout: cfg.RequestTimeout})
	Expect(err).NotTo(HaveOccurred())

	DeferCleanup(apiClient.Close)

	return apiClient
}

// NewAcquirer returns a token acquirer for the configured account.
func NewAcquirer(cfg *TestConfig) (*auth.Acquirer, error) {
	apiClient, err := NewAPIClient(cfg, &http.Client{Timeout: cfg.RequestTimeout})
	if err != nil {
		return nil, err
	}

	return auth.NewAcquirer(apiClient, cfg.Email, cfg.Password), nil
}

// NewProviderForStrategy builds a token provider.  The shared store is only
// consulted by the shared-memory strategy, it is normally the one returned
// by ReceiveStorageState.
func NewProviderForStrategy(cfg *TestConfig, strategy auth.Strategy, shared auth.CredentialStore) (auth.TokenProvider, error) {
	switch strategy {
	case auth.StrategyPersisted:
		return auth.NewProvider(strategy, nil, credential.NewFileStore(cfg.StorageStatePath))
	case auth.StrategyEphemeral, auth.StrategySharedMemory:
		acquirer, err := NewAcquirer(cfg)
		if err != nil {
			return nil, err
		}

		return auth.NewProvider(strategy, acquirer, shared)
	}

	return nil, fmt.Errorf("%w %q", auth.ErrUnknownStrategy, strategy)
}

// NewAuthenticatedAPIClient resolves a token from the provider and returns a
// client that sends it with every request.  Connections are released when
// the current spec ends.
func NewAuthenticatedAPIClient(ctx context.Context, cfg *TestConfig, provider auth.TokenProvider) *client.APIClient {
	token, err := provider.Token(ctx)
	Expect(err).NotTo(HaveOccurred(), "resolving access token")

	base := &http.Client{Timeout: cfg.RequestTimeout}

	httpClient, err := auth.NewHTTPClient(base, token)
	Expect(err).NotTo(HaveOccurred())

	apiClient, err := NewAPIClient(cfg, httpClient)
	Expect(err).NotTo(HaveOccurred())

	DeferCleanup(func() {
		apiClient.Close()
		base.CloseIdleConnections()
	})

	return apiClient
}

// SetupStorageState is the first half of the setup barrier.  It logs in,
// writes the storage state and returns the token for distribution to every
// process.
func SetupStorageState(ctx context.Context, cfg *TestConfig) []byte {
	acquirer, err := NewAcquirer(cfg)
	Expect(err).NotTo(HaveOccurred())

	token, err := auth.Setup(ctx, acquirer, credential.NewFileStore(cfg.StorageStatePath))
	Expect(err).NotTo(HaveOccurred(), "authentication setup")

	GinkgoWriter.Printf("Storage state written to %s\n", cfg.StorageStatePath)

	return []byte(token)
}

// ReceiveStorageState is the second half of the setup barrier.  It checks
// the storage state is readable and agrees with the distributed token, then
// returns a process local store seeded with it.
func ReceiveStorageState(ctx context.Context, cfg *TestConfig, data []byte) auth.CredentialStore {
	token := string(data)
	Expect(token).NotTo(BeEmpty(), "setup distributed an empty token")

	persisted, err := credential.NewFileStore(cfg.StorageStatePath).Load(ctx)
	Expect(err).NotTo(HaveOccurred(), "reading storage state")
	Expect(persisted).To(Equal(token), "storage state does not match the distributed token")

	store := credential.NewMemoryStore()
	Expect(store.Save(ctx, token)).To(Succeed())

	return store
}

// VerifyCurrentUser asserts the user payload identifies an account.
func VerifyCurrentUser(user *client.User, requireID bool) {
	GinkgoHelper()

	Expect(user).NotTo(BeNil())
	Expect(user.Email).NotTo(BeEmpty(), "user has no email")

	if requireID {
		Expect(user.ID).NotTo(BeEmpty(), "user has no id")
	}
}
