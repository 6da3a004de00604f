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
package api_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/toolshop-apitest/pkg/auth"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/config"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/constants"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/credential"
	"github.com/unikorn-cloud/toolshop-apitest/test/api"
	"github.com/unikorn-cloud/toolshop-apitest/test/fake"
)

var _ = Describe("Authentication Fixtures", func() {
	var (
		server *fake.Server
		cfg    *api.TestConfig
		ctx    context.Context
	)

	BeforeEach(func() {
		server = fake.NewServer(fake.WithLogger(GinkgoLogr))
		DeferCleanup(server.Close)

		cfg = &api.TestConfig{
			Config: config.Config{
				BaseURL:           server.URL(),
				Email:             constants.DefaultEmail,
				Password:          constants.DefaultPassword,
				StorageStatePath:  filepath.Join(GinkgoT().TempDir(), "playwright", ".auth", "user.json"),
				RequestTimeout:    5 * time.Second,
				ValidateResponses: true,
			},
		}

		ctx = context.Background()
	})

	Context("When using the ephemeral strategy", func() {
		It("should log in once per client", func() {
			provider, err := api.NewProviderForStrategy(cfg, auth.StrategyEphemeral, nil)
			Expect(err).NotTo(HaveOccurred())

			for range 3 {
				user, err := api.NewAuthenticatedAPIClient(ctx, cfg, provider).GetCurrentUser(ctx)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyCurrentUser(user, false)
			}

			Expect(server.Logins()).To(Equal(3))

			authorizations := server.Authorizations()
			Expect(authorizations).To(HaveLen(3))
			Expect(authorizations[0]).NotTo(Equal(authorizations[1]))
			Expect(authorizations[1]).NotTo(Equal(authorizations[2]))
		})
	})

	Context("When using the shared-memory strategy", func() {
		It("should log in once for every client", func() {
			provider, err := api.NewProviderForStrategy(cfg, auth.StrategySharedMemory, credential.NewMemoryStore())
			Expect(err).NotTo(HaveOccurred())

			for range 3 {
				user, err := api.NewAuthenticatedAPIClient(ctx, cfg, provider).GetCurrentUser(ctx)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyCurrentUser(user, true)
			}

			Expect(server.Logins()).To(Equal(1))
			Expect(server.Authorizations()).To(HaveEach(server.Authorizations()[0]))
		})

		It("should reuse a token received from the setup barrier", func() {
			data := api.SetupStorageState(ctx, cfg)
			store := api.ReceiveStorageState(ctx, cfg, data)

			provider, err := api.NewProviderForStrategy(cfg, auth.StrategySharedMemory, store)
			Expect(err).NotTo(HaveOccurred())

			_, err = api.NewAuthenticatedAPIClient(ctx, cfg, provider).GetCurrentUser(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(server.Logins()).To(Equal(1))
			Expect(server.Authorizations()).To(ConsistOf("Bearer " + string(data)))
		})
	})

	Context("When using the persisted strategy", func() {
		It("should read the token written by setup", func() {
			data := api.SetupStorageState(ctx, cfg)
			Expect(data).NotTo(BeEmpty())
			Expect(cfg.StorageStatePath).To(BeAnExistingFile())

			provider, err := api.NewProviderForStrategy(cfg, auth.StrategyPersisted, nil)
			Expect(err).NotTo(HaveOccurred())

			for range 3 {
				user, err := api.NewAuthenticatedAPIClient(ctx, cfg, provider).GetCurrentUser(ctx)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyCurrentUser(user, true)
				Expect(user.Email).To(Equal(constants.DefaultEmail))
			}

			Expect(server.Logins()).To(Equal(1))
		})

		It("should fail without a storage state", func() {
			provider, err := api.NewProviderForStrategy(cfg, auth.StrategyPersisted, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = provider.Token(ctx)
			Expect(err).To(MatchError(credential.ErrIO))
			Expect(server.Logins()).To(BeZero())
		})
	})

	Context("When the credentials are invalid", func() {
		It("should fail setup and persist nothing", func() {
			cfg.Password = "not-the-password"

			acquirer, err := api.NewAcquirer(cfg)
			Expect(err).NotTo(HaveOccurred())

			_, err = auth.Setup(ctx, acquirer, credential.NewFileStore(cfg.StorageStatePath))
			Expect(err).To(MatchError(auth.ErrAuthentication))

			var authErr *auth.AuthenticationError

			Expect(errors.As(err, &authErr)).To(BeTrue())
			Expect(authErr.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(cfg.StorageStatePath).NotTo(BeAnExistingFile())
		})
	})

	Context("When no credentials are sent", func() {
		It("should not return success", func() {
			resp, _, err := api.NewUnauthenticatedAPIClient(cfg).GetCurrentUserRaw(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).NotTo(Equal(http.StatusOK))
			Expect(server.Authorizations()).To(ConsistOf(""))
		})
	})

	Context("When the strategy is unknown", func() {
		It("should be rejected", func() {
			_, err := api.NewProviderForStrategy(cfg, auth.Strategy("carrier-pigeon"), nil)
			Expect(err).To(MatchError(auth.ErrUnknownStrategy))
		})
	})
})
