//go:build e2e

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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/auth"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/credential"
	"github.com/unikorn-cloud/toolshop-apitest/test/api"
)

var _ = Describe("Current User", func() {
	Context("When using the configured authentication fixture", func() {
		It("should return the authenticated user", func() {
			user, err := api.NewAuthenticatedAPIClient(ctx, config, provider).GetCurrentUser(ctx)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyCurrentUser(user, false)
			Expect(user.Email).To(Equal(config.Email))
		})
	})

	Context("When using the storage state", func() {
		It("should return the user with an email and an id", func() {
			token, err := credential.NewFileStore(config.StorageStatePath).Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())

			user, err := api.NewAuthenticatedAPIClient(ctx, config, auth.NewPersistedProvider(credential.NewFileStore(config.StorageStatePath))).GetCurrentUser(ctx)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyCurrentUser(user, true)
		})
	})

	DescribeTable("When using each authentication strategy",
		func(strategy auth.Strategy) {
			strategyProvider, err := api.NewProviderForStrategy(config, strategy, nil)
			Expect(err).NotTo(HaveOccurred())

			user, err := api.NewAuthenticatedAPIClient(ctx, config, strategyProvider).GetCurrentUser(ctx)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyCurrentUser(user, true)
		},
		Entry("ephemeral", auth.StrategyEphemeral),
		Entry("shared-memory", auth.StrategySharedMemory),
		Entry("persisted", auth.StrategyPersisted),
	)
})
