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
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/auth"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/credential"
	"github.com/unikorn-cloud/toolshop-apitest/test/api"
)

var _ = Describe("Security and Authentication", func() {
	Context("When logging in with invalid credentials", func() {
		It("should fail and persist nothing", func() {
			invalid := *config
			invalid.Password = "definitely-not-" + config.Password
			invalid.StorageStatePath = filepath.Join(GinkgoT().TempDir(), "user.json")

			acquirer, err := api.NewAcquirer(&invalid)
			Expect(err).NotTo(HaveOccurred())

			_, err = auth.Setup(ctx, acquirer, credential.NewFileStore(invalid.StorageStatePath))
			Expect(err).To(MatchError(auth.ErrAuthentication))
			Expect(invalid.StorageStatePath).NotTo(BeAnExistingFile())
		})
	})

	Context("When accessing the API with different authentication states", func() {
		It("should reject requests with missing authentication", func() {
			resp, _, err := api.NewUnauthenticatedAPIClient(config).GetCurrentUserRaw(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).NotTo(Equal(http.StatusOK))
		})

		It("should reject requests with invalid tokens", func() {
			bogus := auth.NewPersistedProvider(tokenStore("not-a-valid-token"))

			resp, _, err := api.NewAuthenticatedAPIClient(ctx, config, bogus).GetCurrentUserRaw(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).NotTo(Equal(http.StatusOK))
		})
	})
})
