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
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/auth"
	"github.com/unikorn-cloud/toolshop-apitest/test/api"
)

var _ = Describe("Login", func() {
	Context("When logging in with valid credentials", func() {
		It("should issue an access token accepted by the API", func() {
			unauthenticated := api.NewUnauthenticatedAPIClient(config)

			resp, err := unauthenticated.Login(ctx, config.Email, config.Password)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK), "trace ID: %s", resp.TraceID)

			var body map[string]any

			Expect(json.Unmarshal(resp.Body, &body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("access_token", BeAssignableToTypeOf("")))

			token, ok := body["access_token"].(string)
			Expect(ok).To(BeTrue())
			Expect(token).NotTo(BeEmpty())

			GinkgoWriter.Printf("Logged in as %s (trace ID: %s)\n", config.Email, resp.TraceID)

			user, err := api.NewAuthenticatedAPIClient(ctx, config, auth.NewPersistedProvider(tokenStore(token))).GetCurrentUser(ctx)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyCurrentUser(user, false)
		})

		It("should return a token through the acquirer", func() {
			acquirer, err := api.NewAcquirer(config)
			Expect(err).NotTo(HaveOccurred())

			token, err := acquirer.Acquire(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())
		})
	})
})
