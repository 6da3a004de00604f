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
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Setup is the one-time bootstrap run before any test that depends on a
// persisted credential: it acquires a token and saves it.  If acquisition
// fails nothing is written and the AuthenticationError is returned, the
// dependent tests must not run.
func Setup(ctx context.Context, acquirer TokenAcquirer, store CredentialStore) (string, error) {
	log := log.FromContext(ctx)

	token, err := acquirer.Acquire(ctx)
	if err != nil {
		return "", err
	}

	if token == "" {
		return "", &AuthenticationError{Reason: "no access token received"}
	}

	if err := store.Save(ctx, token); err != nil {
		return "", fmt.Errorf("persisting credential: %w", err)
	}

	log.Info("authentication setup complete")

	return token, nil
}
