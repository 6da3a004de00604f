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

package api

import (
	"github.com/unikorn-cloud/toolshop-apitest/pkg/config"
)

// envPaths are searched in order for a .env file.
//
//nolint:gochecknoglobals
var envPaths = []string{
	"../../../test/.env", // From test/api/suites directory
	"../../test/.env",    // From test/api directory
}

// TestConfig is the harness configuration.
type TestConfig struct {
	config.Config
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if a value cannot be parsed.
func LoadTestConfig() (*TestConfig, error) {
	config.LoadEnvFile(envPaths...)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return &TestConfig{
		Config: *cfg,
	}, nil
}
