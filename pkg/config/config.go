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

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/unikorn-cloud/toolshop-apitest/pkg/auth"
)

// Config is shared by the test harness and the command line tool.  Every
// value may be overridden by the environment, an empty variable is treated
// as unset.
type Config struct {
	// BaseURL is the root of the Toolshop API.
	BaseURL string `env:"API_BASE_URL" envDefault:"https://api-with-bugs.practicesoftwaretesting.com"`
	// Email is the account used to log in.
	Email string `env:"API_EMAIL" envDefault:"admin@practicesoftwaretesting.com"`
	// Password is the password for Email.
	Password string `env:"API_PASSWORD" envDefault:"welcome01"`
	// Strategy selects how authenticated clients obtain their token.
	Strategy string `env:"AUTH_STRATEGY" envDefault:"ephemeral"`
	// StorageStatePath is where the setup phase persists the token.
	StorageStatePath string `env:"STORAGE_STATE_PATH" envDefault:"playwright/.auth/user.json"`
	// RequestTimeout bounds a single HTTP exchange.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	// SkipIntegration disables suites that talk to the live service.
	SkipIntegration bool `env:"SKIP_INTEGRATION" envDefault:"false"`
	// DebugLogging raises log verbosity.
	DebugLogging bool `env:"DEBUG_LOGGING" envDefault:"false"`
	// LogRequests traces every request with its status and duration.
	LogRequests bool `env:"LOG_REQUESTS" envDefault:"false"`
	// LogResponses dumps every response body.
	LogResponses bool `env:"LOG_RESPONSES" envDefault:"false"`
	// ValidateResponses checks successful responses against the
	// embedded OpenAPI description.
	ValidateResponses bool `env:"VALIDATE_RESPONSES" envDefault:"true"`
}

// Load parses configuration from environment variables.
// Returns an error if a value cannot be parsed into the expected type or
// the authentication strategy is unknown.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if _, err := auth.ParseStrategy(cfg.Strategy); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

// AuthStrategy returns the validated strategy.
func (c *Config) AuthStrategy() (auth.Strategy, error) {
	return auth.ParseStrategy(c.Strategy)
}

// LoadEnvFile loads the first .env file found in paths.  Variables already
// present in the environment take precedence.  Not finding a file is fine,
// in CI the variables are set directly.
func LoadEnvFile(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", path, err)
		}

		return
	}
}
