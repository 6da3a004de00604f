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


package main

import (
	"flag"
	"time"

	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/toolshop-apitest/pkg/config"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Options are the command line overrides.  Anything not set on the command
// line comes from the environment.
type Options struct {
	baseURL          string
	email            string
	password         string
	strategy         string
	storageStatePath string
	requestTimeout   time.Duration

	zapOptions zap.Options
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.baseURL, "base-url", "", "Toolshop API base URL, overrides API_BASE_URL.")
	f.StringVar(&o.email, "email", "", "Account email, overrides API_EMAIL.")
	f.StringVar(&o.password, "password", "", "Account password, overrides API_PASSWORD.")
	f.StringVar(&o.strategy, "strategy", "", "Authentication strategy, one of ephemeral, shared-memory or persisted, overrides AUTH_STRATEGY.")
	f.StringVar(&o.storageStatePath, "storage-state", "", "Storage state file, overrides STORAGE_STATE_PATH.")
	f.DurationVar(&o.requestTimeout, "request-timeout", 0, "Timeout for a single request, overrides REQUEST_TIMEOUT.")

	goflags := flag.NewFlagSet("logging", flag.ContinueOnError)
	o.zapOptions.BindFlags(goflags)

	f.AddGoFlagSet(goflags)
}

// SetupLogging installs the global logger.
func (o *Options) SetupLogging(debug bool) {
	if debug {
		o.zapOptions.Development = true
	}

	log.SetLogger(zap.New(zap.UseFlagOptions(&o.zapOptions)))
}

// Config loads configuration from the environment and applies any flags
// that were explicitly set.
func (o *Options) Config(f *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if f.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}

	if f.Changed("email") {
		cfg.Email = o.email
	}

	if f.Changed("password") {
		cfg.Password = o.password
	}

	if f.Changed("strategy") {
		cfg.Strategy = o.strategy
	}

	if f.Changed("storage-state") {
		cfg.StorageStatePath = o.storageStatePath
	}

	if f.Changed("request-timeout") {
		cfg.RequestTimeout = o.requestTimeout
	}

	if _, err := cfg.AuthStrategy(); err != nil {
		return nil, err
	}

	return cfg, nil
}
