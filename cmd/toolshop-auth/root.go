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
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/unikorn-cloud/toolshop-apitest/pkg/auth"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/client"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/config"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/constants"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/credential"
	"github.com/unikorn-cloud/toolshop-apitest/pkg/schema"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var errNoConfig = errors.New("configuration not loaded")

type app struct {
	options Options
	config  *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           constants.Application,
		Short:         "Manage Toolshop API credentials for the test suites",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.options.Config(cmd.Flags())
			if err != nil {
				return err
			}

			a.config = cfg
			a.options.SetupLogging(cfg.DebugLogging)

			log.Log.WithName("init").V(1).Info("starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision)

			return nil
		},
	}

	a.options.AddFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "setup",
			Short: "Log in and write the storage state",
			Long: `Log in with the configured account and persist the access token to the
storage state file, replacing any previous contents.  Suites using the
persisted strategy read the token from there.`,
			Args: cobra.NoArgs,
			RunE: a.setup,
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the user the selected strategy authenticates as",
			Args:  cobra.NoArgs,
			RunE:  a.whoami,
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Remove the storage state",
			Args:  cobra.NoArgs,
			RunE:  a.logout,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), constants.VersionString())
				return nil
			},
		},
	)

	return root
}

func (a *app) newAPIClient(httpClient *http.Client) (*client.APIClient, error) {
	if a.config == nil {
		return nil, errNoConfig
	}

	options := []client.Option{
		client.WithRequestLogging(a.config.LogRequests),
		client.WithResponseLogging(a.config.LogResponses),
	}

	if a.config.ValidateResponses {
		validator, err := schema.New()
		if err != nil {
			return nil, err
		}

		options = append(options, client.WithValidator(validator))
	}

	return client.New(a.config.BaseURL, httpClient, options...), nil
}

func (a *app) newAcquirer() (*auth.Acquirer, error) {
	apiClient, err := a.newAPIClient(&http.Client{Timeout: a.config.RequestTimeout})
	if err != nil {
		return nil, err
	}

	return auth.NewAcquirer(apiClient, a.config.Email, a.config.Password), nil
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	acquirer, err := a.newAcquirer()
	if err != nil {
		return err
	}

	if _, err := auth.Setup(cmd.Context(), acquirer, credential.NewFileStore(a.config.StorageStatePath)); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Storage state written to %s\n", a.config.StorageStatePath)

	return nil
}

func (a *app) whoami(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	strategy, err := a.config.AuthStrategy()
	if err != nil {
		return err
	}

	var (
		acquirer auth.TokenAcquirer
		store    auth.CredentialStore
	)

	if strategy == auth.StrategyPersisted {
		store = credential.NewFileStore(a.config.StorageStatePath)
	} else {
		if acquirer, err = a.newAcquirer(); err != nil {
			return err
		}
	}

	provider, err := auth.NewProvider(strategy, acquirer, store)
	if err != nil {
		return err
	}

	token, err := provider.Token(ctx)
	if err != nil {
		return err
	}

	base := &http.Client{Timeout: a.config.RequestTimeout}
	defer base.CloseIdleConnections()

	httpClient, err := auth.NewHTTPClient(base, token)
	if err != nil {
		return err
	}

	apiClient, err := a.newAPIClient(httpClient)
	if err != nil {
		return err
	}

	user, err := apiClient.GetCurrentUser(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "id:    %s\nemail: %s\n", user.ID, user.Email)

	return nil
}

func (a *app) logout(cmd *cobra.Command, _ []string) error {
	if err := credential.NewFileStore(a.config.StorageStatePath).Remove(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", a.config.StorageStatePath)

	return nil
}
