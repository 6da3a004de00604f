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
	"net/http"

	"golang.org/x/oauth2"
)

// NewHTTPClient returns a client that presents token as a bearer credential
// on every request.  Timeouts, redirect policy and cookie jar are inherited
// from base, as is the transport, which may be nil to use the default.  The
// token is never refreshed and a 401 is returned to the caller unchanged.
func NewHTTPClient(base *http.Client, token string) (*http.Client, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	if base == nil {
		base = &http.Client{}
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: source,
			Base:   base.Transport,
		},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}, nil
}
