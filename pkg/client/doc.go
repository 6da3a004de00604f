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

// Package client provides a thin HTTP client for the Toolshop API.
//
// The client is deliberately hand written rather than generated: any change
// to the remote contract has to be reflected here explicitly, which keeps
// API drift visible in review.  It adds W3C trace context headers to every
// request so failures can be correlated with server side logs, and exposes
// raw status codes and bodies for assertions.
//
// The client never attaches credentials itself.  Authentication is the job
// of the http.Client it is given, see auth.NewHTTPClient.
package client
