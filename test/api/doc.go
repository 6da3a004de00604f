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

// Package api provides the integration test harness for the Toolshop API.
//
// # Authentication Strategies
//
// Authenticated clients obtain their bearer token through one of three
// strategies, selected with AUTH_STRATEGY:
//
//   - ephemeral: every client performs its own login, tests never share a
//     token.
//   - shared-memory: one login per test process, the token is handed to
//     every client in that process.
//   - persisted: the setup phase logs in once and writes the storage state
//     file, clients read the token from it and never log in themselves.
//
// Token expiry is not handled.  A token that stops working part way through
// a run shows up as an assertion failure, there is no refresh.
//
// # Setup Barrier
//
// SetupStorageState and ReceiveStorageState are the two halves of a
// SynchronizedBeforeSuite.  The first runs once, logs in and persists the
// storage state.  The second runs on every parallel process after the first
// has completed and receives the token as an explicit value, so nothing
// reads the storage state before it has been written.
//
// # Tracing
//
// Every request carries a W3C traceparent header and failures report the
// trace ID so they can be correlated with server side logs.
package api
