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

// Package auth manages the lifecycle of the bearer token used by the test
// harness: acquiring it from the login endpoint, handing it to the phases
// that need it, and building HTTP clients that present it.
//
// A token moves through the following states:
//
//	Unauthenticated --Acquire--> Acquired --Save--> Persisted --Load--> Consumed
//	                     |
//	                     +--failure--> Unauthenticated (AuthenticationError)
//
// Nothing ever moves a token back to Unauthenticated: there is no expiry
// tracking, no refresh and no reauthentication when a protected endpoint
// answers 401.  Such a response is an ordinary test failure.  Acquisition
// is never retried.
//
// How a test obtains its token is selected by a Strategy:
//
//   - ephemeral: every request for a token performs a fresh login.
//   - shared-memory: the first request logs in and the token is reused for
//     the rest of the process.  A setup phase may instead seed the token,
//     passing it on as a value.
//   - persisted: the token is read from the storage-state file written by
//     Setup; no login happens at all.
package auth
