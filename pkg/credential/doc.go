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

// Package credential persists the bearer token acquired by the setup phase
// so that later phases, possibly in other processes, can reuse it without
// logging in again.
//
// Two stores are provided. FileStore is the storage-state file shared
// between test processes: a single JSON document of the form
//
//	{
//	  "token": "<bearer token>"
//	}
//
// that is replaced wholesale on every save. MemoryStore holds the token for
// the lifetime of one process and backs the shared-memory strategy.
//
// Neither store validates freshness or expiry. There is no locking: the
// file has exactly one writer (the setup phase) and the harness orders all
// readers after it.
package credential
