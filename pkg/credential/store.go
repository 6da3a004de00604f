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

package credential

import (
	"context"
	"errors"
	"fmt"
)

// ErrIO is returned (wrapped) when the backing storage cannot be read or
// written.
var ErrIO = errors.New("credential store i/o failure")

// Store is a single-entry token store.
type Store interface {
	// Save replaces the stored token.
	Save(ctx context.Context, token string) error
	// Load returns the stored token, or an empty string when none is
	// recorded.
	Load(ctx context.Context) (string, error)
}

// IOError describes a failed storage operation.
type IOError struct {
	// Op is the operation that failed e.g. "read" or "rename".
	Op string
	// Path is the file or directory involved.
	Path string
	// Err is the underlying cause.
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("credential %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO //nolint:errorlint
}
