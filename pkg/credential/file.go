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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// storageState is the on-disk schema.
type storageState struct {
	Token string `json:"token"`
}

// FileStore keeps the token in a JSON file.
type FileStore struct {
	path string
}

// Ensure the interface is implemented.
var _ Store = &FileStore{}

// NewFileStore returns a store backed by the file at path.  The file and
// its parent directories need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
	}
}

// Path returns the location of the storage-state file.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the token, creating parent directories as required.  The
// content is written to a temporary file in the same directory and renamed
// into place so a concurrent reader sees either the old or the new file,
// never a partial one.
func (s *FileStore) Save(ctx context.Context, token string) error {
	log := log.FromContext(ctx)

	data, err := encode(token)
	if err != nil {
		return &IOError{Op: "encode", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}

	temp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return &IOError{Op: "create", Path: dir, Err: err}
	}

	tempPath := temp.Name()

	// After a successful rename there is nothing left to remove.
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()

		return &IOError{Op: "write", Path: tempPath, Err: err}
	}

	if err := temp.Sync(); err != nil {
		_ = temp.Close()

		return &IOError{Op: "sync", Path: tempPath, Err: err}
	}

	if err := temp.Close(); err != nil {
		return &IOError{Op: "close", Path: tempPath, Err: err}
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		return &IOError{Op: "rename", Path: s.path, Err: err}
	}

	log.V(1).Info("credential persisted", "path", s.path)

	return nil
}

// Load reads the token back.  A file without a token field yields an
// empty string, a missing or malformed file is an error.
func (s *FileStore) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", &IOError{Op: "read", Path: s.path, Err: err}
	}

	var state storageState

	if err := json.Unmarshal(data, &state); err != nil {
		return "", &IOError{Op: "decode", Path: s.path, Err: err}
	}

	log.FromContext(ctx).V(1).Info("credential loaded", "path", s.path, "present", state.Token != "")

	return state.Token, nil
}

// Remove deletes the storage-state file.  Removing a file that does not
// exist is not an error.
func (s *FileStore) Remove(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "remove", Path: s.path, Err: err}
	}

	log.FromContext(ctx).V(1).Info("credential removed", "path", s.path)

	return nil
}

// encode renders the document with two space indentation and no trailing
// newline.  HTML escaping is disabled so tokens containing <, > or & are
// stored verbatim.
func encode(token string) ([]byte, error) {
	var buffer bytes.Buffer

	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(&storageState{Token: token}); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}
