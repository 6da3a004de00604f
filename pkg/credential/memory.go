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

	"github.com/jellydator/ttlcache/v3"
)

const memoryKey = "token"

// MemoryStore holds a token for the life of the process.  Entries never
// expire.
type MemoryStore struct {
	cache *ttlcache.Cache[string, string]
}

// Ensure the interface is implemented.
var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: ttlcache.New[string, string](
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.cache.Set(memoryKey, token, ttlcache.NoTTL)

	return nil
}

func (s *MemoryStore) Load(_ context.Context) (string, error) {
	item := s.cache.Get(memoryKey)
	if item == nil {
		return "", nil
	}

	return item.Value(), nil
}
