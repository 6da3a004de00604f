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
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStrategy is returned when parsing an unrecognised strategy.
var ErrUnknownStrategy = errors.New("unknown authentication strategy")

// Strategy selects how an authenticated client obtains its token.
type Strategy string

const (
	// StrategyEphemeral logs in afresh for every client.
	StrategyEphemeral Strategy = "ephemeral"
	// StrategySharedMemory logs in once per process.
	StrategySharedMemory Strategy = "shared-memory"
	// StrategyPersisted reads the token written by the setup phase.
	StrategyPersisted Strategy = "persisted"
)

// Strategies returns all supported strategies.
func Strategies() []Strategy {
	return []Strategy{
		StrategyEphemeral,
		StrategySharedMemory,
		StrategyPersisted,
	}
}

// ParseStrategy checks if the given string is a valid Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyEphemeral, StrategySharedMemory, StrategyPersisted:
		return Strategy(s), nil
	}

	names := make([]string, 0, len(Strategies()))

	for _, strategy := range Strategies() {
		names = append(names, string(strategy))
	}

	return "", fmt.Errorf("%w %q: must be one of %s", ErrUnknownStrategy, s, strings.Join(names, ", "))
}
