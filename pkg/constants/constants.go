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

package constants

import (
	"fmt"
	"os"
	"path"
)

var (
	// Application is the application name.
	//nolint:gochecknoglobals
	Application = path.Base(os.Args[0])

	// Version is the application version set via the Makefile.
	//nolint:gochecknoglobals
	Version string

	// Revision is the git revision set via the Makefile.
	//nolint:gochecknoglobals
	Revision string
)

const (
	// DefaultBaseURL is the Toolshop API the suites run against unless
	// API_BASE_URL says otherwise.
	DefaultBaseURL = "https://api-with-bugs.practicesoftwaretesting.com"

	// DefaultEmail is the seeded administrator account.
	DefaultEmail = "admin@practicesoftwaretesting.com"

	// DefaultPassword is the seeded administrator password.
	DefaultPassword = "welcome01"

	// DefaultStorageStatePath is where the setup phase persists the
	// bearer token for reuse by later test processes.
	DefaultStorageStatePath = "playwright/.auth/user.json"
)

// VersionString returns a canonical version string.
func VersionString() string {
	return fmt.Sprintf("%s/%s (revision/%s)", Application, Version, Revision)
}
