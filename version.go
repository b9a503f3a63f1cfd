// Copyright 2026 The Postform Go authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postform

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
)

// initialized at compile time via -ldflags "-X", the version record the host
// checks before trusting the interned string table.
var (
	Build    string
	Revision string
	Version  string
)

// CheckVersion verifies that a host tool built against hostVersion can decode
// records produced by this build. Versions are semantic; a major or minor
// mismatch means the wire format or the section layout may differ.
func CheckVersion(hostVersion string) error {
	if Version == "" {
		return fmt.Errorf("firmware version not set, build with -ldflags -X")
	}
	fw, err := semver.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("invalid firmware version %q: %v", Version, err)
	}
	host, err := semver.NewVersion(hostVersion)
	if err != nil {
		return fmt.Errorf("invalid host version %q: %v", hostVersion, err)
	}
	if fw.Major != host.Major || fw.Minor != host.Minor {
		return fmt.Errorf("mismatched versions, firmware %s host %s", fw, host)
	}
	return nil
}
