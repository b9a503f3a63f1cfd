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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckVersion(t *testing.T) {
	restore := Version
	defer func() { Version = restore }()

	Version = ""
	assert.Error(t, CheckVersion("1.2.0"))

	Version = "1.2.3"
	assert.NoError(t, CheckVersion("1.2.0"))
	assert.NoError(t, CheckVersion("1.2.9"))

	// Wire format compatibility is tracked by major.minor.
	assert.Error(t, CheckVersion("1.3.0"))
	assert.Error(t, CheckVersion("2.2.3"))
	assert.Error(t, CheckVersion("not-semver"))

	Version = "also-not-semver"
	assert.Error(t, CheckVersion("1.2.0"))
}
