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

// postformvet rejects log sites whose format string does not match the
// argument types. Wire it into CI so a mismatched site fails the build.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/postform-dev/postform-go/internal/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
