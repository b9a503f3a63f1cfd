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

import "sync"

// Config is the process-wide logging configuration read statically by the
// host. TimestampFrequency is the tick rate of the timestamp source in Hz;
// the decoder divides timestamps by it to print seconds.
type Config struct {
	TimestampFrequency uint32
}

var (
	configMu       sync.Mutex
	config         Config
	configDeclared bool
)

// DeclareConfig installs the configuration record. It must be called at most
// once; a second declaration is a fatal misuse, the same way a duplicate
// config symbol fails to link.
func DeclareConfig(c Config) {
	configMu.Lock()
	defer configMu.Unlock()
	if configDeclared {
		panic("postform: configuration declared twice")
	}
	config = c
	configDeclared = true
}

// CurrentConfig returns the declared configuration, or the zero Config when
// none has been declared.
func CurrentConfig() Config {
	configMu.Lock()
	defer configMu.Unlock()
	return config
}
