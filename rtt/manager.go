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

package rtt

import (
	"go.uber.org/atomic"
)

// Manager serializes all producers of a channel through a single atomic
// token. Acquisition never blocks: a producer that loses the race gets a
// finished writer whose operations are no-ops, and the record is dropped at
// the source.
type Manager struct {
	taken   atomic.Bool
	channel *Channel
}

var defaultManager = &Manager{channel: &controlBlock.Up[0]}

// GetManager returns the manager of the default up channel.
func GetManager() *Manager {
	return defaultManager
}

// NewManager returns a manager serializing producers of the given channel.
func NewManager(c *Channel) *Manager {
	return &Manager{channel: c}
}

// GetCobsWriter acquires the producer token and returns a COBS framing
// writer. If the token is already held, or the ring is full under the trim
// policy, the token is not kept and a finished writer is returned.
func (m *Manager) GetCobsWriter() *CobsWriter {
	if m.takeWriter() {
		return newCobsWriter(m, m.channel)
	}
	return &CobsWriter{}
}

// GetRawWriter acquires the producer token and returns an unframed writer,
// or a finished writer if the token is already held.
func (m *Manager) GetRawWriter() *RawWriter {
	if m.takeWriter() {
		return newRawWriter(m, m.channel)
	}
	return &RawWriter{}
}

func (m *Manager) takeWriter() bool {
	return !m.taken.Swap(true)
}

func (m *Manager) releaseWriter() {
	m.taken.Store(false)
}
