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
	postform "github.com/postform-dev/postform-go"
)

// Logger emits log records as COBS frames on an RTT channel.
type Logger struct {
	*postform.Logger[*CobsWriter]
	manager *Manager
}

// NewLogger returns a logger producing on the default up channel.
func NewLogger() *Logger {
	return NewChannelLogger(GetManager())
}

// NewChannelLogger returns a logger producing through the given manager.
func NewChannelLogger(m *Manager) *Logger {
	l := &Logger{manager: m}
	l.Logger = postform.NewLogger[*CobsWriter](l)
	return l
}

// GetWriter acquires the channel's COBS writer for one record.
func (l *Logger) GetWriter() *CobsWriter {
	return l.manager.GetCobsWriter()
}
