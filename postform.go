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

// Package postform implements the core of a deferred-formatting logging
// framework. Log sites do not format text: they emit a compact binary record
// made of a timestamp, the address of an interned format string and the raw
// argument values, all integers in LEB128 variable-length encoding. A host
// tool later expands the records against the interned string table.
//
// The package provides the interned string table, the printf-style format
// validator, the tagged argument carrier and the transport-generic logger
// core. Framed transports live in the rtt and serial sub-packages, a
// host-side file transport in filelog.
package postform

import (
	"time"
)

// InternedString is the on-wire representation of a format string: the
// address assigned to it in the interned string table. It is serialized as a
// pointer instead of copying the whole string through the transport.
type InternedString struct {
	addr uint64
}

// Addr returns the load address of the interned string.
func (s InternedString) Addr() uint64 { return s.addr }

var (
	start = time.Now()

	// timestampSource is the collaborator hook delivering record timestamps.
	// It is read on every log call without synchronization, so it must be
	// installed before logging starts.
	timestampSource = defaultTimestamp
)

// SetTimestampSource installs the timestamp hook used for every record.
// Call it once during program initialization, before any logger is used.
func SetTimestampSource(fn func() uint64) {
	if fn == nil {
		fn = defaultTimestamp
	}
	timestampSource = fn
}

// Timestamp returns the current record timestamp from the installed source.
func Timestamp() uint64 {
	return timestampSource()
}

// defaultTimestamp counts ticks of the declared timestamp frequency since
// process start. With no declared configuration it counts nanoseconds.
func defaultTimestamp() uint64 {
	elapsed := time.Since(start)
	freq := int64(CurrentConfig().TimestampFrequency)
	if freq == 0 {
		return uint64(elapsed)
	}
	whole := int64(elapsed / time.Second)
	frac := int64(elapsed % time.Second)
	return uint64(whole*freq + frac*freq/int64(time.Second))
}
