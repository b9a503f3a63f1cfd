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
	"runtime"
)

// RawWriter is an unframed ring producer used for pre-formatted byte
// streams; record boundaries are known only to the producer. The zero
// RawWriter is finished.
type RawWriter struct {
	manager  *Manager
	channel  *Channel
	writePtr uint32
	state    writerState
}

func newRawWriter(manager *Manager, channel *Channel) *RawWriter {
	return &RawWriter{
		manager:  manager,
		channel:  channel,
		writePtr: channel.write.Load(),
		state:    stateWritable,
	}
}

// Writable reports whether the writer holds the token.
func (w *RawWriter) Writable() bool {
	return w.state == stateWritable
}

// Write copies p into the ring in maximal contiguous runs. When the ring
// fills mid-call the bytes written so far are published so the consumer can
// make progress; the blocking policy then waits for space while the trim
// policy drops the tail.
func (w *RawWriter) Write(p []byte) {
	if w.state != stateWritable {
		return
	}

	for len(p) > 0 {
		n := len(p)
		if max := int(w.maxContiguous()); n > max {
			n = max
		}

		if n == 0 {
			// Out of room: make what we have visible, then wait or trim.
			w.channel.write.Store(w.writePtr)
			if w.channel.Flags() != BlockIfFull {
				return
			}
			runtime.Gosched()
			continue
		}

		copy(w.channel.buffer[w.writePtr:w.writePtr+uint32(n)], p[:n])
		p = p[n:]

		w.writePtr += uint32(n)
		if w.writePtr >= w.channel.Size() {
			w.writePtr = 0
		}
	}
}

// Commit publishes the final write cursor and releases the producer token.
func (w *RawWriter) Commit() {
	if w.state != stateWritable {
		return
	}
	w.channel.write.Store(w.writePtr)
	w.state = stateFinished
	if w.manager != nil {
		w.manager.releaseWriter()
		w.manager = nil
	}
}

// maxContiguous is the longest run that can be copied from the write cursor
// without wrapping or catching up with the read cursor, keeping the one
// sentinel slot free.
func (w *RawWriter) maxContiguous() uint32 {
	read := w.channel.read.Load()
	size := w.channel.Size()

	switch {
	case read == 0:
		return size - w.writePtr - 1
	case read > w.writePtr:
		return read - w.writePtr - 1
	default:
		return size - w.writePtr
	}
}
