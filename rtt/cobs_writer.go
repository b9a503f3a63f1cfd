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

type writerState uint8

const (
	// stateFinished is the zero value: a default writer is invalid.
	stateFinished writerState = iota
	stateWritable
	stateTrimmed
)

// CobsWriter frames one record with reverse-marker COBS directly inside the
// channel ring, without a staging buffer. Each marker byte stores the
// distance to the next marker or to the terminating zero, so no data byte on
// the wire is zero and a host finding any zero byte resynchronizes at the
// next frame boundary.
//
// The zero CobsWriter is finished: Write and Commit are no-ops. A valid
// writer holds the manager token and must be committed exactly once; Commit
// is idempotent, so `defer w.Commit()` is the usual shape.
type CobsWriter struct {
	manager    *Manager
	channel    *Channel
	writePtr   uint32
	markerPtr  uint32
	frameStart uint32
	state      writerState
}

func newCobsWriter(manager *Manager, channel *Channel) *CobsWriter {
	w := &CobsWriter{
		manager:  manager,
		channel:  channel,
		writePtr: channel.write.Load(),
		state:    stateWritable,
	}
	w.markerPtr = w.writePtr
	w.frameStart = w.writePtr
	// Place the sentinel marker of the first block. If the ring has no
	// free slot and the trim policy forbids waiting, hand the token back
	// immediately: a writer is either writable or finished with no token
	// held, so dropping it without a commit must be safe.
	if !w.blockUntilNotFull() {
		w.state = stateFinished
		w.manager = nil
		manager.releaseWriter()
		return w
	}
	w.channel.buffer[w.markerPtr] = 0
	w.writePtr = w.nextWritePtr()
	return w
}

// Writable reports whether the writer holds the token and can still frame
// bytes.
func (w *CobsWriter) Writable() bool {
	return w.state == stateWritable
}

// Write frames p into the ring. Zero bytes become marker updates; a marker
// distance reaching 0xFF inserts a virtual zero so every block stays under
// 255 bytes. Under NoBlockTrim a full ring rewinds the whole frame and
// finishes the writer; nothing of a trimmed frame is ever published.
func (w *CobsWriter) Write(p []byte) {
	for _, b := range p {
		if w.state != stateWritable {
			return
		}
		if !w.blockUntilNotFull() {
			return
		}
		if b == 0 {
			w.updateMarker()
			continue
		}
		w.channel.buffer[w.writePtr] = b
		w.writePtr = w.nextWritePtr()

		// Check if we need to insert a virtual zero.
		if w.markerDistance() == 0xFF {
			if !w.blockUntilNotFull() {
				return
			}
			w.updateMarker()
		}
	}
}

// Commit finalizes the trailing block, terminates the frame with a zero byte,
// publishes the frame to the consumer and releases the producer token. A
// trimmed frame releases the token without publishing anything.
func (w *CobsWriter) Commit() {
	switch w.state {
	case stateWritable:
		if w.blockUntilNotFull() {
			w.updateMarker()
			w.channel.write.Store(w.writePtr)
		}
	case stateTrimmed:
	default:
		return
	}
	w.state = stateFinished
	if w.manager != nil {
		w.manager.releaseWriter()
		w.manager = nil
	}
}

// blockUntilNotFull waits for one free slot. While spinning it publishes the
// marker cursor, not the write cursor, so the consumer can drain completed
// frames without ever observing a partial block. It returns false when the
// trim policy rolled the frame back instead of waiting.
func (w *CobsWriter) blockUntilNotFull() bool {
	next := w.nextWritePtr()
	if w.channel.read.Load() != next {
		return true
	}
	if w.channel.Flags() == BlockIfFull {
		w.channel.write.Store(w.markerPtr)
		for w.channel.read.Load() == next {
			runtime.Gosched()
		}
		return true
	}
	// NoBlockTrim: rewind to the frame start and drop the remainder. A
	// partially written frame must never become visible.
	w.writePtr = w.frameStart
	w.markerPtr = w.frameStart
	w.state = stateTrimmed
	return false
}

// markerDistance is the modular distance from the marker to the write
// cursor.
func (w *CobsWriter) markerDistance() byte {
	if w.markerPtr > w.writePtr {
		return byte(w.channel.Size() - w.markerPtr + w.writePtr)
	}
	return byte(w.writePtr - w.markerPtr)
}

func (w *CobsWriter) nextWritePtr() uint32 {
	next := w.writePtr + 1
	if next >= w.channel.Size() {
		next -= w.channel.Size()
	}
	return next
}

// updateMarker closes the current block: the marker slot receives the
// distance to the write cursor and a new sentinel marker opens the next
// block.
func (w *CobsWriter) updateMarker() {
	w.channel.buffer[w.markerPtr] = w.markerDistance()

	w.markerPtr = w.writePtr
	w.channel.buffer[w.markerPtr] = 0
	w.writePtr = w.nextWritePtr()
}
