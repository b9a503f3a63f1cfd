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

// Package serial frames log records for byte-oriented transports such as a
// UART or a host file. Unlike the in-ring RTT framer it encodes forward:
// a running marker counts the bytes since the last zero and is emitted in
// place of each zero byte, with a terminating zero closing the frame.
package serial

import (
	"go.uber.org/atomic"

	postform "github.com/postform-dev/postform-go"
)

// ByteSink is the transport contract: an opaque byte-oriented sink.
// WriteByte queues one byte; Commit marks a frame boundary and pushes
// everything out.
type ByteSink interface {
	WriteByte(b byte)
	Commit()
}

type writerState uint8

const (
	stateFinished writerState = iota
	stateWritable
)

// Writer frames one record with forward reverse-COBS over a ByteSink. The
// zero Writer is finished; valid writers come from the logger and must be
// committed exactly once. Commit is idempotent.
type Writer[S ByteSink] struct {
	logger *Logger[S]
	sink   S
	state  writerState
	// marker counts the bytes emitted since the last zero, starting at 1.
	marker uint32
}

// Writable reports whether this writer may frame bytes.
func (w *Writer[S]) Writable() bool {
	return w.state == stateWritable
}

// Write frames p into the sink. Each zero byte is replaced by the marker
// value; a marker reaching 255 emits a virtual zero so the distance always
// fits one byte.
func (w *Writer[S]) Write(p []byte) {
	if w.state != stateWritable {
		return
	}
	for _, b := range p {
		if w.marker == 255 {
			// Insert a virtual zero marker to continue the frame.
			w.sink.WriteByte(255)
			w.marker = 1
		}

		if b == 0 {
			w.sink.WriteByte(byte(w.marker))
			w.marker = 1
		} else {
			w.sink.WriteByte(b)
			w.marker++
		}
	}
}

// Commit emits the final marker and the terminating zero, commits the sink
// and releases the writer back to the logger.
func (w *Writer[S]) Commit() {
	if w.state != stateWritable {
		return
	}
	w.state = stateFinished
	w.sink.WriteByte(byte(w.marker))
	w.sink.WriteByte(0)
	w.sink.Commit()
	w.marker = 0
	if w.logger != nil {
		w.logger.release()
		w.logger = nil
	}
}

// Logger emits log records as zero-delimited frames on a byte sink. It owns
// the single producer token for the sink: concurrent log calls are dropped
// at the acquisition point rather than scrambling the serial stream.
type Logger[S ByteSink] struct {
	*postform.Logger[*Writer[S]]
	taken atomic.Bool
	sink  S
}

// NewLogger returns a logger framing records onto sink.
func NewLogger[S ByteSink](sink S) *Logger[S] {
	l := &Logger[S]{sink: sink}
	l.Logger = postform.NewLogger[*Writer[S]](l)
	return l
}

// GetWriter acquires the sink's writer for one record. If it is already
// taken, perhaps by another goroutine or by an interrupted log call on this
// one, a finished writer is returned.
func (l *Logger[S]) GetWriter() *Writer[S] {
	if !l.taken.Swap(true) {
		return &Writer[S]{logger: l, sink: l.sink, state: stateWritable, marker: 1}
	}
	return &Writer[S]{}
}

func (l *Logger[S]) release() {
	l.taken.Store(false)
}
