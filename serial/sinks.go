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

package serial

import (
	"io"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"periph.io/x/conn/v3"
)

// StreamSink adapts an io.Writer (a UART device file, a pipe, a TCP
// connection) to the ByteSink contract. Frames are buffered and written out
// whole on Commit. The byte-sink contract has no error channel on the hot
// path; write failures are recorded, logged and surfaced through Err.
type StreamSink struct {
	w   io.Writer
	buf []byte
	err error
}

// NewStreamSink returns a sink flushing each frame to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// WriteByte queues one byte of the current frame.
func (s *StreamSink) WriteByte(b byte) {
	s.buf = append(s.buf, b)
}

// Commit writes the buffered frame out.
func (s *StreamSink) Commit() {
	if len(s.buf) == 0 {
		return
	}
	if _, err := s.w.Write(s.buf); err != nil {
		s.err = errors.Wrap(err, "flushing frame")
		klog.Warningf("serial: dropped frame of %d bytes: %v", len(s.buf), err)
	}
	s.buf = s.buf[:0]
}

// Err returns the last flush failure, if any.
func (s *StreamSink) Err() error {
	return s.err
}

// ConnSink adapts a periph.io point-to-point connection (a UART or SPI
// bridge port) to the ByteSink contract. Each frame is pushed as a single
// write-only transaction on Commit.
type ConnSink struct {
	conn conn.Conn
	buf  []byte
	err  error
}

// NewConnSink returns a sink transmitting each frame over c.
func NewConnSink(c conn.Conn) *ConnSink {
	return &ConnSink{conn: c}
}

// WriteByte queues one byte of the current frame.
func (s *ConnSink) WriteByte(b byte) {
	s.buf = append(s.buf, b)
}

// Commit transmits the buffered frame.
func (s *ConnSink) Commit() {
	if len(s.buf) == 0 {
		return
	}
	if err := s.conn.Tx(s.buf, nil); err != nil {
		s.err = errors.Wrapf(err, "transmitting frame on %s", s.conn)
		klog.Warningf("serial: dropped frame of %d bytes: %v", len(s.buf), err)
	}
	s.buf = s.buf[:0]
}

// Err returns the last transmit failure, if any.
func (s *ConnSink) Err() error {
	return s.err
}
