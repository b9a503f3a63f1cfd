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

// Package testonly provides the host decoder's view of the wire format for
// use in tests: COBS frame splitting and decoding, record parsing, and fake
// byte sinks.
package testonly

import (
	"bytes"
	"fmt"

	"github.com/postform-dev/postform-go/leb128"
)

// SplitFrames splits a raw channel stream into zero-terminated COBS frames,
// excluding the terminators. A trailing partial frame is an error.
func SplitFrames(stream []byte) ([][]byte, error) {
	var frames [][]byte
	for len(stream) > 0 {
		i := bytes.IndexByte(stream, 0)
		if i < 0 {
			return nil, fmt.Errorf("unterminated frame %x", stream)
		}
		frames = append(frames, stream[:i])
		stream = stream[i+1:]
	}
	return frames, nil
}

// DecodeFrame expands one COBS frame (without its terminating zero) back
// into the original payload, resolving distance markers and virtual zeros.
func DecodeFrame(frame []byte) ([]byte, error) {
	var out []byte
	i := 0
	for {
		if i >= len(frame) {
			return nil, fmt.Errorf("frame %x ends inside a block", frame)
		}
		d := int(frame[i])
		if d == 0 {
			return nil, fmt.Errorf("frame %x has a zero distance byte", frame)
		}
		if i+d > len(frame) {
			return nil, fmt.Errorf("frame %x: distance %d overruns the frame", frame, d)
		}
		for j := i + 1; j < i+d; j++ {
			if frame[j] == 0 {
				return nil, fmt.Errorf("frame %x has a zero data byte", frame)
			}
			out = append(out, frame[j])
		}
		i += d
		if i == len(frame) {
			// The next marker is the frame terminator.
			return out, nil
		}
		if d != 0xFF {
			out = append(out, 0)
		}
	}
}

// DecodeStream splits a channel stream into frames and decodes each.
func DecodeStream(stream []byte) ([][]byte, error) {
	frames, err := SplitFrames(stream)
	if err != nil {
		return nil, err
	}
	payloads := make([][]byte, 0, len(frames))
	for _, f := range frames {
		p, err := DecodeFrame(f)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

// DecodeSerialFrame expands one frame produced by the forward serial framer
// (without its terminating zero). There the marker byte trails the block it
// counts, so the frame is walked from the end: each marker replaced a zero of
// the payload, except virtual 255 markers and the final commit marker.
func DecodeSerialFrame(frame []byte) ([]byte, error) {
	var blocks [][]byte
	var zeroAfter []bool

	pos := len(frame)
	for pos > 0 {
		m := int(frame[pos-1])
		if m == 0 {
			return nil, fmt.Errorf("frame %x has a zero marker byte", frame)
		}
		if m > pos {
			return nil, fmt.Errorf("frame %x: marker %d underruns the frame", frame, m)
		}
		data := frame[pos-m : pos-1]
		for _, b := range data {
			if b == 0 {
				return nil, fmt.Errorf("frame %x has a zero data byte", frame)
			}
		}
		blocks = append([][]byte{data}, blocks...)
		zeroAfter = append([]bool{m != 255}, zeroAfter...)
		pos -= m
	}

	var out []byte
	for i, b := range blocks {
		out = append(out, b...)
		// The final block's marker is the commit marker, not a zero.
		if i < len(blocks)-1 && zeroAfter[i] {
			out = append(out, 0)
		}
	}
	return out, nil
}

// DecodeSerialStream splits a serial byte stream into frames and decodes
// each with DecodeSerialFrame.
func DecodeSerialStream(stream []byte) ([][]byte, error) {
	frames, err := SplitFrames(stream)
	if err != nil {
		return nil, err
	}
	payloads := make([][]byte, 0, len(frames))
	for _, f := range frames {
		p, err := DecodeSerialFrame(f)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

// Record is a parsed log record payload.
type Record struct {
	Timestamp uint64
	Interned  uint64
	// Rest is the raw argument bytes following the interned string address.
	Rest []byte
}

// ParseRecord splits a record payload into timestamp, interned string
// address and the remaining argument bytes.
func ParseRecord(payload []byte) (Record, error) {
	ts, n, err := leb128.Unsigned(payload)
	if err != nil {
		return Record{}, fmt.Errorf("timestamp: %v", err)
	}
	payload = payload[n:]
	addr, n, err := leb128.Unsigned(payload)
	if err != nil {
		return Record{}, fmt.Errorf("interned string address: %v", err)
	}
	return Record{Timestamp: ts, Interned: addr, Rest: payload[n:]}, nil
}

// RecordingSink is a serial.ByteSink capturing everything written to it.
type RecordingSink struct {
	Bytes   []byte
	Commits int
}

// WriteByte appends b to the captured stream.
func (s *RecordingSink) WriteByte(b byte) {
	s.Bytes = append(s.Bytes, b)
}

// Commit counts frame boundaries.
func (s *RecordingSink) Commit() {
	s.Commits++
}
