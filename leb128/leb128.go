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

// Package leb128 implements LEB128 variable-length integer encoding: 7
// payload bits per byte, least significant group first, with the high bit
// signaling continuation.
package leb128

import "errors"

// MaxLen64 is the maximum encoded length of a 64-bit value.
const MaxLen64 = 10

var (
	// ErrOverflow reports an encoding longer than MaxLen64 bytes.
	ErrOverflow = errors.New("leb128: value longer than 64 bits")
	// ErrTruncated reports input ending inside an encoding.
	ErrTruncated = errors.New("leb128: truncated encoding")
)

// AppendUnsigned appends the unsigned LEB128 encoding of v to dst and returns
// the extended slice.
func AppendUnsigned(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

// AppendSigned appends the signed LEB128 encoding of v to dst and returns the
// extended slice. The terminal byte carries the sign in bit 0x40.
func AppendSigned(dst []byte, v int64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

// Unsigned decodes an unsigned LEB128 value from the start of p, returning
// the value and the number of bytes consumed.
func Unsigned(p []byte) (uint64, int, error) {
	var v uint64
	for i, b := range p {
		if i == MaxLen64 {
			return 0, 0, ErrOverflow
		}
		v |= uint64(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}

// Signed decodes a signed LEB128 value from the start of p, returning the
// value and the number of bytes consumed.
func Signed(p []byte) (int64, int, error) {
	var v int64
	var shift uint
	for i, b := range p {
		if i == MaxLen64 {
			return 0, 0, ErrOverflow
		}
		v |= int64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				v |= -1 << shift
			}
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}
