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

import (
	"fmt"
	"unsafe"
)

// ArgType tags the variant held by an Argument.
type ArgType uint8

const (
	UnsignedInt ArgType = iota
	SignedInt
	CString
	OpaquePointer
	InternedArg
)

// Argument is the tagged carrier used to marshal heterogeneous log arguments
// through a single serialization path. Integers are widened to 64 bits; the
// original width is retained so the format validator can enforce size
// modifiers, since the widened carrier no longer can.
type Argument struct {
	typ ArgType
	// size is the original width in bytes of an integer argument.
	size uint8
	// num holds the widened integer, the pointer value or the interned
	// string address, depending on typ. Signed values are stored as the
	// two's complement bits of the sign-extended int64.
	num uint64
	str string
}

// Type returns the variant tag.
func (a Argument) Type() ArgType { return a.typ }

// Size returns the original width in bytes of an integer argument.
func (a Argument) Size() uint8 { return a.size }

// Unsigned returns the widened unsigned value, pointer value or interned
// string address.
func (a Argument) Unsigned() uint64 { return a.num }

// Signed returns the sign-extended value of a SignedInt argument.
func (a Argument) Signed() int64 { return int64(a.num) }

// Text returns the value of a CString argument.
func (a Argument) Text() string { return a.str }

// UnsignedInteger constrains the unsigned integer types accepted by Uint.
type UnsignedInteger interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// SignedInteger constrains the signed integer types accepted by Int.
type SignedInteger interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Uint builds an UnsignedInt argument, recording the width of T.
func Uint[T UnsignedInteger](v T) Argument {
	return Argument{typ: UnsignedInt, size: uint8(unsafe.Sizeof(v)), num: uint64(v)}
}

// Int builds a SignedInt argument, sign-extending to 64 bits and recording
// the width of T.
func Int[T SignedInteger](v T) Argument {
	return Argument{typ: SignedInt, size: uint8(unsafe.Sizeof(v)), num: uint64(int64(v))}
}

// Str builds a CString argument. The string is emitted on the wire up to and
// including a terminating NUL.
func Str(s string) Argument {
	return Argument{typ: CString, str: s}
}

// Ptr builds an OpaquePointer argument, rendered by the decoder as %p.
func Ptr(p unsafe.Pointer) Argument {
	return Argument{typ: OpaquePointer, size: uint8(unsafe.Sizeof(p)), num: uint64(uintptr(p))}
}

// Interned builds an argument carrying another interned string, rendered by
// the decoder as %k.
func Interned(s InternedString) Argument {
	return Argument{typ: InternedArg, num: s.addr}
}

// MakeArg coerces a value into an Argument. The coercion rules are
// unambiguous: signed integers sign-extend into SignedInt, unsigned integers
// widen into UnsignedInt, strings and byte slices become CString,
// unsafe.Pointer becomes OpaquePointer and InternedString is carried as is.
// Any other type is a programming error.
func MakeArg(v any) Argument {
	switch v := v.(type) {
	case Argument:
		return v
	case int:
		return Int(v)
	case int8:
		return Int(v)
	case int16:
		return Int(v)
	case int32:
		return Int(v)
	case int64:
		return Int(v)
	case uint:
		return Uint(v)
	case uint8:
		return Uint(v)
	case uint16:
		return Uint(v)
	case uint32:
		return Uint(v)
	case uint64:
		return Uint(v)
	case uintptr:
		return Uint(v)
	case string:
		return Str(v)
	case []byte:
		return Str(string(v))
	case unsafe.Pointer:
		return Ptr(v)
	case InternedString:
		return Interned(v)
	default:
		panic(fmt.Sprintf("postform: unsupported argument type %T", v))
	}
}

// ResizeArg returns a copy of an integer argument with the given original
// width. Static tooling uses it to model argument types it cannot construct
// directly.
func ResizeArg(a Argument, size uint8) Argument {
	a.size = size
	return a
}

// makeArgs coerces a convenience argument list.
func makeArgs(vs []any) []Argument {
	if len(vs) == 0 {
		return nil
	}
	args := make([]Argument, len(vs))
	for i, v := range vs {
		args[i] = MakeArg(v)
	}
	return args
}
