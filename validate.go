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
	"errors"
	"fmt"
	"strings"
)

// ErrFormatMismatch reports a format string whose specifiers do not match the
// argument list. It is a fatal programming error: the analyzer in
// internal/analyzer rejects it at build time, and the logger refuses to run a
// site that fails validation.
var ErrFormatMismatch = errors.New("format string does not match arguments")

// A sizeSpec is a literal size-modifier prefix together with the integer
// widths it accepts. The carrier widens every integer to 64 bits, so the
// declared width can only be checked here, against the width recorded by the
// argument constructor. The bare and "l" modifiers accept both 4 and 8 byte
// integers, matching the platform-dependent C widths the wire format was
// defined against.
type sizeSpec struct {
	spec  string
	match func(size uint8) bool
}

var (
	anySize = sizeSpec{spec: "", match: func(uint8) bool { return true }}

	integerSizeSpecs = []sizeSpec{
		{spec: "", match: func(s uint8) bool { return s == 4 || s == 8 }},
		{spec: "l", match: func(s uint8) bool { return s == 4 || s == 8 }},
		{spec: "ll", match: func(s uint8) bool { return s == 8 }},
		{spec: "hh", match: func(s uint8) bool { return s == 1 }},
		{spec: "h", match: func(s uint8) bool { return s == 2 }},
	}
)

// A convSpec is one conversion character together with the argument predicate
// it imposes and the size modifiers it honors.
type convSpec struct {
	conv  string
	sizes []sizeSpec
	match func(a Argument) bool
}

var convSpecs = []convSpec{
	{conv: "s", sizes: []sizeSpec{anySize}, match: func(a Argument) bool {
		return a.typ == CString
	}},
	{conv: "d", sizes: integerSizeSpecs, match: func(a Argument) bool {
		return a.typ == SignedInt
	}},
	{conv: "i", sizes: integerSizeSpecs, match: func(a Argument) bool {
		return a.typ == SignedInt
	}},
	{conv: "u", sizes: integerSizeSpecs, match: func(a Argument) bool {
		return a.typ == UnsignedInt
	}},
	{conv: "o", sizes: integerSizeSpecs, match: func(a Argument) bool {
		return a.typ == SignedInt || a.typ == UnsignedInt
	}},
	{conv: "x", sizes: integerSizeSpecs, match: func(a Argument) bool {
		return a.typ == SignedInt || a.typ == UnsignedInt
	}},
	{conv: "p", sizes: []sizeSpec{anySize}, match: func(a Argument) bool {
		return a.typ == OpaquePointer
	}},
	{conv: "k", sizes: []sizeSpec{anySize}, match: func(a Argument) bool {
		return a.typ == InternedArg
	}},
}

// Validate checks a printf-style format string against its arguments. Every
// specifier must match one argument in order and both lists must be exhausted
// together. %% escapes a literal percent sign.
func Validate(format string, args ...Argument) error {
	argIdx := 0
	i := 0
	for i < len(format) {
		if format[i] != '%' {
			i++
			continue
		}
		i++
		if i < len(format) && format[i] == '%' {
			i++
			continue
		}
		if argIdx >= len(args) {
			return fmt.Errorf("%w: %q has more specifiers than arguments", ErrFormatMismatch, format)
		}
		n, err := matchSpecifier(format[i:], args[argIdx])
		if err != nil {
			return fmt.Errorf("%w: %q argument %d: %v", ErrFormatMismatch, format, argIdx, err)
		}
		i += n
		argIdx++
	}
	if argIdx != len(args) {
		return fmt.Errorf("%w: %q has %d specifiers for %d arguments", ErrFormatMismatch, format, argIdx, len(args))
	}
	return nil
}

// matchSpecifier matches the specifier at the start of rest against arg and
// returns the number of format bytes it consumed.
func matchSpecifier(rest string, arg Argument) (int, error) {
	for _, cs := range convSpecs {
		for _, ss := range cs.sizes {
			if !strings.HasPrefix(rest, ss.spec+cs.conv) {
				continue
			}
			if !cs.match(arg) {
				return 0, fmt.Errorf("%%%s%s does not accept %v argument", ss.spec, cs.conv, arg.typ)
			}
			if !ss.match(arg.size) {
				return 0, fmt.Errorf("%%%s%s does not accept a %d byte integer", ss.spec, cs.conv, arg.size)
			}
			return len(ss.spec) + len(cs.conv), nil
		}
	}
	return 0, fmt.Errorf("unknown specifier at %q", truncate(rest, 8))
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func (t ArgType) String() string {
	switch t {
	case UnsignedInt:
		return "unsigned integer"
	case SignedInt:
		return "signed integer"
	case CString:
		return "string"
	case OpaquePointer:
		return "pointer"
	case InternedArg:
		return "interned string"
	default:
		return "invalid"
	}
}
