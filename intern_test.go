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
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternAddsLocationPrefix(t *testing.T) {
	s := InternInfo("hello %u")
	str, ok := LookupInterned(s.Addr())
	require.True(t, ok)

	// file@line@format, so the decoder recovers the log site without a
	// separate channel.
	re := regexp.MustCompile(`^.*intern_test\.go@\d+@hello %u$`)
	assert.Regexp(t, re, str)
}

func TestInternIsIdempotent(t *testing.T) {
	format := "an idempotent format %d"
	var first, second InternedString
	// Same site: intern through a helper pinned to one file:line.
	intern := func() InternedString { return InternWarning(format) }
	first = intern()
	second = intern()
	assert.Equal(t, first.Addr(), second.Addr())
}

func TestInternSectionsAreDisjoint(t *testing.T) {
	d := InternDebug("disjoint")
	i := InternInfo("disjoint")
	w := InternWarning("disjoint")
	e := InternError("disjoint")
	u := InternUser("disjoint")

	addrs := map[Section]uint64{
		SectionDebug:   d.Addr(),
		SectionInfo:    i.Addr(),
		SectionWarning: w.Addr(),
		SectionError:   e.Addr(),
		SectionUser:    u.Addr(),
	}
	for sec, a := range addrs {
		base := sectionBase[sec]
		assert.True(t, a >= base && a < base+sectionWindow,
			"%v address %#x outside window [%#x, %#x)", sec, a, base, base+sectionWindow)
	}
}

func TestSectionEntriesAddressLayout(t *testing.T) {
	before := len(SectionEntries(SectionUser))
	a := InternUser(fmt.Sprintf("layout probe %d", before))
	b := InternUser(fmt.Sprintf("layout probe %d bis", before))

	entries := SectionEntries(SectionUser)
	require.GreaterOrEqual(t, len(entries), 2)

	// Addresses are assigned sequentially, one byte per string byte plus
	// the NUL, like a packed linker section.
	byAddr := map[uint64]string{}
	var prev *Entry
	for i := range entries {
		e := entries[i]
		byAddr[e.Addr] = e.Str
		if prev != nil {
			assert.Equal(t, prev.Addr+uint64(len(prev.Str))+1, e.Addr)
		}
		prev = &entries[i]
	}
	assert.Contains(t, byAddr, a.Addr())
	assert.Contains(t, byAddr, b.Addr())
}

func TestInternUserHasNoPrefix(t *testing.T) {
	s := InternUser("bare user string")
	str, ok := LookupInterned(s.Addr())
	require.True(t, ok)
	assert.False(t, strings.Contains(str, "@"))
	assert.Equal(t, "bare user string", str)
}

func TestLookupUnknownAddress(t *testing.T) {
	_, ok := LookupInterned(0xDEAD_BEEF)
	assert.False(t, ok)
}
