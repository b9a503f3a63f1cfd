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
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testChannel returns a channel with its own ring, detached from the default
// control block.
func testChannel(size int, flags Flags) *Channel {
	c := &Channel{}
	c.init("test", make([]byte, size), flags)
	return c
}

func TestHeaderID(t *testing.T) {
	h := newHeader(1, 1)
	want := append([]byte("SEGGER RTT"), 0, 0, 0, 0, 0, 0)
	if diff := cmp.Diff(want, h.ID[:]); diff != "" {
		t.Errorf("header id diff (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint32(1), h.MaxUp)
	assert.Equal(t, uint32(1), h.MaxDown)
}

func TestDefaultControlBlock(t *testing.T) {
	cb := Default()
	require.Len(t, cb.Up, 1)
	require.Len(t, cb.Down, 1)
	assert.Equal(t, "postform", cb.Up[0].Name())
	assert.Equal(t, "postform_down", cb.Down[0].Name())
	assert.Equal(t, uint32(1024), cb.Up[0].Size())
	assert.Equal(t, uint32(16), cb.Down[0].Size())
	assert.Equal(t, uint32(1), cb.Header.MaxUp)
	assert.Equal(t, uint32(1), cb.Header.MaxDown)
}

func TestChannelReadDrainsPublishedBytes(t *testing.T) {
	c := testChannel(8, BlockIfFull)
	copy(c.buffer, []byte{1, 2, 3})
	c.write.Store(3)

	p := make([]byte, 8)
	n := c.Read(p)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{1, 2, 3}, p[:3])

	// Drained: nothing more to read.
	assert.Equal(t, 0, c.Read(p))
	w, r := c.Cursors()
	assert.Equal(t, w, r)
}

func TestChannelReadWrapsAround(t *testing.T) {
	c := testChannel(4, BlockIfFull)
	// Published region wraps: write=1, read=2 over ring [a b c d].
	copy(c.buffer, []byte{'a', 'b', 'c', 'd'})
	c.read.Store(2)
	c.write.Store(1)

	p := make([]byte, 8)
	n := c.Read(p)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{'c', 'd', 'a'}, p[:3])
}

func TestChannelBuffered(t *testing.T) {
	c := testChannel(8, BlockIfFull)
	assert.Equal(t, uint32(0), c.Buffered())
	c.write.Store(5)
	assert.Equal(t, uint32(5), c.Buffered())
	c.read.Store(7)
	// write=5, read=7: 8-7+5 = 6 bytes buffered, below size.
	assert.Equal(t, uint32(6), c.Buffered())
	assert.Less(t, c.Buffered(), c.Size())
}

func TestSetFlags(t *testing.T) {
	c := testChannel(8, NoBlockTrim)
	assert.Equal(t, NoBlockTrim, c.Flags())
	c.SetFlags(BlockIfFull)
	assert.Equal(t, BlockIfFull, c.Flags())
}

func TestControlBlockPrint(t *testing.T) {
	out := Default().Print()
	assert.Contains(t, out, "Up channels ............: 1")
	assert.Contains(t, out, "postform")
	assert.Contains(t, out, "postform_down")
}

// drain reads everything currently published on the channel.
func drain(c *Channel) []byte {
	var out bytes.Buffer
	p := make([]byte, 64)
	for {
		n := c.Read(p)
		if n == 0 {
			return out.Bytes()
		}
		out.Write(p[:n])
	}
}
