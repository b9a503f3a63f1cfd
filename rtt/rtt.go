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

// Package rtt implements the Real-Time Transfer transport: single-producer
// single-consumer ring buffers described by a control block that a host
// debugger discovers by scanning RAM for a magic identifier. Producers frame
// records directly inside the ring with a reverse-marker variant of COBS, or
// write unframed bytes through the raw writer.
package rtt

import (
	"bytes"
	"fmt"

	"go.uber.org/atomic"
)

// Flags selects the policy of a channel producer when the ring is full.
type Flags uint32

const (
	// NoBlockTrim drops the remainder of the record when the ring is full.
	NoBlockTrim Flags = 1
	// BlockIfFull busy-waits for the consumer to drain the ring.
	BlockIfFull Flags = 2
)

// Channel is a ring of size bytes with three control words. Only the local
// producer moves write; only the host moves read. Both publish with release
// stores and observe with acquire loads on the single aligned words, which is
// all the coherence the transport relies on.
type Channel struct {
	name   string
	buffer []byte
	write  atomic.Uint32
	read   atomic.Uint32
	flags  atomic.Uint32
}

func (c *Channel) init(name string, buffer []byte, flags Flags) {
	c.name = name
	c.buffer = buffer
	c.flags.Store(uint32(flags))
}

// Name returns the channel name shown to the host debugger.
func (c *Channel) Name() string { return c.name }

// Size returns the ring size in bytes. One slot is sacrificed to tell a full
// ring from an empty one.
func (c *Channel) Size() uint32 { return uint32(len(c.buffer)) }

// Flags returns the current full-buffer policy.
func (c *Channel) Flags() Flags { return Flags(c.flags.Load()) }

// SetFlags sets the full-buffer policy. Set it during startup, before
// producers run.
func (c *Channel) SetFlags(f Flags) { c.flags.Store(uint32(f)) }

// Cursors returns the current write and read cursors.
func (c *Channel) Cursors() (write, read uint32) {
	return c.write.Load(), c.read.Load()
}

// Buffered returns the number of bytes published and not yet consumed.
func (c *Channel) Buffered() uint32 {
	w := c.write.Load()
	r := c.read.Load()
	if w >= r {
		return w - r
	}
	return c.Size() - r + w
}

// Read drains up to len(p) published bytes into p, advancing the read
// cursor. This is the consumer side of the ring, the in-process equivalent of
// the host debugger's memory reads.
func (c *Channel) Read(p []byte) int {
	w := c.write.Load()
	r := c.read.Load()
	size := c.Size()

	n := 0
	for n < len(p) && r != w {
		p[n] = c.buffer[r]
		n++
		if r++; r >= size {
			r = 0
		}
	}
	c.read.Store(r)
	return n
}

// ChannelDescriptor names a channel and provides its backing ring.
type ChannelDescriptor struct {
	Name   string
	Buffer []byte
}

// headerIDLen is the length of the control block identifier.
const headerIDLen = 16

// Header is the fixed leading part of the control block.
type Header struct {
	ID      [headerIDLen]byte
	MaxUp   uint32
	MaxDown uint32
}

func newHeader(maxUp, maxDown uint32) Header {
	h := Header{MaxUp: maxUp, MaxDown: maxDown}
	// The identifier is assembled from two halves so that its byte sequence
	// does not appear whole in read-only memory; the host locates the
	// control block by scanning RAM for it.
	const firstPart = "SEGGER"
	const secondPart = " RTT\x00\x00\x00\x00\x00\x00"
	copy(h.ID[:], firstPart)
	copy(h.ID[len(firstPart):], secondPart)
	return h
}

// ControlBlock is the shared descriptor the host scans for: the header
// followed by the up channels (target to host) and the down channels (host to
// target).
type ControlBlock struct {
	Header Header
	Up     []Channel
	Down   []Channel
}

// NewControlBlock builds a control block from channel descriptors. Ring
// contents are left as found; cursors start at zero on both sides, so stale
// buffer bytes are never observed.
func NewControlBlock(up, down []ChannelDescriptor) *ControlBlock {
	cb := &ControlBlock{
		Header: newHeader(uint32(len(up)), uint32(len(down))),
		Up:     make([]Channel, len(up)),
		Down:   make([]Channel, len(down)),
	}
	for i, d := range up {
		cb.Up[i].init(d.Name, d.Buffer, NoBlockTrim)
	}
	for i, d := range down {
		cb.Down[i].init(d.Name, d.Buffer, NoBlockTrim)
	}
	return cb
}

const (
	defaultUpBufferSize   = 1024
	defaultDownBufferSize = 16
)

// Statically allocated rings of the process-wide control block.
var (
	upBuffer   [defaultUpBufferSize]byte
	downBuffer [defaultDownBufferSize]byte

	controlBlock = NewControlBlock(
		[]ChannelDescriptor{{Name: "postform", Buffer: upBuffer[:]}},
		[]ChannelDescriptor{{Name: "postform_down", Buffer: downBuffer[:]}},
	)
)

// Default returns the process-wide control block, the _SEGGER_RTT symbol of
// this rendition.
func Default() *ControlBlock {
	return controlBlock
}

// Print returns the control block state in textual format.
func (cb *ControlBlock) Print() string {
	var status bytes.Buffer

	status.WriteString("-------------------------------------------------------- RTT control block ----\n")
	status.WriteString(fmt.Sprintf("Identifier .............: %q\n", string(cb.Header.ID[:])))
	status.WriteString(fmt.Sprintf("Up channels ............: %d\n", cb.Header.MaxUp))
	status.WriteString(fmt.Sprintf("Down channels ..........: %d\n", cb.Header.MaxDown))

	for _, channels := range [][]Channel{cb.Up, cb.Down} {
		for i := range channels {
			c := &channels[i]
			w, r := c.Cursors()
			status.WriteString(fmt.Sprintf("%-24s: size %d write %d read %d flags %d\n",
				c.Name(), c.Size(), w, r, c.flags.Load()))
		}
	}

	return status.String()
}
