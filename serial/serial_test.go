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
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postform "github.com/postform-dev/postform-go"
	"github.com/postform-dev/postform-go/internal/testonly"
	"github.com/postform-dev/postform-go/leb128"
)

func TestWriterEmitsEmptyFrame(t *testing.T) {
	sink := &testonly.RecordingSink{}
	l := NewLogger[*testonly.RecordingSink](sink)

	w := l.GetWriter()
	require.True(t, w.Writable())
	w.Commit()

	assert.Equal(t, []byte{1, 0}, sink.Bytes)
	assert.Equal(t, 1, sink.Commits)
}

func TestWriterCannotBeTakenTwice(t *testing.T) {
	sink := &testonly.RecordingSink{}
	l := NewLogger[*testonly.RecordingSink](sink)

	w := l.GetWriter()
	require.True(t, w.Writable())
	second := l.GetWriter()
	assert.False(t, second.Writable())

	// The loser must not scramble the stream.
	second.Write([]byte("nope"))
	second.Commit()
	assert.Empty(t, sink.Bytes)

	w.Commit()
	assert.Equal(t, []byte{1, 0}, sink.Bytes)
}

func TestWriterReleasesItself(t *testing.T) {
	sink := &testonly.RecordingSink{}
	l := NewLogger[*testonly.RecordingSink](sink)

	w := l.GetWriter()
	require.True(t, w.Writable())
	w.Commit()

	w = l.GetWriter()
	assert.True(t, w.Writable())
	w.Commit()

	assert.Equal(t, []byte{1, 0, 1, 0}, sink.Bytes)
	assert.Equal(t, 2, sink.Commits)
}

func TestWriterCommitIsIdempotent(t *testing.T) {
	sink := &testonly.RecordingSink{}
	l := NewLogger[*testonly.RecordingSink](sink)

	w := l.GetWriter()
	w.Write([]byte{5})
	w.Commit()
	w.Commit()
	w.Write([]byte{6})
	w.Commit()

	assert.Equal(t, []byte{5, 2, 0}, sink.Bytes)
	assert.Equal(t, 1, sink.Commits)
}

func TestWriterFramesZeros(t *testing.T) {
	sink := &testonly.RecordingSink{}
	l := NewLogger[*testonly.RecordingSink](sink)

	payload := []byte{0x61, 0x00, 0x62, 0x00, 0x00, 0x63}
	w := l.GetWriter()
	w.Write(payload)
	w.Commit()

	// Only the terminator is zero.
	assert.Equal(t, 1, bytes.Count(sink.Bytes, []byte{0}))

	payloads, err := testonly.DecodeSerialStream(sink.Bytes)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	if diff := cmp.Diff(payload, payloads[0]); diff != "" {
		t.Errorf("payload diff (-want +got):\n%s", diff)
	}
}

func TestWriterVirtualZeroAt255(t *testing.T) {
	sink := &testonly.RecordingSink{}
	l := NewLogger[*testonly.RecordingSink](sink)

	payload := make([]byte, 255)
	for i := range payload {
		payload[i] = byte(i%254) + 1
	}
	w := l.GetWriter()
	w.Write(payload)
	w.Commit()

	// 255 data bytes, one virtual zero marker, final marker, terminator.
	assert.Len(t, sink.Bytes, 258)

	payloads, err := testonly.DecodeSerialStream(sink.Bytes)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	if diff := cmp.Diff(payload, payloads[0]); diff != "" {
		t.Errorf("payload diff (-want +got):\n%s", diff)
	}
}

func TestZeroWriterIsFinished(t *testing.T) {
	var w Writer[*testonly.RecordingSink]
	assert.False(t, w.Writable())
	w.Write([]byte("x"))
	w.Commit()
}

func TestSerialLoggerEndToEnd(t *testing.T) {
	sink := &testonly.RecordingSink{}
	l := NewLogger[*testonly.RecordingSink](sink)

	postform.SetTimestampSource(func() uint64 { return 0x80 })
	defer postform.SetTimestampSource(nil)

	msg := postform.InternDebug("x=%u")
	l.Log(postform.Debug, msg, postform.Uint(uint32(300)))

	payloads, err := testonly.DecodeSerialStream(sink.Bytes)
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	want := leb128.AppendUnsigned(nil, 0x80) // [0x80, 0x01]
	want = leb128.AppendUnsigned(want, msg.Addr())
	want = leb128.AppendUnsigned(want, 300) // [0xAC, 0x02]
	assert.Equal(t, want, payloads[0])
}

func TestStreamSinkFlushesFramesWhole(t *testing.T) {
	var out bytes.Buffer
	sink := NewStreamSink(&out)
	l := NewLogger[*StreamSink](sink)

	w := l.GetWriter()
	w.Write([]byte{1, 2, 3})
	assert.Zero(t, out.Len(), "nothing reaches the stream before commit")
	w.Commit()

	require.NoError(t, sink.Err())
	payloads, err := testonly.DecodeSerialStream(out.Bytes())
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, []byte{1, 2, 3}, payloads[0])
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, assert.AnError
}

func TestStreamSinkRecordsFlushFailure(t *testing.T) {
	sink := NewStreamSink(failingWriter{})
	l := NewLogger[*StreamSink](sink)

	w := l.GetWriter()
	w.Write([]byte{1})
	w.Commit()

	assert.Error(t, sink.Err())

	// The writer token was still released.
	assert.True(t, l.GetWriter().Writable())
}
