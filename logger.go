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
	"runtime"
	"sync"

	"go.uber.org/atomic"

	"github.com/postform-dev/postform-go/leb128"
)

// nul terminates CString arguments on the wire.
var nul = [1]byte{0}

// Writer is a framed record producer. A writer is either writable or
// finished; Write and Commit on a finished writer are no-ops. Commit
// publishes the record and releases the producer back to its source, exactly
// once.
type Writer interface {
	Write(p []byte)
	Commit()
	Writable() bool
}

// WriterSource hands out the transport's writer. An unavailable producer is
// signalled by returning a finished writer, never by blocking.
type WriterSource[W Writer] interface {
	GetWriter() W
}

// Logger serializes log records to a transport. It is generic over the
// concrete writer type so the hot path compiles to direct calls, the same
// reason the original design used static dispatch. Construct one with
// NewLogger, or use the transport loggers in rtt, serial and filelog.
type Logger[W Writer] struct {
	level  atomic.Int32
	source WriterSource[W]

	// sites caches interning and validation per call site PC for the
	// convenience helpers.
	sites sync.Map // uintptr -> InternedString
}

// NewLogger returns a logger emitting through the given writer source.
// The returned logger passes every level until SetLevel is called.
func NewLogger[W Writer](source WriterSource[W]) *Logger[W] {
	return &Logger[W]{source: source}
}

// SetLevel stores the minimum level of records allowed to reach the
// transport.
func (l *Logger[W]) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// CurrentLevel returns the level set by SetLevel.
func (l *Logger[W]) CurrentLevel() Level {
	return Level(l.level.Load())
}

// Log emits one record: the timestamp, the interned format string address
// and each argument, in source order. If the level is filtered or no writer
// is available the record is dropped without side effect. The record is never
// partially visible: the writer publishes it atomically on commit.
func (l *Logger[W]) Log(level Level, msg InternedString, args ...Argument) {
	if level < Level(l.level.Load()) {
		return
	}
	ts := Timestamp()
	w := l.source.GetWriter()
	// Commit exactly once on every path: it publishes the record, and on a
	// writer that went unwritable it only releases what the writer still
	// holds.
	defer w.Commit()
	if !w.Writable() {
		return
	}

	var scratch [leb128.MaxLen64]byte
	w.Write(leb128.AppendUnsigned(scratch[:0], ts))
	w.Write(leb128.AppendUnsigned(scratch[:0], msg.Addr()))

	for _, arg := range args {
		switch arg.typ {
		case CString:
			w.Write([]byte(arg.str))
			w.Write(nul[:])
		case UnsignedInt:
			w.Write(leb128.AppendUnsigned(scratch[:0], arg.num))
		case SignedInt:
			w.Write(leb128.AppendSigned(scratch[:0], int64(arg.num)))
		case OpaquePointer, InternedArg:
			w.Write(leb128.AppendUnsigned(scratch[:0], arg.num))
		default:
			panic("postform: invalid argument tag")
		}
	}
}

// Debugf logs a printf-style record at debug level. The format string is
// validated and interned once per call site; a mismatched format is a fatal
// error. Use cmd/postformvet to reject such sites at build time instead.
func (l *Logger[W]) Debugf(format string, args ...any) {
	l.logf(Debug, format, args)
}

// Infof logs a printf-style record at info level. See Debugf.
func (l *Logger[W]) Infof(format string, args ...any) {
	l.logf(Info, format, args)
}

// Warningf logs a printf-style record at warning level. See Debugf.
func (l *Logger[W]) Warningf(format string, args ...any) {
	l.logf(Warning, format, args)
}

// Errorf logs a printf-style record at error level. See Debugf.
func (l *Logger[W]) Errorf(format string, args ...any) {
	l.logf(Error, format, args)
}

func (l *Logger[W]) logf(level Level, format string, vs []any) {
	args := makeArgs(vs)

	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		file, line = "unknown", 0
	}
	msg, cached := l.sites.Load(pc)
	if !cached {
		if err := Validate(format, args...); err != nil {
			panic(err)
		}
		msg, _ = l.sites.LoadOrStore(pc, internAt(sectionForLevel(level), file, line, format))
	}
	l.Log(level, msg.(InternedString), args...)
}
