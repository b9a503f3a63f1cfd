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

// Package filelog persists log records to a host file. Each record is stored
// as a little-endian u32 length followed by the raw payload, the format the
// persisted-log decoder consumes. COBS framing is unnecessary here since the
// length prefix already delimits records.
package filelog

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
	"k8s.io/klog/v2"

	postform "github.com/postform-dev/postform-go"
)

// Logger emits length-prefixed log records to a file.
type Logger struct {
	*postform.Logger[*Writer]
	taken atomic.Bool
	file  afero.File
}

// New opens (or creates) the log file at path and returns a logger appending
// records to it.
func New(fs afero.Fs, path string) (*Logger, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0664)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %q", path)
	}
	l := &Logger{file: f}
	l.Logger = postform.NewLogger[*Writer](l)
	return l, nil
}

// GetWriter acquires the file writer for one record, or returns a finished
// writer if another record is being written.
func (l *Logger) GetWriter() *Writer {
	if !l.taken.Swap(true) {
		return &Writer{logger: l}
	}
	return &Writer{}
}

// Close closes the underlying file. Outstanding writers must have been
// committed.
func (l *Logger) Close() error {
	return l.file.Close()
}

func (l *Logger) release() {
	l.taken.Store(false)
}

// Writer buffers one record and persists it whole on Commit. The zero Writer
// is finished.
type Writer struct {
	logger *Logger
	data   []byte
}

// Writable reports whether this writer may buffer record bytes.
func (w *Writer) Writable() bool {
	return w.logger != nil
}

// Write buffers record bytes.
func (w *Writer) Write(p []byte) {
	if w.logger != nil {
		w.data = append(w.data, p...)
	}
}

// Commit writes the length-prefixed record and releases the writer.
func (w *Writer) Commit() {
	if w.logger == nil {
		return
	}
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(w.data)))
	if _, err := w.logger.file.Write(hdr[:]); err != nil {
		klog.Errorf("filelog: writing record header: %v", err)
	} else if _, err := w.logger.file.Write(w.data); err != nil {
		klog.Errorf("filelog: writing record payload: %v", err)
	}
	w.logger.release()
	w.logger = nil
	w.data = nil
}
