/*
 * Copyright 2026 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package gomarc

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nlnwa/gomarc/internal"
	"github.com/prometheus/tsdb/fileutil"
	log "github.com/sirupsen/logrus"
)

// FileNameGenerator is the interface that wraps the NewFileName function.
type FileNameGenerator interface {
	// NewFileName returns a directory (might be the empty string for current directory) and a file name
	NewFileName() (string, string)
}

// PatternNameGenerator implements the FileNameGenerator.
type PatternNameGenerator struct {
	Directory string // Directory to store record files. Defaults to the empty string
	Prefix    string // Prefix available to be used in pattern. Defaults to the empty string
	Serial    int32  // Serial number available for use in pattern. It is atomically increased with every generated file name.
	Pattern   string // Pattern for generated file name. Defaults to: "%{prefix}s%{ts}s-%04{serial}d-%{host}s.mrk"
}

const defaultPattern = "%{prefix}s%{ts}s-%04{serial}d-%{host}s.mrk"

// Allow overriding of time.Now for tests
var now = time.Now

func (g *PatternNameGenerator) NewFileName() (string, string) {
	if g.Pattern == "" {
		g.Pattern = defaultPattern
	}
	params := map[string]any{
		"prefix": g.Prefix,
		"ts":     now().UTC().Format("20060102150405"),
		"serial": atomic.AddInt32(&g.Serial, 1),
		"host":   internal.GetHostName(),
	}
	return g.Directory, internal.Sprintt(g.Pattern, params)
}

// WriteResponse describes where a record was written.
type WriteResponse struct {
	FileName     string // filename
	FileOffset   int64  // the offset in file, counted in uncompressed bytes
	BytesWritten int64  // number of uncompressed bytes written
	Err          error  // eventual error
}

// RecordFileWriter writes records to flat text files, starting a new file when the max file size is reached.
//
// While a file is written it has the open file suffix, which is removed when the file is closed.
// A RecordFileWriter is safe for concurrent use.
type RecordFileWriter struct {
	opts            *recordFileWriterOptions
	currentFileName string
	currentFile     *os.File
	currentWriter   io.Writer
	gz              *gzip.Writer
	currentFileSize int64
	writeLock       sync.Mutex
}

// NewRecordFileWriter creates a new RecordFileWriter with the supplied options.
func NewRecordFileWriter(opts ...RecordFileWriterOption) *RecordFileWriter {
	o := defaultRecordFileWriterOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &RecordFileWriter{opts: &o}
}

func (w *RecordFileWriter) String() string {
	return fmt.Sprintf("RecordFileWriter (%s)", w.opts)
}

// Write marshals one or more records to file. Returns one WriteResponse for each record.
func (w *RecordFileWriter) Write(records ...*Record) []WriteResponse {
	w.writeLock.Lock()
	defer w.writeLock.Unlock()

	res := make([]WriteResponse, len(records))
	for i, r := range records {
		res[i] = w.write(r)
	}
	return res
}

func (w *RecordFileWriter) write(record *Record) (response WriteResponse) {
	// Check if the current file has space for the new record
	if w.currentFile != nil && w.opts.maxFileSize > 0 && w.currentFileSize >= w.opts.maxFileSize {
		if err := w.close(); err != nil {
			response.Err = err
			return
		}
	}

	// Create new file if necessary
	if w.currentFile == nil {
		if err := w.createFile(); err != nil {
			response.Err = err
			return
		}
	}

	response.FileOffset = w.currentFileSize
	response.FileName = w.currentFileName
	response.BytesWritten, response.Err = w.opts.marshaler.Marshal(w.currentWriter, record)
	w.currentFileSize += response.BytesWritten
	if response.Err != nil {
		return
	}
	if w.opts.flush {
		if w.gz != nil {
			if response.Err = w.gz.Flush(); response.Err != nil {
				return
			}
		}
		// sync file to reduce possibility of half written records in case of crash
		response.Err = w.currentFile.Sync()
	}
	return
}

func (w *RecordFileWriter) createFile() error {
	dir, fileName := w.opts.nameGenerator.NewFileName()
	if w.opts.compress {
		fileName += w.opts.compressSuffix
	}
	path := filepath.Join(dir, fileName+w.opts.openFileSuffix)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0666)
	if err != nil {
		return err
	}
	log.Debugf("created record file %s", path)
	w.currentFileName = fileName
	w.currentFile = file
	w.currentFileSize = 0
	w.currentWriter = file
	if w.opts.compress {
		w.gz = gzip.NewWriter(file)
		w.currentWriter = w.gz
	}
	return nil
}

// Rotate closes the current file being written to.
// A call to Write after Rotate creates a new file.
func (w *RecordFileWriter) Rotate() error {
	return w.Close()
}

// Close closes the current file being written to.
// It is legal to call Write after close, but then a new file will be opened.
func (w *RecordFileWriter) Close() error {
	w.writeLock.Lock()
	defer w.writeLock.Unlock()
	return w.close()
}

func (w *RecordFileWriter) close() error {
	if w.currentFile == nil {
		return nil
	}
	var err multiErr
	f := w.currentFile
	if w.gz != nil {
		if e := w.gz.Close(); e != nil {
			err = append(err, e)
		}
		w.gz = nil
	}
	w.currentFile = nil
	w.currentWriter = nil
	w.currentFileName = ""
	if e := f.Close(); e != nil {
		err = append(err, fmt.Errorf("failed to close file: %s: %w", f.Name(), e))
	}
	if e := fileutil.Rename(f.Name(), strings.TrimSuffix(f.Name(), w.opts.openFileSuffix)); e != nil {
		err = append(err, fmt.Errorf("failed to rename file: %s: %w", f.Name(), e))
	}
	if err != nil {
		return err
	}
	return nil
}

// Options for record file writer
type recordFileWriterOptions struct {
	maxFileSize    int64
	compress       bool
	compressSuffix string
	openFileSuffix string
	flush          bool
	nameGenerator  FileNameGenerator
	marshaler      Marshaler
}

func (o *recordFileWriterOptions) String() string {
	return fmt.Sprintf("File size: %d, Compressed: %v", o.maxFileSize, o.compress)
}

// RecordFileWriterOption configures how to write record files.
type RecordFileWriterOption interface {
	apply(*recordFileWriterOptions)
}

// funcRecordFileWriterOption wraps a function that modifies recordFileWriterOptions into an
// implementation of the RecordFileWriterOption interface.
type funcRecordFileWriterOption struct {
	f func(*recordFileWriterOptions)
}

func (fo *funcRecordFileWriterOption) apply(po *recordFileWriterOptions) {
	fo.f(po)
}

func newFuncRecordFileWriterOption(f func(*recordFileWriterOptions)) *funcRecordFileWriterOption {
	return &funcRecordFileWriterOption{
		f: f,
	}
}

func defaultRecordFileWriterOptions() recordFileWriterOptions {
	return recordFileWriterOptions{
		maxFileSize:    1024 * 1024 * 1024, // 1 GiB
		compress:       false,
		compressSuffix: ".gz",
		openFileSuffix: ".open",
		nameGenerator:  &PatternNameGenerator{},
		marshaler:      NewMarshaler(),
	}
}

// WithMaxFileSize sets the size in uncompressed bytes after which a new file is started.
// A record is never split, so files may exceed this size by the size of one record.
// Zero disables rotation.
// defaults to 1 GiB
func WithMaxFileSize(size int64) RecordFileWriterOption {
	return newFuncRecordFileWriterOption(func(o *recordFileWriterOptions) {
		o.maxFileSize = size
	})
}

// WithCompression sets if writer should write gzip compressed files.
// defaults to false
func WithCompression(compress bool) RecordFileWriterOption {
	return newFuncRecordFileWriterOption(func(o *recordFileWriterOptions) {
		o.compress = compress
	})
}

// WithCompressedFileSuffix sets a suffix added to the generated name when compression is on.
// defaults to ".gz"
func WithCompressedFileSuffix(suffix string) RecordFileWriterOption {
	return newFuncRecordFileWriterOption(func(o *recordFileWriterOptions) {
		o.compressSuffix = suffix
	})
}

// WithOpenFileSuffix sets a suffix to be added to the file name while the file is open for writing.
// The suffix is automatically removed when the file is closed.
// defaults to ".open"
func WithOpenFileSuffix(suffix string) RecordFileWriterOption {
	return newFuncRecordFileWriterOption(func(o *recordFileWriterOptions) {
		o.openFileSuffix = suffix
	})
}

// WithFlush sets if writer should commit each record to stable storage.
// defaults to false
func WithFlush(flush bool) RecordFileWriterOption {
	return newFuncRecordFileWriterOption(func(o *recordFileWriterOptions) {
		o.flush = flush
	})
}

// WithFileNameGenerator sets the FileNameGenerator to use for generating new file names.
// defaults to PatternNameGenerator
func WithFileNameGenerator(generator FileNameGenerator) RecordFileWriterOption {
	return newFuncRecordFileWriterOption(func(o *recordFileWriterOptions) {
		o.nameGenerator = generator
	})
}

// WithMarshaler sets the record marshaler to use.
// defaults to NewMarshaler()
func WithMarshaler(marshaler Marshaler) RecordFileWriterOption {
	return newFuncRecordFileWriterOption(func(o *recordFileWriterOptions) {
		o.marshaler = marshaler
	})
}
