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
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nlnwa/gomarc/internal/countingreader"
	log "github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"
)

// SourceKind selects where a Source gets its records from.
type SourceKind int

const (
	// SourceFile reads records from a named file.
	SourceFile SourceKind = 1
	// SourceString reads records from a string holding one or more records.
	SourceString SourceKind = 2
)

func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceString:
		return "string"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Source yields raw records one at a time. A Source must not be used concurrently.
type Source struct {
	opts           *options
	kind           SourceKind
	closers        []io.Closer
	countingReader *countingreader.Reader
	bufferedReader *bufio.Reader
	chunks         []string
	offset         int64
	done           bool
}

// NewSource creates a Source. With SourceFile, source is a file name. With SourceString, source holds the records.
//
// An InvalidFile error is returned if the file can't be read or the string is empty.
// An InvalidSource error is returned for unknown kinds.
func NewSource(source string, kind SourceKind, opts ...Option) (*Source, error) {
	return newSource(source, kind, newOptions(opts...))
}

// NewStreamSource creates a Source reading records from r. Compressed input is detected like for files.
func NewStreamSource(r io.Reader, opts ...Option) (*Source, error) {
	s := &Source{opts: newOptions(opts...), kind: SourceFile}
	if c, ok := r.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	if err := s.initReader(r); err != nil {
		return nil, err
	}
	return s, nil
}

func newSource(source string, kind SourceKind, o *options) (*Source, error) {
	s := &Source{opts: o, kind: kind}

	switch kind {
	case SourceFile:
		file, err := os.Open(source)
		if err != nil {
			return nil, newInvalidFileError(source, err)
		}
		fi, err := file.Stat()
		if err != nil {
			_ = file.Close()
			return nil, newInvalidFileError(source, err)
		}
		if fi.IsDir() {
			_ = file.Close()
			return nil, newInvalidFileError(source, fmt.Errorf("is a directory"))
		}
		s.closers = append(s.closers, file)
		if err := s.initReader(file); err != nil {
			_ = s.Close()
			return nil, newInvalidFileError(source, err)
		}
	case SourceString:
		if source != "" {
			s.chunks = strings.Split(source, string(o.endOfRecord))
		}
	default:
		return nil, newInvalidSourceError(kind)
	}

	if s.bufferedReader == nil && len(s.chunks) == 0 {
		return nil, newInvalidFileError(source, nil)
	}
	return s, nil
}

// initReader sets up the reader chain and unwraps gzip or xz compressed input.
func (s *Source) initReader(r io.Reader) error {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return err
	}

	var in io.Reader = br
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		log.Debug("detected gzip source")
		g, err := gzip.NewReader(br)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, g)
		in = g
	case bytes.HasPrefix(magic, xzMagic):
		log.Debug("detected xz source")
		x, err := xz.NewReader(br)
		if err != nil {
			return err
		}
		in = x
	}

	s.countingReader = countingreader.New(in)
	s.bufferedReader = bufio.NewReaderSize(s.countingReader, 64*1024)
	return nil
}

// Kind returns the kind of the source. Stream sources report SourceFile.
func (s *Source) Kind() SourceKind {
	return s.kind
}

// NextRaw returns the next raw record and its offset in the uncompressed input.
//
// Leading newlines, carriage returns and NUL bytes are removed. When there are no more records,
// or an empty record is found, io.EOF is returned and every later call returns io.EOF as well.
func (s *Source) NextRaw() (string, int64, error) {
	if s.done {
		return "", s.offset, io.EOF
	}

	var raw string
	var offset int64
	if s.bufferedReader != nil {
		offset = s.countingReader.N() - int64(s.bufferedReader.Buffered())
		r, err := s.readChunk()
		if err != nil {
			return "", offset, err
		}
		raw = r
	} else {
		offset = s.offset
		if len(s.chunks) > 0 {
			raw = s.chunks[0]
			s.chunks = s.chunks[1:]
			s.offset += int64(len(raw)) + 1
		}
	}

	trimmed := strings.TrimLeft(raw, leadingJunk)
	offset += int64(len(raw) - len(trimmed))
	if trimmed == "" {
		log.Debug("end of source")
		s.done = true
		s.offset = offset
		return "", offset, io.EOF
	}
	return trimmed, offset, nil
}

// readChunk reads until the end of record marker, which is consumed but not returned,
// or until max record length bytes are read.
func (s *Source) readChunk() (string, error) {
	var buf []byte
	for len(buf) < s.opts.maxRecordLength {
		b, err := s.bufferedReader.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if b == s.opts.endOfRecord {
			break
		}
		buf = append(buf, b)
	}
	return string(buf), nil
}

// Close releases the file held by the source.
func (s *Source) Close() error {
	var err multiErr
	for i := len(s.closers) - 1; i >= 0; i-- {
		if e := s.closers[i].Close(); e != nil {
			err = append(err, e)
		}
	}
	s.closers = nil
	if err != nil {
		return err
	}
	return nil
}
