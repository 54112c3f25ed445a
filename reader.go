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
	"io"
)

// Reader reads Records from a Source.
type Reader struct {
	source  *Source
	decoder *Decoder
}

// NewReader creates a Reader for a file or a string of records. See NewSource for the errors returned.
//
// Retrieve records from a file:
//
//	r, err := gomarc.NewReader("journals.mrk", gomarc.SourceFile)
//
// Retrieve records from a string:
//
//	r, err := gomarc.NewReader(raw, gomarc.SourceString)
func NewReader(source string, kind SourceKind, opts ...Option) (*Reader, error) {
	o := newOptions(opts...)
	s, err := newSource(source, kind, o)
	if err != nil {
		return nil, err
	}
	return &Reader{source: s, decoder: newDecoder(o)}, nil
}

// NewStreamReader creates a Reader for records read from r.
func NewStreamReader(r io.Reader, opts ...Option) (*Reader, error) {
	s, err := NewStreamSource(r, opts...)
	if err != nil {
		return nil, err
	}
	return &Reader{source: s, decoder: newDecoder(s.opts)}, nil
}

// NextRaw returns the next raw record and its offset. See Source.NextRaw.
func (r *Reader) NextRaw() (string, int64, error) {
	return r.source.NextRaw()
}

// Next reads and decodes the next record.
//
// The offset of the record in the uncompressed input is returned together with the Validation collected when decoding.
// Record is nil if error is returned.
//
// When the source is exhausted only io.EOF is returned, for this and every later call.
func (r *Reader) Next() (*Record, int64, *Validation, error) {
	raw, offset, err := r.source.NextRaw()
	if err != nil {
		return nil, offset, nil, err
	}
	record, validation, err := r.decoder.Decode(raw)
	return record, offset, validation, err
}

// Close closes the underlying source.
func (r *Reader) Close() error {
	return r.source.Close()
}
