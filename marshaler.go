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
	"strings"
)

// Marshaler is the interface that wraps the Marshal function.
//
// Marshal converts a MARC record to its flat text form and returns the number of bytes written or any error encountered.
type Marshaler interface {
	Marshal(w io.Writer, record *Record) (int64, error)
}

type defaultMarshaler struct {
	opts *options
}

// NewMarshaler creates a Marshaler writing the leader line, one line per field and the end of record marker.
func NewMarshaler(opts ...Option) Marshaler {
	return &defaultMarshaler{opts: newOptions(opts...)}
}

func (m *defaultMarshaler) Marshal(w io.Writer, record *Record) (int64, error) {
	sb := &strings.Builder{}
	sb.WriteString(record.Leader())
	for _, f := range record.Fields() {
		sb.WriteByte(lf)
		if err := f.writeRaw(sb, m.opts.subfieldDelimiter); err != nil {
			return 0, err
		}
	}
	sb.WriteByte(m.opts.endOfRecord)

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
