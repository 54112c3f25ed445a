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
	"regexp"
	"strings"
)

// Record is a MARC record: a leader and fields in the order they appeared in the source.
type Record struct {
	leader string
	fields []Field
}

func NewRecord(leader string, fields ...Field) *Record {
	return &Record{leader: leader, fields: append([]Field(nil), fields...)}
}

func (r *Record) Leader() string {
	return r.leader
}

func (r *Record) SetLeader(leader string) {
	r.leader = leader
}

// Fields returns all fields in record order.
func (r *Record) Fields() []Field {
	return r.fields
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

func (r *Record) AppendField(f Field) {
	r.fields = append(r.fields, f)
}

func (r *Record) PrependField(f Field) {
	r.fields = append([]Field{f}, r.fields...)
}

// InsertField inserts f before the field at index i. An i outside the field list appends f.
func (r *Record) InsertField(i int, f Field) {
	if i < 0 || i >= len(r.fields) {
		r.AppendField(f)
		return
	}
	r.fields = append(r.fields[:i], append([]Field{f}, r.fields[i:]...)...)
}

// DeleteField removes f from the record. It returns false if f was not found.
func (r *Record) DeleteField(f Field) bool {
	for idx, field := range r.fields {
		if field == f {
			r.fields = append(r.fields[:idx], r.fields[idx+1:]...)
			return true
		}
	}
	return false
}

// DeleteFields removes every field with the given tag and returns the number removed.
func (r *Record) DeleteFields(tag string) int {
	var result []Field
	for _, f := range r.fields {
		if f.Tag() != tag {
			result = append(result, f)
		}
	}
	n := len(r.fields) - len(result)
	r.fields = result
	return n
}

// Field returns the first field with the given tag or nil.
func (r *Record) Field(tag string) Field {
	for _, f := range r.fields {
		if f.Tag() == tag {
			return f
		}
	}
	return nil
}

// FieldsByTag returns the fields having one of the given tags, in record order.
func (r *Record) FieldsByTag(tags ...string) []Field {
	var result []Field
	for _, f := range r.fields {
		for _, t := range tags {
			if f.Tag() == t {
				result = append(result, f)
				break
			}
		}
	}
	return result
}

// MatchFields returns the fields whose tag matches re, in record order.
func (r *Record) MatchFields(re *regexp.Regexp) []Field {
	var result []Field
	for _, f := range r.fields {
		if re.MatchString(f.Tag()) {
			result = append(result, f)
		}
	}
	return result
}

func (r *Record) ControlFields() []*ControlField {
	var result []*ControlField
	for _, f := range r.fields {
		if cf, ok := f.(*ControlField); ok {
			result = append(result, cf)
		}
	}
	return result
}

func (r *Record) DataFields() []*DataField {
	var result []*DataField
	for _, f := range r.fields {
		if df, ok := f.(*DataField); ok {
			result = append(result, df)
		}
	}
	return result
}

// ControlNumber returns the value of the first 001 field or the empty string.
func (r *Record) ControlNumber() string {
	if cf, ok := r.Field("001").(*ControlField); ok {
		return cf.Value()
	}
	return ""
}

// ToRaw returns the record in flat text form, including the end of record marker.
func (r *Record) ToRaw() (string, error) {
	sb := &strings.Builder{}
	if _, err := NewMarshaler().Marshal(sb, r); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Record) String() string {
	sb := &strings.Builder{}
	sb.WriteString("LDR ")
	sb.WriteString(r.leader)
	for _, f := range r.fields {
		sb.WriteByte('\n')
		sb.WriteString(f.String())
	}
	return sb.String()
}
