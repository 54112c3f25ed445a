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

import "strings"

// Subfield is a coded value inside a DataField.
//
// The code is not validated. Decoded subfields always have a code in [a-z0-9].
type Subfield struct {
	Code  byte
	Value string
}

func NewSubfield(code byte, value string) *Subfield {
	return &Subfield{Code: code, Value: value}
}

func (s *Subfield) String() string {
	return "[" + string(s.Code) + "]: " + s.Value
}

// ToRaw returns the subfield as it is written in a flat data field line.
func (s *Subfield) ToRaw() string {
	sb := &strings.Builder{}
	s.writeRaw(sb, SubfieldDelimiter)
	return sb.String()
}

func (s *Subfield) writeRaw(sb *strings.Builder, delimiter byte) {
	sb.WriteByte(delimiter)
	sb.WriteByte(s.Code)
	sb.WriteString(s.Value)
}
