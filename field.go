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

var tagPattern = regexp.MustCompile(`^[0-9A-Za-z]{3}$`)

// ValidTag reports whether tag is exactly three characters from [0-9A-Za-z].
func ValidTag(tag string) bool {
	return tagPattern.MatchString(tag)
}

// IsControlTag reports whether a tag belongs to a control field.
func IsControlTag(tag string) bool {
	return strings.HasPrefix(tag, "00")
}

// Field is a MARC field. It is implemented by *ControlField and *DataField only.
type Field interface {
	// Tag returns the tag of the field.
	Tag() string
	// SetTag validates and sets a new tag. If tag is invalid, the field keeps its old tag
	// and an InvalidTag error is returned.
	SetTag(tag string) (string, error)
	// IsEmpty is true if the field has no tag.
	IsEmpty() bool
	IsControlField() bool
	IsDataField() bool
	// ToRaw returns the field encoded as a flat text line without line ending.
	ToRaw() (string, error)
	String() string

	writeRaw(sb *strings.Builder, delimiter byte) error
}

type fieldTag struct {
	tag string
}

func newFieldTag(tag string) (fieldTag, error) {
	if !ValidTag(tag) {
		return fieldTag{}, newInvalidTagError(tag)
	}
	return fieldTag{tag: tag}, nil
}

func (f *fieldTag) Tag() string {
	return f.tag
}

func (f *fieldTag) SetTag(tag string) (string, error) {
	if !ValidTag(tag) {
		return f.tag, newInvalidTagError(tag)
	}
	f.tag = tag
	return f.tag, nil
}

func (f *fieldTag) IsEmpty() bool {
	return f.tag == ""
}

// ControlField holds a single value and no indicators or subfields.
type ControlField struct {
	fieldTag
	value string
}

// NewControlField creates a control field. An InvalidTag error is returned if tag is invalid.
// The tag is not required to start with "00".
func NewControlField(tag, value string) (*ControlField, error) {
	t, err := newFieldTag(tag)
	if err != nil {
		return nil, err
	}
	return &ControlField{fieldTag: t, value: value}, nil
}

func (f *ControlField) Value() string {
	return f.value
}

func (f *ControlField) SetValue(value string) {
	f.value = value
}

func (f *ControlField) IsControlField() bool { return true }

func (f *ControlField) IsDataField() bool { return false }

func (f *ControlField) ToRaw() (string, error) {
	sb := &strings.Builder{}
	if err := f.writeRaw(sb, SubfieldDelimiter); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// writeRaw writes tag, separator and two blank indicator positions before the value.
// The decoder recognizes the blank positions and keeps leading spaces of the value.
func (f *ControlField) writeRaw(sb *strings.Builder, _ byte) error {
	if f.IsEmpty() {
		return ErrEmptyField
	}
	sb.WriteString(f.tag)
	sb.WriteString("   ")
	sb.WriteString(f.value)
	return nil
}

func (f *ControlField) String() string {
	return f.tag + "     " + f.value
}

// DataField has two indicators and an ordered list of subfields.
type DataField struct {
	fieldTag
	ind1      byte
	ind2      byte
	subfields []*Subfield
}

// NewDataField creates a data field. A zero indicator is stored as a blank.
// An InvalidTag error is returned if tag is invalid.
func NewDataField(tag string, ind1, ind2 byte, subfields ...*Subfield) (*DataField, error) {
	t, err := newFieldTag(tag)
	if err != nil {
		return nil, err
	}
	f := &DataField{fieldTag: t}
	f.SetInd1(ind1)
	f.SetInd2(ind2)
	f.subfields = append(f.subfields, subfields...)
	return f, nil
}

func (f *DataField) IsControlField() bool { return false }

func (f *DataField) IsDataField() bool { return true }

func (f *DataField) Ind1() byte {
	return f.ind1
}

func (f *DataField) Ind2() byte {
	return f.ind2
}

func (f *DataField) SetInd1(ind byte) {
	f.ind1 = blankIfZero(ind)
}

func (f *DataField) SetInd2(ind byte) {
	f.ind2 = blankIfZero(ind)
}

// Indicator returns indicator 1 or 2. Any other n returns 0.
func (f *DataField) Indicator(n int) byte {
	switch n {
	case 1:
		return f.ind1
	case 2:
		return f.ind2
	default:
		return 0
	}
}

func blankIfZero(b byte) byte {
	if b == 0 {
		return ' '
	}
	return b
}

// Subfields returns all subfields in order.
func (f *DataField) Subfields() []*Subfield {
	return f.subfields
}

// SubfieldsByCode returns the subfields having one of the given codes, in field order.
func (f *DataField) SubfieldsByCode(codes ...byte) []*Subfield {
	var result []*Subfield
	for _, sf := range f.subfields {
		for _, c := range codes {
			if sf.Code == c {
				result = append(result, sf)
				break
			}
		}
	}
	return result
}

// Subfield returns the first subfield with the given code or nil.
func (f *DataField) Subfield(code byte) *Subfield {
	for _, sf := range f.subfields {
		if sf.Code == code {
			return sf
		}
	}
	return nil
}

func (f *DataField) AppendSubfield(sf *Subfield) {
	f.subfields = append(f.subfields, sf)
}

func (f *DataField) PrependSubfield(sf *Subfield) {
	f.subfields = append([]*Subfield{sf}, f.subfields...)
}

// DeleteSubfield removes sf from the field. It returns false if sf was not found.
func (f *DataField) DeleteSubfield(sf *Subfield) bool {
	for idx, s := range f.subfields {
		if s == sf {
			f.subfields = append(f.subfields[:idx], f.subfields[idx+1:]...)
			return true
		}
	}
	return false
}

func (f *DataField) ToRaw() (string, error) {
	sb := &strings.Builder{}
	if err := f.writeRaw(sb, SubfieldDelimiter); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (f *DataField) writeRaw(sb *strings.Builder, delimiter byte) error {
	if f.IsEmpty() {
		return ErrEmptyField
	}
	sb.WriteString(f.tag)
	sb.WriteByte(blankIfZero(f.ind1))
	sb.WriteByte(blankIfZero(f.ind2))
	for _, sf := range f.subfields {
		sf.writeRaw(sb, delimiter)
	}
	return nil
}

func (f *DataField) String() string {
	sb := &strings.Builder{}
	sb.WriteString(f.tag)
	sb.WriteByte(' ')
	sb.WriteByte(blankIfZero(f.ind1))
	sb.WriteByte(blankIfZero(f.ind2))
	sb.WriteByte(' ')
	for i, sf := range f.subfields {
		if i > 0 {
			sb.WriteString("\n       ")
		}
		sb.WriteByte('_')
		sb.WriteByte(sf.Code)
		sb.WriteString(sf.Value)
	}
	return sb.String()
}
