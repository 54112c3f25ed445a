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

	log "github.com/sirupsen/logrus"
)

const (
	lf = '\n' // Newline
	sp = ' '  // Space

	leadingJunk  = "\n\r\x00"
	trailingJunk = "\r\n\x00"
)

// Decoder turns one raw flat text record into a Record.
type Decoder struct {
	opts            *options
	subfieldPattern *regexp.Regexp
}

func NewDecoder(opts ...Option) *Decoder {
	return newDecoder(newOptions(opts...))
}

func newDecoder(o *options) *Decoder {
	return &Decoder{
		opts:            o,
		subfieldPattern: regexp.MustCompile(regexp.QuoteMeta(string(o.subfieldDelimiter)) + `([a-z0-9])`),
	}
}

// Decode parses raw into a Record.
//
// The leader is the start of the first line, cut at the configured leader length. Each following line is one field.
// Lines starting with "00" are control fields, all others are data fields.
//
// Malformed lines are handled according to the short line and invalid tag policies. Problems that did not abort
// decoding are collected in the returned Validation. Record is nil if error is returned.
func (d *Decoder) Decode(raw string) (*Record, *Validation, error) {
	validation := &Validation{}
	record := &Record{}

	nl := strings.IndexByte(raw, lf)
	first := raw
	if nl >= 0 {
		first = raw[:nl]
	}
	if len(first) > d.opts.leaderLength {
		first = first[:d.opts.leaderLength]
	}
	record.leader = strings.TrimRight(first, "\r")

	if nl < 0 {
		return record, validation, nil
	}

	pos := &position{}
	block := strings.TrimRight(raw[nl+1:], trailingJunk)
	for _, line := range strings.Split(block, "\n") {
		pos.incrLineNumber()
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		f, err := d.parseLine(line, validation, pos)
		if err != nil {
			return nil, validation, err
		}
		if f != nil {
			record.fields = append(record.fields, f)
		}
	}
	return record, validation, nil
}

// parseLine returns nil Field and nil error when a line is skipped.
func (d *Decoder) parseLine(line string, validation *Validation, pos *position) (Field, error) {
	tag := line
	if len(tag) > 3 {
		tag = line[:3]
	}
	if !ValidTag(tag) {
		err := newInvalidTagError(tag)
		switch d.opts.errInvalidTag {
		case ErrIgnore:
			log.Debugf("skipping field line %d with invalid tag %q", pos.lineNumber, tag)
			return nil, nil
		case ErrWarn:
			validation.AddError(newWrappedSyntaxError("skipped field line", pos, err))
			return nil, nil
		default:
			return nil, err
		}
	}

	if strings.HasPrefix(line, "00") {
		return &ControlField{fieldTag: fieldTag{tag: tag}, value: controlValue(line)}, nil
	}

	f := &DataField{fieldTag: fieldTag{tag: tag}, ind1: sp, ind2: sp}
	if len(line) < 5 {
		switch d.opts.errShortLine {
		case ErrWarn:
			validation.AddError(newSyntaxError("data field line too short for indicators: '"+line+"'", pos))
		case ErrFail:
			return nil, newSyntaxError("data field line too short for indicators: '"+line+"'", pos)
		}
		if len(line) == 4 {
			f.ind1 = line[3]
		}
		return f, nil
	}

	// The indicators follow the tag directly
	f.ind1 = line[3]
	f.ind2 = line[4]
	f.subfields = d.splitSubfields(line[5:])
	return f, nil
}

// controlValue returns the value of a control field line. The value starts after the tag and a separator,
// or after the separator and two blank indicator positions when those are present.
func controlValue(line string) string {
	if len(line) <= 4 {
		return ""
	}
	if len(line) >= 6 && line[4] == sp && line[5] == sp {
		return line[6:]
	}
	return line[4:]
}

// splitSubfields splits s at every delimiter followed by a code. Text before the first delimiter is dropped.
func (d *Decoder) splitSubfields(s string) []*Subfield {
	matches := d.subfieldPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return nil
	}
	subfields := make([]*Subfield, 0, len(matches))
	for i, m := range matches {
		end := len(s)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		subfields = append(subfields, &Subfield{Code: s[m[2]], Value: s[m[1]:end]})
	}
	return subfields
}

// position tracks the field line being decoded. The leader line is not counted.
type position struct {
	lineNumber int
}

func (p *position) incrLineNumber() *position {
	p.lineNumber++
	return p
}
