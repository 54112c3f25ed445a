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

import "fmt"

const (
	// EndOfRecord separates records in a flat text stream.
	EndOfRecord byte = 0x1D
	// SubfieldDelimiter starts a subfield in a data field line.
	SubfieldDelimiter byte = '$'
	// LeaderLength is the length of a full MARC leader.
	LeaderLength = 24
	// MaxRecordLength is the largest record read from a file in one chunk.
	MaxRecordLength = 99999
)

type options struct {
	endOfRecord       byte
	subfieldDelimiter byte
	leaderLength      int
	maxRecordLength   int
	errShortLine      ErrorPolicy // How to handle field lines too short to carry indicators
	errInvalidTag     ErrorPolicy // How to handle field lines with an invalid tag
}

// ErrorPolicy describes how to handle malformed field lines.
type ErrorPolicy int8

const (
	ErrIgnore ErrorPolicy = 0 // Ignore the given error.
	ErrWarn   ErrorPolicy = 1 // Ignore given error, but submit a warning.
	ErrFail   ErrorPolicy = 2 // Fail on given error.
)

func (p ErrorPolicy) String() string {
	switch p {
	case ErrIgnore:
		return "ignore"
	case ErrWarn:
		return "warn"
	case ErrFail:
		return "fail"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int8(p))
	}
}

// Option configures parsing and serialization of flat MARC records.
type Option interface {
	apply(*options)
}

// EmptyOption does not alter the configuration. It can be embedded in
// another structure to build custom options.
type EmptyOption struct{}

func (EmptyOption) apply(*options) {}

// funcOption wraps a function that modifies options into an
// implementation of the Option interface.
type funcOption struct {
	f func(*options)
}

func (fo *funcOption) apply(po *options) {
	fo.f(po)
}

func newFuncOption(f func(*options)) *funcOption {
	return &funcOption{
		f: f,
	}
}

func defaultOptions() options {
	return options{
		endOfRecord:       EndOfRecord,
		subfieldDelimiter: SubfieldDelimiter,
		leaderLength:      LeaderLength,
		maxRecordLength:   MaxRecordLength,
		errShortLine:      ErrIgnore,
		errInvalidTag:     ErrFail,
	}
}

func newOptions(opts ...Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &o
}

// WithEndOfRecord sets the byte separating records.
// defaults to 0x1D
func WithEndOfRecord(b byte) Option {
	return newFuncOption(func(o *options) {
		o.endOfRecord = b
	})
}

// WithSubfieldDelimiter sets the byte introducing a subfield.
// defaults to '$'
func WithSubfieldDelimiter(b byte) Option {
	return newFuncOption(func(o *options) {
		o.subfieldDelimiter = b
	})
}

// WithLeaderLength sets the maximum length of the leader.
// defaults to 24
func WithLeaderLength(n int) Option {
	return newFuncOption(func(o *options) {
		o.leaderLength = n
	})
}

// WithMaxRecordLength sets the largest chunk read from a file before giving up on finding the end of record marker.
// defaults to 99999
func WithMaxRecordLength(n int) Option {
	return newFuncOption(func(o *options) {
		o.maxRecordLength = n
	})
}

// WithShortLinePolicy sets the policy for data field lines shorter than six bytes.
//
// ErrIgnore and ErrWarn give the field blank indicators and no subfields, ErrWarn also
// adds an entry to the Validation. ErrFail aborts decoding with a SyntaxError.
//
// defaults to ErrIgnore
func WithShortLinePolicy(policy ErrorPolicy) Option {
	return newFuncOption(func(o *options) {
		o.errShortLine = policy
	})
}

// WithInvalidTagPolicy sets the policy for field lines with an invalid tag.
//
// ErrFail aborts decoding with an InvalidTag error. ErrIgnore and ErrWarn skip the line,
// ErrWarn also adds an entry to the Validation.
//
// defaults to ErrFail
func WithInvalidTagPolicy(policy ErrorPolicy) Option {
	return newFuncOption(func(o *options) {
		o.errInvalidTag = policy
	})
}

// WithStrict sets both line policies to ErrFail when strict is true, otherwise to ErrWarn.
func WithStrict(strict bool) Option {
	return newFuncOption(func(o *options) {
		if strict {
			o.errShortLine = ErrFail
			o.errInvalidTag = ErrFail
		} else {
			o.errShortLine = ErrWarn
			o.errInvalidTag = ErrWarn
		}
	})
}
