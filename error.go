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
	"errors"
	"fmt"
	"strings"
)

// ErrorKind identifies the class of an Error.
type ErrorKind int8

const (
	InvalidTag    ErrorKind = iota + 1 // Tag does not match ^[0-9A-Za-z]{3}$
	InvalidFile                        // File is missing, unreadable or no usable source was established
	InvalidSource                      // Unknown source kind selector
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidTag:
		return "invalid tag"
	case InvalidFile:
		return "invalid file"
	case InvalidSource:
		return "invalid source"
	default:
		return fmt.Sprintf("unknown error kind %d", k)
	}
}

// Sentinels usable with errors.Is. An *Error matches the sentinel with the same kind.
var (
	ErrInvalidTag    = &Error{Kind: InvalidTag}
	ErrInvalidFile   = &Error{Kind: InvalidFile}
	ErrInvalidSource = &Error{Kind: InvalidSource}

	// ErrEmptyField is returned when encoding a field without a tag.
	ErrEmptyField = errors.New("gomarc: cannot encode field without tag")
)

// Error is returned for violations of the record model and for sources that cannot be used.
// Value holds the offending tag, file name or source kind.
type Error struct {
	Kind  ErrorKind
	Value string
	Err   error
}

func newInvalidTagError(tag string) *Error {
	return &Error{Kind: InvalidTag, Value: tag}
}

func newInvalidFileError(fileName string, cause error) *Error {
	return &Error{Kind: InvalidFile, Value: fileName, Err: cause}
}

func newInvalidSourceError(kind SourceKind) *Error {
	return &Error{Kind: InvalidSource, Value: fmt.Sprintf("%d", kind)}
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case InvalidTag:
		msg = fmt.Sprintf("gomarc: invalid tag %q, tags must be exactly three alphanumeric characters", e.Value)
	case InvalidFile:
		msg = fmt.Sprintf("gomarc: invalid file %q, the file could not be read", e.Value)
	case InvalidSource:
		msg = fmt.Sprintf("gomarc: invalid source kind %s, must be SourceFile or SourceString", e.Value)
	default:
		msg = fmt.Sprintf("gomarc: %s: %s", e.Kind, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// SyntaxError is used for malformed field lines when decoding with a failing error policy
type SyntaxError struct {
	msg     string
	line    int
	wrapped error
}

func newSyntaxError(msg string, pos *position) *SyntaxError {
	return &SyntaxError{msg: msg, line: pos.lineNumber}
}

func newWrappedSyntaxError(msg string, pos *position, wrapped error) *SyntaxError {
	return &SyntaxError{msg: msg, line: pos.lineNumber, wrapped: wrapped}
}

func (e *SyntaxError) Error() string {
	if e.line > 0 {
		return fmt.Sprintf("gomarc: %s at line %d", e.msg, e.line)
	} else {
		return fmt.Sprintf("gomarc: %s", e.msg)
	}
}

func (e *SyntaxError) Unwrap() error {
	return e.wrapped
}

// Line returns the field line number, counted from the line after the leader.
func (e *SyntaxError) Line() int {
	return e.line
}

type multiErr []error

func (e multiErr) Error() string {
	switch len(e) {

	case 0:
		return ""

	case 1:
		return e[0].Error()
	}

	const (
		start = "["
		sep   = ", "
		end   = "]"
	)

	var b strings.Builder
	b.WriteString(start)
	b.WriteString(e[0].Error())
	for _, s := range e[1:] {
		b.WriteString(sep)
		b.WriteString(s.Error())
	}
	b.WriteString(end)
	return b.String()
}
