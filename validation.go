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
	"strings"
)

// Validation collects the problems found while decoding a record that did not stop decoding.
// A nil Validation is valid.
type Validation []error

func (v *Validation) AddError(err error) {
	*v = append(*v, err)
}

// Valid is true when no problems were collected.
func (v *Validation) Valid() bool {
	return v == nil || len(*v) == 0
}

// Lines returns the field line numbers of collected syntax errors in the order they were found.
func (v *Validation) Lines() []int {
	if v == nil {
		return nil
	}
	var lines []int
	for _, err := range *v {
		var syntaxError *SyntaxError
		if errors.As(err, &syntaxError) {
			lines = append(lines, syntaxError.Line())
		}
	}
	return lines
}

// Filter returns the collected problems matching target as reported by errors.Is.
//
//	skipped := validation.Filter(gomarc.ErrInvalidTag)
func (v *Validation) Filter(target error) []error {
	if v == nil {
		return nil
	}
	var result []error
	for _, err := range *v {
		if errors.Is(err, target) {
			result = append(result, err)
		}
	}
	return result
}

// String lists the problems, one per line. It is empty for a valid record.
func (v *Validation) String() string {
	if v.Valid() {
		return ""
	}
	sb := strings.Builder{}
	sb.WriteString("gomarc: record decoded with problems:\n")
	for _, e := range *v {
		sb.WriteString("  - ")
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
