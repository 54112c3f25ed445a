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

package internal

import (
	"github.com/nlnwa/gomarc"
)

// Contains reports whether e is in s.
func Contains(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

// CropString returns s cut to at most n bytes, marking a cut with "...".
func CropString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// OpenReader opens fileName for reading records. Stdin is used when fileName is "-".
//
// Strict reading fails on malformed lines. Otherwise they are reported in the Validation returned with each record.
func OpenReader(fileName string, strict bool) (*gomarc.Reader, error) {
	opts := []gomarc.Option{gomarc.WithStrict(strict)}
	if fileName == "-" {
		return gomarc.NewStreamReader(stdin, opts...)
	}
	return gomarc.NewReader(fileName, gomarc.SourceFile, opts...)
}
