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
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Sprintt is like fmt.Sprintf, but verbs refer to named parameters with %{name}.
// Parameters missing from params are formatted as nil values.
//
// Example:
//
//	internal.Sprintt("%{prefix}s-%04{serial}d.mrk", map[string]any{"prefix": "cat", "serial": 7})
//
// returns 'cat-0007.mrk'
func Sprintt(format string, params map[string]any) string {
	var args []any
	sb := strings.Builder{}
	for {
		start := strings.Index(format, "{")
		if start < 0 {
			sb.WriteString(format)
			break
		}
		end := strings.Index(format[start:], "}")
		if end < 0 || !strings.Contains(format[:start], "%") {
			sb.WriteString(format)
			break
		}
		name := format[start+1 : start+end]
		sb.WriteString(format[:start])
		args = append(args, params[name])
		sb.WriteString("[" + strconv.Itoa(len(args)) + "]")
		format = format[start+end+1:]
	}
	return fmt.Sprintf(sb.String(), args...)
}

// GetHostName returns the hostname reported by the kernel.
// If resolution fails, 'unknown' is returned.
func GetHostName() string {
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}
