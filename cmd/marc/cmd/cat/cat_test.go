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

package cat

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const records = "00123nam  \n001   1\n24510$aFirst$bsub\x1d" +
	"00124nam  \n001   2\n500\x1d"

func TestCat(t *testing.T) {
	color.NoColor = true

	path := filepath.Join(t.TempDir(), "records.mrk")
	require.NoError(t, ioutil.WriteFile(path, []byte(records), 0644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"pretty", []string{"-c", "1"},
			"LDR 00123nam  \n" +
				"001     1\n" +
				"245 10 _aFirst\n" +
				"       _bsub\n" +
				"\n"},
		{"raw", []string{"--raw", "--id", "2"},
			"00124nam  \n001   2\n500  \n" +
				"gomarc: record decoded with problems:\n" +
				"  - gomarc: data field line too short for indicators: '500' at line 2\n" +
				"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCommand()
			out := &bytes.Buffer{}
			cmd.SetOut(out)
			cmd.SetArgs(append(tt.args, "--no-color", path))
			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestCat_strict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.mrk")
	require.NoError(t, ioutil.WriteFile(path, []byte(records), 0644))

	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--strict", path})
	err := cmd.Execute()
	assert.EqualError(t, err, "rec num: 2, offset 37: gomarc: data field line too short for indicators: '500' at line 2")
}
