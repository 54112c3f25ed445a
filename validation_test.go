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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation(t *testing.T) {
	raw := "LDR\n001   1\n500\n2#500$aTitle\n650\n24510$aTitle"
	_, validation, err := NewDecoder(WithStrict(false)).Decode(raw)
	require.NoError(t, err)

	assert.False(t, validation.Valid())
	assert.Equal(t, []int{2, 3, 4}, validation.Lines())
	assert.Len(t, validation.Filter(ErrInvalidTag), 1)
	assert.Empty(t, validation.Filter(ErrInvalidFile))
	assert.Equal(t, "gomarc: record decoded with problems:\n"+
		"  - gomarc: data field line too short for indicators: '500' at line 2\n"+
		"  - gomarc: skipped field line at line 3\n"+
		"  - gomarc: data field line too short for indicators: '650' at line 4\n", validation.String())
}

func TestValidation_nil(t *testing.T) {
	var validation *Validation
	assert.True(t, validation.Valid())
	assert.Equal(t, "", validation.String())
	assert.Nil(t, validation.Lines())
	assert.Nil(t, validation.Filter(ErrInvalidTag))
}
