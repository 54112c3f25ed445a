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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Decode(t *testing.T) {
	type wantField struct {
		tag       string
		control   bool
		value     string
		ind1      byte
		ind2      byte
		subfields []Subfield
	}
	tests := []struct {
		name       string
		raw        string
		wantLeader string
		want       []wantField
	}{
		{"leader, control and data field",
			"00123nam  \n001   12345\n100 1 $aDoe, Jane.",
			"00123nam  ",
			[]wantField{
				{tag: "001", control: true, value: "12345"},
				{tag: "100", ind1: ' ', ind2: '1', subfields: []Subfield{{'a', "Doe, Jane."}}},
			}},
		{"indicators follow the tag",
			"LDR\n24510$aMoby Dick /$cHerman Melville.\n1001 $aMelville, Herman.",
			"LDR",
			[]wantField{
				{tag: "245", ind1: '1', ind2: '0', subfields: []Subfield{{'a', "Moby Dick /"}, {'c', "Herman Melville."}}},
				{tag: "100", ind1: '1', ind2: ' ', subfields: []Subfield{{'a', "Melville, Herman."}}},
			}},
		{"subfield split",
			"LDR\n245   $aFoo$btwo words$c3",
			"LDR",
			[]wantField{
				{tag: "245", ind1: ' ', ind2: ' ', subfields: []Subfield{{'a', "Foo"}, {'b', "two words"}, {'c', "3"}}},
			}},
		{"repeated codes keep source order",
			"LDR\n650 0$aCats$xHistory$aDogs$x",
			"LDR",
			[]wantField{
				{tag: "650", ind1: ' ', ind2: '0', subfields: []Subfield{{'a', "Cats"}, {'x', "History"}, {'a', "Dogs"}, {'x', ""}}},
			}},
		{"delimiter followed by non code character stays in value",
			"LDR\n020   $aPrice $Z10$c$5.00",
			"LDR",
			[]wantField{
				{tag: "020", ind1: ' ', ind2: ' ', subfields: []Subfield{{'a', "Price $Z10"}, {'c', ""}, {'5', ".00"}}},
			}},
		{"text before first delimiter is dropped",
			"LDR\n50010garbage$aNote",
			"LDR",
			[]wantField{
				{tag: "500", ind1: '1', ind2: '0', subfields: []Subfield{{'a', "Note"}}},
			}},
		{"leader cut at leader length",
			"00714cam a2200205 a 4500EXTRA\n001   1",
			"00714cam a2200205 a 4500",
			[]wantField{
				{tag: "001", control: true, value: "1"},
			}},
		{"control value keeps leading spaces after blank indicator positions",
			"LDR\n008     abc  \n001 42",
			"LDR",
			[]wantField{
				{tag: "008", control: true, value: "  abc  "},
				{tag: "001", control: true, value: "42"},
			}},
		{"crlf line endings and trailing junk",
			"LDR\r\n001   1\r\n24500$aTitle\r\n\x00",
			"LDR",
			[]wantField{
				{tag: "001", control: true, value: "1"},
				{tag: "245", ind1: '0', ind2: '0', subfields: []Subfield{{'a', "Title"}}},
			}},
		{"blank lines are skipped",
			"LDR\n001   1\n\n24500$aTitle",
			"LDR",
			[]wantField{
				{tag: "001", control: true, value: "1"},
				{tag: "245", ind1: '0', ind2: '0', subfields: []Subfield{{'a', "Title"}}},
			}},
		{"short data field lines get blank indicators",
			"LDR\n500\n5001\n650 0",
			"LDR",
			[]wantField{
				{tag: "500", ind1: ' ', ind2: ' '},
				{tag: "500", ind1: '1', ind2: ' '},
				{tag: "650", ind1: ' ', ind2: '0'},
			}},
		{"leader only",
			"00123nam  ",
			"00123nam  ",
			nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, validation, err := NewDecoder().Decode(tt.raw)
			require.NoError(t, err)
			assert.True(t, validation.Valid(), validation.String())

			assert := assert.New(t)
			assert.Equal(tt.wantLeader, record.Leader())
			require.Equal(t, len(tt.want), record.Len())
			for i, want := range tt.want {
				f := record.Fields()[i]
				assert.Equal(want.tag, f.Tag())
				switch v := f.(type) {
				case *ControlField:
					assert.True(want.control, "field %d should be a data field", i)
					assert.Equal(want.value, v.Value())
				case *DataField:
					assert.False(want.control, "field %d should be a control field", i)
					assert.Equal(want.ind1, v.Ind1(), "ind1 of field %d", i)
					assert.Equal(want.ind2, v.Ind2(), "ind2 of field %d", i)
					var got []Subfield
					for _, sf := range v.Subfields() {
						got = append(got, *sf)
					}
					assert.Equal(want.subfields, got)
				default:
					t.Fatalf("unexpected field type %T", f)
				}
			}
		})
	}
}

func TestDecoder_Decode_classification(t *testing.T) {
	lines := []string{"001   x", "003   x", "009   x", "00A   x", "010   $ax", "100   $ax", "0a0   $ax", "A00   $ax"}
	record, _, err := NewDecoder().Decode("LDR\n" + strings.Join(lines, "\n"))
	require.NoError(t, err)
	require.Equal(t, len(lines), record.Len())
	for i, f := range record.Fields() {
		wantControl := strings.HasPrefix(lines[i], "00")
		assert.Equal(t, wantControl, f.IsControlField(), lines[i])
		assert.Equal(t, !wantControl, f.IsDataField(), lines[i])
	}
}

func TestDecoder_Decode_shortLinePolicy(t *testing.T) {
	raw := "LDR\n001   1\n500\n24500$aTitle"

	t.Run("ignore", func(t *testing.T) {
		record, validation, err := NewDecoder(WithShortLinePolicy(ErrIgnore)).Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, 3, record.Len())
		assert.Empty(t, *validation)
	})

	t.Run("warn", func(t *testing.T) {
		record, validation, err := NewDecoder(WithShortLinePolicy(ErrWarn)).Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, 3, record.Len())
		f := record.Fields()[1].(*DataField)
		assert.Equal(t, byte(' '), f.Ind1())
		assert.Equal(t, byte(' '), f.Ind2())
		assert.Empty(t, f.Subfields())
		require.Len(t, *validation, 1)
		assert.Equal(t, "gomarc: data field line too short for indicators: '500' at line 2", (*validation)[0].Error())
	})

	t.Run("fail", func(t *testing.T) {
		record, _, err := NewDecoder(WithShortLinePolicy(ErrFail)).Decode(raw)
		assert.Nil(t, record)
		var syntaxError *SyntaxError
		require.True(t, errors.As(err, &syntaxError))
		assert.Equal(t, 2, syntaxError.Line())
	})

	t.Run("control fields are never short", func(t *testing.T) {
		record, _, err := NewDecoder(WithShortLinePolicy(ErrFail)).Decode("LDR\n005")
		require.NoError(t, err)
		assert.Equal(t, "", record.Fields()[0].(*ControlField).Value())
	})
}

func TestDecoder_Decode_invalidTagPolicy(t *testing.T) {
	raw := "LDR\n001   1\n2#500$aTitle\n650 0$aCats"

	t.Run("fail", func(t *testing.T) {
		record, _, err := NewDecoder().Decode(raw)
		assert.Nil(t, record)
		assert.True(t, errors.Is(err, ErrInvalidTag))
		assert.Contains(t, err.Error(), `"2#5"`)
	})

	t.Run("warn", func(t *testing.T) {
		record, validation, err := NewDecoder(WithInvalidTagPolicy(ErrWarn)).Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"001", "650"}, tags(record.Fields()))
		require.Len(t, *validation, 1)
		assert.True(t, errors.Is((*validation)[0], ErrInvalidTag))
	})

	t.Run("ignore", func(t *testing.T) {
		record, validation, err := NewDecoder(WithInvalidTagPolicy(ErrIgnore)).Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"001", "650"}, tags(record.Fields()))
		assert.True(t, validation.Valid())
	})

	t.Run("line shorter than a tag", func(t *testing.T) {
		_, _, err := NewDecoder().Decode("LDR\n24")
		assert.True(t, errors.Is(err, ErrInvalidTag))
	})
}

func TestDecoder_Decode_strict(t *testing.T) {
	_, _, err := NewDecoder(WithStrict(true)).Decode("LDR\n500")
	assert.Error(t, err)

	record, validation, err := NewDecoder(WithStrict(false)).Decode("LDR\n500\n##1 x")
	require.NoError(t, err)
	assert.Equal(t, 1, record.Len())
	assert.Len(t, *validation, 2)
}

func TestDecoder_Decode_subfieldDelimiter(t *testing.T) {
	record, _, err := NewDecoder(WithSubfieldDelimiter('|')).Decode("LDR\n24510|aPrice $5|bmore")
	require.NoError(t, err)
	f := record.Fields()[0].(*DataField)
	require.Len(t, f.Subfields(), 2)
	assert.Equal(t, "Price $5", f.Subfield('a').Value)
	assert.Equal(t, "more", f.Subfield('b').Value)
}

func TestDecoder_Decode_roundTrip(t *testing.T) {
	r := createTestRecord(t)
	r.AppendField(mustControlField(t, "007", "  leading blanks"))
	r.AppendField(mustDataField(t, "500", 0, 0))

	raw, err := r.ToRaw()
	require.NoError(t, err)

	got, _, err := NewDecoder().Decode(strings.TrimSuffix(raw, string(EndOfRecord)))
	require.NoError(t, err)
	assert.Equal(t, r.Leader(), got.Leader())
	assert.Equal(t, r.String(), got.String())
	assert.Equal(t, r, got)
}
