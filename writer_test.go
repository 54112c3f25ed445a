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
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshaler_Marshal(t *testing.T) {
	r := NewRecord("00123nam  ",
		mustControlField(t, "001", "12345"),
		mustDataField(t, "245", '1', '0', NewSubfield('a', "Title"), NewSubfield('c', "Author")),
	)

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"defaults", nil, "00123nam  \n001   12345\n24510$aTitle$cAuthor\x1d"},
		{"custom delimiters", []Option{WithSubfieldDelimiter('|'), WithEndOfRecord('#')}, "00123nam  \n001   12345\n24510|aTitle|cAuthor#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			n, err := NewMarshaler(tt.opts...).Marshal(buf, r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, int64(len(tt.want)), n)

			// What was written must decode to the same record
			reader, err := NewStreamReader(buf, tt.opts...)
			require.NoError(t, err)
			got, _, _, err := reader.Next()
			require.NoError(t, err)
			assert.Equal(t, r, got)
		})
	}
}

func TestMarshaler_Marshal_emptyField(t *testing.T) {
	buf := &bytes.Buffer{}
	n, err := NewMarshaler().Marshal(buf, NewRecord("LDR", &ControlField{}))
	assert.Equal(t, ErrEmptyField, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, 0, buf.Len(), "nothing is written for a record that can't be encoded")
}

func setNow(t *testing.T) {
	now = func() time.Time {
		return time.Date(2001, 9, 12, 5, 30, 20, 0, time.UTC)
	}
	t.Cleanup(func() { now = time.Now })
}

func TestRecordFileWriter_Write(t *testing.T) {
	setNow(t)
	assert := assert.New(t)

	testdir := t.TempDir()
	nameGenerator := &PatternNameGenerator{Prefix: "foo-", Directory: testdir, Pattern: "%{prefix}s%{ts}s-%04{serial}d.mrk"}
	w := NewRecordFileWriter(WithFileNameGenerator(nameGenerator), WithMaxFileSize(0), WithFlush(true))

	r1 := createTestRecord(t)
	raw, err := r1.ToRaw()
	require.NoError(t, err)
	size := int64(len(raw))

	res := w.Write(r1, r1)
	require.Len(t, res, 2)
	assert.NoError(res[0].Err)
	assert.NoError(res[1].Err)
	assert.Equal("foo-20010912053020-0001.mrk", res[0].FileName)
	assert.Equal(res[0].FileName, res[1].FileName)
	assert.Equal(int64(0), res[0].FileOffset)
	assert.Equal(size, res[0].BytesWritten)
	assert.Equal(size, res[1].FileOffset)

	// File has the open suffix until closed
	_, err = os.Stat(filepath.Join(testdir, "foo-20010912053020-0001.mrk.open"))
	assert.NoError(err)
	assert.NoError(w.Close())
	_, err = os.Stat(filepath.Join(testdir, "foo-20010912053020-0001.mrk.open"))
	assert.True(os.IsNotExist(err))

	content, err := ioutil.ReadFile(filepath.Join(testdir, "foo-20010912053020-0001.mrk"))
	require.NoError(t, err)
	assert.Equal(raw+raw, string(content))

	// Write after close opens a new file
	res = w.Write(r1)
	assert.NoError(res[0].Err)
	assert.Equal("foo-20010912053020-0002.mrk", res[0].FileName)
	assert.NoError(w.Close())
}

func TestRecordFileWriter_Write_rotate(t *testing.T) {
	setNow(t)
	assert := assert.New(t)

	testdir := t.TempDir()
	nameGenerator := &PatternNameGenerator{Directory: testdir, Pattern: "%04{serial}d.mrk"}
	w := NewRecordFileWriter(WithFileNameGenerator(nameGenerator), WithMaxFileSize(1))

	r := createTestRecord(t)
	res := w.Write(r, r, r)
	assert.Equal("0001.mrk", res[0].FileName)
	assert.Equal("0002.mrk", res[1].FileName)
	assert.Equal("0003.mrk", res[2].FileName)
	assert.NoError(w.Close())

	files, err := ioutil.ReadDir(testdir)
	require.NoError(t, err)
	assert.Len(files, 3)
}

func TestRecordFileWriter_Write_compressed(t *testing.T) {
	setNow(t)
	assert := assert.New(t)

	testdir := t.TempDir()
	nameGenerator := &PatternNameGenerator{Directory: testdir, Pattern: "records.mrk"}
	w := NewRecordFileWriter(WithFileNameGenerator(nameGenerator), WithCompression(true))

	r := createTestRecord(t)
	res := w.Write(r, r)
	assert.NoError(res[1].Err)
	assert.Equal("records.mrk.gz", res[0].FileName)
	assert.NoError(w.Close())

	reader, err := NewReader(filepath.Join(testdir, "records.mrk.gz"), SourceFile)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	var count int
	for {
		got, _, _, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Equal(r, got)
		count++
	}
	assert.Equal(2, count)
}

func TestRecordFileWriter_Write_error(t *testing.T) {
	nameGenerator := &PatternNameGenerator{Directory: filepath.Join(t.TempDir(), "missing"), Pattern: "x.mrk"}
	w := NewRecordFileWriter(WithFileNameGenerator(nameGenerator))
	res := w.Write(createTestRecord(t))
	assert.Error(t, res[0].Err)
	assert.NoError(t, w.Close())
}
