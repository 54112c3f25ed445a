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

/*
Package gomarc reads and writes MARC records in the flat text format.

# Flat text MARC

Records are separated by an end of record marker (0x1D). The first line of a record holds the leader. Every following
line holds one field, starting with a three character tag.

Lines whose tag starts with "00" are control fields. The value starts after the tag and a separator:

	001   ocm12345678

All other lines are data fields with two indicators directly after the tag, followed by subfields introduced by '$' and
a one character code. Here the first indicator is '1' and the second '0':

	24510$aMoby Dick /$cHerman Melville.

# Read records

The [Reader] is used to read records from a file or a string. It is initialized with [NewReader] or [NewStreamReader].
Files compressed with gzip or xz are detected and decompressed.

The [Decoder] is used to parse a single raw record. It is initialized with [NewDecoder].

# Write records

The [Marshaler] encodes a [Record] in the format read by the [Decoder]. It is initialized with [NewMarshaler].

The [RecordFileWriter] is used to write record files. It is initialized with [NewRecordFileWriter].

# Malformed input

How data field lines too short to hold indicators and lines with invalid tags are handled can be controlled by setting
[WithShortLinePolicy] and [WithInvalidTagPolicy] when creating the [Reader] or [Decoder].
*/
package gomarc
