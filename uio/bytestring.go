// Copyright 2024 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package uio

import "bytes"

// bytestring provides allocation-free parsing of text lines in form of byte
// slices, as found in sysfs and procfs pseudo files.
type bytestring struct {
	b   []byte // line contents
	pos int    // parsing position within the line contents
}

// newBytestring returns a new bytestring object for parsing the supplied text
// line as a byte slice.
func newBytestring(b []byte) *bytestring {
	return &bytestring{
		pos: 0,
		b:   b,
	}
}

// EOL returns true if the parsing has reached the end of the byte string,
// otherwise false.
func (b *bytestring) EOL() (eol bool) { return b.pos >= len(b.b) }

// SkipSpace skips over any space 0x20 characters until either reaching the
// first non-space character, or EOL. When reaching EOL, it returns true.
func (b *bytestring) SkipSpace() (eol bool) {
	for {
		if b.pos >= len(b.b) {
			return true
		}
		if b.b[b.pos] != ' ' {
			return false
		}
		b.pos++
	}
}

// SkipText skips the text s in the buffer at the current position if present,
// returning ok true. Otherwise, returns ok false and the buffer's parsing
// position is left unchanged.
func (b *bytestring) SkipText(s string) (ok bool) {
	if b.pos+len(s) > len(b.b) {
		return false
	}
	if !bytes.Equal([]byte(s), b.b[b.pos:b.pos+len(s)]) {
		return false
	}
	b.pos += len(s)
	return true
}

// Uint64 parses the decimal number starting in the buffer at the current
// position until a character other than 0-9 is encountered, or EOL. The number
// must consist of at least a single digit.
func (b *bytestring) Uint64() (num uint64, ok bool) {
	start := b.pos
	for b.pos < len(b.b) {
		ch := b.b[b.pos]
		if ch < '0' || ch > '9' {
			break
		}
		num = num*10 + uint64(ch-'0')
		b.pos++
	}
	return num, b.pos > start
}

// Hex64 parses a “0x”-prefixed hexadecimal number starting at the current
// position, as rendered by the UIO subsystem for map addresses and sizes. At
// least one hex digit must follow the prefix and the number must fit into 64
// bits.
func (b *bytestring) Hex64() (num uint64, ok bool) {
	if !b.SkipText("0x") {
		return 0, false
	}
	start := b.pos
	for b.pos < len(b.b) {
		var digit byte
		switch ch := b.b[b.pos]; {
		case ch >= '0' && ch <= '9':
			digit = ch - '0'
		case ch >= 'a' && ch <= 'f':
			digit = ch - 'a' + 10
		case ch >= 'A' && ch <= 'F':
			digit = ch - 'A' + 10
		default:
			return num, b.pos > start
		}
		if b.pos-start >= 16 {
			return 0, false
		}
		num = num<<4 | uint64(digit)
		b.pos++
	}
	return num, b.pos > start
}

// NumFields returns the number of fields found in the line, starting from the
// current position. NumFields does not change the current position. Fields are
// made of sequences of characters excluding the space character. Fields are
// separated by one or more spaces.
func (b *bytestring) NumFields() (num int) {
	pos := b.pos
	for {
		for {
			if pos >= len(b.b) {
				return
			}
			if b.b[pos] != ' ' {
				break
			}
			pos++
		}
		num++
		for {
			if pos >= len(b.b) {
				return
			}
			if b.b[pos] == ' ' {
				break
			}
			pos++
		}
	}
}

// HasField returns true if the remainder of the line contains the specified
// field, where fields are separated by spaces and/or commas. HasField does
// not change the current position.
func (b *bytestring) HasField(field string) bool {
	pos := b.pos
	for pos < len(b.b) {
		if b.b[pos] == ' ' || b.b[pos] == ',' {
			pos++
			continue
		}
		start := pos
		for pos < len(b.b) && b.b[pos] != ' ' && b.b[pos] != ',' {
			pos++
		}
		if string(b.b[start:pos]) == field {
			return true
		}
	}
	return false
}
