// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cbor

import (
	"fmt"
)

const (
	SimpleFalse     uint8 = 20
	SimpleTrue      uint8 = 21
	SimpleNull      uint8 = 22
	SimpleUndefined uint8 = 23
)

// Simple is a major type 7 simple value. Codes below 24 may be encoded
// either directly or in the one byte form, and the chosen form is kept
type Simple struct {
	code  uint8
	width Width
}

var (
	False     = Simple{code: SimpleFalse}
	True      = Simple{code: SimpleTrue}
	Null      = Simple{code: SimpleNull}
	Undefined = Simple{code: SimpleUndefined}
)

// NewSimple returns the simple value for a code using the shortest form
func NewSimple(code uint8) Simple {
	if code <= CborMaxUintSimple {
		return Simple{code: code, width: WidthDirect}
	}
	return Simple{code: code, width: Width8}
}

// NewSimpleWidth returns a simple value with an explicit form
func NewSimpleWidth(code uint8, width Width) (Simple, error) {
	switch width {
	case WidthDirect:
		if code > CborMaxUintSimple {
			return Simple{}, newEncodeError(
				ErrorKindInvalidWidth,
				"simple value %d needs the one byte form",
				code,
			)
		}
	case Width8:
	default:
		return Simple{}, newEncodeError(
			ErrorKindInvalidWidth,
			"simple value width %s",
			width,
		)
	}
	return Simple{code: code, width: width}, nil
}

// NewBool returns the simple value for a bool
func NewBool(b bool) Simple {
	if b {
		return True
	}
	return False
}

func (s Simple) Type() Type {
	return TypeSimple
}

func (s Simple) Header() Header {
	return Header{Major: MajorSimple, Width: s.width, Value: uint64(s.code)}
}

func (s Simple) appendItem(dst []byte) ([]byte, error) {
	switch s.width {
	case WidthDirect:
		if s.code > CborMaxUintSimple {
			return dst, newEncodeError(
				ErrorKindInvalidWidth,
				"simple value %d needs the one byte form",
				s.code,
			)
		}
	case Width8:
	default:
		return dst, newEncodeError(ErrorKindInvalidWidth, "simple value width %s", s.width)
	}
	return AppendHeader(dst, s.Header()), nil
}

func (s Simple) Code() uint8 {
	return s.code
}

func (s Simple) Width() Width {
	return s.width
}

// Bool returns the boolean value and whether the simple value is a boolean
func (s Simple) Bool() (bool, bool) {
	switch s.code {
	case SimpleFalse:
		return false, true
	case SimpleTrue:
		return true, true
	}
	return false, false
}

func (s Simple) IsNull() bool {
	return s.code == SimpleNull
}

func (s Simple) IsUndefined() bool {
	return s.code == SimpleUndefined
}

func (s Simple) String() string {
	if s.width == WidthDirect {
		switch s.code {
		case SimpleFalse:
			return "false"
		case SimpleTrue:
			return "true"
		case SimpleNull:
			return "null"
		case SimpleUndefined:
			return "undefined"
		}
	}
	return fmt.Sprintf("simple(%d)", s.code)
}
