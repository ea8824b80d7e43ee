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
	"encoding/binary"
	"fmt"
	"math"
)

const (
	CborTypeUnsigned   uint8 = 0x00
	CborTypeNegative   uint8 = 0x20
	CborTypeByteString uint8 = 0x40
	CborTypeTextString uint8 = 0x60
	CborTypeArray      uint8 = 0x80
	CborTypeMap        uint8 = 0xa0
	CborTypeTag        uint8 = 0xc0
	CborTypeSimple     uint8 = 0xe0

	// Only the top 3 bits are used to specify the type
	CborTypeMask uint8 = 0xe0
	// The low 5 bits carry the additional information
	CborInfoMask uint8 = 0x1f

	// Max value able to be stored in a single byte without type prefix
	CborMaxUintSimple uint8 = 0x17

	// Break marker that terminates indefinite-length items
	CborBreak uint8 = 0xff
)

// Additional information values
const (
	infoUint8      uint8 = 24
	infoUint16     uint8 = 25
	infoUint32     uint8 = 26
	infoUint64     uint8 = 27
	infoIndefinite uint8 = 31
)

// MajorType is the type encoded in the top 3 bits of the lead byte
type MajorType uint8

const (
	MajorUnsigned MajorType = 0
	MajorNegative MajorType = 1
	MajorBytes    MajorType = 2
	MajorText     MajorType = 3
	MajorArray    MajorType = 4
	MajorMap      MajorType = 5
	MajorTag      MajorType = 6
	MajorSimple   MajorType = 7
)

func (m MajorType) String() string {
	switch m {
	case MajorUnsigned:
		return "unsigned"
	case MajorNegative:
		return "negative"
	case MajorBytes:
		return "bytes"
	case MajorText:
		return "text"
	case MajorArray:
		return "array"
	case MajorMap:
		return "map"
	case MajorTag:
		return "tag"
	case MajorSimple:
		return "simple"
	}
	return fmt.Sprintf("major(%d)", uint8(m))
}

// Width is the encoding width of a header argument. It determines how many
// bytes follow the lead byte, independent of the argument value
type Width uint8

const (
	// WidthDirect stores the argument (0-23) in the lead byte
	WidthDirect Width = iota
	Width8
	Width16
	Width32
	Width64
	// WidthIndefinite marks indefinite framing (or break for major type 7)
	WidthIndefinite
)

// Size returns the number of argument bytes following the lead byte
func (w Width) Size() int {
	switch w {
	case Width8:
		return 1
	case Width16:
		return 2
	case Width32:
		return 4
	case Width64:
		return 8
	}
	return 0
}

// MaxValue returns the largest argument representable with the width
func (w Width) MaxValue() uint64 {
	switch w {
	case WidthDirect:
		return uint64(CborMaxUintSimple)
	case Width8:
		return math.MaxUint8
	case Width16:
		return math.MaxUint16
	case Width32:
		return math.MaxUint32
	case Width64:
		return math.MaxUint64
	}
	return 0
}

// Fits reports whether the value can be encoded with the width
func (w Width) Fits(v uint64) bool {
	if w == WidthIndefinite {
		return false
	}
	return v <= w.MaxValue()
}

func (w Width) String() string {
	switch w {
	case WidthDirect:
		return "direct"
	case Width8:
		return "u8"
	case Width16:
		return "u16"
	case Width32:
		return "u32"
	case Width64:
		return "u64"
	case WidthIndefinite:
		return "indefinite"
	}
	return fmt.Sprintf("width(%d)", uint8(w))
}

// CanonicalWidth returns the smallest width able to hold the value
func CanonicalWidth(v uint64) Width {
	switch {
	case v <= uint64(CborMaxUintSimple):
		return WidthDirect
	case v <= math.MaxUint8:
		return Width8
	case v <= math.MaxUint16:
		return Width16
	case v <= math.MaxUint32:
		return Width32
	}
	return Width64
}

// Header is a decoded lead byte plus its argument. The width is preserved
// exactly as found and is never normalized
type Header struct {
	Major MajorType
	Width Width
	Value uint64
}

// NewHeader returns a header after checking that the value fits the width
func NewHeader(major MajorType, width Width, value uint64) (Header, error) {
	if major > MajorSimple {
		return Header{}, newEncodeError(
			ErrorKindUnexpectedType,
			"invalid major type %d",
			major,
		)
	}
	if width == WidthIndefinite {
		switch major {
		case MajorUnsigned, MajorNegative, MajorTag:
			return Header{}, newEncodeError(
				ErrorKindIndefiniteNotAllowedHere,
				"major type %s",
				major,
			)
		}
		if value != 0 {
			return Header{}, newEncodeError(
				ErrorKindInvalidWidth,
				"indefinite header cannot carry value %d",
				value,
			)
		}
	} else if !width.Fits(value) {
		return Header{}, newEncodeError(
			ErrorKindInvalidWidth,
			"value %d does not fit width %s",
			value,
			width,
		)
	}
	return Header{Major: major, Width: width, Value: value}, nil
}

// IsBreak reports whether the header is the break marker
func (h Header) IsBreak() bool {
	return h.Major == MajorSimple && h.Width == WidthIndefinite
}

// IsIndefinite reports whether the header opens an indefinite-length item
func (h Header) IsIndefinite() bool {
	return h.Width == WidthIndefinite && h.Major != MajorSimple
}

// IsCanonical reports whether the argument uses the smallest possible width
func (h Header) IsCanonical() bool {
	if h.Width == WidthIndefinite {
		return true
	}
	if h.Major == MajorSimple && h.Width >= Width16 {
		// Float widths are a choice of precision
		return true
	}
	return h.Width == CanonicalWidth(h.Value)
}

// Size returns the encoded size of the header in bytes
func (h Header) Size() int {
	return 1 + h.Width.Size()
}

// Bytes returns the encoded header
func (h Header) Bytes() []byte {
	return AppendHeader(make([]byte, 0, h.Size()), h)
}

// AppendHeader appends the encoded header to dst
func AppendHeader(dst []byte, h Header) []byte {
	lead := uint8(h.Major) << 5
	switch h.Width {
	case WidthDirect:
		return append(dst, lead|uint8(h.Value&uint64(CborInfoMask)))
	case Width8:
		return append(dst, lead|infoUint8, uint8(h.Value))
	case Width16:
		dst = append(dst, lead|infoUint16)
		return binary.BigEndian.AppendUint16(dst, uint16(h.Value))
	case Width32:
		dst = append(dst, lead|infoUint32)
		return binary.BigEndian.AppendUint32(dst, uint32(h.Value))
	case Width64:
		dst = append(dst, lead|infoUint64)
		return binary.BigEndian.AppendUint64(dst, h.Value)
	}
	return append(dst, lead|infoIndefinite)
}

// DecodeHeader decodes the header at the given offset. It returns the header
// and the number of bytes consumed
func DecodeHeader(data []byte, offset int) (Header, int, error) {
	if offset < 0 || offset >= len(data) {
		return Header{}, 0, newDecodeError(
			ErrorKindUnexpectedEOF,
			max(offset, 0),
			"expected header",
		)
	}
	lead := data[offset]
	major := MajorType(lead >> 5)
	info := lead & CborInfoMask
	var width Width
	switch {
	case info <= CborMaxUintSimple:
		return Header{Major: major, Width: WidthDirect, Value: uint64(info)}, 1, nil
	case info == infoUint8:
		width = Width8
	case info == infoUint16:
		width = Width16
	case info == infoUint32:
		width = Width32
	case info == infoUint64:
		width = Width64
	case info == infoIndefinite:
		switch major {
		case MajorUnsigned, MajorNegative, MajorTag:
			return Header{}, 0, newDecodeError(
				ErrorKindIndefiniteNotAllowedHere,
				offset,
				fmt.Sprintf("lead byte 0x%02x", lead),
			)
		}
		return Header{Major: major, Width: WidthIndefinite}, 1, nil
	default:
		return Header{}, 0, newDecodeError(
			ErrorKindReservedEncoding,
			offset,
			fmt.Sprintf("lead byte 0x%02x", lead),
		)
	}
	size := width.Size()
	if len(data)-offset-1 < size {
		// Report the offset where the truncated argument starts
		return Header{}, 0, newDecodeError(
			ErrorKindUnexpectedEOF,
			offset+1,
			fmt.Sprintf("header needs %d argument bytes", size),
		)
	}
	arg := data[offset+1 : offset+1+size]
	var value uint64
	switch width {
	case Width8:
		value = uint64(arg[0])
	case Width16:
		value = uint64(binary.BigEndian.Uint16(arg))
	case Width32:
		value = uint64(binary.BigEndian.Uint32(arg))
	case Width64:
		value = binary.BigEndian.Uint64(arg)
	}
	return Header{Major: major, Width: width, Value: value}, 1 + size, nil
}
