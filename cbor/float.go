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
	"math"
	"strconv"

	"github.com/x448/float16"
)

// Float is a major type 7 floating point value. The raw bits are kept at the
// encoded width (16, 32 or 64 bits) so NaN payloads and precision survive a
// round trip
type Float struct {
	width Width
	bits  uint64
}

// Quiet NaN with no payload at each width
const (
	quietNaN16 = 0x7e00
	quietNaN32 = 0x7fc00000
	quietNaN64 = 0x7ff8000000000000
)

// IsQuietNaN reports whether f is the NaN without payload for its width
func (f Float) IsQuietNaN() bool {
	switch f.width {
	case Width16:
		return f.bits == quietNaN16
	case Width32:
		return f.bits == quietNaN32
	}
	return f.bits == quietNaN64
}

// NewFloat16 returns a half precision float, rounding to nearest even
func NewFloat16(f float32) Float {
	return Float{width: Width16, bits: uint64(float16.Fromfloat32(f).Bits())}
}

func NewFloat32(f float32) Float {
	return Float{width: Width32, bits: uint64(math.Float32bits(f))}
}

func NewFloat64(f float64) Float {
	return Float{width: Width64, bits: math.Float64bits(f)}
}

// NewFloat returns the narrowest float that represents f exactly
func NewFloat(f float64) Float {
	if math.IsNaN(f) {
		return Float{width: Width16, bits: quietNaN16}
	}
	f32 := float32(f)
	if float64(f32) != f {
		return NewFloat64(f)
	}
	if float16.PrecisionFromfloat32(f32) == float16.PrecisionExact {
		return NewFloat16(f32)
	}
	return NewFloat32(f32)
}

// NewFloatBits returns a float from its raw bits at the given width
func NewFloatBits(width Width, bits uint64) (Float, error) {
	switch width {
	case Width16, Width32, Width64:
	default:
		return Float{}, newEncodeError(
			ErrorKindInvalidWidth,
			"float width must be 16, 32 or 64 bits, got %s",
			width,
		)
	}
	if !width.Fits(bits) {
		return Float{}, newEncodeError(
			ErrorKindInvalidWidth,
			"float bits 0x%x do not fit width %s",
			bits,
			width,
		)
	}
	return Float{width: width, bits: bits}, nil
}

func (f Float) Type() Type {
	return TypeFloat
}

func (f Float) Header() Header {
	return Header{Major: MajorSimple, Width: f.width, Value: f.bits}
}

func (f Float) appendItem(dst []byte) ([]byte, error) {
	switch f.width {
	case Width16, Width32, Width64:
		return AppendHeader(dst, f.Header()), nil
	}
	return dst, newEncodeError(ErrorKindInvalidWidth, "float width %s", f.width)
}

func (f Float) Width() Width {
	return f.width
}

// Bits returns the raw IEEE 754 bits at the encoded width
func (f Float) Bits() uint64 {
	return f.bits
}

// Float64 returns the value widened to float64
func (f Float) Float64() float64 {
	switch f.width {
	case Width16:
		return float64(float16.Frombits(uint16(f.bits)).Float32())
	case Width32:
		return float64(math.Float32frombits(uint32(f.bits)))
	}
	return math.Float64frombits(f.bits)
}

func (f Float) String() string {
	v := f.Float64()
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'n' {
			return s
		}
	}
	return s + ".0"
}
