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
	"math"
	"math/big"
	"strconv"
)

// Sign of a scalar
type Sign uint8

const (
	Positive Sign = iota
	Negative
)

// Scalar is an integer of major type 0 or 1. A negative scalar with
// magnitude m has the value -(m+1). The encoding width is part of the
// scalar's identity
type Scalar struct {
	sign      Sign
	magnitude uint64
	width     Width
}

// NewUnsigned returns a positive scalar using the smallest width
func NewUnsigned(v uint64) Scalar {
	return Scalar{sign: Positive, magnitude: v, width: CanonicalWidth(v)}
}

// NewUnsignedWidth returns a positive scalar with an explicit width, which may
// be wider than necessary
func NewUnsignedWidth(v uint64, width Width) (Scalar, error) {
	if !width.Fits(v) {
		return Scalar{}, newEncodeError(
			ErrorKindInvalidWidth,
			"value %d does not fit width %s",
			v,
			width,
		)
	}
	return Scalar{sign: Positive, magnitude: v, width: width}, nil
}

// NewNegative returns the negative scalar -(m+1) using the smallest width
func NewNegative(m uint64) Scalar {
	return Scalar{sign: Negative, magnitude: m, width: CanonicalWidth(m)}
}

// NewNegativeWidth returns the negative scalar -(m+1) with an explicit width
func NewNegativeWidth(m uint64, width Width) (Scalar, error) {
	if !width.Fits(m) {
		return Scalar{}, newEncodeError(
			ErrorKindInvalidWidth,
			"magnitude %d does not fit width %s",
			m,
			width,
		)
	}
	return Scalar{sign: Negative, magnitude: m, width: width}, nil
}

// ScalarFromInt64 returns the scalar for a signed value using the smallest width
func ScalarFromInt64(i int64) Scalar {
	if i >= 0 {
		return NewUnsigned(uint64(i))
	}
	// -(m+1) == i  =>  m == -i - 1 == ^i
	return NewNegative(uint64(^i))
}

func (s Scalar) Type() Type {
	if s.sign == Negative {
		return TypeNegative
	}
	return TypeUnsigned
}

func (s Scalar) Header() Header {
	major := MajorUnsigned
	if s.sign == Negative {
		major = MajorNegative
	}
	return Header{Major: major, Width: s.width, Value: s.magnitude}
}

func (s Scalar) appendItem(dst []byte) ([]byte, error) {
	if !s.width.Fits(s.magnitude) {
		return dst, newEncodeError(
			ErrorKindInvalidWidth,
			"scalar magnitude %d does not fit width %s",
			s.magnitude,
			s.width,
		)
	}
	return AppendHeader(dst, s.Header()), nil
}

func (s Scalar) Sign() Sign {
	return s.sign
}

func (s Scalar) IsNegative() bool {
	return s.sign == Negative
}

// Magnitude returns the raw encoded argument. For negative scalars the value
// is -(Magnitude()+1)
func (s Scalar) Magnitude() uint64 {
	return s.magnitude
}

func (s Scalar) Width() Width {
	return s.width
}

// IsCanonical reports whether the scalar uses the smallest possible width
func (s Scalar) IsCanonical() bool {
	return s.width == CanonicalWidth(s.magnitude)
}

func (s Scalar) outOfRange(target string) error {
	return fmt.Errorf("%w: %s does not fit in %s", ErrOutOfRange, s, target)
}

func (s Scalar) unsigned(limit uint64, target string) (uint64, error) {
	if s.sign == Negative || s.magnitude > limit {
		return 0, s.outOfRange(target)
	}
	return s.magnitude, nil
}

func (s Scalar) Uint64() (uint64, error) {
	return s.unsigned(math.MaxUint64, "uint64")
}

func (s Scalar) Uint32() (uint32, error) {
	v, err := s.unsigned(math.MaxUint32, "uint32")
	return uint32(v), err
}

func (s Scalar) Uint16() (uint16, error) {
	v, err := s.unsigned(math.MaxUint16, "uint16")
	return uint16(v), err
}

func (s Scalar) Uint8() (uint8, error) {
	v, err := s.unsigned(math.MaxUint8, "uint8")
	return uint8(v), err
}

func (s Scalar) signed(minValue, maxValue int64, target string) (int64, error) {
	if s.sign == Positive {
		if s.magnitude > uint64(maxValue) {
			return 0, s.outOfRange(target)
		}
		return int64(s.magnitude), nil
	}
	// Smallest value is -(m+1), so m may be at most -(min+1)
	if s.magnitude > uint64(-(minValue + 1)) {
		return 0, s.outOfRange(target)
	}
	return -int64(s.magnitude) - 1, nil
}

func (s Scalar) Int64() (int64, error) {
	return s.signed(math.MinInt64, math.MaxInt64, "int64")
}

func (s Scalar) Int32() (int32, error) {
	v, err := s.signed(math.MinInt32, math.MaxInt32, "int32")
	return int32(v), err
}

func (s Scalar) Int() (int, error) {
	v, err := s.signed(math.MinInt, math.MaxInt, "int")
	return int(v), err
}

// BigInt returns the exact value, which covers the full -(2^64)..2^64-1 range
func (s Scalar) BigInt() *big.Int {
	ret := new(big.Int).SetUint64(s.magnitude)
	if s.sign == Negative {
		ret.Add(ret, big.NewInt(1))
		ret.Neg(ret)
	}
	return ret
}

func (s Scalar) String() string {
	if s.sign == Positive {
		return strconv.FormatUint(s.magnitude, 10)
	}
	if s.magnitude == math.MaxUint64 {
		return s.BigInt().String()
	}
	return "-" + strconv.FormatUint(s.magnitude+1, 10)
}
