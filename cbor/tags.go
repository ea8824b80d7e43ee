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
	"reflect"
	"time"

	_cbor "github.com/fxamacker/cbor/v2"
)

const (
	// Useful tag numbers
	CborTagDateTime  = 0
	CborTagEpoch     = 1
	CborTagBignum    = 2
	CborTagNegBignum = 3
	CborTagCbor      = 24
	CborTagRational  = 30
	CborTagSet       = 258
	CborTagMap       = 259
)

var customTagSet _cbor.TagSet

func init() {
	// Build custom tagset
	customTagSet = _cbor.NewTagSet()
	tagOpts := _cbor.TagOptions{EncTag: _cbor.EncTagRequired, DecTag: _cbor.DecTagRequired}
	// Wrapped CBOR
	if err := customTagSet.Add(
		tagOpts,
		reflect.TypeOf(WrappedCbor{}),
		CborTagCbor,
	); err != nil {
		panic(err)
	}
	// Rational numbers
	if err := customTagSet.Add(
		tagOpts,
		reflect.TypeOf(Rat{}),
		CborTagRational,
	); err != nil {
		panic(err)
	}
	// Sets
	if err := customTagSet.Add(
		tagOpts,
		reflect.TypeOf(Set{}),
		CborTagSet,
	); err != nil {
		panic(err)
	}
	// Maps
	if err := customTagSet.Add(
		tagOpts,
		reflect.TypeOf(TaggedMap{}),
		CborTagMap,
	); err != nil {
		panic(err)
	}
}

func expectTag(t *Tag, numbers ...uint64) error {
	if t == nil {
		return fmt.Errorf("%w: nil tag", ErrUnexpectedType)
	}
	for _, number := range numbers {
		if t.number.value == number {
			return nil
		}
	}
	return fmt.Errorf("%w: unexpected tag %d", ErrUnexpectedType, t.number.value)
}

// NewDateTimeTag returns a tag 0 date/time string in RFC 3339 format
func NewDateTimeTag(t time.Time) *Tag {
	return NewTag(CborTagDateTime, NewText(t.Format(time.RFC3339Nano)))
}

// NewEpochTag returns a tag 1 epoch time. Whole seconds are encoded as an
// integer and anything else as a 64-bit float
func NewEpochTag(t time.Time) *Tag {
	if t.Nanosecond() == 0 {
		return NewTag(CborTagEpoch, ScalarFromInt64(t.Unix()))
	}
	secs := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return NewTag(CborTagEpoch, NewFloat64(secs))
}

// TagTime interprets a tag 0 or tag 1 as a time
func TagTime(t *Tag) (time.Time, error) {
	if err := expectTag(t, CborTagDateTime, CborTagEpoch); err != nil {
		return time.Time{}, err
	}
	switch v := t.content.(type) {
	case *Text:
		if t.number.value != CborTagDateTime {
			break
		}
		return time.Parse(time.RFC3339Nano, v.String())
	case Scalar:
		if t.number.value != CborTagEpoch {
			break
		}
		secs, err := v.Int64()
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(secs, 0).UTC(), nil
	case Float:
		if t.number.value != CborTagEpoch {
			break
		}
		f := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, fmt.Errorf("%w: epoch time %s", ErrOutOfRange, v)
		}
		secs, frac := math.Modf(f)
		return time.Unix(int64(secs), int64(frac*1e9)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf(
		"%w: tag %d content is %s",
		ErrUnexpectedType,
		t.number.value,
		t.content.Type(),
	)
}

// NewEncodedCborTag returns a tag 24 wrapping the encoding of item in a byte
// string
func NewEncodedCborTag(item Item) (*Tag, error) {
	data, err := Encode(item)
	if err != nil {
		return nil, err
	}
	return NewTag(CborTagCbor, NewBytes(data)), nil
}

// EncodedCborItem decodes the item embedded in a tag 24
func EncodedCborItem(t *Tag, opts ...ReaderOptionFunc) (Item, error) {
	if err := expectTag(t, CborTagCbor); err != nil {
		return nil, err
	}
	b, ok := t.content.(*Bytes)
	if !ok {
		return nil, fmt.Errorf("%w: tag 24 content is %s", ErrUnexpectedType, t.content.Type())
	}
	return Decode(b.Value(), opts...)
}

// NewRationalTag returns a tag 30 rational number [numerator, denominator]
func NewRationalTag(num Scalar, denom Scalar) *Tag {
	return NewTag(CborTagRational, NewArray(num, denom))
}

// TagRational interprets a tag 30 as a rational number
func TagRational(t *Tag) (*big.Rat, error) {
	if err := expectTag(t, CborTagRational); err != nil {
		return nil, err
	}
	arr, ok := t.content.(*Array)
	if !ok || arr.Len() != 2 {
		return nil, fmt.Errorf("%w: tag 30 content must be a two element array", ErrUnexpectedType)
	}
	num, ok := arr.items[0].(Scalar)
	if !ok {
		return nil, fmt.Errorf("%w: rational numerator is %s", ErrUnexpectedType, arr.items[0].Type())
	}
	denom, ok := arr.items[1].(Scalar)
	if !ok || denom.IsNegative() || denom.magnitude == 0 {
		return nil, fmt.Errorf("%w: rational denominator must be a positive integer", ErrOutOfRange)
	}
	return new(big.Rat).SetFrac(num.BigInt(), denom.BigInt()), nil
}

// NewSetTag returns a tag 258 set
func NewSetTag(items ...Item) *Tag {
	return NewTag(CborTagSet, NewArray(items...))
}

// TagSetItems returns the members of a tag 258 set
func TagSetItems(t *Tag) ([]Item, error) {
	if err := expectTag(t, CborTagSet); err != nil {
		return nil, err
	}
	arr, ok := t.content.(*Array)
	if !ok {
		return nil, fmt.Errorf("%w: tag 258 content is %s", ErrUnexpectedType, t.content.Type())
	}
	return arr.items, nil
}

// WrappedCbor corresponds to CBOR tag 24 and is used to encode nested CBOR data
type WrappedCbor []byte

func (w WrappedCbor) Bytes() []byte {
	return w[:]
}

// Rat corresponds to CBOR tag 30 and is used to represent a rational number
type Rat struct {
	*big.Rat
}

func (r *Rat) UnmarshalCBOR(cborData []byte) error {
	tmpRat := []*big.Int{}
	if _, err := Unmarshal(cborData, &tmpRat); err != nil {
		return err
	}
	if len(tmpRat) != 2 || tmpRat[1] == nil || tmpRat[1].Sign() == 0 {
		return fmt.Errorf("%w: invalid rational %v", ErrOutOfRange, tmpRat)
	}
	r.Rat = new(big.Rat).SetFrac(tmpRat[0], tmpRat[1])
	return nil
}

func (r *Rat) MarshalCBOR() ([]byte, error) {
	tmpData := NativeTag{
		Number: CborTagRational,
		Content: []*big.Int{
			r.Num(),
			r.Denom(),
		},
	}
	return Marshal(&tmpData)
}

func (r *Rat) ToBigRat() *big.Rat {
	return r.Rat
}

// Set corresponds to CBOR tag 258 and is used to represent a mathematical finite set
type Set []any

// TaggedMap corresponds to CBOR tag 259 and is used to represent a map with key/value operations
type TaggedMap map[any]any
