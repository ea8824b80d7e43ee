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

// Length is the framing of an array or map: either a definite count with
// the width of its header, or indefinite
type Length struct {
	count uint64
	width Width
}

// DefiniteLength returns a definite length using the smallest width
func DefiniteLength(count uint64) Length {
	return Length{count: count, width: CanonicalWidth(count)}
}

// DefiniteLengthWidth returns a definite length with an explicit width
func DefiniteLengthWidth(count uint64, width Width) (Length, error) {
	if !width.Fits(count) {
		return Length{}, newEncodeError(
			ErrorKindInvalidWidth,
			"count %d does not fit width %s",
			count,
			width,
		)
	}
	return Length{count: count, width: width}, nil
}

// IndefiniteLength returns break-terminated framing
func IndefiniteLength() Length {
	return Length{width: WidthIndefinite}
}

func (l Length) IsIndefinite() bool {
	return l.width == WidthIndefinite
}

// Count returns the declared count. It is zero for indefinite framing
func (l Length) Count() uint64 {
	return l.count
}

func (l Length) Width() Width {
	return l.width
}

func (l Length) header(major MajorType) Header {
	return Header{Major: major, Width: l.width, Value: l.count}
}

func (l Length) String() string {
	if l.IsIndefinite() {
		return "indefinite"
	}
	return fmt.Sprintf("%d (%s)", l.count, l.width)
}

func lengthFromHeader(h Header) Length {
	return Length{count: h.Value, width: h.Width}
}

// Array is an ordered sequence of items
type Array struct {
	DecodeStoreCbor
	length Length
	items  []Item
}

// NewArray returns a definite array using the smallest count width
func NewArray(items ...Item) *Array {
	return &Array{
		length: DefiniteLength(uint64(len(items))),
		items:  items,
	}
}

// NewArrayLength returns an array with explicit framing. A definite count
// that differs from the number of items fails when encoding
func NewArrayLength(length Length, items ...Item) *Array {
	return &Array{length: length, items: items}
}

// NewIndefiniteArray returns a break-terminated array
func NewIndefiniteArray(items ...Item) *Array {
	return &Array{length: IndefiniteLength(), items: items}
}

func (a *Array) Type() Type {
	return TypeArray
}

func (a *Array) Header() Header {
	return a.length.header(MajorArray)
}

func (a *Array) Length() Length {
	return a.length
}

func (a *Array) Len() int {
	return len(a.items)
}

func (a *Array) Items() []Item {
	return a.items
}

// Item returns the item at index i, or nil when out of range
func (a *Array) Item(i int) Item {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

func (a *Array) appendItem(dst []byte) ([]byte, error) {
	if !a.length.IsIndefinite() {
		if a.length.count != uint64(len(a.items)) {
			return dst, newEncodeError(
				ErrorKindCountMismatch,
				"array declares %d items but has %d",
				a.length.count,
				len(a.items),
			)
		}
		if !a.length.width.Fits(a.length.count) {
			return dst, newEncodeError(
				ErrorKindInvalidWidth,
				"count %d does not fit width %s",
				a.length.count,
				a.length.width,
			)
		}
	}
	dst = AppendHeader(dst, a.Header())
	var err error
	for i, item := range a.items {
		if item == nil {
			return dst, newEncodeError(ErrorKindUnexpectedType, "nil array element %d", i)
		}
		if dst, err = item.appendItem(dst); err != nil {
			return dst, err
		}
	}
	if a.length.IsIndefinite() {
		dst = append(dst, CborBreak)
	}
	return dst, nil
}

// Pair is a map entry
type Pair struct {
	Key   Item
	Value Item
}

// Map is an ordered sequence of key/value pairs. Order and duplicate keys are
// preserved as found
type Map struct {
	DecodeStoreCbor
	length Length
	pairs  []Pair
}

// NewMap returns a definite map using the smallest count width
func NewMap(pairs ...Pair) *Map {
	return &Map{
		length: DefiniteLength(uint64(len(pairs))),
		pairs:  pairs,
	}
}

// NewMapLength returns a map with explicit framing. The count is in pairs
func NewMapLength(length Length, pairs ...Pair) *Map {
	return &Map{length: length, pairs: pairs}
}

// NewIndefiniteMap returns a break-terminated map
func NewIndefiniteMap(pairs ...Pair) *Map {
	return &Map{length: IndefiniteLength(), pairs: pairs}
}

func (m *Map) Type() Type {
	return TypeMap
}

func (m *Map) Header() Header {
	return m.length.header(MajorMap)
}

func (m *Map) Length() Length {
	return m.length
}

func (m *Map) Len() int {
	return len(m.pairs)
}

func (m *Map) Pairs() []Pair {
	return m.pairs
}

// Get returns the value of the first pair whose key has the same logical
// value as key
func (m *Map) Get(key Item) (Item, bool) {
	for _, pair := range m.pairs {
		if EqualValue(pair.Key, key) {
			return pair.Value, true
		}
	}
	return nil, false
}

func (m *Map) appendItem(dst []byte) ([]byte, error) {
	if !m.length.IsIndefinite() {
		if m.length.count != uint64(len(m.pairs)) {
			return dst, newEncodeError(
				ErrorKindCountMismatch,
				"map declares %d pairs but has %d",
				m.length.count,
				len(m.pairs),
			)
		}
		if !m.length.width.Fits(m.length.count) {
			return dst, newEncodeError(
				ErrorKindInvalidWidth,
				"count %d does not fit width %s",
				m.length.count,
				m.length.width,
			)
		}
	}
	dst = AppendHeader(dst, m.Header())
	var err error
	for i, pair := range m.pairs {
		if pair.Key == nil || pair.Value == nil {
			return dst, newEncodeError(ErrorKindUnexpectedType, "nil map entry %d", i)
		}
		if dst, err = pair.Key.appendItem(dst); err != nil {
			return dst, err
		}
		if dst, err = pair.Value.appendItem(dst); err != nil {
			return dst, err
		}
	}
	if m.length.IsIndefinite() {
		dst = append(dst, CborBreak)
	}
	return dst, nil
}

// TagNumber is a tag number along with the width of its header
type TagNumber struct {
	value uint64
	width Width
}

// NewTagNumber returns a tag number using the smallest width
func NewTagNumber(n uint64) TagNumber {
	return TagNumber{value: n, width: CanonicalWidth(n)}
}

// NewTagNumberWidth returns a tag number with an explicit width
func NewTagNumberWidth(n uint64, width Width) (TagNumber, error) {
	if !width.Fits(n) {
		return TagNumber{}, newEncodeError(
			ErrorKindInvalidWidth,
			"tag %d does not fit width %s",
			n,
			width,
		)
	}
	return TagNumber{value: n, width: width}, nil
}

func (n TagNumber) Value() uint64 {
	return n.value
}

func (n TagNumber) Width() Width {
	return n.width
}

func (n TagNumber) header() Header {
	return Header{Major: MajorTag, Width: n.width, Value: n.value}
}

// Tag is a tag number applied to exactly one content item
type Tag struct {
	DecodeStoreCbor
	number  TagNumber
	content Item
}

// NewTag returns a tag using the smallest number width
func NewTag(number uint64, content Item) *Tag {
	return &Tag{number: NewTagNumber(number), content: content}
}

// NewTagWidth returns a tag with an explicit number
func NewTagWidth(number TagNumber, content Item) *Tag {
	return &Tag{number: number, content: content}
}

func (t *Tag) Type() Type {
	return TypeTag
}

func (t *Tag) Header() Header {
	return t.number.header()
}

func (t *Tag) Number() uint64 {
	return t.number.value
}

func (t *Tag) TagNumber() TagNumber {
	return t.number
}

func (t *Tag) Content() Item {
	return t.content
}

func (t *Tag) appendItem(dst []byte) ([]byte, error) {
	if t.content == nil {
		return dst, newEncodeError(ErrorKindMissingTagBody, "tag %d", t.number.value)
	}
	if !t.number.width.Fits(t.number.value) {
		return dst, newEncodeError(
			ErrorKindInvalidWidth,
			"tag %d does not fit width %s",
			t.number.value,
			t.number.width,
		)
	}
	dst = AppendHeader(dst, t.Header())
	return t.content.appendItem(dst)
}
