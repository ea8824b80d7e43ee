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
	"bytes"
	"fmt"
	"math"
)

// Type identifies the kind of an item, as seen when peeking at input
type Type uint8

const (
	TypeUnsigned Type = iota
	TypeNegative
	TypeBytes
	TypeText
	TypeArray
	TypeMap
	TypeTag
	TypeFloat
	TypeSimple
	TypeBreak
)

func (t Type) String() string {
	switch t {
	case TypeUnsigned:
		return "unsigned"
	case TypeNegative:
		return "negative"
	case TypeBytes:
		return "bytes"
	case TypeText:
		return "text"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	case TypeTag:
		return "tag"
	case TypeFloat:
		return "float"
	case TypeSimple:
		return "simple"
	case TypeBreak:
		return "break"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Type returns the item type described by the header
func (h Header) Type() Type {
	switch h.Major {
	case MajorUnsigned:
		return TypeUnsigned
	case MajorNegative:
		return TypeNegative
	case MajorBytes:
		return TypeBytes
	case MajorText:
		return TypeText
	case MajorArray:
		return TypeArray
	case MajorMap:
		return TypeMap
	case MajorTag:
		return TypeTag
	}
	switch h.Width {
	case Width16, Width32, Width64:
		return TypeFloat
	case WidthIndefinite:
		return TypeBreak
	}
	return TypeSimple
}

// Item is a single CBOR data item. The set of implementations is closed:
// Scalar, *Bytes, *Text, *Array, *Map, *Tag, Float and Simple
type Item interface {
	// Type returns the item type
	Type() Type
	// Header returns the lead header of the item
	Header() Header
	appendItem(dst []byte) ([]byte, error)
}

// Equal reports whether two items are structurally equal, including every
// encoding choice (widths, framing and chunk boundaries)
func Equal(a, b Item) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Scalar:
		bv, ok := b.(Scalar)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Simple:
		bv, ok := b.(Simple)
		return ok && av == bv
	case *Bytes:
		bv, ok := b.(*Bytes)
		return ok && av.chunked.equal(&bv.chunked)
	case *Text:
		bv, ok := b.(*Text)
		return ok && av.chunked.equal(&bv.chunked)
	case *Array:
		bv, ok := b.(*Array)
		if !ok || av.length != bv.length || len(av.items) != len(bv.items) {
			return false
		}
		for i := range av.items {
			if !Equal(av.items[i], bv.items[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.length != bv.length || len(av.pairs) != len(bv.pairs) {
			return false
		}
		for i := range av.pairs {
			if !Equal(av.pairs[i].Key, bv.pairs[i].Key) ||
				!Equal(av.pairs[i].Value, bv.pairs[i].Value) {
				return false
			}
		}
		return true
	case *Tag:
		bv, ok := b.(*Tag)
		return ok && av.number == bv.number && Equal(av.content, bv.content)
	}
	return false
}

// EqualValue reports whether two items carry the same logical value,
// ignoring encoding widths, framing and chunk boundaries
func EqualValue(a, b Item) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Scalar:
		bv, ok := b.(Scalar)
		return ok && av.sign == bv.sign && av.magnitude == bv.magnitude
	case Float:
		bv, ok := b.(Float)
		if !ok {
			return false
		}
		af, bf := av.Float64(), bv.Float64()
		return af == bf || (math.IsNaN(af) && math.IsNaN(bf))
	case Simple:
		bv, ok := b.(Simple)
		return ok && av.code == bv.code
	case *Bytes:
		bv, ok := b.(*Bytes)
		return ok && bytes.Equal(av.Value(), bv.Value())
	case *Text:
		bv, ok := b.(*Text)
		return ok && av.String() == bv.String()
	case *Array:
		bv, ok := b.(*Array)
		if !ok || len(av.items) != len(bv.items) {
			return false
		}
		for i := range av.items {
			if !EqualValue(av.items[i], bv.items[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || len(av.pairs) != len(bv.pairs) {
			return false
		}
		for i := range av.pairs {
			if !EqualValue(av.pairs[i].Key, bv.pairs[i].Key) ||
				!EqualValue(av.pairs[i].Value, bv.pairs[i].Value) {
				return false
			}
		}
		return true
	case *Tag:
		bv, ok := b.(*Tag)
		return ok && av.number.value == bv.number.value &&
			EqualValue(av.content, bv.content)
	}
	return false
}
