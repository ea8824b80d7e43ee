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

package repr_test

import (
	"github.com/blinklabs-io/cbored/cbor"
	"github.com/blinklabs-io/cbored/repr"
)

type Point struct {
	repr.StructAsArray
	X int64
	Y int64
}

type Segment struct {
	repr.StructAsArray
	From Point
	To   Point
}

// Plain has no marker and uses the array layout
type Plain struct {
	Name string
	Tags []string
}

type Range struct {
	repr.StructAsArrayLastOpt
	Start uint64
	End   *uint64
}

type Coord struct {
	repr.StructAsFlat
	Lat int64
	Lon int64
}

type Place struct {
	repr.StructAsArray
	Name string
	At   Coord
}

type Epoch struct {
	repr.StructAsFlat `cbor:"tag=1"`
	Seconds uint64
}

type Params struct {
	repr.StructAsIntMap `cbor:"start=1,skip=3"`
	Fee                 uint64
	Size                uint64
	Deposit             *uint64 `cbor:"optional"`
	Memo                []byte  `cbor:"optional"`
	Ignored             string `cbor:"-"`
}

type Witness struct {
	repr.StructAsIntMap `cbor:"tag=259"`
	Keys                [][]byte `cbor:"optional"`
}

type Node struct {
	Children []Node
}

// Block keeps the bytes it was decoded from and re-emits them unchanged
type Block struct {
	repr.StructAsArray
	cbor.DecodeStoreCbor
	Slot uint64
	Hash []byte
}

func (b *Block) UnmarshalCBORItem(r *cbor.Reader) error {
	start := r.Position()
	if err := repr.DecodeGeneric(r, b); err != nil {
		return err
	}
	b.SetCbor(r.RawSince(start))
	return nil
}

func (b *Block) MarshalCBORItem(w *cbor.Writer) error {
	if raw := b.Cbor(); raw != nil {
		return w.WriteRaw(raw)
	}
	return repr.EncodeGeneric(w, b)
}

type Chain struct {
	repr.StructAsArray
	Blocks []Block
}

type Shape interface {
	isShape()
}

type Circle struct {
	Radius uint64
}

type Square struct {
	Side  uint64
	Label string
}

type Dot struct{}

// Triangle is never registered with the union
type Triangle struct{}

func (Circle) isShape()   {}
func (Square) isShape()   {}
func (Dot) isShape()      {}
func (Triangle) isShape() {}

var shapes = repr.NewUnion[Shape](
	repr.TagVariant,
	repr.StartsAt(1),
	repr.SkipCodes(2),
).Add(Circle{}, Square{}, Dot{})

type Drawing struct {
	repr.StructAsArray
	Shapes []Shape
	Main   Shape
}

type Color interface {
	isColor()
}

type Red struct{}

type Green struct{}

type Blue struct{}

func (Red) isColor()   {}
func (Green) isColor() {}
func (Blue) isColor()  {}

var colors = repr.NewUnion[Color](repr.EnumInt).Add(Red{}, Green{}, Blue{})

type Ref interface {
	isRef()
}

type RefIndex struct {
	Index uint64
}

type RefName string

type RefNone struct{}

func (RefIndex) isRef() {}
func (RefName) isRef()  {}
func (RefNone) isRef()  {}

var refs = repr.NewUnion[Ref](repr.EnumType).
	AddType(cbor.TypeUnsigned, RefIndex{}).
	AddType(cbor.TypeText, RefName("")).
	AddType(cbor.TypeSimple, RefNone{})

func ptr[T any](v T) *T {
	return &v
}
