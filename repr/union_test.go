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
	"testing"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/blinklabs-io/cbored/internal/test"
	"github.com/blinklabs-io/cbored/repr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagVariant(t *testing.T) {
	testDefs := []struct {
		cborHex string
		value   Shape
	}{
		{cborHex: "82 01 05", value: Circle{Radius: 5}},
		{cborHex: "83 03 02 61 73", value: Square{Side: 2, Label: "s"}},
		{cborHex: "81 04", value: Dot{}},
	}
	for _, testDef := range testDefs {
		out, err := shapes.Marshal(testDef.value)
		require.NoError(t, err)
		assert.Equal(t, test.DecodeHexString(testDef.cborHex), out, testDef.cborHex)
		value, err := shapes.Unmarshal(out)
		require.NoError(t, err)
		assert.Equal(t, testDef.value, value)
	}
	value, err := shapes.Unmarshal(test.DecodeHexString("9F 01 05 FF"))
	require.NoError(t, err)
	assert.Equal(t, Circle{Radius: 5}, value)
}

func TestTagVariantCodes(t *testing.T) {
	for _, testDef := range []struct {
		value Shape
		code  uint64
	}{
		{value: Circle{}, code: 1},
		{value: Square{}, code: 3},
		{value: Dot{}, code: 4},
	} {
		code, ok := shapes.Code(testDef.value)
		require.True(t, ok)
		assert.Equal(t, testDef.code, code)
	}
	_, ok := shapes.Code(Triangle{})
	assert.False(t, ok)
}

func TestTagVariantErrors(t *testing.T) {
	testDefs := []struct {
		name    string
		cborHex string
		errs    []error
		context []string
	}{
		{
			name:    "SkippedCode",
			cborHex: "82 02 05",
			errs:    []error{repr.ErrUnknownVariant, cbor.ErrUnexpectedType},
		},
		{
			name:    "TooManyItems",
			cborHex: "83 01 05 06",
			errs:    []error{repr.ErrFieldCount, cbor.ErrCountMismatch},
		},
		{
			name:    "Empty",
			cborHex: "80",
			errs:    []error{repr.ErrFieldCount},
		},
		{
			name:    "IndefiniteTooManyItems",
			cborHex: "9F 01 05 06 FF",
			errs:    []error{repr.ErrFieldCount},
		},
		{
			name:    "FieldLabels",
			cborHex: "82 01 61 61",
			errs:    []error{cbor.ErrUnexpectedType},
			context: []string{"Circle.Radius", "Shape.Circle"},
		},
		{
			name:    "NotAnArray",
			cborHex: "01",
			errs:    []error{cbor.ErrUnexpectedType},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := shapes.Unmarshal(test.DecodeHexString(testDef.cborHex))
			require.Error(t, err)
			for _, want := range testDef.errs {
				assert.ErrorIs(t, err, want)
			}
			if testDef.context != nil {
				var decErr *cbor.DecodeError
				require.ErrorAs(t, err, &decErr)
				assert.Equal(t, testDef.context, decErr.Context)
			}
		})
	}
}

func TestUnregisteredVariant(t *testing.T) {
	_, err := shapes.Marshal(Triangle{})
	require.ErrorIs(t, err, repr.ErrUnknownVariant)
	_, err = repr.Marshal(Drawing{Main: Triangle{}})
	require.ErrorIs(t, err, repr.ErrUnknownVariant)
}

func TestUnionFields(t *testing.T) {
	drawing := Drawing{Shapes: []Shape{Circle{Radius: 1}, Dot{}}}
	out, err := repr.Marshal(drawing)
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString("82 82 82 01 01 81 04 F6"), out)
	var dest Drawing
	require.NoError(t, repr.Unmarshal(out, &dest))
	assert.Equal(t, drawing, dest)

	drawing.Main = Square{Side: 1}
	out, err = repr.Marshal(drawing)
	require.NoError(t, err)
	require.NoError(t, repr.Unmarshal(out, &dest))
	assert.Equal(t, drawing, dest)
}

func TestUnionThroughInterfacePointer(t *testing.T) {
	var shape Shape = Circle{Radius: 9}
	out, err := repr.Marshal(&shape)
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString("82 01 09"), out)
	var dest Shape
	require.NoError(t, repr.Unmarshal(out, &dest))
	assert.Equal(t, shape, dest)
}

func TestEnumInt(t *testing.T) {
	out, err := colors.Marshal(Green{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, out)
	value, err := colors.Unmarshal(test.DecodeHexString("02"))
	require.NoError(t, err)
	assert.Equal(t, Blue{}, value)
	// Non-minimal widths still select the variant
	value, err = colors.Unmarshal(test.DecodeHexString("18 00"))
	require.NoError(t, err)
	assert.Equal(t, Red{}, value)
	_, err = colors.Unmarshal(test.DecodeHexString("05"))
	require.ErrorIs(t, err, repr.ErrUnknownVariant)
	_, err = colors.Unmarshal(test.DecodeHexString("20"))
	require.ErrorIs(t, err, cbor.ErrOutOfRange)
}

func TestEnumType(t *testing.T) {
	testDefs := []struct {
		cborHex string
		value   Ref
	}{
		{cborHex: "07", value: RefIndex{Index: 7}},
		{cborHex: "61 78", value: RefName("x")},
		{cborHex: "F6", value: RefNone{}},
	}
	for _, testDef := range testDefs {
		out, err := refs.Marshal(testDef.value)
		require.NoError(t, err)
		assert.Equal(t, test.DecodeHexString(testDef.cborHex), out, testDef.cborHex)
		value, err := refs.Unmarshal(out)
		require.NoError(t, err)
		assert.Equal(t, testDef.value, value)
	}
	_, err := refs.Unmarshal(test.DecodeHexString("41 00"))
	require.ErrorIs(t, err, repr.ErrUnknownVariant)
	assert.Contains(t, err.Error(), "no variant of type bytes")
	_, err = refs.Unmarshal(test.DecodeHexString("F5"))
	require.ErrorIs(t, err, cbor.ErrUnexpectedType)
}

func TestNilUnion(t *testing.T) {
	out, err := shapes.Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF6}, out)
	value, err := shapes.Unmarshal(out)
	require.NoError(t, err)
	assert.Nil(t, value)
}

type badEnum interface {
	isBadEnum()
}

type withFields struct {
	X uint64
}

func (withFields) isBadEnum() {}

type otherRef interface {
	isRef()
}

type payloadPair struct {
	A uint64
	B uint64
}

func (payloadPair) isRef() {}

var (
	badEnums  = repr.NewUnion[badEnum](repr.EnumInt)
	otherRefs = repr.NewUnion[otherRef](repr.EnumType)
)

func TestUnionRegistrationPanics(t *testing.T) {
	assert.Panics(t, func() { repr.NewUnion[Shape](repr.TagVariant) })
	assert.Panics(t, func() { repr.NewUnion[int](repr.TagVariant) })
	assert.Panics(t, func() { shapes.Add(Circle{}) })
	assert.Panics(t, func() { shapes.Add(nil) })
	assert.Panics(t, func() { shapes.AddType(cbor.TypeText, Triangle{}) })
	assert.Panics(t, func() { refs.Add(RefIndex{}) })
	assert.Panics(t, func() { refs.AddType(cbor.TypeText, RefName("y")) })
	assert.Panics(t, func() { badEnums.Add(withFields{}) })
	assert.Panics(t, func() { otherRefs.AddType(cbor.TypeText, RefNone{}) })
	assert.Panics(t, func() { otherRefs.AddType(cbor.TypeArray, payloadPair{}) })
}
