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

package cbor_test

import (
	"testing"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/blinklabs-io/cbored/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roundTripTests = []struct {
	cborHex  string
	itemType cbor.Type
	diag     string
}{
	{cborHex: "00", itemType: cbor.TypeUnsigned, diag: "0"},
	{cborHex: "0A", itemType: cbor.TypeUnsigned, diag: "10"},
	{cborHex: "18 0A", itemType: cbor.TypeUnsigned, diag: "10_0"},
	{cborHex: "18 2A", itemType: cbor.TypeUnsigned, diag: "42"},
	{cborHex: "19 00 0A", itemType: cbor.TypeUnsigned, diag: "10_1"},
	{cborHex: "1B 00 00 00 00 00 00 00 01", itemType: cbor.TypeUnsigned, diag: "1_3"},
	{cborHex: "20", itemType: cbor.TypeNegative, diag: "-1"},
	{cborHex: "29", itemType: cbor.TypeNegative, diag: "-10"},
	{cborHex: "38 09", itemType: cbor.TypeNegative, diag: "-10_0"},
	{
		cborHex:  "3B FF FF FF FF FF FF FF FF",
		itemType: cbor.TypeNegative,
		diag:     "-18446744073709551616",
	},
	{cborHex: "40", itemType: cbor.TypeBytes, diag: "h''"},
	{cborHex: "58 02 01 02", itemType: cbor.TypeBytes, diag: "h'0102'_0"},
	{cborHex: "5F 42 61 62 41 63 FF", itemType: cbor.TypeBytes, diag: "(_ h'6162', h'63')"},
	{cborHex: "5F FF", itemType: cbor.TypeBytes, diag: "''_"},
	{cborHex: "60", itemType: cbor.TypeText, diag: `""`},
	{cborHex: "7F 62 61 62 61 63 FF", itemType: cbor.TypeText, diag: `(_ "ab", "c")`},
	{cborHex: "80", itemType: cbor.TypeArray, diag: "[]"},
	{cborHex: "83 01 02 03", itemType: cbor.TypeArray, diag: "[1, 2, 3]"},
	{cborHex: "98 02 01 02", itemType: cbor.TypeArray, diag: "[_0 1, 2]"},
	{cborHex: "9F 01 82 02 03 FF", itemType: cbor.TypeArray, diag: "[_ 1, [2, 3]]"},
	{cborHex: "A2 01 02 01 03", itemType: cbor.TypeMap, diag: "{1: 2, 1: 3}"},
	{cborHex: "BF 61 61 01 FF", itemType: cbor.TypeMap, diag: `{_ "a": 1}`},
	{cborHex: "C1 18 0A", itemType: cbor.TypeTag, diag: "1(10_0)"},
	{cborHex: "D8 18 42 01 02", itemType: cbor.TypeTag, diag: "24(h'0102')"},
	{cborHex: "D9 01 02 80", itemType: cbor.TypeTag, diag: "258([])"},
	{cborHex: "D8 01 00", itemType: cbor.TypeTag, diag: "1_0(0)"},
	{cborHex: "F9 3C 00", itemType: cbor.TypeFloat, diag: "1.0_1"},
	{cborHex: "FA 47 C3 50 00", itemType: cbor.TypeFloat, diag: "100000.0_2"},
	{cborHex: "FB 3F F1 99 99 99 99 99 9A", itemType: cbor.TypeFloat, diag: "1.1_3"},
	{cborHex: "F9 7C 00", itemType: cbor.TypeFloat, diag: "Infinity_1"},
	{cborHex: "F4", itemType: cbor.TypeSimple, diag: "false"},
	{cborHex: "F5", itemType: cbor.TypeSimple, diag: "true"},
	{cborHex: "F6", itemType: cbor.TypeSimple, diag: "null"},
	{cborHex: "F7", itemType: cbor.TypeSimple, diag: "undefined"},
	{cborHex: "F0", itemType: cbor.TypeSimple, diag: "simple(16)"},
	{cborHex: "F8 FF", itemType: cbor.TypeSimple, diag: "simple(255)"},
	{cborHex: "F8 14", itemType: cbor.TypeSimple, diag: "simple(20)_0"},
}

func TestRoundTrip(t *testing.T) {
	for _, testDef := range roundTripTests {
		t.Run(testDef.cborHex, func(t *testing.T) {
			data := test.DecodeHexString(testDef.cborHex)
			item, err := cbor.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, testDef.itemType, item.Type())
			assert.Equal(t, testDef.diag, cbor.Diagnose(item))
			encoded, err := cbor.Encode(item)
			require.NoError(t, err)
			assert.Equal(t, data, encoded)
		})
	}
}

func TestRoundTripAsArrayElements(t *testing.T) {
	// Every fixture also round trips when nested inside indefinite framing
	data := []byte{0x9f}
	for _, testDef := range roundTripTests {
		data = append(data, test.DecodeHexString(testDef.cborHex)...)
	}
	data = append(data, 0xff)
	item, err := cbor.Decode(data)
	require.NoError(t, err)
	arr, ok := item.(*cbor.Array)
	require.True(t, ok)
	assert.Equal(t, len(roundTripTests), arr.Len())
	encoded, err := cbor.Encode(item)
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
	assert.Equal(t, data, arr.Cbor())
}

func TestScenarioDirectZero(t *testing.T) {
	item, err := cbor.Decode(test.DecodeHexString("00"))
	require.NoError(t, err)
	s, ok := item.(cbor.Scalar)
	require.True(t, ok)
	assert.Equal(t, uint64(0), s.Magnitude())
	assert.Equal(t, cbor.WidthDirect, s.Width())
	assert.False(t, s.IsNegative())
}

func TestScenarioWidthSensitivity(t *testing.T) {
	wide, err := cbor.Decode(test.DecodeHexString("18 0A"))
	require.NoError(t, err)
	direct, err := cbor.Decode(test.DecodeHexString("0A"))
	require.NoError(t, err)
	assert.Equal(t, cbor.Width8, wide.(cbor.Scalar).Width())
	assert.Equal(t, cbor.WidthDirect, direct.(cbor.Scalar).Width())
	assert.False(t, cbor.Equal(wide, direct))
	assert.True(t, cbor.EqualValue(wide, direct))
	v, err := wide.(cbor.Scalar).Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)
	// 42 is beyond the direct range, so the one byte form is the minimal one
	minimal, err := cbor.Decode(test.DecodeHexString("18 2A"))
	require.NoError(t, err)
	assert.True(t, minimal.(cbor.Scalar).IsCanonical())
	assert.False(t, wide.(cbor.Scalar).IsCanonical())
}

func TestScenarioChunkedBytes(t *testing.T) {
	data := test.DecodeHexString("5F 42 6162 41 63 FF")
	item, err := cbor.Decode(data)
	require.NoError(t, err)
	b, ok := item.(*cbor.Bytes)
	require.True(t, ok)
	assert.True(t, b.IsIndefinite())
	require.Len(t, b.Chunks(), 2)
	assert.Equal(t, []byte("ab"), b.Chunks()[0].Data)
	assert.Equal(t, []byte("c"), b.Chunks()[1].Data)
	assert.Equal(t, []byte("abc"), b.Value())
	encoded, err := cbor.Encode(b)
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
	// The same logical value as one piece is a different item
	single := cbor.NewBytes([]byte("abc"))
	assert.False(t, cbor.Equal(b, single))
	assert.True(t, cbor.EqualValue(b, single))
}

func TestScenarioChunkedTextKeepsPieces(t *testing.T) {
	data := test.DecodeHexString("7F 61 61 61 62 61 63 FF")
	item, err := cbor.Decode(data)
	require.NoError(t, err)
	txt := item.(*cbor.Text)
	assert.Len(t, txt.Chunks(), 3)
	assert.Equal(t, "abc", txt.String())
	encoded, err := cbor.Encode(txt)
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
}

func TestScenarioTruncatedHeader(t *testing.T) {
	_, err := cbor.Decode(test.DecodeHexString("18"))
	require.ErrorIs(t, err, cbor.ErrUnexpectedEOF)
	var decErr *cbor.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, cbor.ErrorKindUnexpectedEOF, decErr.Kind)
	assert.Equal(t, 1, decErr.Offset)
}

func TestScenarioTaggedWideScalar(t *testing.T) {
	data := test.DecodeHexString("C1 18 0A")
	item, err := cbor.Decode(data)
	require.NoError(t, err)
	tag, ok := item.(*cbor.Tag)
	require.True(t, ok)
	assert.Equal(t, uint64(1), tag.Number())
	expected, err := cbor.NewUnsignedWidth(10, cbor.Width8)
	require.NoError(t, err)
	assert.True(t, cbor.Equal(expected, tag.Content()))
	assert.True(t, cbor.Equal(cbor.NewTag(1, expected), tag))
}

func TestScenarioNegative(t *testing.T) {
	for _, testDef := range []struct {
		cborHex   string
		value     int64
		magnitude uint64
		width     cbor.Width
	}{
		{cborHex: "20", value: -1, magnitude: 0, width: cbor.WidthDirect},
		{cborHex: "29", value: -10, magnitude: 9, width: cbor.WidthDirect},
		{cborHex: "38 09", value: -10, magnitude: 9, width: cbor.Width8},
		{cborHex: "39 01 F3", value: -500, magnitude: 499, width: cbor.Width16},
	} {
		data := test.DecodeHexString(testDef.cborHex)
		item, err := cbor.Decode(data)
		require.NoError(t, err)
		s := item.(cbor.Scalar)
		assert.True(t, s.IsNegative())
		assert.Equal(t, testDef.magnitude, s.Magnitude())
		assert.Equal(t, testDef.width, s.Width())
		v, err := s.Int64()
		require.NoError(t, err)
		assert.Equal(t, testDef.value, v)
		encoded, err := cbor.Encode(s)
		require.NoError(t, err)
		assert.Equal(t, data, encoded)
	}
}
