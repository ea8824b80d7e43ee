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
	"math/big"
	"testing"
	"time"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/blinklabs-io/cbored/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochTag(t *testing.T) {
	ts := time.Unix(1363896240, 0).UTC()
	tag := cbor.NewEpochTag(ts)
	out, err := cbor.Encode(tag)
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString("C1 1A 51 4B 67 B0"), out)
	parsed, err := cbor.TagTime(tag)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))

	item, err := cbor.Decode(test.DecodeHexString("C1 FB 41 D4 52 D9 EC 20 00 00"))
	require.NoError(t, err)
	parsed, err = cbor.TagTime(item.(*cbor.Tag))
	require.NoError(t, err)
	assert.Equal(t, int64(1363896240), parsed.Unix())
	assert.Equal(t, 500000000, parsed.Nanosecond())
}

func TestDateTimeTag(t *testing.T) {
	ts := time.Date(2013, 3, 21, 20, 4, 0, 0, time.UTC)
	tag := cbor.NewDateTimeTag(ts)
	out, err := cbor.Encode(tag)
	require.NoError(t, err)
	assert.Equal(
		t,
		test.DecodeHexString(
			"C0 74 32 30 31 33 2D 30 33 2D 32 31 54 32 30 3A 30 34 3A 30 30 5A",
		),
		out,
	)
	parsed, err := cbor.TagTime(tag)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))
}

func TestTagTimeRejectsOtherTags(t *testing.T) {
	_, err := cbor.TagTime(cbor.NewTag(2, cbor.NewBytes([]byte{1})))
	require.ErrorIs(t, err, cbor.ErrUnexpectedType)
	_, err = cbor.TagTime(cbor.NewTag(0, cbor.NewUnsigned(1)))
	require.ErrorIs(t, err, cbor.ErrUnexpectedType)
}

func TestEncodedCborTag(t *testing.T) {
	inner := cbor.NewArray(cbor.NewUnsigned(1), cbor.NewText("a"))
	tag, err := cbor.NewEncodedCborTag(inner)
	require.NoError(t, err)
	out, err := cbor.Encode(tag)
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString("D8 18 44 82 01 61 61"), out)
	decoded, err := cbor.EncodedCborItem(tag)
	require.NoError(t, err)
	assert.True(t, cbor.Equal(inner, decoded))
}

func TestRationalTag(t *testing.T) {
	item, err := cbor.Decode(test.DecodeHexString("D8 1E 82 03 19 03 E8"))
	require.NoError(t, err)
	rat, err := cbor.TagRational(item.(*cbor.Tag))
	require.NoError(t, err)
	assert.Equal(t, big.NewRat(3, 1000), rat)

	tag := cbor.NewRationalTag(cbor.ScalarFromInt64(-1), cbor.NewUnsigned(0))
	_, err = cbor.TagRational(tag)
	require.ErrorIs(t, err, cbor.ErrOutOfRange)
}

func TestSetTag(t *testing.T) {
	tag := cbor.NewSetTag(cbor.NewUnsigned(1), cbor.NewUnsigned(2), cbor.NewUnsigned(3))
	out, err := cbor.Encode(tag)
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString("D9 01 02 83 01 02 03"), out)
	items, err := cbor.TagSetItems(tag)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestNativeTagTypes(t *testing.T) {
	var rat cbor.Rat
	_, err := cbor.Unmarshal(test.DecodeHexString("D8 1E 82 03 19 03 E8"), &rat)
	require.NoError(t, err)
	assert.Equal(t, big.NewRat(3, 1000), rat.ToBigRat())
	out, err := cbor.Marshal(&rat)
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString("D8 1E 82 03 19 03 E8"), out)

	var wrapped cbor.WrappedCbor
	_, err = cbor.Unmarshal(test.DecodeHexString("D8 18 43 AB CD EF"), &wrapped)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xab, 0xcd, 0xef}, wrapped.Bytes())

	var set cbor.Set
	_, err = cbor.Unmarshal(test.DecodeHexString("D9 01 02 83 01 02 03"), &set)
	require.NoError(t, err)
	assert.Equal(t, cbor.Set{uint64(1), uint64(2), uint64(3)}, set)
}
