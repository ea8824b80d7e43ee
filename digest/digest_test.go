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

package digest_test

import (
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/blinklabs-io/cbored/digest"
	"github.com/blinklabs-io/cbored/internal/test"
	"github.com/blinklabs-io/cbored/internal/testdata"
	"github.com/blinklabs-io/cbored/repr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyInputVectors(t *testing.T) {
	assert.Equal(
		t,
		"0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		digest.Blake2b256Hash(nil).String(),
	)
	assert.Equal(
		t,
		"af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		digest.Blake3Hash(nil).String(),
	)
}

func TestSum(t *testing.T) {
	for _, algo := range digest.Algorithms {
		h, err := digest.Sum(algo, []byte("cbored"))
		require.NoError(t, err)
		assert.NotEqual(t, digest.Hash{}, h)
	}
	_, err := digest.Sum("md5", nil)
	require.Error(t, err)
}

func TestItemDigestMatchesInputBytes(t *testing.T) {
	// Non-minimal widths and indefinite framing survive the round trip, so
	// the digest of the item is the digest of the input
	data := test.DecodeHexString("9F 19 00 01 5F 41 01 41 02 FF FA 3F C0 00 00 FF")
	item, err := cbor.Decode(data)
	require.NoError(t, err)
	for _, algo := range digest.Algorithms {
		fromItem, err := digest.Item(algo, item)
		require.NoError(t, err)
		fromBytes, err := digest.Sum(algo, data)
		require.NoError(t, err)
		assert.Equal(t, fromBytes, fromItem)
	}
}

type header struct {
	repr.StructAsArray
	cbor.DecodeStoreCbor
	Slot uint64
	Prev digest.Hash
}

func (h *header) UnmarshalCBORItem(r *cbor.Reader) error {
	start := r.Position()
	if err := repr.DecodeGeneric(r, h); err != nil {
		return err
	}
	h.SetCbor(r.RawSince(start))
	return nil
}

func TestValueUsesStoredBytes(t *testing.T) {
	prev := digest.Blake2b256Hash([]byte("prev"))
	fresh, err := repr.Marshal(header{Slot: 1, Prev: prev})
	require.NoError(t, err)
	require.Len(t, fresh, 1+1+2+32)

	// Same value with a two byte slot
	stored := append(test.DecodeHexString("82 19 00 01 58 20"), prev.Bytes()...)
	var h header
	require.NoError(t, repr.Unmarshal(stored, &h))
	assert.Equal(t, prev, h.Prev)

	got, err := digest.Value(digest.AlgorithmBlake2b256, &h)
	require.NoError(t, err)
	assert.Equal(t, digest.Blake2b256Hash(stored), got)
	got, err = digest.Value(digest.AlgorithmBlake2b256, &header{Slot: 1, Prev: prev})
	require.NoError(t, err)
	assert.Equal(t, digest.Blake2b256Hash(fresh), got)
}

func TestHashEncoding(t *testing.T) {
	out, err := repr.Marshal(digest.Hash{})
	require.NoError(t, err)
	require.Len(t, out, 2+32)
	assert.Equal(t, []byte{0x58, 0x20}, out[:2])

	var h digest.Hash
	err = repr.Unmarshal(test.DecodeHexString("43 01 02 03"), &h)
	require.ErrorIs(t, err, cbor.ErrCountMismatch)

	js, err := json.Marshal(digest.NewHash([]byte{0xab}))
	require.NoError(t, err)
	assert.Equal(t, `"ab00000000000000000000000000000000000000000000000000000000000000"`, string(js))
}

func TestByronBlockHeaderHash(t *testing.T) {
	r := cbor.NewReader(testdata.MustDecodeHex(testdata.ByronBlockHex))
	_, err := r.ReadArrayHeader()
	require.NoError(t, err)
	header, err := r.ReadRaw()
	require.NoError(t, err)
	// Main block headers are hashed as [1, header]
	w := cbor.NewWriter()
	err = w.ArrayBuild(cbor.DefiniteLength(2), func(w *cbor.Writer) error {
		if err := w.WriteUnsigned(1); err != nil {
			return err
		}
		return w.WriteRaw(header)
	})
	require.NoError(t, err)
	wrapped, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, testdata.ByronBlockHash, digest.Blake2b256Hash(wrapped).String())
}
