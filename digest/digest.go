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

// Package digest computes content addresses over the exact encoding of
// items. Because decoding and re-encoding is byte exact, the digest of a
// decoded item matches the digest of the bytes it was read from
package digest

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/blinklabs-io/cbored/repr"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

const (
	Blake2b256Size = 32
	Blake3Size     = 32
)

// Algorithm names a supported digest
type Algorithm string

const (
	AlgorithmBlake2b256 Algorithm = "blake2b-256"
	AlgorithmBlake3     Algorithm = "blake3"
)

// Algorithms lists the supported algorithm names
var Algorithms = []Algorithm{AlgorithmBlake2b256, AlgorithmBlake3}

// Hash is a 32 byte digest. It encodes as a definite byte string
type Hash [32]byte

func NewHash(data []byte) Hash {
	h := Hash{}
	copy(h[:], data)
	return h
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// MarshalCBORItem writes the full sized byte string, even for a zero hash
func (h Hash) MarshalCBORItem(w *cbor.Writer) error {
	return w.WriteBytes(h[:])
}

func (h *Hash) UnmarshalCBORItem(r *cbor.Reader) error {
	b, err := r.ReadBytes()
	if err != nil {
		return err
	}
	if len(b.Value()) != len(h) {
		return r.NewError(
			cbor.ErrorKindCountMismatch,
			fmt.Errorf("hash must be %d bytes, found %d", len(h), len(b.Value())),
		)
	}
	copy(h[:], b.Value())
	return nil
}

// Blake2b256Hash returns the Blake2b-256 digest of data
func Blake2b256Hash(data []byte) Hash {
	tmpHash, err := blake2b.New(Blake2b256Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(data)
	return NewHash(tmpHash.Sum(nil))
}

// Blake3Hash returns the 32 byte BLAKE3 digest of data
func Blake3Hash(data []byte) Hash {
	return Hash(blake3.Sum256(data))
}

// Sum returns the digest of data with the named algorithm
func Sum(algo Algorithm, data []byte) (Hash, error) {
	switch algo {
	case AlgorithmBlake2b256:
		return Blake2b256Hash(data), nil
	case AlgorithmBlake3:
		return Blake3Hash(data), nil
	}
	return Hash{}, fmt.Errorf("unknown hash algorithm: %s", algo)
}

// Item returns the digest of the encoding of item
func Item(algo Algorithm, item cbor.Item) (Hash, error) {
	data, err := cbor.Encode(item)
	if err != nil {
		return Hash{}, err
	}
	return Sum(algo, data)
}

// Value returns the digest of the encoding of v as produced by repr.Marshal.
// Types embedding cbor.DecodeStoreCbor are hashed over their original bytes
func Value(algo Algorithm, v any) (Hash, error) {
	if stored, ok := v.(cbor.DecodeStoreCborInterface); ok && stored.Cbor() != nil {
		return Sum(algo, stored.Cbor())
	}
	data, err := repr.Marshal(v)
	if err != nil {
		return Hash{}, err
	}
	return Sum(algo, data)
}
