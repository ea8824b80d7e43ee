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
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

// Encode returns the bytes of an item. Every encoding choice recorded in the
// item is reproduced
func Encode(item Item) ([]byte, error) {
	w := NewWriter()
	if err := w.WriteItem(item); err != nil {
		return nil, err
	}
	return w.Bytes()
}

var (
	cachedEncMode     _cbor.EncMode
	cachedEncModeErr  error
	cachedEncModeOnce sync.Once
)

func getEncMode() (_cbor.EncMode, error) {
	cachedEncModeOnce.Do(func() {
		opts := _cbor.EncOptions{
			// Make sure that maps have ordered keys
			Sort: _cbor.SortCoreDeterministic,
		}
		cachedEncMode, cachedEncModeErr = opts.EncModeWithTags(customTagSet)
	})
	return cachedEncMode, cachedEncModeErr
}

// Marshal encodes a native Go value using deterministic map key ordering
func Marshal(data any) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	em, err := getEncMode()
	if err != nil {
		return nil, err
	}
	enc := em.NewEncoder(buf)
	err = enc.Encode(data)
	return buf.Bytes(), err
}

// FromNative encodes a native Go value and decodes the result into an item
func FromNative(v any) (Item, error) {
	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return Decode(data, WithZeroCopy(true))
}

// IndefLengthList is a native list that encodes with indefinite framing
type IndefLengthList []any

func (i IndefLengthList) MarshalCBOR() ([]byte, error) {
	w := NewWriter()
	if err := w.BeginArray(IndefiniteLength()); err != nil {
		return nil, err
	}
	for _, item := range []any(i) {
		data, err := Marshal(&item)
		if err != nil {
			return nil, err
		}
		if err := w.WriteRaw(data); err != nil {
			return nil, err
		}
	}
	if err := w.End(); err != nil {
		return nil, err
	}
	return w.Bytes()
}

// IndefLengthByteString is a native byte string that encodes as an
// indefinite byte string with one piece per element
type IndefLengthByteString [][]byte

func (i IndefLengthByteString) MarshalCBOR() ([]byte, error) {
	w := NewWriter()
	cw, err := w.BeginBytes()
	if err != nil {
		return nil, err
	}
	for _, piece := range [][]byte(i) {
		if err := cw.WritePiece(piece); err != nil {
			return nil, err
		}
	}
	if err := cw.End(); err != nil {
		return nil, err
	}
	return w.Bytes()
}

func (i *IndefLengthByteString) UnmarshalCBOR(data []byte) error {
	r := NewReader(data)
	cr, err := r.ReadBytesChunks()
	if err != nil {
		return err
	}
	var pieces [][]byte
	for {
		chunk, ok, err := cr.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		pieces = append(pieces, chunk.Data)
	}
	*i = pieces
	return nil
}
