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
	_cbor "github.com/fxamacker/cbor/v2"
)

// Create an alias for RawMessage for convenience
type RawMessage = _cbor.RawMessage

// Alias for the native tag type, to avoid confusion with the Tag item
type NativeTag = _cbor.Tag

// Alias for the native raw tag type
type RawTag = _cbor.RawTag

type DecodeStoreCborInterface interface {
	Cbor() []byte
	SetCbor([]byte)
}

// DecodeStoreCbor keeps the exact bytes an object was decoded from, so they
// can be hashed or re-emitted without re-encoding
type DecodeStoreCbor struct {
	cborData []byte
}

// Cbor returns the original CBOR for the object. It is nil for objects that
// were not produced by decoding
func (d *DecodeStoreCbor) Cbor() []byte {
	return d.cborData
}

// SetCbor stores the original CBOR for the object
func (d *DecodeStoreCbor) SetCbor(cborData []byte) {
	if cborData == nil {
		d.cborData = nil
		return
	}
	d.cborData = make([]byte, len(cborData))
	copy(d.cborData, cborData)
}

func (d *DecodeStoreCbor) setCborNoCopy(cborData []byte) {
	d.cborData = cborData
}
