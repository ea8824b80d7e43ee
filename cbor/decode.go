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
	"errors"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

// Decode decodes a single item that must occupy all of data
func Decode(data []byte, opts ...ReaderOptionFunc) (Item, error) {
	r := NewReader(data, opts...)
	item, err := r.DecodeItem()
	if err != nil {
		return nil, err
	}
	if err := r.ExpectFinished(); err != nil {
		return nil, err
	}
	return item, nil
}

// DecodeItem decodes the item starting at offset. It returns the item and the
// number of bytes it occupies
func DecodeItem(data []byte, offset int, opts ...ReaderOptionFunc) (Item, int, error) {
	if offset < 0 || offset > len(data) {
		return nil, 0, newDecodeError(ErrorKindUnexpectedEOF, max(offset, 0), "offset outside input")
	}
	r := NewReader(data, opts...)
	r.pos = offset
	item, err := r.DecodeItem()
	if err != nil {
		return nil, 0, err
	}
	return item, r.pos - offset, nil
}

// DecodeSequence decodes consecutive top-level items until the input is
// exhausted
func DecodeSequence(data []byte, opts ...ReaderOptionFunc) ([]Item, error) {
	r := NewReader(data, opts...)
	var ret []Item
	for !r.Finished() {
		item, err := r.DecodeItem()
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

var (
	cachedDecMode     _cbor.DecMode
	cachedDecModeErr  error
	cachedDecModeOnce sync.Once
)

// getDecMode returns a cached DecMode, initializing it on first use.
// Returns the cached error if initialization failed.
func getDecMode() (_cbor.DecMode, error) {
	cachedDecModeOnce.Do(func() {
		decOptions := _cbor.DecOptions{
			ExtraReturnErrors: _cbor.ExtraDecErrorUnknownField,
			MaxNestedLevels:   DefaultMaxDepth,
		}
		cachedDecMode, cachedDecModeErr = decOptions.DecModeWithTags(customTagSet)
	})
	return cachedDecMode, cachedDecModeErr
}

// Unmarshal decodes CBOR into a native Go value, returning the number of
// bytes read. Encoding details such as widths are not retained
func Unmarshal(dataBytes []byte, dest any) (int, error) {
	data := bytes.NewReader(dataBytes)
	decMode, err := getDecMode()
	if err != nil {
		return 0, err
	}
	if decMode == nil {
		return 0, errors.New("CBOR decoder mode not initialized")
	}
	dec := decMode.NewDecoder(data)
	err = dec.Decode(dest)
	return dec.NumBytesRead(), err
}

// UnmarshalItem decodes an item into a native Go value
func UnmarshalItem(item Item, dest any) error {
	data, err := Encode(item)
	if err != nil {
		return err
	}
	_, err = Unmarshal(data, dest)
	return err
}
