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
	"fmt"

	_cbor "github.com/fxamacker/cbor/v2"
)

// ToNative converts an item into plain Go values: uint64 or int64 for
// integers (*big.Int below math.MinInt64), ByteString for byte strings,
// string, []any, map[any]any, NativeTag, float64, bool and nil. Other simple
// values become fxamacker SimpleValue
func ToNative(item Item) (ret any, err error) {
	switch v := item.(type) {
	case Scalar:
		if v.sign == Positive {
			return v.magnitude, nil
		}
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		return v.BigInt(), nil
	case *Bytes:
		// Use our custom type which stores the bytestring in a way that allows it to be used as a map key
		return NewByteString(v.Value()), nil
	case *Text:
		return v.String(), nil
	case *Array:
		tmpList := make([]any, 0, len(v.items))
		for _, elem := range v.items {
			tmp, err := ToNative(elem)
			if err != nil {
				return nil, err
			}
			tmpList = append(tmpList, tmp)
		}
		return tmpList, nil
	case *Map:
		// There are certain types that cannot be used as map keys in Go but are valid in CBOR. Trying to
		// use one of those as a key will cause a panic. We setup this deferred function to recover from
		// a possible panic and return an error
		defer func() {
			if r := recover(); r != nil {
				ret = nil
				err = fmt.Errorf("decode failure, probably due to type unsupported by Go: %v", r)
			}
		}()
		tmpMap := make(map[any]any, len(v.pairs))
		for _, pair := range v.pairs {
			key, err := ToNative(pair.Key)
			if err != nil {
				return nil, err
			}
			val, err := ToNative(pair.Value)
			if err != nil {
				return nil, err
			}
			tmpMap[key] = val
		}
		return tmpMap, nil
	case *Tag:
		content, err := ToNative(v.content)
		if err != nil {
			return nil, err
		}
		return NativeTag{Number: v.number.value, Content: content}, nil
	case Float:
		return v.Float64(), nil
	case Simple:
		if b, ok := v.Bool(); ok {
			return b, nil
		}
		if v.IsNull() || v.IsUndefined() {
			return nil, nil
		}
		return _cbor.SimpleValue(v.code), nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported item type %T", item)
}

// Helpful wrapper for parsing arbitrary CBOR data which may contain types that
// cannot be easily represented in Go (such as maps with bytestring keys)
type Value struct {
	value any
	// We store this as a string so that the type is still hashable for use as map keys
	cborData string
}

func (v *Value) UnmarshalCBOR(data []byte) error {
	item, err := Decode(data)
	if err != nil {
		return err
	}
	tmpValue, err := ToNative(item)
	if err != nil {
		return err
	}
	v.value = tmpValue
	// Save the original CBOR
	v.cborData = string(data)
	return nil
}

// MarshalCBOR returns the original CBOR when available
func (v Value) MarshalCBOR() ([]byte, error) {
	if v.cborData != "" {
		return []byte(v.cborData), nil
	}
	return Marshal(v.value)
}

func (v Value) Value() any {
	return v.value
}

func (v Value) Cbor() []byte {
	return []byte(v.cborData)
}

// LazyValue stores CBOR and defers decoding until Decode is called
type LazyValue struct {
	value *Value
	data  []byte
}

func (l *LazyValue) UnmarshalCBOR(data []byte) error {
	l.data = make([]byte, len(data))
	copy(l.data, data)
	l.value = nil
	return nil
}

func (l *LazyValue) Decode() (*Value, error) {
	if l.value != nil {
		return l.value, nil
	}
	tmpValue := &Value{}
	if err := tmpValue.UnmarshalCBOR(l.data); err != nil {
		return nil, err
	}
	l.value = tmpValue
	return l.value, nil
}

func (l *LazyValue) Cbor() []byte {
	return l.data
}
