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

package repr

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"
	"slices"

	"github.com/blinklabs-io/cbored/cbor"
	_cbor "github.com/fxamacker/cbor/v2"
)

var bigIntType = reflect.TypeFor[big.Int]()

type encoder struct {
	w     *cbor.Writer
	depth int
}

// implementer returns v, or its address, as a T
func implementer[T any](v reflect.Value) (T, bool) {
	if v.CanInterface() {
		if x, ok := v.Interface().(T); ok {
			return x, true
		}
	}
	if v.CanAddr() && v.Addr().CanInterface() {
		if x, ok := v.Addr().Interface().(T); ok {
			return x, true
		}
	}
	var zero T
	return zero, false
}

// addressable returns v, or an addressable copy of it, so that hooks with
// pointer receivers are found
func addressable(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.CanAddr() {
		return v
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Elem()
}

func (e *encoder) encodeValue(v reflect.Value) error {
	if !v.IsValid() {
		return e.w.WriteNull()
	}
	if e.depth >= cbor.DefaultMaxDepth {
		return fmt.Errorf("%w: %s", cbor.ErrMaxDepthExceeded, v.Type())
	}
	e.depth++
	defer func() { e.depth-- }()
	t := v.Type()
	switch t.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return e.w.WriteNull()
		}
		if u, ok := lookupUnion(t); ok {
			return u.encodeVariant(e, addressable(v.Elem()))
		}
		return e.encodeValue(addressable(v.Elem()))
	case reflect.Pointer:
		if v.IsNil() {
			return e.w.WriteNull()
		}
		return e.encodeValue(v.Elem())
	}
	if m, ok := implementer[Marshaler](v); ok {
		return m.MarshalCBORItem(e.w)
	}
	if item, ok := implementer[cbor.Item](v); ok {
		return e.w.WriteItem(item)
	}
	if m, ok := implementer[_cbor.Marshaler](v); ok {
		data, err := m.MarshalCBOR()
		if err != nil {
			return err
		}
		return e.w.WriteRaw(data)
	}
	if t == bigIntType {
		b := v.Interface().(big.Int)
		return e.encodeBigInt(&b)
	}
	switch t.Kind() {
	case reflect.Bool:
		return e.w.WriteBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.w.WriteInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.w.WriteUnsigned(v.Uint())
	case reflect.Float32:
		return e.w.WriteFloat(cbor.NewFloat32(float32(v.Float())))
	case reflect.Float64:
		return e.w.WriteFloat(cbor.NewFloat64(v.Float()))
	case reflect.String:
		return e.w.WriteText(v.String())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return e.w.WriteBytes(v.Bytes())
		}
		return e.encodeSequence(v)
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			data := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(data), v)
			return e.w.WriteBytes(data)
		}
		return e.encodeSequence(v)
	case reflect.Map:
		return e.encodeMap(v)
	case reflect.Struct:
		info, err := getStructInfo(t)
		if err != nil {
			return err
		}
		return e.encodeStruct(info, v)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func (e *encoder) encodeBigInt(b *big.Int) error {
	if b.Sign() >= 0 {
		if !b.IsUint64() {
			return fmt.Errorf("%w: %s does not fit an unsigned scalar", cbor.ErrOutOfRange, b)
		}
		return e.w.WriteUnsigned(b.Uint64())
	}
	// -1 - m == b, so m == -b - 1
	m := new(big.Int).Neg(b)
	m.Sub(m, big.NewInt(1))
	if !m.IsUint64() {
		return fmt.Errorf("%w: %s does not fit a negative scalar", cbor.ErrOutOfRange, b)
	}
	return e.w.WriteNegative(m.Uint64())
}

func (e *encoder) encodeSequence(v reflect.Value) error {
	return e.w.ArrayBuild(
		cbor.DefiniteLength(uint64(v.Len())),
		func(*cbor.Writer) error {
			for i := range v.Len() {
				if err := e.encodeValue(v.Index(i)); err != nil {
					return fmt.Errorf("index %d: %w", i, err)
				}
			}
			return nil
		},
	)
}

// encodeMap writes the pairs sorted by the bytes of their encoded keys, so
// the output does not depend on map iteration order
func (e *encoder) encodeMap(v reflect.Value) error {
	type entry struct {
		key   []byte
		value []byte
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := e.encodeDetached(iter.Key())
		if err != nil {
			return err
		}
		value, err := e.encodeDetached(addressable(iter.Value()))
		if err != nil {
			return err
		}
		entries = append(entries, entry{key: key, value: value})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return bytes.Compare(a.key, b.key)
	})
	return e.w.MapBuild(
		cbor.DefiniteLength(uint64(len(entries))),
		func(w *cbor.Writer) error {
			for _, ent := range entries {
				if err := w.WriteRaw(ent.key); err != nil {
					return err
				}
				if err := w.WriteRaw(ent.value); err != nil {
					return err
				}
			}
			return nil
		},
	)
}

func (e *encoder) encodeDetached(v reflect.Value) ([]byte, error) {
	sub := &encoder{w: cbor.NewWriter(), depth: e.depth}
	if err := sub.encodeValue(v); err != nil {
		return nil, err
	}
	return sub.w.Bytes()
}

func (e *encoder) encodeStruct(info *structInfo, v reflect.Value) error {
	if info.hasTag {
		return e.w.TagBuild(
			cbor.NewTagNumber(info.tag),
			func(*cbor.Writer) error {
				return e.encodeStructBody(info, v)
			},
		)
	}
	return e.encodeStructBody(info, v)
}

func (e *encoder) encodeStructBody(info *structInfo, v reflect.Value) error {
	switch info.strategy {
	case strategyFlat:
		return e.encodeFields(info, v, info.fields)
	case strategyIntMap:
		present := make([]fieldInfo, 0, len(info.fields))
		for _, f := range info.fields {
			if f.optional && isNil(v.Field(f.index)) {
				continue
			}
			present = append(present, f)
		}
		return e.w.MapBuild(
			cbor.DefiniteLength(uint64(len(present))),
			func(w *cbor.Writer) error {
				for _, f := range present {
					if err := w.WriteUnsigned(f.key); err != nil {
						return err
					}
					if err := e.encodeField(info, v, f); err != nil {
						return err
					}
				}
				return nil
			},
		)
	}
	fields := info.fields
	count := info.count
	if info.strategy == strategyArrayLastOpt {
		last := fields[len(fields)-1]
		if isNil(v.Field(last.index)) {
			fields = fields[:len(fields)-1]
			count -= last.count
		}
	}
	return e.w.ArrayBuild(
		cbor.DefiniteLength(uint64(count)),
		func(*cbor.Writer) error {
			return e.encodeFields(info, v, fields)
		},
	)
}

func (e *encoder) encodeFields(info *structInfo, v reflect.Value, fields []fieldInfo) error {
	for _, f := range fields {
		if err := e.encodeField(info, v, f); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeField(info *structInfo, v reflect.Value, f fieldInfo) error {
	if err := e.encodeValue(v.Field(f.index)); err != nil {
		return fmt.Errorf("%s: %w", info.label(f), err)
	}
	return nil
}
