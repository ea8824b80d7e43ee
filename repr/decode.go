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
	"fmt"
	"reflect"
	"strconv"

	"github.com/blinklabs-io/cbored/cbor"
	_cbor "github.com/fxamacker/cbor/v2"
)

var (
	itemType   = reflect.TypeFor[cbor.Item]()
	scalarType = reflect.TypeFor[cbor.Scalar]()
	floatType  = reflect.TypeFor[cbor.Float]()
	simpleType = reflect.TypeFor[cbor.Simple]()
	bytesType  = reflect.TypeFor[cbor.Bytes]()
	textType   = reflect.TypeFor[cbor.Text]()
	arrayType  = reflect.TypeFor[cbor.Array]()
	mapType    = reflect.TypeFor[cbor.Map]()
	tagType    = reflect.TypeFor[cbor.Tag]()
)

type decoder struct {
	r     *cbor.Reader
	depth int
}

// decodeValue decodes the next item into v, which must be settable
func (d *decoder) decodeValue(v reflect.Value) error {
	if d.depth >= d.r.MaxDepth() {
		return d.r.NewError(
			cbor.ErrorKindMaxDepthExceeded,
			fmt.Errorf("decoding %s", v.Type()),
		)
	}
	d.depth++
	defer func() { d.depth-- }()
	t := v.Type()
	switch t.Kind() {
	case reflect.Interface:
		return d.decodeInterface(v)
	case reflect.Pointer:
		if d.r.AtNull() {
			if err := d.r.ReadNull(); err != nil {
				return err
			}
			v.SetZero()
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return d.decodeValue(v.Elem())
	}
	if u, ok := implementer[Unmarshaler](v); ok && v.CanAddr() {
		return u.UnmarshalCBORItem(d.r)
	}
	if handled, err := d.decodeItemType(v); handled {
		return err
	}
	if u, ok := implementer[_cbor.Unmarshaler](v); ok && v.CanAddr() {
		data, err := d.r.ReadRaw()
		if err != nil {
			return err
		}
		return u.UnmarshalCBOR(data)
	}
	if t == bigIntType {
		s, err := d.r.ReadScalar()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(s.BigInt()).Elem())
		return nil
	}
	switch t.Kind() {
	case reflect.Bool:
		b, err := d.r.ReadBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := d.r.ReadInt64()
		if err != nil {
			return err
		}
		if v.OverflowInt(i) {
			return d.r.NewError(
				cbor.ErrorKindOutOfRange,
				fmt.Errorf("%d does not fit %s", i, t),
			)
		}
		v.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := d.r.ReadUint64()
		if err != nil {
			return err
		}
		if v.OverflowUint(u) {
			return d.r.NewError(
				cbor.ErrorKindOutOfRange,
				fmt.Errorf("%d does not fit %s", u, t),
			)
		}
		v.SetUint(u)
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := d.r.ReadFloat()
		if err != nil {
			return err
		}
		v.SetFloat(f.Float64())
		return nil
	case reflect.String:
		text, err := d.r.ReadText()
		if err != nil {
			return err
		}
		v.SetString(text.String())
		return nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			b, err := d.r.ReadBytes()
			if err != nil {
				return err
			}
			v.SetBytes(append([]byte{}, b.Value()...))
			return nil
		}
		return d.decodeSlice(v)
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			b, err := d.r.ReadBytes()
			if err != nil {
				return err
			}
			if len(b.Value()) != v.Len() {
				return d.r.NewError(
					cbor.ErrorKindCountMismatch,
					fmt.Errorf("%d bytes do not fit %s", len(b.Value()), t),
				)
			}
			reflect.Copy(v, reflect.ValueOf(b.Value()))
			return nil
		}
		return d.decodeArray(v)
	case reflect.Map:
		return d.decodeMap(v)
	case reflect.Struct:
		info, err := getStructInfo(t)
		if err != nil {
			return err
		}
		return d.decodeStruct(info, v)
	}
	return d.r.NewError(
		cbor.ErrorKindUnexpectedType,
		fmt.Errorf("%w: %s", ErrUnsupportedType, t),
	)
}

func (d *decoder) decodeInterface(v reflect.Value) error {
	t := v.Type()
	if u, ok := lookupUnion(t); ok {
		return u.decodeVariant(d, v)
	}
	if t == itemType {
		item, err := d.r.DecodeItem()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(item))
		return nil
	}
	if t.NumMethod() > 0 {
		return d.r.NewError(
			cbor.ErrorKindUnexpectedType,
			fmt.Errorf("%w: %s has no registered union", ErrUnsupportedType, t),
		)
	}
	item, err := d.r.DecodeItem()
	if err != nil {
		return err
	}
	native, err := cbor.ToNative(item)
	if err != nil {
		return d.r.NewError(cbor.ErrorKindUnexpectedType, err)
	}
	if native == nil {
		v.SetZero()
		return nil
	}
	v.Set(reflect.ValueOf(native))
	return nil
}

// decodeItemType fills the item types of the cbor package. It reports false
// for any other type
func (d *decoder) decodeItemType(v reflect.Value) (bool, error) {
	var item any
	var err error
	switch v.Type() {
	case scalarType:
		item, err = d.r.ReadScalar()
	case floatType:
		item, err = d.r.ReadFloat()
	case simpleType:
		item, err = d.r.ReadSimple()
	case bytesType:
		item, err = d.r.ReadBytes()
	case textType:
		item, err = d.r.ReadText()
	case arrayType:
		item, err = d.r.ReadArray()
	case mapType:
		item, err = d.r.ReadMap()
	case tagType:
		item, err = d.r.ReadTag()
	default:
		return false, nil
	}
	if err != nil {
		return true, err
	}
	rv := reflect.ValueOf(item)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	v.Set(rv)
	return true, nil
}

// elements reads an array header and calls fn once per element, consuming
// the break of an indefinite array
func (d *decoder) elements(fn func(i int) error) error {
	length, err := d.r.ReadArrayHeader()
	if err != nil {
		return err
	}
	return d.each(length, fn)
}

func (d *decoder) each(length cbor.Length, fn func(i int) error) error {
	if length.IsIndefinite() {
		for i := 0; ; i++ {
			brk, err := d.r.AtBreak()
			if err != nil {
				return err
			}
			if brk {
				return d.r.ReadBreak()
			}
			if err := fn(i); err != nil {
				return err
			}
		}
	}
	for i := range length.Count() {
		if err := fn(int(i)); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) indexed(i int, fn func() error) error {
	return d.r.WithContext("index "+strconv.Itoa(i), fn)
}

func (d *decoder) decodeSlice(v reflect.Value) error {
	t := v.Type()
	out := reflect.MakeSlice(t, 0, 0)
	err := d.elements(func(i int) error {
		elem := reflect.New(t.Elem()).Elem()
		if err := d.indexed(i, func() error { return d.decodeValue(elem) }); err != nil {
			return err
		}
		out = reflect.Append(out, elem)
		return nil
	})
	if err != nil {
		return err
	}
	v.Set(out)
	return nil
}

func (d *decoder) decodeArray(v reflect.Value) error {
	start := d.r.Position()
	count := 0
	err := d.elements(func(i int) error {
		if i >= v.Len() {
			return d.r.NewError(
				cbor.ErrorKindCountMismatch,
				fmt.Errorf("more than %d elements for %s", v.Len(), v.Type()),
			)
		}
		count++
		return d.indexed(i, func() error { return d.decodeValue(v.Index(i)) })
	})
	if err != nil {
		return err
	}
	if count != v.Len() {
		return d.r.NewError(
			cbor.ErrorKindCountMismatch,
			fmt.Errorf("array at offset %d has %d elements, %s needs %d", start, count, v.Type(), v.Len()),
		)
	}
	return nil
}

func (d *decoder) decodeMap(v reflect.Value) error {
	t := v.Type()
	length, err := d.r.ReadMapHeader()
	if err != nil {
		return err
	}
	out := reflect.MakeMap(t)
	err = d.each(length, func(i int) error {
		key := reflect.New(t.Key()).Elem()
		err := d.r.WithContext("key "+strconv.Itoa(i), func() error {
			if err := d.decodeValue(key); err != nil {
				return err
			}
			if !key.Comparable() {
				return d.r.NewError(
					cbor.ErrorKindUnexpectedType,
					fmt.Errorf("%w: unhashable map key %s", ErrUnsupportedType, key.Type()),
				)
			}
			return nil
		})
		if err != nil {
			return err
		}
		value := reflect.New(t.Elem()).Elem()
		err = d.r.WithContext("value "+strconv.Itoa(i), func() error {
			return d.decodeValue(value)
		})
		if err != nil {
			return err
		}
		out.SetMapIndex(key, value)
		return nil
	})
	if err != nil {
		return err
	}
	v.Set(out)
	return nil
}

func (d *decoder) decodeStruct(info *structInfo, v reflect.Value) error {
	if info.hasTag {
		number, err := d.r.ReadTagHeader()
		if err != nil {
			return err
		}
		if number.Value() != info.tag {
			return d.r.NewError(
				cbor.ErrorKindUnexpectedType,
				fmt.Errorf("%w: %s expects tag %d, found %d", ErrWrongTag, info.name, info.tag, number.Value()),
			)
		}
	}
	switch info.strategy {
	case strategyFlat:
		return d.decodeFields(info, v, info.fields)
	case strategyIntMap:
		return d.decodeIntMap(info, v)
	}
	return d.decodeStructArray(info, v)
}

func (d *decoder) decodeStructArray(info *structInfo, v reflect.Value) error {
	length, err := d.r.ReadArrayHeader()
	if err != nil {
		return err
	}
	fields := info.fields
	lastOpt := info.strategy == strategyArrayLastOpt
	if length.IsIndefinite() {
		for i, f := range fields {
			if lastOpt && i == len(fields)-1 {
				brk, err := d.r.AtBreak()
				if err != nil {
					return err
				}
				if brk {
					v.Field(f.index).SetZero()
					break
				}
			}
			if err := d.decodeField(info, v, f); err != nil {
				return err
			}
		}
		brk, err := d.r.AtBreak()
		if err != nil {
			return err
		}
		if !brk {
			return d.r.NewError(
				cbor.ErrorKindCountMismatch,
				fmt.Errorf("%w: %s has more than %d items", ErrFieldCount, info.name, info.count),
			)
		}
		return d.r.ReadBreak()
	}
	count := length.Count()
	switch {
	case count == uint64(info.count):
	case lastOpt && count == uint64(info.count-fields[len(fields)-1].count):
		v.Field(fields[len(fields)-1].index).SetZero()
		fields = fields[:len(fields)-1]
	default:
		return d.r.NewError(
			cbor.ErrorKindCountMismatch,
			fmt.Errorf("%w: %s got %d items, expected %d", ErrFieldCount, info.name, count, info.count),
		)
	}
	return d.decodeFields(info, v, fields)
}

func (d *decoder) decodeFields(info *structInfo, v reflect.Value, fields []fieldInfo) error {
	for _, f := range fields {
		if err := d.decodeField(info, v, f); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) decodeField(info *structInfo, v reflect.Value, f fieldInfo) error {
	return d.r.WithContext(info.label(f), func() error {
		return d.decodeValue(v.Field(f.index))
	})
}

func (d *decoder) decodeIntMap(info *structInfo, v reflect.Value) error {
	length, err := d.r.ReadMapHeader()
	if err != nil {
		return err
	}
	found := make([]bool, len(info.fields))
	err = d.each(length, func(int) error {
		key, err := d.r.ReadUint64()
		if err != nil {
			return err
		}
		pos, ok := info.keys[key]
		if !ok {
			return d.r.NewError(
				cbor.ErrorKindUnexpectedType,
				fmt.Errorf("%w: %s has no key %d", ErrUnknownField, info.name, key),
			)
		}
		if found[pos] {
			return d.r.NewError(
				cbor.ErrorKindDuplicateMapKey,
				fmt.Errorf("%w: %s key %d", ErrDuplicateField, info.name, key),
			)
		}
		found[pos] = true
		return d.decodeField(info, v, info.fields[pos])
	})
	if err != nil {
		return err
	}
	for i, f := range info.fields {
		if found[i] {
			continue
		}
		if !f.optional {
			return d.r.NewError(
				cbor.ErrorKindCountMismatch,
				fmt.Errorf("%w: %s", ErrMissingField, info.label(f)),
			)
		}
		v.Field(f.index).SetZero()
	}
	return nil
}
