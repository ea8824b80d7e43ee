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
	"slices"
	"sync"

	"github.com/blinklabs-io/cbored/cbor"
)

// UnionStrategy selects how the variant of a union is identified
type UnionStrategy uint8

const (
	// TagVariant encodes a variant as an array holding the variant code
	// followed by the variant's fields
	TagVariant UnionStrategy = iota
	// EnumInt encodes a variant, which must have no fields, as its bare code
	EnumInt
	// EnumType identifies a variant by the type of the item it is encoded
	// as. Each variant holds at most one field, and a variant with none is
	// encoded as null
	EnumType
)

func (s UnionStrategy) String() string {
	switch s {
	case TagVariant:
		return "tag variant"
	case EnumInt:
		return "enum int"
	case EnumType:
		return "enum type"
	}
	return fmt.Sprintf("UnionStrategy(%d)", uint8(s))
}

type UnionOptionFunc func(*unionConfig)

type unionConfig struct {
	startsAt uint64
	skip     []uint64
}

// StartsAt specifies the code of the first variant. The default is 0
func StartsAt(code uint64) UnionOptionFunc {
	return func(c *unionConfig) {
		c.startsAt = code
	}
}

// SkipCodes specifies codes that are never assigned to a variant
func SkipCodes(codes ...uint64) UnionOptionFunc {
	return func(c *unionConfig) {
		c.skip = append(c.skip, codes...)
	}
}

type variant struct {
	name     string
	typ      reflect.Type
	code     uint64
	cborType cbor.Type
	// nil for variants that are not structs, which carry one payload item
	info *structInfo
}

// payloadCount is the number of items following the code of a TagVariant
func (v *variant) payloadCount() int {
	if v.info == nil {
		return 1
	}
	return v.info.count
}

type unionCodec interface {
	encodeVariant(e *encoder, v reflect.Value) error
	decodeVariant(d *decoder, v reflect.Value) error
}

var unions sync.Map

func lookupUnion(t reflect.Type) (unionCodec, bool) {
	u, ok := unions.Load(t)
	if !ok {
		return nil, false
	}
	return u.(unionCodec), true
}

// Union maps the interface type T onto a set of concrete variant types.
// Variants are registered at init time, and registration errors panic
type Union[T any] struct {
	name     string
	strategy UnionStrategy
	config   unionConfig
	next     uint64
	mu       sync.RWMutex
	byType   map[reflect.Type]*variant
	byCode   map[uint64]*variant
	byCbor   map[cbor.Type]*variant
}

// NewUnion registers a union for the interface type T. Fields of type T are
// encoded and decoded through it from then on
func NewUnion[T any](strategy UnionStrategy, opts ...UnionOptionFunc) *Union[T] {
	iface := reflect.TypeFor[T]()
	if iface.Kind() != reflect.Interface {
		panic(fmt.Sprintf("repr: union type %s is not an interface", iface))
	}
	u := &Union[T]{
		name:     iface.Name(),
		strategy: strategy,
		byType:   make(map[reflect.Type]*variant),
		byCode:   make(map[uint64]*variant),
		byCbor:   make(map[cbor.Type]*variant),
	}
	for _, opt := range opts {
		opt(&u.config)
	}
	u.next = u.config.startsAt
	if _, loaded := unions.LoadOrStore(iface, u); loaded {
		panic(fmt.Sprintf("repr: union for %s already registered", iface))
	}
	return u
}

func (u *Union[T]) newVariant(v T) *variant {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		panic(fmt.Sprintf("repr: nil variant for union %s", u.name))
	}
	typ := rv.Type()
	if _, ok := u.byType[typ]; ok {
		panic(fmt.Sprintf("repr: variant %s registered twice for union %s", typ, u.name))
	}
	vnt := &variant{name: typ.Name(), typ: typ}
	if vnt.name == "" && typ.Kind() == reflect.Pointer {
		vnt.name = typ.Elem().Name()
	}
	if typ.Kind() == reflect.Struct {
		info, err := getStructInfo(typ)
		if err != nil {
			panic(fmt.Sprintf("repr: variant %s of union %s: %s", typ, u.name, err))
		}
		vnt.info = info
	}
	return vnt
}

// Add registers variants in code order. It panics for EnumType unions,
// which use AddType
func (u *Union[T]) Add(variants ...T) *Union[T] {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.strategy == EnumType {
		panic(fmt.Sprintf("repr: union %s identifies variants by type, use AddType", u.name))
	}
	for _, v := range variants {
		vnt := u.newVariant(v)
		if u.strategy == EnumInt && (vnt.info == nil || len(vnt.info.fields) > 0) {
			panic(fmt.Sprintf("repr: variant %s of union %s must be a struct with no fields", vnt.typ, u.name))
		}
		for slices.Contains(u.config.skip, u.next) {
			u.next++
		}
		vnt.code = u.next
		u.next++
		u.byType[vnt.typ] = vnt
		u.byCode[vnt.code] = vnt
	}
	return u
}

// AddType registers a variant of an EnumType union, encoded as an item of
// type typ. A struct variant with no fields must use cbor.TypeSimple and is
// encoded as null
func (u *Union[T]) AddType(typ cbor.Type, v T) *Union[T] {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.strategy != EnumType {
		panic(fmt.Sprintf("repr: union %s identifies variants by code, use Add", u.name))
	}
	if _, ok := u.byCbor[typ]; ok {
		panic(fmt.Sprintf("repr: union %s already has a variant of type %s", u.name, typ))
	}
	vnt := u.newVariant(v)
	if vnt.info != nil {
		switch len(vnt.info.fields) {
		case 0:
			if typ != cbor.TypeSimple {
				panic(fmt.Sprintf("repr: variant %s of union %s has no field and must be null", vnt.typ, u.name))
			}
		case 1:
		default:
			panic(fmt.Sprintf("repr: variant %s of union %s has more than one field", vnt.typ, u.name))
		}
	}
	vnt.cborType = typ
	u.byType[vnt.typ] = vnt
	u.byCbor[typ] = vnt
	return u
}

// Code returns the code assigned to the variant type of v
func (u *Union[T]) Code(v T) (uint64, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	vnt, ok := u.byType[reflect.TypeOf(v)]
	if !ok {
		return 0, false
	}
	return vnt.code, true
}

// Marshal encodes v as a variant of the union
func (u *Union[T]) Marshal(v T) ([]byte, error) {
	w := cbor.NewWriter()
	if err := u.Encode(w, v); err != nil {
		return nil, err
	}
	return w.Bytes()
}

// Unmarshal decodes a variant of the union from data, which must hold
// nothing else
func (u *Union[T]) Unmarshal(data []byte, opts ...cbor.ReaderOptionFunc) (T, error) {
	r := cbor.NewReader(data, opts...)
	v, err := u.Decode(r)
	if err != nil {
		return v, err
	}
	return v, r.ExpectFinished()
}

// Encode writes v to w as a variant of the union
func (u *Union[T]) Encode(w *cbor.Writer, v T) error {
	rv := reflect.ValueOf(&v).Elem()
	if rv.IsNil() {
		return w.WriteNull()
	}
	e := &encoder{w: w}
	return u.encodeVariant(e, addressable(rv.Elem()))
}

// Decode reads a variant of the union from r
func (u *Union[T]) Decode(r *cbor.Reader) (T, error) {
	var out T
	d := &decoder{r: r}
	err := u.decodeVariant(d, reflect.ValueOf(&out).Elem())
	return out, err
}

func (u *Union[T]) label(vnt *variant) string {
	return u.name + "." + vnt.name
}

func (u *Union[T]) encodeVariant(e *encoder, v reflect.Value) error {
	u.mu.RLock()
	vnt, ok := u.byType[v.Type()]
	u.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s is not a variant of %s", ErrUnknownVariant, v.Type(), u.name)
	}
	var err error
	switch u.strategy {
	case EnumInt:
		err = e.w.WriteUnsigned(vnt.code)
	case EnumType:
		switch {
		case vnt.info == nil:
			err = e.encodeValue(v)
		case len(vnt.info.fields) == 0:
			err = e.w.WriteNull()
		default:
			err = e.encodeFields(vnt.info, v, vnt.info.fields)
		}
	default:
		err = e.w.ArrayBuild(
			cbor.DefiniteLength(uint64(1+vnt.payloadCount())),
			func(w *cbor.Writer) error {
				if err := w.WriteUnsigned(vnt.code); err != nil {
					return err
				}
				if vnt.info == nil {
					return e.encodeValue(v)
				}
				return e.encodeFields(vnt.info, v, vnt.info.fields)
			},
		)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", u.label(vnt), err)
	}
	return nil
}

func (u *Union[T]) decodeVariant(d *decoder, v reflect.Value) error {
	u.mu.RLock()
	_, nullVariant := u.byCbor[cbor.TypeSimple]
	u.mu.RUnlock()
	if d.r.AtNull() && !nullVariant {
		if err := d.r.ReadNull(); err != nil {
			return err
		}
		v.SetZero()
		return nil
	}
	if u.strategy == TagVariant {
		return u.decodeTagVariant(d, v)
	}
	var vnt *variant
	if u.strategy == EnumInt {
		code, err := d.r.ReadUint64()
		if err != nil {
			return err
		}
		if vnt = u.variantByCode(code); vnt == nil {
			return d.r.NewError(
				cbor.ErrorKindUnexpectedType,
				fmt.Errorf("%w: %s variant number %d is not known", ErrUnknownVariant, u.name, code),
			)
		}
		v.Set(reflect.New(vnt.typ).Elem())
		return nil
	}
	typ, err := d.r.PeekType()
	if err != nil {
		return err
	}
	u.mu.RLock()
	vnt = u.byCbor[typ]
	u.mu.RUnlock()
	if vnt == nil {
		return d.r.NewError(
			cbor.ErrorKindUnexpectedType,
			fmt.Errorf("%w: %s has no variant of type %s", ErrUnknownVariant, u.name, typ),
		)
	}
	value := reflect.New(vnt.typ).Elem()
	err = d.r.WithContext(u.label(vnt), func() error {
		switch {
		case vnt.info == nil:
			return d.decodeValue(value)
		case len(vnt.info.fields) == 0:
			return d.r.ReadNull()
		}
		return d.decodeFields(vnt.info, value, vnt.info.fields)
	})
	if err != nil {
		return err
	}
	v.Set(value)
	return nil
}

func (u *Union[T]) variantByCode(code uint64) *variant {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.byCode[code]
}

func (u *Union[T]) decodeTagVariant(d *decoder, v reflect.Value) error {
	length, err := d.r.ReadArrayHeader()
	if err != nil {
		return err
	}
	if !length.IsIndefinite() && length.Count() == 0 {
		return d.r.NewError(
			cbor.ErrorKindCountMismatch,
			fmt.Errorf("%w: expecting at least 1 item in variant encoding of %s", ErrFieldCount, u.name),
		)
	}
	code, err := d.r.ReadUint64()
	if err != nil {
		return err
	}
	vnt := u.variantByCode(code)
	if vnt == nil {
		return d.r.NewError(
			cbor.ErrorKindUnexpectedType,
			fmt.Errorf("%w: %s variant number %d is not known", ErrUnknownVariant, u.name, code),
		)
	}
	want := 1 + vnt.payloadCount()
	if !length.IsIndefinite() && length.Count() != uint64(want) {
		return d.r.NewError(
			cbor.ErrorKindCountMismatch,
			fmt.Errorf("%w: %s got %d items, expected %d", ErrFieldCount, u.label(vnt), length.Count(), want),
		)
	}
	value := reflect.New(vnt.typ).Elem()
	err = d.r.WithContext(u.label(vnt), func() error {
		if vnt.info == nil {
			return d.decodeValue(value)
		}
		return d.decodeFields(vnt.info, value, vnt.info.fields)
	})
	if err != nil {
		return err
	}
	if length.IsIndefinite() {
		brk, err := d.r.AtBreak()
		if err != nil {
			return err
		}
		if !brk {
			return d.r.NewError(
				cbor.ErrorKindCountMismatch,
				fmt.Errorf("%w: %s has more than %d items", ErrFieldCount, u.label(vnt), want),
			)
		}
		if err := d.r.ReadBreak(); err != nil {
			return err
		}
	}
	v.Set(value)
	return nil
}
