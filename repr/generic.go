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
	"errors"
	"reflect"
	"sync"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/jinzhu/copier"
)

var (
	genericTypeCache      = map[reflect.Type]reflect.Type{}
	genericTypeCacheMutex sync.RWMutex
)

// genericType returns a struct type with the same mapped fields as t but
// none of its methods
func genericType(t reflect.Type) reflect.Type {
	genericTypeCacheMutex.RLock()
	tmpType, ok := genericTypeCache[t]
	genericTypeCacheMutex.RUnlock()
	if ok {
		return tmpType
	}
	fields := []reflect.StructField{}
	for i := range t.NumField() {
		tmpField := t.Field(i)
		if !tmpField.IsExported() || tmpField.Type == decodeStoreCborType {
			continue
		}
		// Embedding would carry over promoted methods
		tmpField.Anonymous = false
		fields = append(fields, tmpField)
	}
	tmpType = reflect.StructOf(fields)
	// Labels use the name of the original type
	structInfoCache.Store(tmpType, buildStructInfo(tmpType, t.Name()))
	genericTypeCacheMutex.Lock()
	genericTypeCache[t] = tmpType
	genericTypeCacheMutex.Unlock()
	return tmpType
}

func genericTarget(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() ||
		rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, errors.New("destination must be a pointer to a struct")
	}
	return rv, nil
}

// DecodeGeneric decodes the next item from r into dest without using the
// destination object's UnmarshalCBORItem() function
func DecodeGeneric(r *cbor.Reader, dest any) error {
	valueDest, err := genericTarget(dest)
	if err != nil {
		return err
	}
	tmpDest := reflect.New(genericType(valueDest.Elem().Type()))
	d := &decoder{r: r}
	if err := d.decodeValue(tmpDest.Elem()); err != nil {
		return err
	}
	// Copy values from temporary object into destination object
	return copier.Copy(dest, tmpDest.Interface())
}

// UnmarshalGeneric decodes data into dest without using the destination
// object's UnmarshalCBORItem() function
func UnmarshalGeneric(data []byte, dest any, opts ...cbor.ReaderOptionFunc) error {
	r := cbor.NewReader(data, opts...)
	if err := DecodeGeneric(r, dest); err != nil {
		return err
	}
	return r.ExpectFinished()
}

// EncodeGeneric writes src to w without using the source object's
// MarshalCBORItem() function
func EncodeGeneric(w *cbor.Writer, src any) error {
	valueSrc, err := genericTarget(src)
	if err != nil {
		return err
	}
	tmpSrc := reflect.New(genericType(valueSrc.Elem().Type()))
	if err := copier.Copy(tmpSrc.Interface(), src); err != nil {
		return err
	}
	e := &encoder{w: w}
	return e.encodeValue(tmpSrc.Elem())
}

// MarshalGeneric encodes src without using the source object's
// MarshalCBORItem() function
func MarshalGeneric(src any) ([]byte, error) {
	w := cbor.NewWriter()
	if err := EncodeGeneric(w, src); err != nil {
		return nil, err
	}
	return w.Bytes()
}
