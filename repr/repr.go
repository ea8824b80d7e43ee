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

	"github.com/blinklabs-io/cbored/cbor"
)

var (
	ErrInvalidTarget   = errors.New("decode target must be a non-nil pointer")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrFieldCount      = errors.New("wrong number of fields")
	ErrUnknownField    = errors.New("unknown field key")
	ErrMissingField    = errors.New("missing mandatory field")
	ErrDuplicateField  = errors.New("duplicated field key")
	ErrUnknownVariant  = errors.New("unknown variant")
	ErrWrongTag        = errors.New("unexpected tag number")
	ErrInvalidLayout   = errors.New("invalid struct layout")
)

// Marshaler is implemented by types that write their own items
type Marshaler interface {
	MarshalCBORItem(*cbor.Writer) error
}

// Unmarshaler is implemented by types that read their own items. The
// implementation must consume exactly the items it is encoded as
type Unmarshaler interface {
	UnmarshalCBORItem(*cbor.Reader) error
}

// Marshal encodes v and returns the bytes
func Marshal(v any) ([]byte, error) {
	w := cbor.NewWriter()
	if err := Encode(w, v); err != nil {
		return nil, err
	}
	return w.Bytes()
}

// Unmarshal decodes data into the value pointed to by v. The data must hold
// exactly the encoding of v, with nothing after it
func Unmarshal(data []byte, v any, opts ...cbor.ReaderOptionFunc) error {
	r := cbor.NewReader(data, opts...)
	if err := Decode(r, v); err != nil {
		return err
	}
	return r.ExpectFinished()
}

// Encode writes v to w
func Encode(w *cbor.Writer, v any) error {
	e := &encoder{w: w}
	return e.encodeValue(addressable(reflect.ValueOf(v)))
}

// Decode reads from r into the value pointed to by v
func Decode(r *cbor.Reader, v any) error {
	rv, err := decodeTarget(v)
	if err != nil {
		return err
	}
	d := &decoder{r: r}
	return d.decodeValue(rv)
}

func decodeTarget(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, ErrInvalidTarget
	}
	return rv.Elem(), nil
}
