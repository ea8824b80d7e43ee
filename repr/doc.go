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

// Package repr maps Go structs and interfaces onto CBOR items using the
// cbor package's Reader and Writer.
//
// # Structs
//
// The layout of a struct is chosen by embedding one marker type:
//
//	type Point struct {
//	    repr.StructAsArray
//	    X int64
//	    Y int64
//	}
//
//   - StructAsArray: a definite array with one item per field (the default)
//   - StructAsArrayLastOpt: as StructAsArray, but the last field is a nilable
//     type that is left out of the array when nil
//   - StructAsFlat: the fields written one after another with no container,
//     counting as that many items in an enclosing array
//   - StructAsIntMap: a map from unsigned keys to fields
//
// Options go in the marker's struct tag:
//
//	type Params struct {
//	    repr.StructAsIntMap `cbor:"start=1,skip=3,tag=259"`
//	    Fee     uint64
//	    Deposit *uint64 `cbor:"optional"`
//	}
//
// start sets the first map key, skip reserves a key (repeatable) and tag
// wraps the encoding in the given tag. A field tagged optional must be a
// pointer, slice, map or interface, and is omitted from the map when nil.
// Fields tagged "-" and unexported fields are ignored.
//
// # Unions
//
// An interface type becomes a union by registering its variants:
//
//	var shapes = repr.NewUnion[Shape](repr.TagVariant).Add(Circle{}, Square{})
//
// Struct fields of the interface type are then encoded as the registered
// variant. See UnionStrategy for the available encodings.
//
// # Hooks
//
// Types implementing Marshaler or Unmarshaler take over their own encoding.
// DecodeGeneric and EncodeGeneric apply the struct mapping while ignoring
// the hooks of the top level type, so a hook can wrap the default behavior:
//
//	func (b *Block) UnmarshalCBORItem(r *cbor.Reader) error {
//	    start := r.Position()
//	    if err := repr.DecodeGeneric(r, b); err != nil {
//	        return err
//	    }
//	    b.SetCbor(r.RawSince(start))
//	    return nil
//	}
//
// Types implementing the github.com/fxamacker/cbor/v2 Marshaler and
// Unmarshaler interfaces, such as cbor.Value and cbor.ByteString, are passed
// their exact item bytes.
package repr
