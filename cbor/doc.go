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

// Package cbor provides a byte-exact CBOR (RFC 8949) codec.
//
// Decoding an item and encoding it again reproduces the original bytes,
// including non-minimal integer widths, float widths, indefinite-length
// framing and the piece boundaries of chunked strings. This matters whenever
// the encoded bytes are signed, hashed or used as a content address.
//
// # Key Types
//
// Items:
//   - Scalar: unsigned and negative integers with their encoding width
//   - Bytes, Text: strings made of one piece (definite) or many (indefinite)
//   - Array, Map: containers with definite or indefinite Length
//   - Tag: a TagNumber applied to one content item
//   - Float, Simple: major type 7 values
//
// Engines:
//   - Reader: decodes one item per call with typed getters and a context
//     path for error reporting
//   - Writer: appends items, tracking open containers so a definite count
//     that does not match is reported as ErrCountMismatch
//   - ChunkReader, ChunkWriter: piecewise access to chunked strings
//
// # Errors
//
// Decode failures are *DecodeError values carrying a kind, the byte offset
// and the labels of the enclosing items, innermost first:
//
//	_, err := cbor.Decode(data)
//	if errors.Is(err, cbor.ErrUnexpectedEOF) {
//	    var decErr *cbor.DecodeError
//	    errors.As(err, &decErr)
//	    fmt.Println(decErr.Offset, decErr.Context)
//	}
//
// # Preserving Original Bytes
//
// Decoded strings, containers and tags embed DecodeStoreCbor, so Cbor()
// returns the exact span they were decoded from. Types in other packages can
// embed DecodeStoreCbor for the same purpose.
//
// # Native Values
//
// Marshal, Unmarshal, ToNative and FromNative bridge to plain Go values
// through github.com/fxamacker/cbor/v2. That path does not keep encoding
// details and is meant for convenience, not for round trips.
package cbor
