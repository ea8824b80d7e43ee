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
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

type contextFrame struct {
	label string
	// index is appended to the label when non-negative
	index int64
}

func (f contextFrame) String() string {
	if f.index < 0 {
		return f.label
	}
	return f.label + " " + strconv.FormatInt(f.index, 10)
}

// Reader decodes items from a byte buffer, one item per call. A Reader is not
// safe for concurrent use, and must not be used further after it returns an
// error
type Reader struct {
	data          []byte
	pos           int
	depth         int
	maxDepth      int
	zeroCopy      bool
	strictMapKeys bool
	logger        *slog.Logger
	context       []contextFrame
}

// NewReader returns a Reader over data. Unless WithZeroCopy(true) is given,
// the reader keeps a private copy of data so decoded items own their bytes
func NewReader(data []byte, opts ...ReaderOptionFunc) *Reader {
	r := &Reader{
		data:     data,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.zeroCopy {
		r.data = bytes.Clone(data)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// MaxDepth returns the nesting limit the reader was configured with
func (r *Reader) MaxDepth() int {
	return r.maxDepth
}

// Position returns the offset of the next unread byte
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Finished reports whether all input has been consumed
func (r *Reader) Finished() bool {
	return r.pos >= len(r.data)
}

// ExpectFinished returns an error if any input remains
func (r *Reader) ExpectFinished() error {
	if r.Finished() {
		return nil
	}
	return r.fail(
		ErrorKindTrailingData,
		r.pos,
		fmt.Sprintf("%d bytes remain", r.Remaining()),
	)
}

// PushContext adds a label to the context path reported by errors
func (r *Reader) PushContext(label string) {
	r.context = append(r.context, contextFrame{label: label, index: -1})
}

// PopContext removes the most recently pushed label
func (r *Reader) PopContext() {
	if len(r.context) > 0 {
		r.context = r.context[:len(r.context)-1]
	}
}

// WithContext runs fn with label pushed onto the context path
func (r *Reader) WithContext(label string, fn func() error) error {
	r.PushContext(label)
	err := fn()
	r.PopContext()
	return err
}

// NewError returns a decode error at the current position carrying the
// current context path
func (r *Reader) NewError(kind ErrorKind, cause error) error {
	err := newDecodeError(kind, r.pos, "")
	err.Err = cause
	return r.annotate(err)
}

func (r *Reader) fail(kind ErrorKind, offset int, detail string) error {
	return r.annotate(newDecodeError(kind, offset, detail))
}

// annotate attaches the context path, innermost first, to a decode error
// that has not been seen by the reader yet
func (r *Reader) annotate(err error) error {
	var decErr *DecodeError
	if !errors.As(err, &decErr) || decErr.annotated {
		return err
	}
	decErr.annotated = true
	for i := len(r.context) - 1; i >= 0; i-- {
		decErr.Context = append(decErr.Context, r.context[i].String())
	}
	r.logger.Debug(
		"CBOR decode failure",
		"kind",
		decErr.Kind.String(),
		"offset",
		decErr.Offset,
		"context",
		strings.Join(decErr.Context, " < "),
	)
	return decErr
}

func (r *Reader) span(start int) []byte {
	return r.data[start:r.pos:r.pos]
}

func (r *Reader) enter() error {
	if r.depth >= r.maxDepth {
		return r.fail(
			ErrorKindMaxDepthExceeded,
			r.pos,
			fmt.Sprintf("limit is %d", r.maxDepth),
		)
	}
	r.depth++
	return nil
}

func (r *Reader) leave() {
	r.depth--
}

func describeHeader(h Header) string {
	if h.IsIndefinite() {
		return "indefinite " + h.Type().String()
	}
	return h.Type().String()
}

func (r *Reader) peekHeader() (Header, int, error) {
	h, n, err := DecodeHeader(r.data, r.pos)
	if err != nil {
		return h, 0, r.annotate(err)
	}
	return h, n, nil
}

// PeekHeader returns the header of the next item without consuming it
func (r *Reader) PeekHeader() (Header, error) {
	h, _, err := r.peekHeader()
	return h, err
}

// PeekType returns the type of the next item without consuming it
func (r *Reader) PeekType() (Type, error) {
	h, _, err := r.peekHeader()
	if err != nil {
		return 0, err
	}
	return h.Type(), nil
}

func (r *Reader) expect(types ...Type) (Header, int, error) {
	h, n, err := r.peekHeader()
	if err != nil {
		return h, 0, err
	}
	t := h.Type()
	for _, want := range types {
		if t == want {
			return h, n, nil
		}
	}
	names := make([]string, 0, len(types))
	for _, want := range types {
		names = append(names, want.String())
	}
	return h, 0, r.fail(
		ErrorKindUnexpectedType,
		r.pos,
		fmt.Sprintf(
			"expected %s, found %s",
			strings.Join(names, " or "),
			describeHeader(h),
		),
	)
}

// DecodeItem decodes the next complete item, recursing into containers and
// tags
func (r *Reader) DecodeItem() (Item, error) {
	return r.decodeItem()
}

func (r *Reader) decodeItem() (Item, error) {
	h, n, err := r.peekHeader()
	if err != nil {
		return nil, err
	}
	switch h.Major {
	case MajorUnsigned, MajorNegative:
		r.pos += n
		return scalarFromHeader(h), nil
	case MajorBytes:
		c, err := r.readChunked(h)
		if err != nil {
			return nil, err
		}
		return &Bytes{c}, nil
	case MajorText:
		c, err := r.readChunked(h)
		if err != nil {
			return nil, err
		}
		return &Text{c}, nil
	case MajorArray:
		return r.readArray(h, n)
	case MajorMap:
		return r.readMap(h, n)
	case MajorTag:
		return r.readTag(h, n)
	}
	switch h.Type() {
	case TypeBreak:
		return nil, r.fail(ErrorKindUnexpectedBreak, r.pos, "")
	case TypeFloat:
		r.pos += n
		return Float{width: h.Width, bits: h.Value}, nil
	}
	r.pos += n
	return Simple{code: uint8(h.Value), width: h.Width}, nil
}

func (r *Reader) decodeChild(label string, index int64) (Item, error) {
	r.context = append(r.context, contextFrame{label: label, index: index})
	item, err := r.decodeItem()
	r.context = r.context[:len(r.context)-1]
	return item, err
}

func scalarFromHeader(h Header) Scalar {
	sign := Positive
	if h.Major == MajorNegative {
		sign = Negative
	}
	return Scalar{sign: sign, magnitude: h.Value, width: h.Width}
}

func (r *Reader) chunkReader(h Header) *ChunkReader {
	if h.IsIndefinite() {
		return newChunkReader(r.data, h.Major, r.pos+1, true)
	}
	return newChunkReader(r.data, h.Major, r.pos, false)
}

// skipChunks validates the string at the current position and returns an
// iterator over its pieces
func (r *Reader) skipChunks(h Header) (*ChunkReader, error) {
	cr := r.chunkReader(h)
	for {
		_, ok, err := cr.Next()
		if err != nil {
			return nil, r.annotate(err)
		}
		if !ok {
			break
		}
	}
	r.pos = cr.pos
	cr.Reset()
	return cr, nil
}

func (r *Reader) readChunked(h Header) (chunked, error) {
	start := r.pos
	cr := r.chunkReader(h)
	var chunks []Chunk
	for {
		chunk, ok, err := cr.Next()
		if err != nil {
			return chunked{}, r.annotate(err)
		}
		if !ok {
			break
		}
		chunks = append(chunks, chunk)
	}
	r.pos = cr.pos
	ret := chunked{chunks: chunks, indefinite: h.IsIndefinite()}
	ret.setCborNoCopy(r.span(start))
	return ret, nil
}

func (r *Reader) readArray(h Header, n int) (*Array, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.leave()
	start := r.pos
	r.pos += n
	arr := &Array{length: lengthFromHeader(h)}
	if h.IsIndefinite() {
		for i := int64(0); ; i++ {
			if r.atBreak() {
				r.pos++
				break
			}
			item, err := r.decodeChild("array element", i)
			if err != nil {
				return nil, err
			}
			arr.items = append(arr.items, item)
		}
	} else {
		// Every item takes at least one byte
		arr.items = make([]Item, 0, min(h.Value, uint64(r.Remaining())))
		for i := uint64(0); i < h.Value; i++ {
			item, err := r.decodeChild("array element", int64(i))
			if err != nil {
				return nil, err
			}
			arr.items = append(arr.items, item)
		}
	}
	arr.setCborNoCopy(r.span(start))
	return arr, nil
}

func (r *Reader) readMapEntry(m *Map, i int64) error {
	keyOffset := r.pos
	key, err := r.decodeChild("map key", i)
	if err != nil {
		return err
	}
	if r.strictMapKeys {
		for _, pair := range m.pairs {
			if EqualValue(pair.Key, key) {
				r.context = append(r.context, contextFrame{label: "map key", index: i})
				err := r.fail(ErrorKindDuplicateMapKey, keyOffset, "")
				r.context = r.context[:len(r.context)-1]
				return err
			}
		}
	}
	value, err := r.decodeChild("map value", i)
	if err != nil {
		return err
	}
	m.pairs = append(m.pairs, Pair{Key: key, Value: value})
	return nil
}

func (r *Reader) readMap(h Header, n int) (*Map, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.leave()
	start := r.pos
	r.pos += n
	m := &Map{length: lengthFromHeader(h)}
	if h.IsIndefinite() {
		for i := int64(0); ; i++ {
			if r.atBreak() {
				r.pos++
				break
			}
			if err := r.readMapEntry(m, i); err != nil {
				return nil, err
			}
		}
	} else {
		// Every pair takes at least two bytes
		m.pairs = make([]Pair, 0, min(h.Value, uint64(r.Remaining()/2)))
		for i := uint64(0); i < h.Value; i++ {
			if err := r.readMapEntry(m, int64(i)); err != nil {
				return nil, err
			}
		}
	}
	m.setCborNoCopy(r.span(start))
	return m, nil
}

func (r *Reader) readTag(h Header, n int) (*Tag, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.leave()
	start := r.pos
	r.pos += n
	if r.Finished() {
		return nil, r.fail(
			ErrorKindMissingTagBody,
			r.pos,
			"tag "+strconv.FormatUint(h.Value, 10),
		)
	}
	content, err := r.decodeChild(
		"tag "+strconv.FormatUint(h.Value, 10)+" content",
		-1,
	)
	if err != nil {
		return nil, err
	}
	tag := &Tag{
		number:  TagNumber{value: h.Value, width: h.Width},
		content: content,
	}
	tag.setCborNoCopy(r.span(start))
	return tag, nil
}

func (r *Reader) atBreak() bool {
	return r.pos < len(r.data) && r.data[r.pos] == CborBreak
}

// AtBreak reports whether the next byte is the break marker. It fails if the
// input is exhausted
func (r *Reader) AtBreak() (bool, error) {
	if r.Finished() {
		return false, r.fail(ErrorKindUnexpectedEOF, r.pos, "expected item or break")
	}
	return r.atBreak(), nil
}

// ReadBreak consumes the break marker
func (r *Reader) ReadBreak() error {
	if _, _, err := r.expect(TypeBreak); err != nil {
		return err
	}
	r.pos++
	return nil
}

// ReadUnsigned reads an unsigned integer
func (r *Reader) ReadUnsigned() (Scalar, error) {
	h, n, err := r.expect(TypeUnsigned)
	if err != nil {
		return Scalar{}, err
	}
	r.pos += n
	return scalarFromHeader(h), nil
}

// ReadNegative reads a negative integer
func (r *Reader) ReadNegative() (Scalar, error) {
	h, n, err := r.expect(TypeNegative)
	if err != nil {
		return Scalar{}, err
	}
	r.pos += n
	return scalarFromHeader(h), nil
}

// ReadScalar reads an unsigned or negative integer
func (r *Reader) ReadScalar() (Scalar, error) {
	h, n, err := r.expect(TypeUnsigned, TypeNegative)
	if err != nil {
		return Scalar{}, err
	}
	r.pos += n
	return scalarFromHeader(h), nil
}

// ReadUint64 reads an integer and converts it to uint64
func (r *Reader) ReadUint64() (uint64, error) {
	start := r.pos
	s, err := r.ReadScalar()
	if err != nil {
		return 0, err
	}
	v, err := s.Uint64()
	if err != nil {
		return 0, r.fail(ErrorKindOutOfRange, start, s.String()+" is not a uint64")
	}
	return v, nil
}

// ReadInt64 reads an integer and converts it to int64
func (r *Reader) ReadInt64() (int64, error) {
	start := r.pos
	s, err := r.ReadScalar()
	if err != nil {
		return 0, err
	}
	v, err := s.Int64()
	if err != nil {
		return 0, r.fail(ErrorKindOutOfRange, start, s.String()+" is not an int64")
	}
	return v, nil
}

// ReadBytes reads a byte string, definite or chunked
func (r *Reader) ReadBytes() (*Bytes, error) {
	h, _, err := r.expect(TypeBytes)
	if err != nil {
		return nil, err
	}
	c, err := r.readChunked(h)
	if err != nil {
		return nil, err
	}
	return &Bytes{c}, nil
}

// ReadText reads a text string, definite or chunked
func (r *Reader) ReadText() (*Text, error) {
	h, _, err := r.expect(TypeText)
	if err != nil {
		return nil, err
	}
	c, err := r.readChunked(h)
	if err != nil {
		return nil, err
	}
	return &Text{c}, nil
}

// ReadBytesChunks validates the next byte string and returns a lazy iterator
// over its pieces
func (r *Reader) ReadBytesChunks() (*ChunkReader, error) {
	h, _, err := r.expect(TypeBytes)
	if err != nil {
		return nil, err
	}
	return r.skipChunks(h)
}

// ReadTextChunks validates the next text string and returns a lazy iterator
// over its pieces
func (r *Reader) ReadTextChunks() (*ChunkReader, error) {
	h, _, err := r.expect(TypeText)
	if err != nil {
		return nil, err
	}
	return r.skipChunks(h)
}

// ReadArrayHeader reads only the header of an array. The caller reads the
// elements and, for indefinite framing, the break
func (r *Reader) ReadArrayHeader() (Length, error) {
	h, n, err := r.expect(TypeArray)
	if err != nil {
		return Length{}, err
	}
	r.pos += n
	return lengthFromHeader(h), nil
}

// ReadMapHeader reads only the header of a map. The count is in pairs
func (r *Reader) ReadMapHeader() (Length, error) {
	h, n, err := r.expect(TypeMap)
	if err != nil {
		return Length{}, err
	}
	r.pos += n
	return lengthFromHeader(h), nil
}

// ReadTagHeader reads only the tag number. The caller reads the content
func (r *Reader) ReadTagHeader() (TagNumber, error) {
	h, n, err := r.expect(TypeTag)
	if err != nil {
		return TagNumber{}, err
	}
	r.pos += n
	if r.Finished() {
		return TagNumber{}, r.fail(
			ErrorKindMissingTagBody,
			r.pos,
			"tag "+strconv.FormatUint(h.Value, 10),
		)
	}
	return TagNumber{value: h.Value, width: h.Width}, nil
}

// ReadArray reads a complete array
func (r *Reader) ReadArray() (*Array, error) {
	h, n, err := r.expect(TypeArray)
	if err != nil {
		return nil, err
	}
	return r.readArray(h, n)
}

// ReadMap reads a complete map
func (r *Reader) ReadMap() (*Map, error) {
	h, n, err := r.expect(TypeMap)
	if err != nil {
		return nil, err
	}
	return r.readMap(h, n)
}

// ReadTag reads a tag and its content
func (r *Reader) ReadTag() (*Tag, error) {
	h, n, err := r.expect(TypeTag)
	if err != nil {
		return nil, err
	}
	return r.readTag(h, n)
}

// ReadFloat reads a 16, 32 or 64 bit float
func (r *Reader) ReadFloat() (Float, error) {
	h, n, err := r.expect(TypeFloat)
	if err != nil {
		return Float{}, err
	}
	r.pos += n
	return Float{width: h.Width, bits: h.Value}, nil
}

// ReadSimple reads a simple value
func (r *Reader) ReadSimple() (Simple, error) {
	h, n, err := r.expect(TypeSimple)
	if err != nil {
		return Simple{}, err
	}
	r.pos += n
	return Simple{code: uint8(h.Value), width: h.Width}, nil
}

// ReadBool reads a false or true simple value
func (r *Reader) ReadBool() (bool, error) {
	h, n, err := r.expect(TypeSimple)
	if err != nil {
		return false, err
	}
	v, ok := Simple{code: uint8(h.Value), width: h.Width}.Bool()
	if !ok {
		return false, r.fail(
			ErrorKindUnexpectedType,
			r.pos,
			fmt.Sprintf("expected bool, found simple(%d)", h.Value),
		)
	}
	r.pos += n
	return v, nil
}

// ReadNull consumes a null simple value
func (r *Reader) ReadNull() error {
	h, n, err := r.expect(TypeSimple)
	if err != nil {
		return err
	}
	if uint8(h.Value) != SimpleNull {
		return r.fail(
			ErrorKindUnexpectedType,
			r.pos,
			fmt.Sprintf("expected null, found simple(%d)", h.Value),
		)
	}
	r.pos += n
	return nil
}

// AtNull reports whether the next item is null, without consuming it
func (r *Reader) AtNull() bool {
	h, _, err := DecodeHeader(r.data, r.pos)
	return err == nil && h.Type() == TypeSimple && uint8(h.Value) == SimpleNull
}

// ReadRaw validates the next item and returns its exact bytes
func (r *Reader) ReadRaw() ([]byte, error) {
	start := r.pos
	if _, err := r.decodeItem(); err != nil {
		return nil, err
	}
	return r.span(start), nil
}

// Skip validates and discards the next item
func (r *Reader) Skip() error {
	_, err := r.decodeItem()
	return err
}

// RawSince returns the bytes consumed since the given position
func (r *Reader) RawSince(start int) []byte {
	if start < 0 || start > r.pos {
		return nil
	}
	return r.span(start)
}
