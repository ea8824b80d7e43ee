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
	"fmt"
	"unicode/utf8"
)

// Chunk is one piece of a byte or text string along with the width of its
// length header
type Chunk struct {
	Width Width
	Data  []byte
}

// NewChunk returns a chunk using the smallest length width
func NewChunk(data []byte) Chunk {
	return Chunk{Width: CanonicalWidth(uint64(len(data))), Data: data}
}

// NewTextChunk returns a text chunk using the smallest length width
func NewTextChunk(s string) Chunk {
	return NewChunk([]byte(s))
}

func (c Chunk) header(major MajorType) Header {
	return Header{Major: major, Width: c.Width, Value: uint64(len(c.Data))}
}

// chunked holds the pieces shared by byte and text strings
type chunked struct {
	DecodeStoreCbor
	chunks     []Chunk
	indefinite bool
}

// IsIndefinite reports whether the string uses indefinite framing
func (c *chunked) IsIndefinite() bool {
	return c.indefinite
}

// Chunks returns the pieces of the string. A definite string has one piece
func (c *chunked) Chunks() []Chunk {
	return c.chunks
}

// Len returns the total length of all pieces
func (c *chunked) Len() int {
	ret := 0
	for _, chunk := range c.chunks {
		ret += len(chunk.Data)
	}
	return ret
}

func (c *chunked) concat() []byte {
	if len(c.chunks) == 1 {
		return c.chunks[0].Data
	}
	ret := make([]byte, 0, c.Len())
	for _, chunk := range c.chunks {
		ret = append(ret, chunk.Data...)
	}
	return ret
}

func (c *chunked) header(major MajorType) Header {
	if c.indefinite {
		return Header{Major: major, Width: WidthIndefinite}
	}
	if len(c.chunks) == 0 {
		return Header{Major: major, Width: WidthDirect}
	}
	return c.chunks[0].header(major)
}

func (c *chunked) equal(o *chunked) bool {
	if c.indefinite != o.indefinite || len(c.chunks) != len(o.chunks) {
		return false
	}
	for i := range c.chunks {
		if c.chunks[i].Width != o.chunks[i].Width ||
			!bytes.Equal(c.chunks[i].Data, o.chunks[i].Data) {
			return false
		}
	}
	return true
}

func (c *chunked) appendChunks(dst []byte, major MajorType) ([]byte, error) {
	if !c.indefinite && len(c.chunks) != 1 {
		return dst, newEncodeError(
			ErrorKindCountMismatch,
			"definite %s string must have exactly one piece, found %d",
			major,
			len(c.chunks),
		)
	}
	if c.indefinite {
		dst = append(dst, uint8(major)<<5|infoIndefinite)
	}
	for i, chunk := range c.chunks {
		if !chunk.Width.Fits(uint64(len(chunk.Data))) {
			return dst, newEncodeError(
				ErrorKindInvalidWidth,
				"%s piece %d: length %d does not fit width %s",
				major,
				i,
				len(chunk.Data),
				chunk.Width,
			)
		}
		if major == MajorText && !utf8.Valid(chunk.Data) {
			return dst, newEncodeError(
				ErrorKindInvalidUTF8,
				"text piece %d",
				i,
			)
		}
		dst = AppendHeader(dst, chunk.header(major))
		dst = append(dst, chunk.Data...)
	}
	if c.indefinite {
		dst = append(dst, CborBreak)
	}
	return dst, nil
}

// Bytes is a byte string, either definite or a sequence of pieces
type Bytes struct {
	chunked
}

// NewBytes returns a definite byte string using the smallest length width
func NewBytes(data []byte) *Bytes {
	return &Bytes{chunked{chunks: []Chunk{NewChunk(data)}}}
}

// NewBytesWidth returns a definite byte string with an explicit length width
func NewBytesWidth(data []byte, width Width) (*Bytes, error) {
	if !width.Fits(uint64(len(data))) {
		return nil, newEncodeError(
			ErrorKindInvalidWidth,
			"length %d does not fit width %s",
			len(data),
			width,
		)
	}
	return &Bytes{chunked{chunks: []Chunk{{Width: width, Data: data}}}}, nil
}

// NewIndefiniteBytes returns an indefinite byte string made of the pieces
func NewIndefiniteBytes(chunks ...Chunk) *Bytes {
	return &Bytes{chunked{chunks: chunks, indefinite: true}}
}

func (b *Bytes) Type() Type {
	return TypeBytes
}

func (b *Bytes) Header() Header {
	return b.header(MajorBytes)
}

func (b *Bytes) appendItem(dst []byte) ([]byte, error) {
	return b.appendChunks(dst, MajorBytes)
}

// Value returns the concatenation of all pieces. For a definite string the
// returned slice is the piece itself
func (b *Bytes) Value() []byte {
	return b.concat()
}

// Text is a UTF-8 text string, either definite or a sequence of pieces. Each
// piece is valid UTF-8 on its own
type Text struct {
	chunked
}

// NewText returns a definite text string using the smallest length width
func NewText(s string) *Text {
	return &Text{chunked{chunks: []Chunk{NewTextChunk(s)}}}
}

// NewTextWidth returns a definite text string with an explicit length width
func NewTextWidth(s string, width Width) (*Text, error) {
	if !width.Fits(uint64(len(s))) {
		return nil, newEncodeError(
			ErrorKindInvalidWidth,
			"length %d does not fit width %s",
			len(s),
			width,
		)
	}
	return &Text{chunked{chunks: []Chunk{{Width: width, Data: []byte(s)}}}}, nil
}

// NewIndefiniteText returns an indefinite text string made of the pieces.
// Every piece must be valid UTF-8
func NewIndefiniteText(chunks ...Chunk) (*Text, error) {
	for i, chunk := range chunks {
		if !utf8.Valid(chunk.Data) {
			return nil, newEncodeError(ErrorKindInvalidUTF8, "text piece %d", i)
		}
	}
	return &Text{chunked{chunks: chunks, indefinite: true}}, nil
}

func (t *Text) Type() Type {
	return TypeText
}

func (t *Text) Header() Header {
	return t.header(MajorText)
}

func (t *Text) appendItem(dst []byte) ([]byte, error) {
	return t.appendChunks(dst, MajorText)
}

// String returns the concatenation of all pieces
func (t *Text) String() string {
	return string(t.concat())
}

// ChunkReader iterates over the pieces of a string in the input buffer
// without materializing them. It can be restarted with Reset
type ChunkReader struct {
	data       []byte
	major      MajorType
	start      int
	pos        int
	indefinite bool
	done       bool
	index      int
	err        error
}

func newChunkReader(data []byte, major MajorType, start int, indefinite bool) *ChunkReader {
	return &ChunkReader{
		data:       data,
		major:      major,
		start:      start,
		pos:        start,
		indefinite: indefinite,
	}
}

// Next returns the next piece. The boolean is false once the pieces are
// exhausted or an error occurred. Piece data aliases the input buffer
func (c *ChunkReader) Next() (Chunk, bool, error) {
	if c.done || c.err != nil {
		return Chunk{}, false, c.err
	}
	h, n, err := DecodeHeader(c.data, c.pos)
	if err != nil {
		c.err = err
		return Chunk{}, false, err
	}
	if c.indefinite && h.IsBreak() {
		c.pos += n
		c.done = true
		return Chunk{}, false, nil
	}
	if h.Major != c.major || h.Width == WidthIndefinite {
		c.err = newDecodeError(
			ErrorKindChunkTypeMismatch,
			c.pos,
			fmt.Sprintf("%s piece inside %s string", describeHeader(h), c.major),
		)
		return Chunk{}, false, c.err
	}
	payloadStart := c.pos + n
	if uint64(len(c.data)-payloadStart) < h.Value {
		c.err = newDecodeError(
			ErrorKindUnexpectedEOF,
			payloadStart,
			fmt.Sprintf("%s piece needs %d bytes", c.major, h.Value),
		)
		return Chunk{}, false, c.err
	}
	end := payloadStart + int(h.Value)
	chunk := Chunk{Width: h.Width, Data: c.data[payloadStart:end:end]}
	if c.major == MajorText && !utf8.Valid(chunk.Data) {
		c.err = newDecodeError(
			ErrorKindInvalidUTF8,
			payloadStart,
			fmt.Sprintf("text piece %d", c.index),
		)
		return Chunk{}, false, c.err
	}
	c.pos = end
	c.index++
	if !c.indefinite {
		c.done = true
	}
	return chunk, true, nil
}

// Reset rewinds the iterator to the first piece
func (c *ChunkReader) Reset() {
	c.pos = c.start
	c.done = false
	c.index = 0
	c.err = nil
}

// Err returns the error that stopped iteration, if any
func (c *ChunkReader) Err() error {
	return c.err
}

// Collect concatenates all remaining pieces
func (c *ChunkReader) Collect() ([]byte, error) {
	var ret []byte
	for {
		chunk, ok, err := c.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return ret, nil
		}
		ret = append(ret, chunk.Data...)
	}
}

// ChunkWriter emits the pieces of an indefinite string opened with
// Writer.BeginBytes or Writer.BeginText
type ChunkWriter struct {
	w      *Writer
	major  MajorType
	depth  int
	closed bool
}

func (c *ChunkWriter) check() error {
	if c.closed {
		return newEncodeError(ErrorKindChunkTypeMismatch, "chunked %s string already ended", c.major)
	}
	if !c.w.inChunks(c) {
		return newEncodeError(ErrorKindChunkTypeMismatch, "chunked %s string is not the innermost open item", c.major)
	}
	return nil
}

// WritePiece writes a piece using the smallest length width
func (c *ChunkWriter) WritePiece(data []byte) error {
	return c.WritePieceWidth(data, CanonicalWidth(uint64(len(data))))
}

// WritePieceWidth writes a piece with an explicit length width
func (c *ChunkWriter) WritePieceWidth(data []byte, width Width) error {
	if err := c.check(); err != nil {
		return err
	}
	if !width.Fits(uint64(len(data))) {
		return newEncodeError(
			ErrorKindInvalidWidth,
			"length %d does not fit width %s",
			len(data),
			width,
		)
	}
	if c.major == MajorText && !utf8.Valid(data) {
		return newEncodeError(ErrorKindInvalidUTF8, "text piece")
	}
	c.w.buf = AppendHeader(
		c.w.buf,
		Header{Major: c.major, Width: width, Value: uint64(len(data))},
	)
	c.w.buf = append(c.w.buf, data...)
	return nil
}

// End writes the break marker and closes the string
func (c *ChunkWriter) End() error {
	if err := c.check(); err != nil {
		return err
	}
	c.closed = true
	return c.w.endChunks()
}
