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
	"math"
)

type frameKind uint8

const (
	frameArray frameKind = iota
	frameMap
	frameTag
	frameBytes
	frameText
)

func (k frameKind) String() string {
	switch k {
	case frameArray:
		return "array"
	case frameMap:
		return "map"
	case frameTag:
		return "tag"
	case frameBytes:
		return "bytes"
	case frameText:
		return "text"
	}
	return "unknown"
}

type frame struct {
	kind       frameKind
	indefinite bool
	// expected and written count items, so a map pair counts twice
	expected uint64
	written  uint64
}

// Writer builds an encoding by appending items to a buffer. Open arrays and
// maps are tracked so that a definite count that does not match the items
// written is reported as an error. A Writer is not safe for concurrent use
type Writer struct {
	buf    []byte
	frames []frame
	items  uint64
}

func NewWriter() *Writer {
	return &Writer{}
}

// Len returns the number of bytes written so far
func (w *Writer) Len() int {
	return len(w.buf)
}

// Reset discards all output and open containers
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.frames = w.frames[:0]
	w.items = 0
}

// Bytes returns the encoding. It fails while any container is still open
func (w *Writer) Bytes() ([]byte, error) {
	if len(w.frames) > 0 {
		top := w.frames[len(w.frames)-1]
		return nil, newEncodeError(
			ErrorKindUnclosedFrame,
			"%d open, innermost is %s",
			len(w.frames),
			top.kind,
		)
	}
	return w.buf, nil
}

func (w *Writer) beforeItem() error {
	if len(w.frames) == 0 {
		return nil
	}
	top := &w.frames[len(w.frames)-1]
	switch top.kind {
	case frameBytes, frameText:
		return newEncodeError(
			ErrorKindChunkTypeMismatch,
			"item written inside chunked %s string",
			top.kind,
		)
	}
	if !top.indefinite && top.written >= top.expected {
		return newEncodeError(
			ErrorKindCountMismatch,
			"%s declares %d items",
			top.kind,
			top.expected,
		)
	}
	return nil
}

func (w *Writer) afterItem() {
	for len(w.frames) > 0 {
		top := &w.frames[len(w.frames)-1]
		top.written++
		if top.kind != frameTag {
			return
		}
		// A tag is complete once its content is written
		w.frames = w.frames[:len(w.frames)-1]
	}
	w.items++
}

// WriteItem appends a complete item
func (w *Writer) WriteItem(item Item) error {
	if item == nil {
		return newEncodeError(ErrorKindUnexpectedType, "nil item")
	}
	if err := w.beforeItem(); err != nil {
		return err
	}
	buf, err := item.appendItem(w.buf)
	if err != nil {
		return err
	}
	w.buf = buf
	w.afterItem()
	return nil
}

// WriteRaw appends the bytes of one pre-encoded item after validating them
func (w *Writer) WriteRaw(data []byte) error {
	n, err := validate(data, 0, DefaultMaxDepth)
	if err != nil {
		return fmt.Errorf("invalid raw item: %w", err)
	}
	if n != len(data) {
		return newEncodeError(
			ErrorKindTrailingData,
			"raw item is %d bytes followed by %d more",
			n,
			len(data)-n,
		)
	}
	if err := w.beforeItem(); err != nil {
		return err
	}
	w.buf = append(w.buf, data...)
	w.afterItem()
	return nil
}

func (w *Writer) WriteScalar(s Scalar) error {
	return w.WriteItem(s)
}

func (w *Writer) WriteUnsigned(v uint64) error {
	return w.WriteItem(NewUnsigned(v))
}

// WriteNegative writes the negative integer -(m+1)
func (w *Writer) WriteNegative(m uint64) error {
	return w.WriteItem(NewNegative(m))
}

func (w *Writer) WriteInt(i int64) error {
	return w.WriteItem(ScalarFromInt64(i))
}

// WriteBytes writes a definite byte string
func (w *Writer) WriteBytes(data []byte) error {
	return w.WriteItem(NewBytes(data))
}

// WriteText writes a definite text string
func (w *Writer) WriteText(s string) error {
	return w.WriteItem(NewText(s))
}

func (w *Writer) WriteFloat(f Float) error {
	return w.WriteItem(f)
}

func (w *Writer) WriteSimple(s Simple) error {
	return w.WriteItem(s)
}

func (w *Writer) WriteBool(b bool) error {
	return w.WriteItem(NewBool(b))
}

func (w *Writer) WriteNull() error {
	return w.WriteItem(Null)
}

func (w *Writer) WriteUndefined() error {
	return w.WriteItem(Undefined)
}

func (w *Writer) begin(major MajorType, kind frameKind, length Length) error {
	if err := w.beforeItem(); err != nil {
		return err
	}
	if !length.IsIndefinite() && !length.width.Fits(length.count) {
		return newEncodeError(
			ErrorKindInvalidWidth,
			"count %d does not fit width %s",
			length.count,
			length.width,
		)
	}
	expected := length.count
	if kind == frameMap {
		if expected > math.MaxUint64/2 {
			expected = math.MaxUint64
		} else {
			expected *= 2
		}
	}
	w.buf = AppendHeader(w.buf, length.header(major))
	w.frames = append(w.frames, frame{
		kind:       kind,
		indefinite: length.IsIndefinite(),
		expected:   expected,
	})
	return nil
}

// BeginArray opens an array. Items written afterwards belong to it until End
func (w *Writer) BeginArray(length Length) error {
	return w.begin(MajorArray, frameArray, length)
}

// BeginMap opens a map. Keys and values are written alternately until End
func (w *Writer) BeginMap(length Length) error {
	return w.begin(MajorMap, frameMap, length)
}

// BeginTag writes a tag number. The next item written is its content, after
// which the tag closes by itself
func (w *Writer) BeginTag(number TagNumber) error {
	if err := w.beforeItem(); err != nil {
		return err
	}
	if !number.width.Fits(number.value) {
		return newEncodeError(
			ErrorKindInvalidWidth,
			"tag %d does not fit width %s",
			number.value,
			number.width,
		)
	}
	w.buf = AppendHeader(w.buf, number.header())
	w.frames = append(w.frames, frame{kind: frameTag, expected: 1})
	return nil
}

// End closes the innermost array or map, writing the break for indefinite
// framing
func (w *Writer) End() error {
	if len(w.frames) == 0 {
		return newEncodeError(ErrorKindCountMismatch, "no open container")
	}
	top := w.frames[len(w.frames)-1]
	switch top.kind {
	case frameBytes, frameText:
		return newEncodeError(
			ErrorKindChunkTypeMismatch,
			"chunked %s string must be closed by its ChunkWriter",
			top.kind,
		)
	case frameTag:
		return newEncodeError(ErrorKindMissingTagBody, "tag has no content")
	}
	if top.indefinite {
		if top.kind == frameMap && top.written%2 != 0 {
			return newEncodeError(ErrorKindCountMismatch, "map key without value")
		}
		w.buf = append(w.buf, CborBreak)
	} else if top.written != top.expected {
		return newEncodeError(
			ErrorKindCountMismatch,
			"%s declares %d items but %d were written",
			top.kind,
			top.expected,
			top.written,
		)
	}
	w.frames = w.frames[:len(w.frames)-1]
	w.afterItem()
	return nil
}

func (w *Writer) beginChunks(major MajorType, kind frameKind) (*ChunkWriter, error) {
	if err := w.beforeItem(); err != nil {
		return nil, err
	}
	w.buf = append(w.buf, uint8(major)<<5|infoIndefinite)
	w.frames = append(w.frames, frame{kind: kind, indefinite: true})
	return &ChunkWriter{w: w, major: major, depth: len(w.frames)}, nil
}

// BeginBytes opens an indefinite byte string
func (w *Writer) BeginBytes() (*ChunkWriter, error) {
	return w.beginChunks(MajorBytes, frameBytes)
}

// BeginText opens an indefinite text string
func (w *Writer) BeginText() (*ChunkWriter, error) {
	return w.beginChunks(MajorText, frameText)
}

func (w *Writer) inChunks(c *ChunkWriter) bool {
	if len(w.frames) != c.depth {
		return false
	}
	top := w.frames[len(w.frames)-1]
	return top.kind == frameBytes || top.kind == frameText
}

func (w *Writer) endChunks() error {
	w.buf = append(w.buf, CborBreak)
	w.frames = w.frames[:len(w.frames)-1]
	w.afterItem()
	return nil
}

// ArrayBuild opens an array, calls fn to write its items and closes it
func (w *Writer) ArrayBuild(length Length, fn func(*Writer) error) error {
	if err := w.BeginArray(length); err != nil {
		return err
	}
	if err := fn(w); err != nil {
		return err
	}
	return w.End()
}

// MapBuild opens a map, calls fn to write its pairs and closes it
func (w *Writer) MapBuild(length Length, fn func(*Writer) error) error {
	if err := w.BeginMap(length); err != nil {
		return err
	}
	if err := fn(w); err != nil {
		return err
	}
	return w.End()
}

// TagBuild writes a tag number and calls fn, which must write exactly one
// content item
func (w *Writer) TagBuild(number TagNumber, fn func(*Writer) error) error {
	depth := len(w.frames)
	var before uint64
	if depth > 0 {
		before = w.frames[depth-1].written
	} else {
		before = w.items
	}
	if err := w.BeginTag(number); err != nil {
		return err
	}
	if err := fn(w); err != nil {
		return err
	}
	if len(w.frames) > depth {
		return newEncodeError(ErrorKindMissingTagBody, "tag %d has no content", number.value)
	}
	after := w.items
	if depth > 0 {
		after = w.frames[depth-1].written
	}
	if after != before+1 {
		return newEncodeError(
			ErrorKindCountMismatch,
			"tag %d content must be a single item",
			number.value,
		)
	}
	return nil
}
