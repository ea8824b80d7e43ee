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
	"unicode/utf8"
)

type validFrame struct {
	kind       frameKind
	indefinite bool
	// remaining counts items left in a definite frame, two per map pair
	remaining uint64
	// count tracks items seen in an indefinite frame
	count uint64
}

// Valid checks that data holds exactly one well-formed item without
// building it
func Valid(data []byte) error {
	n, err := validate(data, 0, DefaultMaxDepth)
	if err != nil {
		return err
	}
	if n != len(data) {
		return newDecodeError(
			ErrorKindTrailingData,
			n,
			fmt.Sprintf("%d bytes remain", len(data)-n),
		)
	}
	return nil
}

// ValidSequence checks that data holds zero or more consecutive well-formed
// items, returning how many it found
func ValidSequence(data []byte) (int, error) {
	count := 0
	for pos := 0; pos < len(data); count++ {
		n, err := validate(data, pos, DefaultMaxDepth)
		if err != nil {
			return count, err
		}
		pos += n
	}
	return count, nil
}

func validPayload(data []byte, pos int, n int, h Header) (int, error) {
	start := pos + n
	if uint64(len(data)-start) < h.Value {
		return 0, newDecodeError(
			ErrorKindUnexpectedEOF,
			start,
			fmt.Sprintf("%s needs %d bytes", h.Major, h.Value),
		)
	}
	end := start + int(h.Value)
	if h.Major == MajorText && !utf8.Valid(data[start:end]) {
		return 0, newDecodeError(ErrorKindInvalidUTF8, start, "")
	}
	return end, nil
}

// completeItem records a finished item in the enclosing frames, closing any
// definite frames that become full. It reports whether the outermost item is
// complete
func completeItem(stack *[]validFrame) bool {
	for len(*stack) > 0 {
		top := &(*stack)[len(*stack)-1]
		if top.indefinite {
			top.count++
			return false
		}
		top.remaining--
		if top.remaining > 0 {
			return false
		}
		*stack = (*stack)[:len(*stack)-1]
	}
	return true
}

// validate walks one item starting at offset with an explicit stack instead
// of recursion, returning its length
func validate(data []byte, offset int, maxDepth int) (int, error) {
	pos := offset
	stack := make([]validFrame, 0, 8)
	for {
		h, n, err := DecodeHeader(data, pos)
		if err != nil {
			return 0, err
		}
		if len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.kind == frameBytes || top.kind == frameText {
				if h.IsBreak() {
					pos += n
					stack = stack[:len(stack)-1]
					if completeItem(&stack) {
						return pos - offset, nil
					}
					continue
				}
				major := MajorBytes
				if top.kind == frameText {
					major = MajorText
				}
				if h.Major != major || h.Width == WidthIndefinite {
					return 0, newDecodeError(
						ErrorKindChunkTypeMismatch,
						pos,
						fmt.Sprintf("%s piece inside %s string", describeHeader(h), major),
					)
				}
				if pos, err = validPayload(data, pos, n, h); err != nil {
					return 0, err
				}
				continue
			}
			if h.IsBreak() {
				if !top.indefinite || (top.kind == frameMap && top.count%2 != 0) {
					return 0, newDecodeError(ErrorKindUnexpectedBreak, pos, "")
				}
				pos += n
				stack = stack[:len(stack)-1]
				if completeItem(&stack) {
					return pos - offset, nil
				}
				continue
			}
		} else if h.IsBreak() {
			return 0, newDecodeError(ErrorKindUnexpectedBreak, pos, "")
		}
		switch h.Major {
		case MajorBytes, MajorText:
			if h.IsIndefinite() {
				kind := frameBytes
				if h.Major == MajorText {
					kind = frameText
				}
				stack = append(stack, validFrame{kind: kind, indefinite: true})
				pos += n
				continue
			}
			if pos, err = validPayload(data, pos, n, h); err != nil {
				return 0, err
			}
		case MajorArray, MajorMap, MajorTag:
			if len(stack) >= maxDepth {
				return 0, newDecodeError(
					ErrorKindMaxDepthExceeded,
					pos,
					fmt.Sprintf("limit is %d", maxDepth),
				)
			}
			pos += n
			frm := validFrame{indefinite: h.IsIndefinite(), remaining: h.Value}
			switch h.Major {
			case MajorArray:
				frm.kind = frameArray
			case MajorMap:
				frm.kind = frameMap
				if frm.remaining > math.MaxUint64/2 {
					frm.remaining = math.MaxUint64
				} else {
					frm.remaining *= 2
				}
			case MajorTag:
				if pos >= len(data) {
					return 0, newDecodeError(
						ErrorKindMissingTagBody,
						pos,
						fmt.Sprintf("tag %d", h.Value),
					)
				}
				frm.kind = frameTag
				frm.remaining = 1
			}
			if frm.indefinite || frm.remaining > 0 {
				stack = append(stack, frm)
				continue
			}
		default:
			pos += n
		}
		if completeItem(&stack) {
			return pos - offset, nil
		}
	}
}
