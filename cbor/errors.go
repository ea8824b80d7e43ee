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
	"errors"
	"fmt"
	"strings"
)

// ErrorKind identifies the class of a decode or encode failure
type ErrorKind uint8

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindUnexpectedEOF
	ErrorKindReservedEncoding
	ErrorKindIndefiniteNotAllowedHere
	ErrorKindChunkTypeMismatch
	ErrorKindUnexpectedBreak
	ErrorKindOutOfRange
	ErrorKindMissingTagBody
	ErrorKindInvalidUTF8
	ErrorKindUnexpectedType
	ErrorKindTrailingData
	ErrorKindMaxDepthExceeded
	ErrorKindDuplicateMapKey
	ErrorKindCountMismatch
	ErrorKindUnclosedFrame
	ErrorKindInvalidWidth
)

// Sentinel errors for use with errors.Is. Every DecodeError and EncodeError
// unwraps to the sentinel matching its kind
var (
	ErrUnknown                  = errors.New("unknown error")
	ErrUnexpectedEOF            = errors.New("unexpected end of input")
	ErrReservedEncoding         = errors.New("reserved additional information value")
	ErrIndefiniteNotAllowedHere = errors.New("indefinite length not allowed here")
	ErrChunkTypeMismatch        = errors.New("chunk type mismatch")
	ErrUnexpectedBreak          = errors.New("unexpected break")
	ErrOutOfRange               = errors.New("value out of range")
	ErrMissingTagBody           = errors.New("missing tag body")
	ErrInvalidUTF8              = errors.New("invalid UTF-8 in text string")
	ErrUnexpectedType           = errors.New("unexpected type")
	ErrTrailingData             = errors.New("trailing data after item")
	ErrMaxDepthExceeded         = errors.New("maximum nesting depth exceeded")
	ErrDuplicateMapKey          = errors.New("duplicate map key")
	ErrCountMismatch            = errors.New("item count does not match declared length")
	ErrUnclosedFrame            = errors.New("unclosed container")
	ErrInvalidWidth             = errors.New("value does not fit encoding width")
)

var errorKindSentinels = map[ErrorKind]error{
	ErrorKindUnknown:                  ErrUnknown,
	ErrorKindUnexpectedEOF:            ErrUnexpectedEOF,
	ErrorKindReservedEncoding:         ErrReservedEncoding,
	ErrorKindIndefiniteNotAllowedHere: ErrIndefiniteNotAllowedHere,
	ErrorKindChunkTypeMismatch:        ErrChunkTypeMismatch,
	ErrorKindUnexpectedBreak:          ErrUnexpectedBreak,
	ErrorKindOutOfRange:               ErrOutOfRange,
	ErrorKindMissingTagBody:           ErrMissingTagBody,
	ErrorKindInvalidUTF8:              ErrInvalidUTF8,
	ErrorKindUnexpectedType:           ErrUnexpectedType,
	ErrorKindTrailingData:             ErrTrailingData,
	ErrorKindMaxDepthExceeded:         ErrMaxDepthExceeded,
	ErrorKindDuplicateMapKey:          ErrDuplicateMapKey,
	ErrorKindCountMismatch:            ErrCountMismatch,
	ErrorKindUnclosedFrame:            ErrUnclosedFrame,
	ErrorKindInvalidWidth:             ErrInvalidWidth,
}

// Err returns the sentinel error for the kind
func (k ErrorKind) Err() error {
	if err, ok := errorKindSentinels[k]; ok {
		return err
	}
	return ErrUnknown
}

func (k ErrorKind) String() string {
	return k.Err().Error()
}

// DecodeError describes a failure while decoding. Offset is the byte offset
// in the input where the failure was detected. Context holds the labels of
// the enclosing items, innermost first
type DecodeError struct {
	Kind    ErrorKind
	Offset  int
	Context []string
	Detail  string
	// Err is an optional cause, such as a mapping layer sentinel
	Err error

	annotated bool
}

func newDecodeError(kind ErrorKind, offset int, detail string) *DecodeError {
	return &DecodeError{
		Kind:   kind,
		Offset: offset,
		Detail: detail,
	}
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("cbor: ")
	sb.WriteString(e.Kind.String())
	fmt.Fprintf(&sb, " at offset %d", e.Offset)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if len(e.Context) > 0 {
		sb.WriteString(" (in ")
		sb.WriteString(strings.Join(e.Context, " < "))
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind.Err(), e.Err}
	}
	return []error{e.Kind.Err()}
}

// AddContext appends an outer context label and returns the error
func (e *DecodeError) AddContext(label string) *DecodeError {
	e.Context = append(e.Context, label)
	return e
}

// EncodeError describes a failure while building an encoding
type EncodeError struct {
	Kind   ErrorKind
	Detail string
}

func newEncodeError(kind ErrorKind, format string, args ...any) *EncodeError {
	return &EncodeError{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (e *EncodeError) Error() string {
	if e.Detail == "" {
		return "cbor: " + e.Kind.String()
	}
	return "cbor: " + e.Kind.String() + ": " + e.Detail
}

func (e *EncodeError) Unwrap() error {
	return e.Kind.Err()
}
