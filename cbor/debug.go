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
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// encoding indicator for a non-minimal argument width, as used by extended
// diagnostic notation (_0 = 1 byte, _1 = 2 bytes, _2 = 4 bytes, _3 = 8 bytes)
func encodingIndicator(w Width, value uint64) string {
	if w == CanonicalWidth(value) || w == WidthIndefinite {
		return ""
	}
	switch w {
	case Width8:
		return "_0"
	case Width16:
		return "_1"
	case Width32:
		return "_2"
	case Width64:
		return "_3"
	}
	return ""
}

func floatIndicator(w Width) string {
	switch w {
	case Width16:
		return "_1"
	case Width32:
		return "_2"
	}
	return "_3"
}

// Diagnose renders an item in diagnostic notation. Non-minimal widths and
// indefinite framing are shown with encoding indicators, and NaNs other than
// the quiet NaN show their bits, so two items render identically only if they
// encode identically
func Diagnose(item Item) string {
	var sb strings.Builder
	diagnose(&sb, item)
	return sb.String()
}

func diagnoseChunk(sb *strings.Builder, major MajorType, chunk Chunk) {
	if major == MajorText {
		sb.WriteString(strconv.Quote(string(chunk.Data)))
	} else {
		sb.WriteString("h'")
		sb.WriteString(hex.EncodeToString(chunk.Data))
		sb.WriteString("'")
	}
	sb.WriteString(encodingIndicator(chunk.Width, uint64(len(chunk.Data))))
}

func diagnoseChunked(sb *strings.Builder, major MajorType, c *chunked) {
	if !c.indefinite {
		if len(c.chunks) == 1 {
			diagnoseChunk(sb, major, c.chunks[0])
		}
		return
	}
	if len(c.chunks) == 0 {
		if major == MajorText {
			sb.WriteString(`""_`)
		} else {
			sb.WriteString("''_")
		}
		return
	}
	sb.WriteString("(_ ")
	for i, chunk := range c.chunks {
		if i > 0 {
			sb.WriteString(", ")
		}
		diagnoseChunk(sb, major, chunk)
	}
	sb.WriteString(")")
}

func diagnoseOpen(sb *strings.Builder, open string, length Length) {
	sb.WriteString(open)
	if length.IsIndefinite() {
		sb.WriteString("_ ")
		return
	}
	if ind := encodingIndicator(length.width, length.count); ind != "" {
		sb.WriteString(ind)
		sb.WriteString(" ")
	}
}

func diagnose(sb *strings.Builder, item Item) {
	switch v := item.(type) {
	case Scalar:
		sb.WriteString(v.String())
		sb.WriteString(encodingIndicator(v.width, v.magnitude))
	case *Bytes:
		diagnoseChunked(sb, MajorBytes, &v.chunked)
	case *Text:
		diagnoseChunked(sb, MajorText, &v.chunked)
	case *Array:
		diagnoseOpen(sb, "[", v.length)
		for i, elem := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			diagnose(sb, elem)
		}
		sb.WriteString("]")
	case *Map:
		diagnoseOpen(sb, "{", v.length)
		for i, pair := range v.pairs {
			if i > 0 {
				sb.WriteString(", ")
			}
			diagnose(sb, pair.Key)
			sb.WriteString(": ")
			diagnose(sb, pair.Value)
		}
		sb.WriteString("}")
	case *Tag:
		sb.WriteString(strconv.FormatUint(v.number.value, 10))
		sb.WriteString(encodingIndicator(v.number.width, v.number.value))
		sb.WriteString("(")
		diagnose(sb, v.content)
		sb.WriteString(")")
	case Float:
		if math.IsNaN(v.Float64()) && !v.IsQuietNaN() {
			// NaN payloads and signs only show in the bits
			fmt.Fprintf(sb, "NaN(0x%x)", v.bits)
		} else {
			sb.WriteString(v.String())
		}
		sb.WriteString(floatIndicator(v.width))
	case Simple:
		sb.WriteString(v.String())
		if v.width == Width8 && v.code <= CborMaxUintSimple {
			sb.WriteString("_0")
		}
	default:
		fmt.Fprintf(sb, "<%T>", item)
	}
}

// Dump generates an indented listing of an item with the encoded bytes of
// each header on the left and a description on the right, for debugging
func Dump(item Item, prefix string) string {
	var ret bytes.Buffer
	dump(&ret, item, prefix)
	return ret.String()
}

func dumpLine(ret *bytes.Buffer, prefix string, raw []byte, desc string) {
	fmt.Fprintf(ret, "%s%-20s # %s\n", prefix, hex.EncodeToString(raw), desc)
}

func dump(ret *bytes.Buffer, item Item, prefix string) {
	// Add 2 more spaces to the prefix for nested items
	newPrefix := "  " + prefix
	switch v := item.(type) {
	case *Bytes, *Text:
		var major MajorType
		var c *chunked
		if b, ok := v.(*Bytes); ok {
			major, c = MajorBytes, &b.chunked
		} else {
			major, c = MajorText, &v.(*Text).chunked
		}
		if !c.indefinite {
			for _, chunk := range c.chunks {
				dumpChunk(ret, prefix, major, chunk)
			}
			return
		}
		dumpLine(ret, prefix, item.Header().Bytes(), major.String()+"(*)")
		for _, chunk := range c.chunks {
			dumpChunk(ret, newPrefix, major, chunk)
		}
		dumpLine(ret, prefix, []byte{CborBreak}, "break")
	case *Array:
		dumpLine(ret, prefix, v.Header().Bytes(), "array("+lengthLabel(v.length)+")")
		for _, elem := range v.items {
			dump(ret, elem, newPrefix)
		}
		if v.length.IsIndefinite() {
			dumpLine(ret, prefix, []byte{CborBreak}, "break")
		}
	case *Map:
		dumpLine(ret, prefix, v.Header().Bytes(), "map("+lengthLabel(v.length)+")")
		for _, pair := range v.pairs {
			dump(ret, pair.Key, newPrefix)
			dump(ret, pair.Value, newPrefix)
		}
		if v.length.IsIndefinite() {
			dumpLine(ret, prefix, []byte{CborBreak}, "break")
		}
	case *Tag:
		dumpLine(ret, prefix, v.Header().Bytes(), fmt.Sprintf("tag(%d)", v.number.value))
		dump(ret, v.content, newPrefix)
	case nil:
		dumpLine(ret, prefix, nil, "<nil>")
	default:
		dumpLine(ret, prefix, item.Header().Bytes(), item.Type().String()+"("+Diagnose(item)+")")
	}
}

func dumpChunk(ret *bytes.Buffer, prefix string, major MajorType, chunk Chunk) {
	raw := AppendHeader(nil, chunk.header(major))
	desc := fmt.Sprintf("%s(%d)", major, len(chunk.Data))
	dumpLine(ret, prefix, raw, desc)
	if len(chunk.Data) > 0 {
		body := hex.EncodeToString(chunk.Data)
		if major == MajorText {
			body = strconv.Quote(string(chunk.Data))
		}
		fmt.Fprintf(ret, "%s  %s\n", prefix, body)
	}
}

func lengthLabel(l Length) string {
	if l.IsIndefinite() {
		return "*"
	}
	return strconv.FormatUint(l.count, 10)
}
