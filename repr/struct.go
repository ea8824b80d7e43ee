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
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/blinklabs-io/cbored/cbor"
)

// StructAsArray selects a definite array with one item per field. It is the
// layout used when a struct embeds no marker
type StructAsArray struct{}

// StructAsArrayLastOpt selects an array whose last field is left out when nil
type StructAsArrayLastOpt struct{}

// StructAsFlat selects the fields written in sequence with no container
type StructAsFlat struct{}

// StructAsIntMap selects a map keyed by unsigned field numbers
type StructAsIntMap struct{}

type structStrategy uint8

const (
	strategyArray structStrategy = iota
	strategyArrayLastOpt
	strategyFlat
	strategyIntMap
)

var (
	markerTypes = map[reflect.Type]structStrategy{
		reflect.TypeFor[StructAsArray]():        strategyArray,
		reflect.TypeFor[StructAsArrayLastOpt](): strategyArrayLastOpt,
		reflect.TypeFor[StructAsFlat]():         strategyFlat,
		reflect.TypeFor[StructAsIntMap]():       strategyIntMap,
	}
	decodeStoreCborType = reflect.TypeFor[cbor.DecodeStoreCbor]()
)

type fieldInfo struct {
	name     string
	index    int
	key      uint64
	optional bool
	// number of items the field occupies in an enclosing sequence
	count int
}

type structInfo struct {
	name     string
	strategy structStrategy
	hasTag   bool
	tag      uint64
	fields   []fieldInfo
	keys     map[uint64]int
	count    int
	err      error
}

var structInfoCache sync.Map

func getStructInfo(t reflect.Type) (*structInfo, error) {
	if cached, ok := structInfoCache.Load(t); ok {
		info := cached.(*structInfo)
		return info, info.err
	}
	info := buildStructInfo(t, t.Name())
	actual, _ := structInfoCache.LoadOrStore(t, info)
	info = actual.(*structInfo)
	return info, info.err
}

func buildStructInfo(t reflect.Type, name string) *structInfo {
	if name == "" {
		name = "struct"
	}
	info := &structInfo{name: name}
	var start uint64
	var skips []uint64
	haveMarker := false
	for i := range t.NumField() {
		field := t.Field(i)
		if strategy, ok := markerTypes[field.Type]; ok {
			if haveMarker {
				info.err = fmt.Errorf("%w: %s has more than one layout marker", ErrInvalidLayout, name)
				return info
			}
			haveMarker = true
			info.strategy = strategy
			var err error
			start, skips, err = info.parseMarkerTag(field.Tag.Get("cbor"))
			if err != nil {
				info.err = fmt.Errorf("%w: %s: %w", ErrInvalidLayout, name, err)
				return info
			}
			continue
		}
		if !field.IsExported() || field.Type == decodeStoreCborType {
			continue
		}
		tag := field.Tag.Get("cbor")
		if tag == "-" {
			continue
		}
		fi := fieldInfo{name: field.Name, index: i, count: 1}
		for opt := range strings.SplitSeq(tag, ",") {
			switch opt {
			case "":
			case "optional":
				fi.optional = true
			default:
				info.err = fmt.Errorf("%w: %s.%s: unknown option %q", ErrInvalidLayout, name, field.Name, opt)
				return info
			}
		}
		if fi.optional && !nilable(field.Type) {
			info.err = fmt.Errorf("%w: %s.%s: optional field must be nilable", ErrInvalidLayout, name, field.Name)
			return info
		}
		if field.Type.Kind() == reflect.Struct && field.Type != t {
			nested, err := getStructInfo(field.Type)
			if err == nil && nested.strategy == strategyFlat && !nested.hasTag {
				fi.count = nested.count
			}
		}
		info.fields = append(info.fields, fi)
		info.count += fi.count
	}
	switch info.strategy {
	case strategyArrayLastOpt:
		if len(info.fields) == 0 || !nilable(t.Field(info.fields[len(info.fields)-1].index).Type) {
			info.err = fmt.Errorf("%w: %s: last field must be nilable", ErrInvalidLayout, name)
		}
	case strategyFlat:
		if info.hasTag && len(info.fields) != 1 {
			info.err = fmt.Errorf("%w: %s: a tagged flat struct must have one field", ErrInvalidLayout, name)
		}
	case strategyIntMap:
		info.keys = make(map[uint64]int, len(info.fields))
		var rel uint64
		for i := range info.fields {
			for slices.Contains(skips, start+uint64(i)+rel) {
				rel++
			}
			key := start + uint64(i) + rel
			info.fields[i].key = key
			info.keys[key] = i
		}
	}
	for i := range info.fields {
		if info.fields[i].optional && info.strategy != strategyIntMap {
			info.err = fmt.Errorf("%w: %s.%s: optional fields need StructAsIntMap", ErrInvalidLayout, name, info.fields[i].name)
		}
	}
	return info
}

// parseMarkerTag reads the start=, skip= and tag= options of a marker
func (s *structInfo) parseMarkerTag(tag string) (uint64, []uint64, error) {
	var start uint64
	var skips []uint64
	for opt := range strings.SplitSeq(tag, ",") {
		if opt == "" {
			continue
		}
		key, value, ok := strings.Cut(opt, "=")
		if !ok {
			return 0, nil, fmt.Errorf("option %q has no value", opt)
		}
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("option %q: %w", opt, err)
		}
		switch key {
		case "start":
			start = n
		case "skip":
			skips = append(skips, n)
		case "tag":
			s.hasTag = true
			s.tag = n
		default:
			return 0, nil, fmt.Errorf("unknown option %q", key)
		}
	}
	if (start != 0 || len(skips) > 0) && s.strategy != strategyIntMap {
		return 0, nil, fmt.Errorf("start and skip need StructAsIntMap")
	}
	return start, skips, nil
}

func (s *structInfo) label(f fieldInfo) string {
	return s.name + "." + f.name
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}

func isNil(v reflect.Value) bool {
	return nilable(v.Type()) && v.IsNil()
}
