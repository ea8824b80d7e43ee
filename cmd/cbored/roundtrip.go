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

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/cbored/cbor"
)

// runRoundTrip decodes each item, encodes it again and checks that the bytes
// are unchanged
func (a *app) runRoundTrip(args []string) error {
	flagset := a.newSubcommandFlags("roundtrip")
	if err := a.parseSubcommand(flagset, args); err != nil {
		return err
	}
	data, err := a.readInput(flagset)
	if err != nil {
		return err
	}
	r := cbor.NewReader(data, a.readerOptions()...)
	count := 0
	for !r.Finished() {
		start := r.Position()
		item, err := r.DecodeItem()
		if err != nil {
			return err
		}
		encoded, err := cbor.Encode(item)
		if err != nil {
			return fmt.Errorf("item %d at offset %d: %w", count, start, err)
		}
		original := data[start:r.Position()]
		if !bytes.Equal(encoded, original) {
			return fmt.Errorf(
				"item %d at offset %d does not round trip: got %s, expected %s",
				count,
				start,
				hex.EncodeToString(encoded),
				hex.EncodeToString(original),
			)
		}
		count++
	}
	fmt.Fprintf(a.stdout, "ok: %d items round trip\n", count)
	return nil
}
