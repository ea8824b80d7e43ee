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
	"fmt"

	"github.com/blinklabs-io/cbored/cbor"
)

func (a *app) runValidate(args []string) error {
	flagset := a.newSubcommandFlags("validate")
	if err := a.parseSubcommand(flagset, args); err != nil {
		return err
	}
	data, err := a.readInput(flagset)
	if err != nil {
		return err
	}
	var count int
	if a.usesReaderOptions() {
		// The validator only knows the default limits
		items, err := cbor.DecodeSequence(data, a.readerOptions()...)
		if err != nil {
			return err
		}
		count = len(items)
	} else {
		count, err = cbor.ValidSequence(data)
		if err != nil {
			a.logger.Debug("validation failed", "items", count, "error", err)
			return err
		}
	}
	fmt.Fprintf(a.stdout, "valid: %d items, %d bytes\n", count, len(data))
	return nil
}
