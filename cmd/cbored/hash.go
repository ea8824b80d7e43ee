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
	"slices"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/blinklabs-io/cbored/digest"
)

// runHash prints the digest of the exact bytes of each top-level item
func (a *app) runHash(args []string) error {
	flagset := a.newSubcommandFlags("hash")
	algo := flagset.String(
		"algo",
		string(digest.AlgorithmBlake2b256),
		"digest algorithm: blake2b-256 or blake3",
	)
	if err := a.parseSubcommand(flagset, args); err != nil {
		return err
	}
	if !slices.Contains(digest.Algorithms, digest.Algorithm(*algo)) {
		return fmt.Errorf("unknown digest algorithm: %s", *algo)
	}
	data, err := a.readInput(flagset)
	if err != nil {
		return err
	}
	r := cbor.NewReader(data, a.readerOptions()...)
	for !r.Finished() {
		start := r.Position()
		raw, err := r.ReadRaw()
		if err != nil {
			return err
		}
		sum, err := digest.Sum(digest.Algorithm(*algo), raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s  %d\n", sum, start)
	}
	return nil
}
