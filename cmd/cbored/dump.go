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

const (
	formatDiag = "diag"
	formatDump = "dump"
	formatYAML = "yaml"
)

func (a *app) runDump(args []string) error {
	flagset := a.newSubcommandFlags("dump")
	format := flagset.String(
		"format",
		formatDiag,
		"output format: diag, dump or yaml",
	)
	prefix := flagset.String("prefix", "", "line prefix for dump output")
	if err := a.parseSubcommand(flagset, args); err != nil {
		return err
	}
	switch *format {
	case formatDiag, formatDump, formatYAML:
	default:
		return fmt.Errorf("unknown format: %s", *format)
	}
	data, err := a.readInput(flagset)
	if err != nil {
		return err
	}
	items, err := cbor.DecodeSequence(data, a.readerOptions()...)
	if err != nil {
		return err
	}
	a.logger.Debug("decoded input", "items", len(items))
	switch *format {
	case formatDump:
		for _, item := range items {
			fmt.Fprint(a.stdout, cbor.Dump(item, *prefix))
		}
	case formatYAML:
		return writeYAML(a.stdout, items)
	default:
		for _, item := range items {
			fmt.Fprintln(a.stdout, cbor.Diagnose(item))
		}
	}
	return nil
}
