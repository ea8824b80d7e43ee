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
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/spf13/pflag"
)

func (a *app) newSubcommandFlags(name string) *pflag.FlagSet {
	flagset := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagset.SetOutput(a.stderr)
	return flagset
}

func (a *app) parseSubcommand(flagset *pflag.FlagSet, args []string) error {
	if err := flagset.Parse(args); err != nil {
		return fmt.Errorf("failed to parse subcommand args: %w", err)
	}
	if flagset.NArg() > 1 {
		return fmt.Errorf("unexpected argument: %s", flagset.Arg(1))
	}
	return nil
}

// readInput returns the input bytes. A file named after the subcommand
// takes precedence over --input
func (a *app) readInput(flagset *pflag.FlagSet) ([]byte, error) {
	source := a.flags.input
	if flagset.NArg() == 1 {
		source = flagset.Arg(0)
	}
	var data []byte
	var err error
	if source == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if a.flags.hexInput {
		text := strings.Join(strings.Fields(string(data)), "")
		data, err = hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("failed to decode hex input: %w", err)
		}
	}
	a.logger.Debug("read input", "source", source, "bytes", len(data))
	return data, nil
}

func (a *app) readerOptions() []cbor.ReaderOptionFunc {
	return []cbor.ReaderOptionFunc{
		cbor.WithMaxDepth(a.flags.maxDepth),
		cbor.WithStrictMapKeys(a.flags.strictMapKeys),
		cbor.WithLogger(a.logger),
	}
}

// usesReaderOptions reports whether the flags change decoding from what the
// validator checks
func (a *app) usesReaderOptions() bool {
	return a.flags.strictMapKeys || a.flags.maxDepth != cbor.DefaultMaxDepth
}
