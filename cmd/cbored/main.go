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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/spf13/pflag"
)

const programName = "cbored"

type globalFlags struct {
	flagset       *pflag.FlagSet
	input         string
	hexInput      bool
	debug         bool
	maxDepth      int
	strictMapKeys bool
}

func newGlobalFlags(output io.Writer) *globalFlags {
	f := &globalFlags{
		flagset: pflag.NewFlagSet(programName, pflag.ContinueOnError),
	}
	f.flagset.SetOutput(output)
	// Flags after the subcommand belong to the subcommand
	f.flagset.SetInterspersed(false)
	f.flagset.StringVarP(
		&f.input,
		"input",
		"i",
		"-",
		"file to read, or - for standard input",
	)
	f.flagset.BoolVar(
		&f.hexInput,
		"hex",
		false,
		"input is hex text (whitespace is ignored)",
	)
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	f.flagset.IntVar(
		&f.maxDepth,
		"max-depth",
		cbor.DefaultMaxDepth,
		"maximum nesting depth of arrays, maps and tags",
	)
	f.flagset.BoolVar(
		&f.strictMapKeys,
		"strict-map-keys",
		false,
		"reject maps that contain the same key twice",
	)
	return f
}

type app struct {
	flags  *globalFlags
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	f := newGlobalFlags(stderr)
	if err := f.flagset.Parse(args); err != nil {
		return fmt.Errorf("failed to parse command args: %w", err)
	}
	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	a := &app{
		flags: f,
		logger: slog.New(
			slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
		),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	if f.flagset.NArg() == 0 {
		return errors.New(
			"you must specify a subcommand (dump, validate, roundtrip or hash)",
		)
	}
	cmdArgs := f.flagset.Args()[1:]
	switch f.flagset.Arg(0) {
	case "dump":
		return a.runDump(cmdArgs)
	case "validate":
		return a.runValidate(cmdArgs)
	case "roundtrip":
		return a.runRoundTrip(cmdArgs)
	case "hash":
		return a.runHash(cmdArgs)
	default:
		return fmt.Errorf("unknown subcommand: %s", f.flagset.Arg(0))
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
