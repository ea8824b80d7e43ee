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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/blinklabs-io/cbored/digest"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCli(stdin string, args ...string) cliResult {
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestSubcommandErrors(t *testing.T) {
	res := runCli("")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "you must specify a subcommand")

	res = runCli("", "bogus")
	require.Error(t, res.err)
	assert.Equal(t, "unknown subcommand: bogus", res.err.Error())

	res = runCli("", "--no-such-flag", "dump")
	require.Error(t, res.err)

	res = runCli("", "--help")
	require.ErrorIs(t, res.err, pflag.ErrHelp)

	res = runCli("", "dump", "--format", "xml")
	require.Error(t, res.err)
	assert.Equal(t, "unknown format: xml", res.err.Error())

	res = runCli("", "dump", "a", "b")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unexpected argument: b")
}

func TestDumpDiag(t *testing.T) {
	res := runCli("82 01 18 02\n 9f f5 ff", "--hex", "dump")
	require.NoError(t, res.err)
	assert.Equal(t, "[1, 2_0]\n[_ true]\n", res.stdout)
}

func TestDumpListing(t *testing.T) {
	res := runCli("8101", "--hex", "dump", "--format", "dump", "--prefix", "> ")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "> 81"))
	assert.Contains(t, lines[0], "array(1)")
	assert.True(t, strings.HasPrefix(lines[1], "  > 01"))
}

func TestDumpYAML(t *testing.T) {
	// {"a": [1, h'0102'], 2: 259({})} followed by 1.5
	input := "a2 61 61 82 01 42 01 02 02 d9 01 03 a0 f9 3e 00"
	res := runCli(input, "--hex", "dump", "--format", "yaml")
	require.NoError(t, res.err)
	docs := strings.Split(res.stdout, "---\n")
	require.Len(t, docs, 2)

	var first map[any]any
	require.NoError(t, yaml.Unmarshal([]byte(docs[0]), &first))
	elems, ok := first["a"].([]any)
	require.True(t, ok)
	require.Len(t, elems, 2)
	assert.Equal(t, 1, elems[0])
	assert.Contains(t, docs[0], "!!binary AQI=")
	assert.Contains(t, docs[0], "!259")

	var second float64
	require.NoError(t, yaml.Unmarshal([]byte(docs[1]), &second))
	assert.InDelta(t, 1.5, second, 0)
	assert.Contains(t, docs[1], "# f16")
}

func TestDumpYAMLComments(t *testing.T) {
	res := runCli("9f 18 01 7f 61 61 ff ff", "--hex", "dump", "--format", "yaml")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "# u8")
	assert.Contains(t, res.stdout, "# indefinite, 1 chunks")
}

func TestValidate(t *testing.T) {
	res := runCli("01 82 02 03", "--hex", "validate")
	require.NoError(t, res.err)
	assert.Equal(t, "valid: 2 items, 4 bytes\n", res.stdout)

	res = runCli("82 01", "--hex", "validate")
	require.ErrorIs(t, res.err, cbor.ErrUnexpectedEOF)

	res = runCli("", "validate")
	require.NoError(t, res.err)
	assert.Equal(t, "valid: 0 items, 0 bytes\n", res.stdout)
}

func TestValidateOptions(t *testing.T) {
	res := runCli("81 81 01", "--hex", "--max-depth", "1", "validate")
	require.ErrorIs(t, res.err, cbor.ErrMaxDepthExceeded)

	res = runCli("a2 01 02 01 03", "--hex", "validate")
	require.NoError(t, res.err)

	res = runCli("a2 01 02 01 03", "--hex", "--strict-map-keys", "validate")
	require.ErrorIs(t, res.err, cbor.ErrDuplicateMapKey)
}

func TestRoundTrip(t *testing.T) {
	res := runCli("1a 00 00 00 01 5f 41 01 ff f9 3c 00", "--hex", "roundtrip")
	require.NoError(t, res.err)
	assert.Equal(t, "ok: 3 items round trip\n", res.stdout)

	res = runCli("f8", "--hex", "roundtrip")
	require.ErrorIs(t, res.err, cbor.ErrUnexpectedEOF)
}

func TestHash(t *testing.T) {
	input := []byte{0x01, 0x82, 0x02, 0x03}
	res := runCli(string(input), "hash", "--algo", "blake3")
	require.NoError(t, res.err)
	expected := digest.Blake3Hash(input[:1]).String() + "  0\n" +
		digest.Blake3Hash(input[1:]).String() + "  1\n"
	assert.Equal(t, expected, res.stdout)

	res = runCli(string(input[:1]), "hash")
	require.NoError(t, res.err)
	assert.Equal(t, digest.Blake2b256Hash(input[:1]).String()+"  0\n", res.stdout)

	res = runCli("", "hash", "--algo", "md5")
	require.Error(t, res.err)
	assert.Equal(t, "unknown digest algorithm: md5", res.err.Error())
}

func TestFileInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.cbor")
	data, err := hex.DecodeString("83010203")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	res := runCli("", "--input", path, "dump")
	require.NoError(t, res.err)
	assert.Equal(t, "[1, 2, 3]\n", res.stdout)

	res = runCli("", "dump", path)
	require.NoError(t, res.err)
	assert.Equal(t, "[1, 2, 3]\n", res.stdout)

	res = runCli("", "dump", filepath.Join(dir, "missing.cbor"))
	require.ErrorIs(t, res.err, os.ErrNotExist)
}

func TestHexInputError(t *testing.T) {
	res := runCli("zz", "--hex", "dump")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "failed to decode hex input")
}

func TestDebugLogging(t *testing.T) {
	res := runCli("01", "--hex", "validate")
	require.NoError(t, res.err)
	assert.Empty(t, res.stderr)

	res = runCli("01", "--hex", "--debug", "validate")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "level=DEBUG")
	assert.Contains(t, res.stderr, "bytes=1")
}
