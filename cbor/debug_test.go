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

package cbor_test

import (
	"math"
	"strings"
	"testing"

	"github.com/blinklabs-io/cbored/cbor"
	"github.com/blinklabs-io/cbored/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	item, err := cbor.Decode(test.DecodeHexString("9F 18 0A 5F 41 01 FF C1 00 FF"))
	require.NoError(t, err)
	out := cbor.Dump(item, "")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	expected := []string{
		"9f                   # array(*)",
		"  180a                 # unsigned(10_0)",
		"  5f                   # bytes(*)",
		"    41                   # bytes(1)",
		"      01",
		"  ff                   # break",
		"  c1                   # tag(1)",
		"    00                   # unsigned(0)",
		"ff                   # break",
	}
	assert.Equal(t, expected, lines)
}

func TestDiagnoseNaNPayloads(t *testing.T) {
	quiet, err := cbor.Decode(test.DecodeHexString("F9 7E 00"))
	require.NoError(t, err)
	payload, err := cbor.Decode(test.DecodeHexString("F9 7E 01"))
	require.NoError(t, err)
	wide, err := cbor.Decode(test.DecodeHexString("FB 7F F8 00 00 00 00 00 00"))
	require.NoError(t, err)
	assert.Equal(t, "NaN_1", cbor.Diagnose(quiet))
	assert.Equal(t, "NaN(0x7e01)_1", cbor.Diagnose(payload))
	assert.Equal(t, "NaN_3", cbor.Diagnose(wide))
	assert.NotEqual(t, cbor.Diagnose(quiet), cbor.Diagnose(payload))
	assert.Equal(t, "NaN_1", cbor.Diagnose(cbor.NewFloat(math.NaN())))
}

func TestDumpPrefix(t *testing.T) {
	out := cbor.Dump(cbor.NewText("hi"), "> ")
	assert.Equal(t, "> 62                   # text(2)\n>   \"hi\"\n", out)
}

func TestDiagnoseDistinguishesEncodings(t *testing.T) {
	a, err := cbor.Decode(test.DecodeHexString("82 01 02"))
	require.NoError(t, err)
	b, err := cbor.Decode(test.DecodeHexString("9F 01 02 FF"))
	require.NoError(t, err)
	c, err := cbor.Decode(test.DecodeHexString("82 01 19 00 02"))
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", cbor.Diagnose(a))
	assert.Equal(t, "[_ 1, 2]", cbor.Diagnose(b))
	assert.Equal(t, "[1, 2_1]", cbor.Diagnose(c))
}
