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

// Package testdata provides real-world CBOR captured from Cardano mainnet for
// tests that need more than hand-written fixtures
package testdata

import (
	_ "embed"
	"encoding/hex"
	"strings"
)

// Byron main block from mainnet
// https://cexplorer.io/block/1451a0dbf16cfeddf4991a838961df1b08a68f43a19c0eb3b36cc4029c77a2d8
// Slot: 4471207
// Hash: 1451a0dbf16cfeddf4991a838961df1b08a68f43a19c0eb3b36cc4029c77a2d8
//
//go:embed byron_block.hex
var ByronBlockHex string

// ByronBlockHash is the Blake2b-256 digest of the block header wrapped as
// [1, header]
const ByronBlockHash = "1451a0dbf16cfeddf4991a838961df1b08a68f43a19c0eb3b36cc4029c77a2d8"

// Transaction metadata from an Allegra era block
//
//go:embed allegra_metadata.hex
var AllegraMetadataHex string

// Conway block cut off partway through its header
//
//go:embed conway_block_truncated.hex
var ConwayBlockTruncatedHex string

// Sample is a named CBOR capture
type Sample struct {
	Name string
	Cbor []byte
}

// GetSamples returns the captures that hold exactly one well-formed item
func GetSamples() []Sample {
	return []Sample{
		{Name: "ByronBlock", Cbor: MustDecodeHex(ByronBlockHex)},
		{Name: "AllegraMetadata", Cbor: MustDecodeHex(AllegraMetadataHex)},
	}
}

// MustDecodeHex decodes a hex string to bytes, panicking on error.
func MustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		panic(err)
	}
	return b
}
