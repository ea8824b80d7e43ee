// Copyright 2023 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cbor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteStringString(t *testing.T) {
	bs := NewByteString([]byte("cbored"))
	assert.Equal(t, "63626f726564", bs.String())
}

func TestByteStringMarshalJSON(t *testing.T) {
	jsonData, err := json.Marshal(NewByteString([]byte("cbored")))
	require.NoError(t, err)
	assert.Equal(t, `"63626f726564"`, string(jsonData))
}

func TestByteStringAsMapKey(t *testing.T) {
	m := map[any]any{
		NewByteString([]byte{0x41, 0x42}): 1,
	}
	assert.Equal(t, 1, m[NewByteString([]byte("AB"))])
	assert.Equal(t, "AB", string(NewByteString([]byte{0x41, 0x42}).Bytes()))
}
