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
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/blinklabs-io/cbored/cbor"
	"gopkg.in/yaml.v3"
)

// writeYAML writes one YAML document per item. Encoding details that YAML
// cannot express are kept as line comments
func writeYAML(out io.Writer, items []cbor.Item) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	for i, item := range items {
		node, err := yamlNode(item)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if err := enc.Encode(node); err != nil {
			return err
		}
	}
	return enc.Close()
}

func scalarNode(tag string, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlNode(item cbor.Item) (*yaml.Node, error) {
	switch v := item.(type) {
	case cbor.Scalar:
		node := scalarNode("!!int", v.String())
		if !v.IsCanonical() {
			node.LineComment = v.Width().String()
		}
		return node, nil
	case cbor.Float:
		node := scalarNode("!!float", yamlFloat(v.Float64()))
		node.LineComment = "f" + strconv.Itoa(v.Width().Size()*8)
		return node, nil
	case cbor.Simple:
		if b, ok := v.Bool(); ok {
			return scalarNode("!!bool", strconv.FormatBool(b)), nil
		}
		switch {
		case v.IsNull():
			return scalarNode("!!null", "null"), nil
		case v.IsUndefined():
			return scalarNode("!undefined", ""), nil
		}
		return scalarNode("!simple", strconv.Itoa(int(v.Code()))), nil
	case *cbor.Bytes:
		node := scalarNode(
			"!!binary",
			base64.StdEncoding.EncodeToString(v.Value()),
		)
		if v.IsIndefinite() {
			node.LineComment = fmt.Sprintf("indefinite, %d chunks", len(v.Chunks()))
		}
		return node, nil
	case *cbor.Text:
		node := scalarNode("!!str", v.String())
		if v.IsIndefinite() {
			node.LineComment = fmt.Sprintf("indefinite, %d chunks", len(v.Chunks()))
		}
		return node, nil
	case *cbor.Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range v.Items() {
			child, err := yamlNode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		if v.Length().IsIndefinite() {
			node.LineComment = "indefinite"
		}
		return node, nil
	case *cbor.Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, pair := range v.Pairs() {
			key, err := yamlNode(pair.Key)
			if err != nil {
				return nil, err
			}
			value, err := yamlNode(pair.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, key, value)
		}
		if v.Length().IsIndefinite() {
			node.LineComment = "indefinite"
		}
		return node, nil
	case *cbor.Tag:
		node, err := yamlNode(v.Content())
		if err != nil {
			return nil, err
		}
		// The tag replaces the YAML type of the content
		node.Tag = "!" + strconv.FormatUint(v.Number(), 10)
		return node, nil
	}
	return nil, fmt.Errorf("unsupported item type %T", item)
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
