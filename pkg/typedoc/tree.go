package typedoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type nodeKind int

const (
	// a missing key looks up as the zero node, which reads as null
	nullNode nodeKind = iota
	scalarNode
	mapNode
	listNode
)

func (k nodeKind) String() string {
	switch k {
	case scalarNode:
		return "scalar"
	case nullNode:
		return "null"
	case mapNode:
		return "mapping"
	default:
		return "list"
	}
}

// node is a document tree that keeps mapping keys in source order. Line is
// zero for JSON input.
type node struct {
	kind  nodeKind
	value string
	keys  []string
	items []node
	line  int
}

func (n node) lookup(key string) (node, bool) {
	for i, k := range n.keys {
		if k == key {
			return n.items[i], true
		}
	}
	return node{}, false
}

// decodeJSON reads one JSON value through the streaming decoder so object
// keys stay ordered.
func decodeJSON(data []byte) (node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	root, err := readJSON(dec)
	if err != nil {
		return node{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return node{}, errors.New("trailing data after document")
	}
	return root, nil
}

func readJSON(dec *json.Decoder) (node, error) {
	tok, err := dec.Token()
	if err != nil {
		return node{}, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			out := node{kind: mapNode}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return node{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return node{}, fmt.Errorf("object key %v is not a string", keyTok)
				}
				if _, dup := out.lookup(key); dup {
					return node{}, fmt.Errorf("duplicate key %q", key)
				}
				value, err := readJSON(dec)
				if err != nil {
					return node{}, err
				}
				out.keys = append(out.keys, key)
				out.items = append(out.items, value)
			}
			if _, err := dec.Token(); err != nil {
				return node{}, err
			}
			return out, nil
		case '[':
			out := node{kind: listNode}
			for dec.More() {
				item, err := readJSON(dec)
				if err != nil {
					return node{}, err
				}
				out.items = append(out.items, item)
			}
			if _, err := dec.Token(); err != nil {
				return node{}, err
			}
			return out, nil
		default:
			return node{}, fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		return node{kind: scalarNode, value: v}, nil
	case json.Number:
		return node{kind: scalarNode, value: v.String()}, nil
	case bool:
		return node{kind: scalarNode, value: strconv.FormatBool(v)}, nil
	case nil:
		return node{kind: nullNode}, nil
	default:
		return node{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeYAML(data []byte) (node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return node{}, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return node{}, errors.New("empty document")
	}
	return fromYAML(doc.Content[0])
}

func fromYAML(y *yaml.Node) (node, error) {
	switch y.Kind {
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	case yaml.ScalarNode:
		if y.Tag == "!!null" {
			return node{kind: nullNode, line: y.Line}, nil
		}
		return node{kind: scalarNode, value: y.Value, line: y.Line}, nil
	case yaml.SequenceNode:
		out := node{kind: listNode, line: y.Line}
		for _, item := range y.Content {
			n, err := fromYAML(item)
			if err != nil {
				return node{}, err
			}
			out.items = append(out.items, n)
		}
		return out, nil
	case yaml.MappingNode:
		out := node{kind: mapNode, line: y.Line}
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i]
			if key.Kind != yaml.ScalarNode {
				return node{}, fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			if _, dup := out.lookup(key.Value); dup {
				return node{}, fmt.Errorf("line %d: duplicate key %q", key.Line, key.Value)
			}
			value, err := fromYAML(y.Content[i+1])
			if err != nil {
				return node{}, err
			}
			out.keys = append(out.keys, key.Value)
			out.items = append(out.items, value)
		}
		return out, nil
	default:
		return node{}, fmt.Errorf("line %d: unsupported YAML node", y.Line)
	}
}
