package parser

import (
	"fmt"
	"math"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasmcp/oaserrors"
)

const (
	// maxNodes bounds the decoded tree size so alias expansion cannot blow up memory.
	maxNodes = 1_000_000
	// maxAliasDepth bounds nested alias dereferencing.
	maxAliasDepth = 64
)

// DecodeNode decodes YAML or JSON bytes into an ordered Node tree.
// source is used only for error messages.
func DecodeNode(data []byte, source string) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "failed to parse YAML/JSON", Cause: err}
	}
	if doc.Kind == 0 || (doc.Kind == yaml.DocumentNode && len(doc.Content) == 0) {
		return nil, &oaserrors.ParseError{Path: source, Message: "document is empty"}
	}
	d := &nodeDecoder{source: source}
	return d.convert(&doc, 0)
}

type nodeDecoder struct {
	source string
	count  int
}

func (d *nodeDecoder) fail(line int, format string, args ...any) error {
	return &oaserrors.ParseError{Path: d.source, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (d *nodeDecoder) convert(y *yaml.Node, aliasDepth int) (*Node, error) {
	d.count++
	if d.count > maxNodes {
		return nil, d.fail(y.Line, "document exceeds %d nodes", maxNodes)
	}

	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return NewNull(), nil
		}
		return d.convert(y.Content[0], aliasDepth)

	case yaml.AliasNode:
		if y.Alias == nil {
			return nil, d.fail(y.Line, "unresolved alias %q", y.Value)
		}
		if aliasDepth >= maxAliasDepth {
			return nil, d.fail(y.Line, "aliases nested deeper than %d", maxAliasDepth)
		}
		return d.convert(y.Alias, aliasDepth+1)

	case yaml.MappingNode:
		return d.mapping(y, aliasDepth)

	case yaml.SequenceNode:
		n := &Node{Kind: KindArray, Line: y.Line, Items: make([]*Node, 0, len(y.Content))}
		for _, c := range y.Content {
			item, err := d.convert(c, aliasDepth)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, item)
		}
		return n, nil

	case yaml.ScalarNode:
		return scalar(y), nil

	default:
		return nil, d.fail(y.Line, "unsupported YAML node kind %d", y.Kind)
	}
}

func (d *nodeDecoder) mapping(y *yaml.Node, aliasDepth int) (*Node, error) {
	n := &Node{Kind: KindObject, Line: y.Line, Fields: make([]Field, 0, len(y.Content)/2)}
	var merged []Field

	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]
		if k.Kind == yaml.AliasNode && k.Alias != nil {
			k = k.Alias
		}
		if k.Kind != yaml.ScalarNode {
			return nil, d.fail(k.Line, "mapping keys must be scalars")
		}

		val, err := d.convert(v, aliasDepth)
		if err != nil {
			return nil, err
		}

		if k.Value == "<<" && k.Tag != "!!str" {
			switch {
			case val.IsObject():
				merged = append(merged, val.Fields...)
				continue
			case val.IsArray():
				for _, item := range val.Items {
					if item.IsObject() {
						merged = append(merged, item.Fields...)
					}
				}
				continue
			}
		}
		n.Fields = append(n.Fields, Field{Key: k.Value, Value: val})
	}

	// Explicit keys override merged ones.
	for _, f := range merged {
		if !n.Has(f.Key) {
			n.Fields = append(n.Fields, f)
		}
	}
	return n, nil
}

func scalar(y *yaml.Node) *Node {
	var v any
	if err := y.Decode(&v); err != nil {
		return &Node{Kind: KindString, Scalar: y.Value, Line: y.Line}
	}

	switch t := v.(type) {
	case nil:
		return &Node{Kind: KindNull, Line: y.Line}
	case bool:
		return &Node{Kind: KindBool, Bool: t, Line: y.Line}
	case string:
		return &Node{Kind: KindString, Scalar: t, Line: y.Line}
	case int:
		return numberNode(float64(t), y)
	case int64:
		return numberNode(float64(t), y)
	case uint64:
		return numberNode(float64(t), y)
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return &Node{Kind: KindString, Scalar: y.Value, Line: y.Line}
		}
		return numberNode(t, y)
	default:
		// Timestamps and other typed scalars keep their source text.
		return &Node{Kind: KindString, Scalar: y.Value, Line: y.Line}
	}
}

func numberNode(f float64, y *yaml.Node) *Node {
	n := NewNumber(f)
	n.Line = y.Line
	return n
}
