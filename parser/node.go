package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Node.
type Kind uint8

const (
	// KindNull is an explicit null (or an absent value when returned by Get).
	KindNull Kind = iota
	// KindBool is a boolean scalar.
	KindBool
	// KindNumber is an integer or floating point scalar.
	KindNumber
	// KindString is a string scalar.
	KindString
	// KindArray is an ordered sequence.
	KindArray
	// KindObject is an ordered string-keyed mapping.
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Node is one value of a decoded document.
//
// The tree is closed: every value is exactly one of the Kind variants, and
// object keys keep the order in which they appear in the source. Nodes are
// treated as read-only once a document has been loaded; code that needs a
// different document builds new nodes and may share unchanged subtrees.
type Node struct {
	Kind Kind
	// Scalar holds the text of String nodes and the canonical literal of Number nodes.
	Scalar string
	// Num holds the numeric value of Number nodes.
	Num float64
	// Bool holds the value of Bool nodes.
	Bool bool
	// Items holds the elements of Array nodes.
	Items []*Node
	// Fields holds the entries of Object nodes in document order.
	Fields []Field
	// Line is the 1-based source line (0 for synthesized nodes).
	Line int
}

// Field is one key/value entry of an Object node.
type Field struct {
	Key   string
	Value *Node
}

// NewString returns a String node.
func NewString(s string) *Node {
	return &Node{Kind: KindString, Scalar: s}
}

// NewNumber returns a Number node.
func NewNumber(f float64) *Node {
	return &Node{Kind: KindNumber, Num: f, Scalar: formatNumber(f)}
}

// NewBool returns a Bool node.
func NewBool(b bool) *Node {
	return &Node{Kind: KindBool, Bool: b}
}

// NewNull returns a Null node.
func NewNull() *Node {
	return &Node{Kind: KindNull}
}

// NewArray returns an Array node holding items.
func NewArray(items ...*Node) *Node {
	return &Node{Kind: KindArray, Items: items}
}

// NewObject returns an Object node holding fields in the given order.
func NewObject(fields ...Field) *Node {
	return &Node{Kind: KindObject, Fields: fields}
}

// IsObject reports whether n is a non-nil Object node.
func (n *Node) IsObject() bool { return n != nil && n.Kind == KindObject }

// IsArray reports whether n is a non-nil Array node.
func (n *Node) IsArray() bool { return n != nil && n.Kind == KindArray }

// IsString reports whether n is a non-nil String node.
func (n *Node) IsString() bool { return n != nil && n.Kind == KindString }

// IsNull reports whether n is nil or a Null node.
func (n *Node) IsNull() bool { return n == nil || n.Kind == KindNull }

// Get returns the value stored under key, or nil when n is not an object or
// the key is absent. When a key is repeated the first occurrence wins.
func (n *Node) Get(key string) *Node {
	if !n.IsObject() {
		return nil
	}
	for i := range n.Fields {
		if n.Fields[i].Key == key {
			return n.Fields[i].Value
		}
	}
	return nil
}

// Has reports whether the object n contains key.
func (n *Node) Has(key string) bool {
	return n.Get(key) != nil
}

// Keys returns the object keys in document order.
func (n *Node) Keys() []string {
	if !n.IsObject() {
		return nil
	}
	keys := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of items or fields, 0 for scalars.
func (n *Node) Len() int {
	switch {
	case n.IsObject():
		return len(n.Fields)
	case n.IsArray():
		return len(n.Items)
	default:
		return 0
	}
}

// Text returns the string value of a String node and "" otherwise.
func (n *Node) Text() string {
	if n.IsString() {
		return n.Scalar
	}
	return ""
}

// StringValue returns the string value and whether n is a String node.
func (n *Node) StringValue() (string, bool) {
	if n.IsString() {
		return n.Scalar, true
	}
	return "", false
}

// Float returns the numeric value of a Number node, also accepting numeric strings.
func (n *Node) Float() (float64, bool) {
	if n == nil {
		return 0, false
	}
	switch n.Kind {
	case KindNumber:
		return n.Num, true
	case KindString:
		f, err := strconv.ParseFloat(n.Scalar, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int returns the value of a Number node (or numeric string) as an integer,
// truncating any fractional part.
func (n *Node) Int() (int, bool) {
	f, ok := n.Float()
	if !ok || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}

// BoolValue returns the value of a Bool node.
func (n *Node) BoolValue() (bool, bool) {
	if n != nil && n.Kind == KindBool {
		return n.Bool, true
	}
	return false, false
}

// Strings returns the string items of an Array node, skipping non-strings.
func (n *Node) Strings() []string {
	if !n.IsArray() {
		return nil
	}
	out := make([]string, 0, len(n.Items))
	for _, item := range n.Items {
		if s, ok := item.StringValue(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Interface converts the tree into plain Go values: map[string]any, []any,
// string, float64, bool and nil. Key order is lost.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindBool:
		return n.Bool
	case KindNumber:
		return n.Num
	case KindString:
		return n.Scalar
	case KindArray:
		out := make([]any, len(n.Items))
		for i, item := range n.Items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			if _, dup := out[f.Key]; dup {
				continue
			}
			out[f.Key] = f.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the tree as JSON, preserving object key order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(n.Bool))
	case KindNumber:
		buf.WriteString(formatNumber(n.Num))
	case KindString:
		return writeJSONString(buf, n.Scalar)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, f.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("parser: cannot encode node kind %d", n.Kind)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
