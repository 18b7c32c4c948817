package parser

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/erraggy/oasmcp/internal/pathutil"
	"github.com/erraggy/oasmcp/oaserrors"
)

// maxRefHops bounds $ref chains (a $ref whose target is itself a $ref).
const maxRefHops = 32

// Lookup resolves a local JSON pointer reference ("#/components/schemas/Pet")
// against the document root. External references are not supported.
func (d *Document) Lookup(ref string) (*Node, error) {
	return lookupPointer(d.Root, ref)
}

func lookupPointer(root *Node, ref string) (*Node, error) {
	if ref == "#" {
		return root, nil
	}
	if !strings.HasPrefix(ref, "#/") {
		return nil, &oaserrors.ReferenceError{Ref: ref, Message: "only local references are supported"}
	}

	cur := root
	for _, token := range strings.Split(ref[2:], "/") {
		if unescaped, err := url.PathUnescape(token); err == nil {
			token = unescaped
		}
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")

		switch {
		case cur.IsObject():
			cur = cur.Get(token)
		case cur.IsArray():
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= len(cur.Items) {
				return nil, &oaserrors.ReferenceError{Ref: ref, Message: "index " + token + " out of range"}
			}
			cur = cur.Items[idx]
		default:
			cur = nil
		}
		if cur == nil {
			return nil, &oaserrors.ReferenceError{Ref: ref, Message: "target not found"}
		}
	}
	return cur, nil
}

// derefNode follows a $ref chain starting at n and returns the first node that is
// not a reference. Non-reference nodes are returned unchanged.
func derefNode(root, n *Node) (*Node, error) {
	seen := make(map[string]bool)
	for hops := 0; n.IsObject(); hops++ {
		ref, ok := n.Get("$ref").StringValue()
		if !ok {
			return n, nil
		}
		if seen[ref] || hops >= maxRefHops {
			return nil, &oaserrors.ReferenceError{Ref: ref, IsCircular: true}
		}
		seen[ref] = true

		target, err := lookupPointer(root, ref)
		if err != nil {
			return nil, err
		}
		n = target
	}
	return n, nil
}

// Deref follows a $ref chain starting at n.
func (d *Document) Deref(n *Node) (*Node, error) {
	return derefNode(d.Root, n)
}

// ResolveSchema follows s's $ref chain and returns the referenced schema.
// Schemas without a reference are returned unchanged. It returns nil when the
// reference cannot be resolved or the chain loops back on itself.
func (d *Document) ResolveSchema(s *Schema) *Schema {
	seen := make(map[string]bool)
	for s != nil && s.Ref != "" {
		if seen[s.Ref] || len(seen) >= maxRefHops {
			return nil
		}
		seen[s.Ref] = true
		s = d.schemaForRef(s.Ref)
	}
	return s
}

func (d *Document) schemaForRef(ref string) *Schema {
	if name, ok := pathutil.SchemaName(ref); ok {
		if s, found := d.schemaIndex[name]; found {
			return s
		}
	}
	n, err := d.Lookup(ref)
	if err != nil {
		return nil
	}
	return DecodeSchema(n)
}
