package parser

// Schema is the typed view of a JSON Schema fragment.
//
// References are kept as written; use Document.ResolveSchema to follow them.
// Node retains the raw fragment so callers can re-emit it unchanged.
type Schema struct {
	Ref         string
	Types       []string
	Nullable    bool
	Format      string
	Description string
	Properties  []Property
	Required    []string
	Items       *Schema
	// AdditionalProperties is set only when the keyword holds a schema.
	AdditionalProperties *Schema
	Enum                 []*Node
	OneOf                []*Schema
	AnyOf                []*Schema
	AllOf                []*Schema
	Node                 *Node
}

// Property is one named entry of a schema's properties.
type Property struct {
	Name   string
	Schema *Schema
}

// Type returns the first declared non-null type, or "" when none is declared.
func (s *Schema) Type() string {
	if s == nil {
		return ""
	}
	for _, t := range s.Types {
		if t != "null" {
			return t
		}
	}
	if len(s.Types) > 0 {
		return "null"
	}
	return ""
}

// NonNullTypes returns the declared types other than "null", in order.
func (s *Schema) NonNullTypes() []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, t := range s.Types {
		if t != "null" {
			out = append(out, t)
		}
	}
	return out
}

// HasType reports whether t is among the declared types.
func (s *Schema) HasType(t string) bool {
	if s == nil {
		return false
	}
	for _, declared := range s.Types {
		if declared == t {
			return true
		}
	}
	return false
}

// AllowsNull reports whether the schema admits null in addition to its
// primary type, either through OAS 3.0 nullable or an OAS 3.1 type array.
func (s *Schema) AllowsNull() bool {
	if s == nil {
		return false
	}
	if s.Nullable {
		return true
	}
	return len(s.Types) > 1 && s.HasType("null")
}

// Property returns the named property schema, or nil.
func (s *Schema) Property(name string) *Schema {
	if s == nil {
		return nil
	}
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// IsRequired reports whether name is listed in required.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// DecodeSchema builds the typed view of a schema node. It returns nil for
// nodes that are not objects.
func DecodeSchema(n *Node) *Schema {
	if !n.IsObject() {
		return nil
	}
	s := &Schema{
		Ref:         n.Get("$ref").Text(),
		Format:      n.Get("format").Text(),
		Description: n.Get("description").Text(),
		Node:        n,
	}
	s.Nullable, _ = n.Get("nullable").BoolValue()

	switch t := n.Get("type"); {
	case t.IsString():
		s.Types = []string{t.Scalar}
	case t.IsArray():
		s.Types = t.Strings()
	}

	if props := n.Get("properties"); props.IsObject() {
		s.Properties = make([]Property, 0, len(props.Fields))
		for _, f := range props.Fields {
			if child := DecodeSchema(f.Value); child != nil {
				s.Properties = append(s.Properties, Property{Name: f.Key, Schema: child})
			}
		}
	}
	s.Required = n.Get("required").Strings()

	switch items := n.Get("items"); {
	case items.IsObject():
		s.Items = DecodeSchema(items)
	case items.IsArray() && len(items.Items) > 0:
		s.Items = DecodeSchema(items.Items[0])
	}
	s.AdditionalProperties = DecodeSchema(n.Get("additionalProperties"))

	if enum := n.Get("enum"); enum.IsArray() {
		s.Enum = enum.Items
	}
	s.OneOf = decodeSchemaList(n.Get("oneOf"))
	s.AnyOf = decodeSchemaList(n.Get("anyOf"))
	s.AllOf = decodeSchemaList(n.Get("allOf"))
	return s
}

func decodeSchemaList(n *Node) []*Schema {
	if !n.IsArray() {
		return nil
	}
	out := make([]*Schema, 0, len(n.Items))
	for _, item := range n.Items {
		if s := DecodeSchema(item); s != nil {
			out = append(out, s)
		}
	}
	return out
}
