package parser

import (
	"fmt"

	"github.com/erraggy/oasmcp/internal/pathutil"
	"github.com/erraggy/oasmcp/oaserrors"
)

// NewDocument builds the typed view of a decoded tree. The tree must be an
// object. Local references on parameters, request bodies, responses, headers
// and security schemes are followed while decoding; schema references are
// kept and resolved on demand through ResolveSchema.
func NewDocument(root *Node, source string) (*Document, error) {
	if !root.IsObject() {
		kind := "null"
		if root != nil {
			kind = root.Kind.String()
		}
		return nil, &oaserrors.ParseError{Path: source, Message: fmt.Sprintf("document root must be an object, got %s", kind)}
	}

	d := &Document{
		OpenAPI:    root.Get("openapi").Text(),
		Root:       root,
		SourcePath: source,
		Security:   root.Get("security"),
	}
	if v, ok := root.Get("openapi").Float(); ok && d.OpenAPI == "" {
		// Unquoted YAML versions such as `openapi: 3.0` decode as numbers.
		d.OpenAPI = formatNumber(v)
	}

	info := root.Get("info")
	d.Info = Info{
		Title:       info.Get("title").Text(),
		Description: info.Get("description").Text(),
		Version:     scalarText(info.Get("version")),
		Node:        info,
	}

	if servers := root.Get("servers"); servers.IsArray() {
		for _, s := range servers.Items {
			if !s.IsObject() {
				continue
			}
			d.Servers = append(d.Servers, Server{URL: s.Get("url").Text(), Description: s.Get("description").Text()})
		}
	}

	d.decodeComponents(root.Get("components"))

	if paths := root.Get("paths"); paths.IsObject() {
		d.Paths = make([]PathEntry, 0, len(paths.Fields))
		for _, f := range paths.Fields {
			item := d.decodePathItem(f.Key, f.Value)
			if item == nil {
				continue
			}
			d.Paths = append(d.Paths, PathEntry{Path: f.Key, Item: item})
		}
	}
	return d, nil
}

func scalarText(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindString, KindNumber:
		return n.Scalar
	case KindBool:
		return fmt.Sprint(n.Bool)
	default:
		return ""
	}
}

func (d *Document) warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// resolve follows a $ref on n, recording a warning and returning nil when
// the reference is broken.
func (d *Document) resolve(at string, n *Node) *Node {
	target, err := derefNode(d.Root, n)
	if err != nil {
		d.warnf("%s: %v", at, err)
		return nil
	}
	return target
}

func (d *Document) decodeComponents(n *Node) {
	d.Components.Node = n
	d.schemaIndex = make(map[string]*Schema)

	if schemas := n.Get("schemas"); schemas.IsObject() {
		for _, f := range schemas.Fields {
			s := DecodeSchema(f.Value)
			if s == nil {
				continue
			}
			d.Components.Schemas = append(d.Components.Schemas, NamedSchema{Name: f.Key, Schema: s})
			if _, dup := d.schemaIndex[f.Key]; !dup {
				d.schemaIndex[f.Key] = s
			}
		}
	}

	if schemes := n.Get("securitySchemes"); schemes.IsObject() {
		for _, f := range schemes.Fields {
			raw := d.resolve("components.securitySchemes."+f.Key, f.Value)
			if !raw.IsObject() {
				continue
			}
			d.Components.SecuritySchemes = append(d.Components.SecuritySchemes, NamedSecurityScheme{
				Name:   f.Key,
				Scheme: decodeSecurityScheme(raw),
			})
		}
	}
}

func decodeSecurityScheme(n *Node) *SecurityScheme {
	s := &SecurityScheme{
		Type:         n.Get("type").Text(),
		Description:  n.Get("description").Text(),
		Name:         n.Get("name").Text(),
		In:           n.Get("in").Text(),
		Scheme:       n.Get("scheme").Text(),
		BearerFormat: n.Get("bearerFormat").Text(),
	}
	if flows := n.Get("flows"); flows.IsObject() {
		s.Flows = &OAuthFlows{
			Implicit:          decodeFlow(flows.Get("implicit")),
			Password:          decodeFlow(flows.Get("password")),
			ClientCredentials: decodeFlow(flows.Get("clientCredentials")),
			AuthorizationCode: decodeFlow(flows.Get("authorizationCode")),
		}
	}
	return s
}

func decodeFlow(n *Node) *OAuthFlow {
	if !n.IsObject() {
		return nil
	}
	f := &OAuthFlow{
		AuthorizationURL: n.Get("authorizationUrl").Text(),
		TokenURL:         n.Get("tokenUrl").Text(),
		RefreshURL:       n.Get("refreshUrl").Text(),
	}
	if scopes := n.Get("scopes"); scopes.IsObject() {
		f.Scopes = make([]Scope, 0, len(scopes.Fields))
		for _, s := range scopes.Fields {
			f.Scopes = append(f.Scopes, Scope{Name: s.Key, Description: scalarText(s.Value)})
		}
	}
	return f
}

func (d *Document) decodePathItem(path string, n *Node) *PathItem {
	at := pathutil.PathItem(path)
	n = d.resolve(at, n)
	if !n.IsObject() {
		return nil
	}
	item := &PathItem{
		Summary:     n.Get("summary").Text(),
		Description: n.Get("description").Text(),
		Parameters:  d.decodeParameters(at, n.Get("parameters")),
		Node:        n,
	}
	for _, method := range PathItemMethods {
		opNode := n.Get(method)
		if !opNode.IsObject() {
			continue
		}
		item.setOperation(method, d.decodeOperation(at+"."+method, opNode))
	}
	return item
}

func (d *Document) decodeOperation(at string, n *Node) *Operation {
	op := &Operation{
		OperationID: n.Get("operationId").Text(),
		Summary:     n.Get("summary").Text(),
		Description: n.Get("description").Text(),
		Tags:        n.Get("tags").Strings(),
		Parameters:  d.decodeParameters(at, n.Get("parameters")),
		Node:        n,
	}
	op.Deprecated, _ = n.Get("deprecated").BoolValue()

	if rb := n.Get("requestBody"); rb != nil {
		if body := d.resolve(at+".requestBody", rb); body.IsObject() {
			op.RequestBody = &RequestBody{
				Description: body.Get("description").Text(),
				Content:     decodeContent(body.Get("content")),
			}
			op.RequestBody.Required, _ = body.Get("required").BoolValue()
		}
	}

	if responses := n.Get("responses"); responses.IsObject() {
		op.Responses = make([]ResponseEntry, 0, len(responses.Fields))
		for _, f := range responses.Fields {
			raw := d.resolve(at+".responses."+f.Key, f.Value)
			if !raw.IsObject() {
				continue
			}
			op.Responses = append(op.Responses, ResponseEntry{
				Code:     f.Key,
				Response: d.decodeResponse(at+".responses."+f.Key, raw),
			})
		}
	}
	return op
}

func (d *Document) decodeParameters(at string, n *Node) []*Parameter {
	if !n.IsArray() {
		return nil
	}
	params := make([]*Parameter, 0, len(n.Items))
	for i, item := range n.Items {
		raw := d.resolve(fmt.Sprintf("%s.parameters[%d]", at, i), item)
		if !raw.IsObject() {
			continue
		}
		p := &Parameter{
			Name:        scalarText(raw.Get("name")),
			In:          raw.Get("in").Text(),
			Description: raw.Get("description").Text(),
			Schema:      DecodeSchema(raw.Get("schema")),
			Node:        raw,
		}
		p.Required, _ = raw.Get("required").BoolValue()
		p.Deprecated, _ = raw.Get("deprecated").BoolValue()
		params = append(params, p)
	}
	return params
}

func (d *Document) decodeResponse(at string, n *Node) *Response {
	r := &Response{
		Description: n.Get("description").Text(),
		Content:     decodeContent(n.Get("content")),
	}
	if headers := n.Get("headers"); headers.IsObject() {
		r.Headers = make([]HeaderEntry, 0, len(headers.Fields))
		for _, f := range headers.Fields {
			raw := d.resolve(at+".headers."+f.Key, f.Value)
			if !raw.IsObject() {
				continue
			}
			r.Headers = append(r.Headers, HeaderEntry{
				Name: f.Key,
				Header: &Header{
					Description: raw.Get("description").Text(),
					Schema:      DecodeSchema(raw.Get("schema")),
				},
			})
		}
	}
	return r
}

func decodeContent(n *Node) []MediaTypeEntry {
	if !n.IsObject() {
		return nil
	}
	out := make([]MediaTypeEntry, 0, len(n.Fields))
	for _, f := range n.Fields {
		mt := &MediaType{}
		if f.Value.IsObject() {
			mt.Schema = DecodeSchema(f.Value.Get("schema"))
		}
		out = append(out, MediaTypeEntry{Type: f.Key, Media: mt})
	}
	return out
}
