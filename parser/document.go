package parser

import "github.com/erraggy/oasmcp/internal/httputil"

// HTTP methods in the order they are declared on an OpenAPI path item.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

// PathItemMethods lists every operation field of a path item.
var PathItemMethods = []string{
	MethodGet, MethodPut, MethodPost, MethodDelete,
	MethodOptions, MethodHead, MethodPatch, MethodTrace,
}

// ToolMethods lists the methods that become tools, in extraction order.
// Operations under other methods are ignored by every generation stage.
var ToolMethods = []string{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}

// Document is the typed, read-only view of an OpenAPI 3.x document.
//
// All ordered collections (paths, responses, properties, security schemes,
// scopes) preserve source order. Root keeps the full tree, including fields
// the typed view does not model.
type Document struct {
	OpenAPI    string
	Info       Info
	Servers    []Server
	Paths      []PathEntry
	Components Components
	// Security is the raw top-level security requirement list (nil if absent).
	Security *Node
	// Root is the decoded source tree.
	Root *Node
	// SourcePath is the file path or URL the document was loaded from.
	SourcePath string
	// SourceFormat is the detected serialization.
	SourceFormat SourceFormat
	// Warnings are non-fatal problems found while decoding, such as
	// references that could not be resolved.
	Warnings []string

	schemaIndex map[string]*Schema
}

// Info is the document info object.
type Info struct {
	Title       string
	Description string
	Version     string
	// Node is the raw info object, used for vendor extensions.
	Node *Node
}

// Extension returns the vendor extension value for name (e.g., "x-ratelimit-limit").
func (i Info) Extension(name string) *Node {
	return i.Node.Get(name)
}

// Server is one entry of the servers list.
type Server struct {
	URL         string
	Description string
}

// PathEntry pairs a path template with its item.
type PathEntry struct {
	Path string
	Item *PathItem
}

// PathItem describes the operations available on a single path.
type PathItem struct {
	Summary     string
	Description string
	Parameters  []*Parameter
	Get         *Operation
	Put         *Operation
	Post        *Operation
	Delete      *Operation
	Options     *Operation
	Head        *Operation
	Patch       *Operation
	Trace       *Operation
	Node        *Node
}

// Operation returns the operation for a lowercase method name, or nil.
func (p *PathItem) Operation(method string) *Operation {
	if p == nil {
		return nil
	}
	switch method {
	case MethodGet:
		return p.Get
	case MethodPut:
		return p.Put
	case MethodPost:
		return p.Post
	case MethodDelete:
		return p.Delete
	case MethodOptions:
		return p.Options
	case MethodHead:
		return p.Head
	case MethodPatch:
		return p.Patch
	case MethodTrace:
		return p.Trace
	default:
		return nil
	}
}

func (p *PathItem) setOperation(method string, op *Operation) {
	switch method {
	case MethodGet:
		p.Get = op
	case MethodPut:
		p.Put = op
	case MethodPost:
		p.Post = op
	case MethodDelete:
		p.Delete = op
	case MethodOptions:
		p.Options = op
	case MethodHead:
		p.Head = op
	case MethodPatch:
		p.Patch = op
	case MethodTrace:
		p.Trace = op
	}
}

// Operation is a single API operation on a path.
type Operation struct {
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Parameters  []*Parameter
	RequestBody *RequestBody
	Responses   []ResponseEntry
	Deprecated  bool
	Node        *Node
}

// PrimaryTag returns the first declared tag, or "" when the operation is untagged.
func (o *Operation) PrimaryTag() string {
	if o == nil || len(o.Tags) == 0 {
		return ""
	}
	return o.Tags[0]
}

// Response returns the response declared for a status code, or nil.
func (o *Operation) Response(code string) *Response {
	if o == nil {
		return nil
	}
	for _, r := range o.Responses {
		if r.Code == code {
			return r.Response
		}
	}
	return nil
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string
	In          string
	Description string
	Required    bool
	Deprecated  bool
	Schema      *Schema
	Node        *Node
}

// RequestBody describes an operation request body.
type RequestBody struct {
	Description string
	Required    bool
	Content     []MediaTypeEntry
}

// MediaTypeEntry pairs a media type name with its definition.
type MediaTypeEntry struct {
	Type  string
	Media *MediaType
}

// MediaType describes one media type of a body.
type MediaType struct {
	Schema *Schema
}

// ResponseEntry pairs a status code (or "default") with its response.
type ResponseEntry struct {
	Code     string
	Response *Response
}

// Response describes a single operation response.
type Response struct {
	Description string
	Headers     []HeaderEntry
	Content     []MediaTypeEntry
}

// HeaderEntry pairs a header name with its definition.
type HeaderEntry struct {
	Name   string
	Header *Header
}

// Header describes a response header.
type Header struct {
	Description string
	Schema      *Schema
}

// Components holds the reusable objects of a document.
type Components struct {
	Schemas         []NamedSchema
	SecuritySchemes []NamedSecurityScheme
	// Node is the raw components object.
	Node *Node
}

// NamedSchema pairs a component schema name with its schema.
type NamedSchema struct {
	Name   string
	Schema *Schema
}

// NamedSecurityScheme pairs a security scheme name with its definition.
type NamedSecurityScheme struct {
	Name   string
	Scheme *SecurityScheme
}

// SecurityScheme describes one declared security scheme.
type SecurityScheme struct {
	Type         string
	Description  string
	Name         string
	In           string
	Scheme       string
	BearerFormat string
	Flows        *OAuthFlows
}

// OAuthFlows holds the flows of an oauth2 security scheme.
type OAuthFlows struct {
	Implicit          *OAuthFlow
	Password          *OAuthFlow
	ClientCredentials *OAuthFlow
	AuthorizationCode *OAuthFlow
}

// Flow returns the flow for its OpenAPI field name, or nil.
func (f *OAuthFlows) Flow(name string) *OAuthFlow {
	if f == nil {
		return nil
	}
	switch name {
	case "implicit":
		return f.Implicit
	case "password":
		return f.Password
	case "clientCredentials":
		return f.ClientCredentials
	case "authorizationCode":
		return f.AuthorizationCode
	default:
		return nil
	}
}

// OAuthFlow is the configuration of a single OAuth2 flow.
type OAuthFlow struct {
	AuthorizationURL string
	TokenURL         string
	RefreshURL       string
	Scopes           []Scope
}

// Scope is one OAuth2 scope and its description.
type Scope struct {
	Name        string
	Description string
}

// OperationCount counts the operations whose method is in methods.
func (d *Document) OperationCount(methods []string) int {
	count := 0
	for _, p := range d.Paths {
		for _, m := range methods {
			if p.Item.Operation(m) != nil {
				count++
			}
		}
	}
	return count
}

// SchemaByName returns the component schema with the given name.
func (d *Document) SchemaByName(name string) (*Schema, bool) {
	s, ok := d.schemaIndex[name]
	return s, ok
}

// ServerURL returns the URL of the first server, or "".
func (d *Document) ServerURL() string {
	if len(d.Servers) == 0 {
		return ""
	}
	return d.Servers[0].URL
}

// JSONMedia returns the JSON media type of a content map: application/json
// when declared, otherwise the first structured-syntax JSON type such as
// application/problem+json. It returns nil when no JSON type is declared.
func JSONMedia(content []MediaTypeEntry) *MediaType {
	var fallback *MediaType
	for _, c := range content {
		if !httputil.IsJSONMediaType(c.Type) {
			continue
		}
		if httputil.MediaType(c.Type) == "application/json" {
			return c.Media
		}
		if fallback == nil {
			fallback = c.Media
		}
	}
	return fallback
}
