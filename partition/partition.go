// Package partition splits OpenAPI documents that exceed an operation
// ceiling into one document per primary tag.
//
// Each partition is a new document sharing the source's openapi version,
// servers, components and security, with the info title suffixed by the
// group's tag and only the group's operations under paths. Groups appear in
// the order their tag is first met while scanning paths in document order
// and methods in parser.ToolMethods order, so numbering is stable across runs.
package partition

import (
	"fmt"

	"github.com/erraggy/oasmcp/oaserrors"
	"github.com/erraggy/oasmcp/parser"
)

const (
	// DefaultMaxOperations is the operation ceiling of one generation unit.
	DefaultMaxOperations = 100
	// DefaultTag groups operations without a usable first tag.
	DefaultTag = "default"
	// defaultVersion is used when the source declares no openapi field.
	defaultVersion = "3.0.0"
	// defaultTitle is used when the source info has no title.
	defaultTitle = "API"
)

// Partitioner splits documents. Create instances with New.
type Partitioner struct {
	// MaxOperations is the largest operation count left unsplit.
	MaxOperations int
	// Force splits by tag even when the document is under the ceiling.
	Force bool
}

// New creates a Partitioner with DefaultMaxOperations.
func New() *Partitioner {
	return &Partitioner{MaxOperations: DefaultMaxOperations}
}

// OperationRef identifies one operation by path template and lowercase method.
type OperationRef struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

// Group is the set of operations sharing a primary tag.
type Group struct {
	Tag        string         `json:"tag"`
	Operations []OperationRef `json:"operations"`
}

// Plan describes how a document will be split.
type Plan struct {
	// Split is false when the document is returned unchanged.
	Split bool `json:"split"`
	// Total is the number of tool operations in the document.
	Total int `json:"total"`
	// Untagged counts operations placed in the default group for lack of a tag.
	Untagged int     `json:"untagged"`
	Groups   []Group `json:"groups"`
}

// Plan computes the grouping of doc without building any document.
func (p *Partitioner) Plan(doc *parser.Document) (Plan, error) {
	if p.MaxOperations <= 0 {
		return Plan{}, &oaserrors.ConfigError{
			Option:  "max_operations",
			Value:   p.MaxOperations,
			Message: "must be positive",
		}
	}

	plan := Plan{Total: doc.OperationCount(parser.ToolMethods)}
	if plan.Total <= p.MaxOperations && !p.Force {
		return plan, nil
	}

	index := make(map[string]int)
	for _, entry := range doc.Paths {
		for _, method := range parser.ToolMethods {
			op := entry.Item.Operation(method)
			if op == nil {
				continue
			}
			tag := op.PrimaryTag()
			if tag == "" {
				tag = DefaultTag
				plan.Untagged++
			}
			i, ok := index[tag]
			if !ok {
				i = len(plan.Groups)
				index[tag] = i
				plan.Groups = append(plan.Groups, Group{Tag: tag})
			}
			plan.Groups[i].Operations = append(plan.Groups[i].Operations, OperationRef{Path: entry.Path, Method: method})
		}
	}
	plan.Split = len(plan.Groups) > 0
	return plan, nil
}

// Partition returns the documents to generate from doc. When no split is
// needed the result is exactly []*parser.Document{doc}.
func (p *Partitioner) Partition(doc *parser.Document) ([]*parser.Document, error) {
	docs, _, err := p.PartitionPlan(doc)
	return docs, err
}

// PartitionPlan is Partition that also returns the plan it followed.
func (p *Partitioner) PartitionPlan(doc *parser.Document) ([]*parser.Document, Plan, error) {
	plan, err := p.Plan(doc)
	if err != nil {
		return nil, Plan{}, fmt.Errorf("partition: %w", err)
	}
	if !plan.Split {
		return []*parser.Document{doc}, plan, nil
	}

	docs := make([]*parser.Document, 0, len(plan.Groups))
	for _, g := range plan.Groups {
		sub, err := build(doc, g)
		if err != nil {
			return nil, Plan{}, fmt.Errorf("partition: group %q: %w", g.Tag, err)
		}
		docs = append(docs, sub)
	}
	return docs, plan, nil
}

// build assembles the document of one group from the source tree.
func build(doc *parser.Document, g Group) (*parser.Document, error) {
	root := doc.Root

	version := root.Get("openapi")
	if version.IsNull() {
		version = parser.NewString(defaultVersion)
	}
	fields := []parser.Field{
		{Key: "openapi", Value: version},
		{Key: "info", Value: retitle(doc, g.Tag)},
	}
	if servers := root.Get("servers"); !servers.IsNull() {
		fields = append(fields, parser.Field{Key: "servers", Value: servers})
	}
	fields = append(fields, parser.Field{Key: "paths", Value: groupPaths(doc, g)})
	for _, key := range []string{"components", "security"} {
		if v := root.Get(key); !v.IsNull() {
			fields = append(fields, parser.Field{Key: key, Value: v})
		}
	}

	sub, err := parser.NewDocument(parser.NewObject(fields...), fmt.Sprintf("%s[%s]", doc.SourcePath, g.Tag))
	if err != nil {
		return nil, err
	}
	sub.SourceFormat = doc.SourceFormat
	return sub, nil
}

func retitle(doc *parser.Document, tag string) *parser.Node {
	title := doc.Info.Title
	if title == "" {
		title = defaultTitle
	}
	titleField := parser.Field{Key: "title", Value: parser.NewString(title + " - " + tag)}

	var fields []parser.Field
	replaced := false
	if info := doc.Info.Node; info.IsObject() {
		for _, f := range info.Fields {
			if f.Key == "title" {
				if !replaced {
					fields = append(fields, titleField)
					replaced = true
				}
				continue
			}
			fields = append(fields, f)
		}
	}
	if !replaced {
		fields = append([]parser.Field{titleField}, fields...)
	}
	return parser.NewObject(fields...)
}

// groupPaths keeps, for each path the group touches, the path-level fields
// and the group's operations.
func groupPaths(doc *parser.Document, g Group) *parser.Node {
	methods := make(map[string][]string)
	var order []string
	for _, ref := range g.Operations {
		if _, seen := methods[ref.Path]; !seen {
			order = append(order, ref.Path)
		}
		methods[ref.Path] = append(methods[ref.Path], ref.Method)
	}

	items := make(map[string]*parser.PathItem, len(doc.Paths))
	for _, entry := range doc.Paths {
		if _, dup := items[entry.Path]; !dup {
			items[entry.Path] = entry.Item
		}
	}

	fields := make([]parser.Field, 0, len(order))
	for _, path := range order {
		item := items[path]
		var itemFields []parser.Field
		if item.Node.IsObject() {
			for _, f := range item.Node.Fields {
				if !isMethod(f.Key) {
					itemFields = append(itemFields, f)
				}
			}
		}
		for _, m := range methods[path] {
			itemFields = append(itemFields, parser.Field{Key: m, Value: item.Operation(m).Node})
		}
		fields = append(fields, parser.Field{Key: path, Value: parser.NewObject(itemFields...)})
	}
	return parser.NewObject(fields...)
}

func isMethod(key string) bool {
	for _, m := range parser.PathItemMethods {
		if key == m {
			return true
		}
	}
	return false
}
