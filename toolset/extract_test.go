package toolset

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/erraggy/oasmcp/internal/issues"
	"github.com/erraggy/oasmcp/internal/naming"
	"github.com/erraggy/oasmcp/internal/testutil"
	"github.com/erraggy/oasmcp/parser"
)

func parse(t *testing.T, src string) *parser.Document {
	t.Helper()
	doc, err := parser.New().ParseBytes([]byte(src), "tools.yaml")
	require.NoError(t, err)
	require.Empty(t, doc.Warnings)
	return doc
}

func byName(t *testing.T, tools []Tool, name string) Tool {
	t.Helper()
	for _, tool := range tools {
		if tool.Name == name {
			return tool
		}
	}
	require.Failf(t, "tool not found", "no tool named %q", name)
	return Tool{}
}

const pullRequests = `
openapi: 3.0.3
info: {title: GitHub, version: '1'}
paths:
  /repos/{owner}/{repo}/pulls:
    post:
      operationId: createPullRequest
      summary: Create a pull request
      parameters:
        - {name: owner, in: path, required: true, schema: {type: string}}
        - {name: repo, in: path, required: true, schema: {type: string}}
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [title, head, base]
              properties:
                title: {type: string}
                head: {type: string}
                base: {type: string}
                draft: {type: boolean}
      responses:
        '201':
          description: created
          content:
            application/json:
              schema:
                type: object
                required: [number]
                properties:
                  number: {type: integer}
`

func TestExtractPullRequest(t *testing.T) {
	tools, found := New().Extract(parse(t, pullRequests))
	assert.Empty(t, found)
	require.Len(t, tools, 1)

	tool := tools[0]
	assert.Equal(t, "createPullRequest", tool.Name)
	assert.Equal(t, "POST", tool.Method)
	assert.Equal(t, "/repos/{owner}/{repo}/pulls", tool.Path)
	assert.Equal(t, "Create a pull request", tool.Description)
	assert.Equal(t, []string{"owner", "repo", "title", "head", "base"}, tool.InputSchema.Required)
	assert.Equal(t, []string{"owner", "repo", "title", "head", "base", "draft"}, tool.InputSchema.Names())
	assert.Equal(t, "{\n  number: number;\n}", tool.OutputType)

	data, err := json.Marshal(tool.InputSchema)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"type":"object","properties":{"owner":{"type":"string","description":""}`), string(data))
}

func TestExtractPetstore(t *testing.T) {
	doc := testutil.LoadPetstore(t)

	tools, found := New().Extract(doc)
	assert.Empty(t, found)

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"listPets", "createPet", "showPetById", "deletePets", "placeOrder"}, names)

	pet := "{\n  id: number;\n  name: string;\n  tag?: string;\n}"

	list := byName(t, tools, "listPets")
	assert.Equal(t, "GET", list.Method)
	assert.Empty(t, list.InputSchema.Required)
	limit, ok := list.InputSchema.Property("limit")
	require.True(t, ok)
	assert.Equal(t, []string{"type", "format", "description"}, limit.Keys())
	assert.Equal(t, "How many items to return at one time", limit.Get("description").Text())
	assert.Equal(t, "Array<"+pet+">", list.OutputType)

	create := byName(t, tools, "createPet")
	assert.Equal(t, []string{"name", "tag"}, create.InputSchema.Names())
	assert.Equal(t, []string{"name"}, create.InputSchema.Required)
	assert.Equal(t, "any", create.OutputType)

	show := byName(t, tools, "showPetById")
	assert.Equal(t, []string{"petId"}, show.InputSchema.Required)
	petID, _ := show.InputSchema.Property("petId")
	assert.Equal(t, "The id of the pet to retrieve", petID.Get("description").Text())
	assert.Equal(t, pet, show.OutputType)

	del := byName(t, tools, "deletePets")
	assert.Equal(t, "Remove a pet from the store", del.Description)
	assert.Equal(t, []string{"petId"}, del.InputSchema.Required)

	order := byName(t, tools, "placeOrder")
	assert.Equal(t, []string{"petId", "quantity"}, order.InputSchema.Names())
	assert.Equal(t, []string{"petId"}, order.InputSchema.Required)
}

func TestToolName(t *testing.T) {
	tests := []struct {
		method, path, operationID string
		want                      string
	}{
		{"post", "/repos/{owner}/{repo}/pulls", "", "createReposPulls"},
		{"get", "/{id}", "", "getResource"},
		{"get", "/", "", "getResource"},
		{"patch", "/user-profiles/{id}", "", "updateUserProfiles"},
		{"put", "/a/b/c", "", "updateBC"},
		{"delete", "/files/{path}", "", "deleteFiles"},
		{"get", "/x", "get_user-by id", "getUserById"},
		{"get", "/x", "{}", "getX"},
		{"get", "/x", "ListAllThings", "listAllThings"},
		{"get", "/x", strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" "+tt.operationID, func(t *testing.T) {
			assert.Equal(t, tt.want, ToolName(tt.method, tt.path, tt.operationID))
		})
	}
}

func TestExtractNameCollisions(t *testing.T) {
	src := `
openapi: 3.0.3
info: {title: Users, version: '1'}
paths:
  /users/{id}:
    get: {operationId: getUser, responses: {'200': {description: ok}}}
  /users/me:
    get: {operationId: getUser, responses: {'200': {description: ok}}}
  /accounts/{id}:
    get: {operationId: getUser, responses: {'200': {description: ok}}}
  /people/{id}:
    get: {operationId: get-user, responses: {'200': {description: ok}}}
`
	tools, found := New().Extract(parse(t, src))
	require.Len(t, tools, 4)

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"getUser", "getUserUsersMe", "getUserById", "getUser_2"}, names)

	require.Len(t, found, 3)
	assert.Equal(t, "paths./users/me.get", found[0].Path)
	assert.Contains(t, found[0].Message, "already used by GET /users/{id}")
	assert.True(t, strings.HasSuffix(found[2].Message, `renamed to "getUser_2"`))
}

func TestExtractCollisionRespectsLengthBound(t *testing.T) {
	long := strings.Repeat("x", 50)
	src := `
openapi: 3.0.3
info: {title: Long, version: '1'}
paths:
  /a/{first}:
    get: {operationId: ` + long + `, responses: {'200': {description: ok}}}
  /b/{second}:
    get: {operationId: ` + long + `, responses: {'200': {description: ok}}}
`
	tools, _ := New().Extract(parse(t, src))
	require.Len(t, tools, 2)
	assert.Equal(t, strings.Repeat("x", 42)+"BySecond", tools[1].Name)
}

func TestExtractInputSchema(t *testing.T) {
	src := `
openapi: 3.0.3
info: {title: Things, version: '1'}
paths:
  /things/{thingId}:
    parameters:
      - {name: verbose, in: query, description: path level, schema: {type: boolean}}
      - {name: trace, in: header}
    patch:
      parameters:
        - {name: verbose, in: query, description: operation level, schema: {type: string, description: from schema}}
        - {name: name, in: query, required: true, schema: {type: string}}
        - {name: since, in: query, schema: {type: string, description: from schema}}
      requestBody:
        content:
          application/merge-patch+json:
            schema:
              type: object
              required: [name, color]
              properties:
                name: {type: string, maxLength: 20}
                color: {$ref: '#/components/schemas/Color'}
      responses: {'204': {description: done}}
components:
  schemas:
    Color:
      type: string
      enum: [red, green]
`
	tools, found := New().Extract(parse(t, src))
	assert.Empty(t, found)
	require.Len(t, tools, 1)
	s := tools[0].InputSchema

	assert.Equal(t, []string{"verbose", "trace", "name", "since", "thingId", "color"}, s.Names())
	assert.Equal(t, []string{"name", "thingId", "color"}, s.Required)

	verbose, _ := s.Property("verbose")
	assert.Equal(t, "operation level", verbose.Get("description").Text())
	assert.Equal(t, "string", verbose.Get("type").Text())

	trace, _ := s.Property("trace")
	assert.Equal(t, "string", trace.Get("type").Text(), "schema-less parameters default to string")

	since, _ := s.Property("since")
	assert.Equal(t, "from schema", since.Get("description").Text())

	name, _ := s.Property("name")
	assert.True(t, name.Has("maxLength"), "body property replaces the query parameter")

	thing, _ := s.Property("thingId")
	assert.Equal(t, "Path parameter: thingId", thing.Get("description").Text())

	color, _ := s.Property("color")
	assert.Equal(t, []string{"red", "green"}, color.Get("enum").Strings(), "references are inlined")
	assert.Equal(t, "any", tools[0].OutputType)
}

func TestExtractBodyWarnings(t *testing.T) {
	src := `
openapi: 3.0.3
info: {title: Bodies, version: '1'}
paths:
  /list:
    post:
      requestBody:
        content:
          application/json:
            schema: {type: array, items: {type: string}}
      responses: {'200': {description: ok}}
  /upload:
    post:
      requestBody:
        content:
          application/octet-stream: {}
      responses: {'200': {description: ok}}
`
	tools, found := New().Extract(parse(t, src))
	require.Len(t, tools, 2)
	assert.Empty(t, tools[0].InputSchema.Properties)
	assert.Equal(t, []string{
		"request body is not a JSON object; omitted from input schema",
		"request body has no JSON schema; omitted from input schema",
	}, issues.Messages(found))
	assert.Equal(t, "paths./list.post.requestBody", found[0].Path)
}

func TestExtractDescriptions(t *testing.T) {
	long := strings.Repeat("word ", 200)
	src := `
openapi: 3.0.3
info: {title: Docs, version: '1'}
paths:
  /plain:
    get: {responses: {'200': {description: ok}}}
  /spaced:
    get:
      summary: "   "
      description: "  Fetch\n  the   thing  "
      responses: {'200': {description: ok}}
  /long:
    get:
      summary: "` + long + `"
      responses: {'200': {description: ok}}
`
	tools, _ := New().Extract(parse(t, src))
	require.Len(t, tools, 3)
	assert.Equal(t, "GET /plain", tools[0].Description)
	assert.Equal(t, "Fetch the thing", tools[1].Description)
	assert.Len(t, []rune(tools[2].Description), MaxDescriptionLength)

	for _, x := range []*Extractor{{}, {MaxDescriptionLength: -1}} {
		tools, _ := x.Extract(parse(t, src))
		require.Len(t, tools, 3)
		assert.Equal(t, "GET /plain", tools[0].Description)
		assert.Equal(t, "Fetch the thing", tools[1].Description)
		assert.Len(t, []rune(tools[2].Description), MaxDescriptionLength)
	}

	short := &Extractor{MaxDescriptionLength: 5}
	tools, _ = short.Extract(parse(t, src))
	assert.Equal(t, "GET /", tools[0].Description)
}

func TestExtractOutputTypeNotes(t *testing.T) {
	src := `
openapi: 3.1.0
info: {title: Notes, version: '1'}
paths:
  /mixed:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {}
        '202':
          description: accepted
          content:
            application/json:
              schema:
                allOf:
                  - {type: object, properties: {id: {type: string}}}
                  - {type: object, properties: {extra: {type: string}}}
`
	tools, found := New().Extract(parse(t, src))
	require.Len(t, tools, 1)
	assert.Equal(t, "{\n  id?: string;\n}", tools[0].OutputType, "empty 200 schema is skipped")
	require.Len(t, found, 1)
	assert.Equal(t, "paths./mixed.get.responses.202.schema.allOf", found[0].Path)
}

func TestExtractIgnoresOtherMethods(t *testing.T) {
	src := `
openapi: 3.0.3
info: {title: Methods, version: '1'}
paths:
  /x:
    options: {responses: {'200': {description: ok}}}
    head: {responses: {'200': {description: ok}}}
    delete: {responses: {'200': {description: ok}}}
    get: {responses: {'200': {description: ok}}}
`
	tools, _ := New().Extract(parse(t, src))
	require.Len(t, tools, 2)
	assert.Equal(t, "GET", tools[0].Method)
	assert.Equal(t, "DELETE", tools[1].Method)
}

func TestExtractWithoutRefResolution(t *testing.T) {
	doc := testutil.LoadPetstore(t)

	e := New()
	e.ResolveRefs = false
	tools, found := e.Extract(doc)
	create := byName(t, tools, "createPet")
	assert.Empty(t, create.InputSchema.Properties)
	assert.Equal(t, "any", byName(t, tools, "showPetById").OutputType)
	assert.NotEmpty(t, found)
}

func TestExtractNamesUniqueProperty(t *testing.T) {
	ids := []string{"list", "list-items", "listItems", "get_item", "", strings.Repeat("a", 60)}
	methods := []string{"get", "post", "put", "patch", "delete"}
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "operations")
		var src strings.Builder
		src.WriteString("openapi: 3.0.3\ninfo: {title: Prop, version: '1'}\npaths:\n")
		for i := range n {
			fmt.Fprintf(&src, "  /items/p%d/{id}:\n", i)
			m := rapid.SampledFrom(methods).Draw(t, "method")
			id := rapid.SampledFrom(ids).Draw(t, "operationId")
			if id == "" {
				fmt.Fprintf(&src, "    %s: {responses: {'200': {description: ok}}}\n", m)
			} else {
				fmt.Fprintf(&src, "    %s: {operationId: %s, responses: {'200': {description: ok}}}\n", m, id)
			}
		}
		doc, err := parser.New().ParseBytes([]byte(src.String()), "prop.yaml")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		tools, _ := New().Extract(doc)
		if len(tools) != n {
			t.Fatalf("got %d tools for %d operations", len(tools), n)
		}
		seen := make(map[string]bool, len(tools))
		for _, tool := range tools {
			if seen[tool.Name] {
				t.Fatalf("duplicate tool name %q", tool.Name)
			}
			seen[tool.Name] = true
			if utf8.RuneCountInString(tool.Name) > naming.MaxToolNameLength {
				t.Fatalf("name %q exceeds the length bound", tool.Name)
			}
		}
	})
}
