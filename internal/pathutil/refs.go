package pathutil

import "strings"

// Local reference prefixes of reusable components.
const (
	RefPrefixSchemas         = "#/components/schemas/"
	RefPrefixParameters      = "#/components/parameters/"
	RefPrefixResponses       = "#/components/responses/"
	RefPrefixRequestBodies   = "#/components/requestBodies/"
	RefPrefixHeaders         = "#/components/headers/"
	RefPrefixSecuritySchemes = "#/components/securitySchemes/"
)

// SchemaRef builds "#/components/schemas/{name}".
func SchemaRef(name string) string {
	return RefPrefixSchemas + name
}

// ParameterRef builds "#/components/parameters/{name}".
func ParameterRef(name string) string {
	return RefPrefixParameters + name
}

// ResponseRef builds "#/components/responses/{name}".
func ResponseRef(name string) string {
	return RefPrefixResponses + name
}

// RequestBodyRef builds "#/components/requestBodies/{name}".
func RequestBodyRef(name string) string {
	return RefPrefixRequestBodies + name
}

// HeaderRef builds "#/components/headers/{name}".
func HeaderRef(name string) string {
	return RefPrefixHeaders + name
}

// SecuritySchemeRef builds "#/components/securitySchemes/{name}".
func SecuritySchemeRef(name string) string {
	return RefPrefixSecuritySchemes + name
}

// SchemaName returns the component name of a direct schema reference.
// Deeper pointers such as "#/components/schemas/Pet/properties/id" report false.
func SchemaName(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, RefPrefixSchemas)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
