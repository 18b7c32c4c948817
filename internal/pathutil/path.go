package pathutil

import "regexp"

// PathParamRegex matches path template parameters like {paramName}.
// It captures the parameter name inside the braces.
var PathParamRegex = regexp.MustCompile(`\{([^{}/]+)\}`)

// TemplateParams returns the parameter names of a path template in order of
// appearance.
func TemplateParams(path string) []string {
	matches := PathParamRegex.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m[1]
	}
	return names
}

// PathItem returns the issue path of a path item, "paths./pets".
func PathItem(path string) string {
	return "paths." + path
}

// Operation returns the issue path of an operation, "paths./pets.get".
func Operation(path, method string) string {
	return PathItem(path) + "." + method
}

// Join appends elem to an issue path. An empty base yields elem.
func Join(base, elem string) string {
	if base == "" {
		return elem
	}
	return base + "." + elem
}
