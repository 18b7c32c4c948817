// Package naming provides the identifier transformations used to turn
// OpenAPI operation identifiers, paths and titles into tool and unit names.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxToolNameLength bounds sanitized tool names, in runes.
const MaxToolNameLength = 50

// strippedChars are removed from operation identifiers before camel-joining.
const strippedChars = "{}/()[]"

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, whitespace) trigger capitalization of the next letter.
// Example: "user_profile" -> "UserProfile"
// Example: "pull-requests" -> "PullRequests"
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}
	var result strings.Builder
	capitalizeNext := true
	for _, r := range s {
		if r == '_' || r == '-' || r == '.' || r == '/' || unicode.IsSpace(r) {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ToCamelCase converts a string to camelCase.
// Like PascalCase but with the first letter lowercase.
// Example: "user_profile" -> "userProfile"
func ToCamelCase(s string) string {
	return lowerFirst(ToPascalCase(s))
}

// SanitizeToolName normalizes an operation identifier into a tool name.
//
// Path-template punctuation ({}/()[]) is dropped, the remaining text is split
// on hyphens, underscores and whitespace, and the parts are camel-joined with
// the first part's leading letter lowered. The result is truncated to
// MaxToolNameLength runes. SanitizeToolName is idempotent.
//
// Example: "createPullRequest" -> "createPullRequest"
// Example: "get_user-by id" -> "getUserById"
// Example: "Users.{id}.get" -> "users.id.get"
func SanitizeToolName(name string) string {
	runes := make([]rune, 0, len(name))
	for _, r := range name {
		if strings.ContainsRune(strippedChars, r) {
			continue
		}
		runes = append(runes, r)
	}

	parts := strings.FieldsFunc(string(runes), isNameSeparator)
	if len(parts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(lowerFirst(parts[0]))
	for _, p := range parts[1:] {
		b.WriteString(upperFirst(p))
	}
	return Truncate(b.String(), MaxToolNameLength)
}

// SlugFallback is the unit name of titles that leave no usable segment.
const SlugFallback = "api"

// Slug converts a display title into a unit name: lowercased, with runs of
// whitespace and slashes replaced by a single hyphen. Segments made only of
// dots are dropped, so the result is always a single path element.
// Example: "GitHub REST API" -> "github-rest-api"
func Slug(title string) string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '\\'
	})
	kept := fields[:0]
	for _, f := range fields {
		if strings.Trim(f, ".") != "" {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return SlugFallback
	}
	return strings.Join(kept, "-")
}

// Truncate returns s cut to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func isNameSeparator(r rune) bool {
	return r == '-' || r == '_' || unicode.IsSpace(r)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	lower := unicode.ToLower(r)
	if lower == r {
		return s
	}
	return string(lower) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return s
	}
	return string(upper) + s[size:]
}
