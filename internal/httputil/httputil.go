// Package httputil provides the HTTP status-code and media-type rules shared
// by the parser, validator and extractors.
package httputil

import (
	"mime"
	"strconv"
	"strings"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")
)

// SuccessStatusCodes are the response codes probed, in order, for a tool's
// output type.
var SuccessStatusCodes = []string{"200", "201", "202", "204"}

// ValidateStatusCode checks if a response key is valid in an OpenAPI
// responses object. Valid values are:
//   - "default" for default response
//   - Extension fields starting with "x-"
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidateStatusCode(code string) bool {
	if code == "default" || strings.HasPrefix(code, "x-") {
		return true
	}
	if len(code) != StatusCodeLength {
		return false
	}
	if code[1] == WildcardChar && code[2] == WildcardChar {
		return code[0] >= '1' && code[0] <= '5'
	}
	n, err := strconv.Atoi(code)
	return err == nil && code[0] != '-' && code[0] != '+' && n >= MinStatusCode && n <= MaxStatusCode
}

// IsSuccessStatus reports whether a response key is a 2xx code or the 2XX range.
func IsSuccessStatus(code string) bool {
	return len(code) == StatusCodeLength && code[0] == '2' && ValidateStatusCode(code)
}

// MediaType returns the lowercase media type of a Content-Type value or
// content map key, without parameters.
func MediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// IsJSONMediaType reports whether a media type is application/json or a
// structured-syntax JSON type such as application/problem+json.
func IsJSONMediaType(mediaType string) bool {
	mt := MediaType(mediaType)
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
