// Package ratelimit derives the request budget a generated adapter should
// enforce from an OpenAPI document.
//
// Explicit limits come from the info-level vendor extensions
// x-ratelimit-limit (per minute) and x-ratelimit-limit-hour. Rate-limit
// response headers only signal that the API throttles; they carry no usable
// numbers at description time, so their presence yields the default profile.
package ratelimit

import (
	"math"
	"strings"

	"golang.org/x/time/rate"

	"github.com/erraggy/oasmcp/internal/httputil"
	"github.com/erraggy/oasmcp/parser"
)

const (
	// ExtensionPerMinute is the info extension holding the per-minute limit.
	ExtensionPerMinute = "x-ratelimit-limit"
	// ExtensionPerHour is the info extension holding the per-hour limit.
	ExtensionPerHour = "x-ratelimit-limit-hour"
)

// DefaultHeaders are the response header names recognized as rate-limit signals.
var DefaultHeaders = []string{"X-RateLimit-Limit", "RateLimit-Limit", "X-Rate-Limit-Limit"}

// Profile is the request budget of one generation unit.
type Profile struct {
	RequestsPerMinute int `json:"requests_per_minute"`
	RequestsPerHour   int `json:"requests_per_hour"`
	Burst             int `json:"burst"`
}

// DefaultProfile returns the profile used when a document gives no numbers.
func DefaultProfile() Profile {
	return Profile{RequestsPerMinute: 60, RequestsPerHour: 1000, Burst: 10}
}

// Limiter returns a token bucket enforcing the tighter of the per-minute and
// per-hour rates. Non-positive rates are ignored; a profile with neither
// allows every request.
func (p Profile) Limiter() *rate.Limiter {
	perSecond := math.Inf(1)
	if p.RequestsPerMinute > 0 {
		perSecond = float64(p.RequestsPerMinute) / 60
	}
	if p.RequestsPerHour > 0 {
		perSecond = math.Min(perSecond, float64(p.RequestsPerHour)/3600)
	}
	if math.IsInf(perSecond, 1) {
		return rate.NewLimiter(rate.Inf, max(p.Burst, 1))
	}
	return rate.NewLimiter(rate.Limit(perSecond), max(p.Burst, 1))
}

// Extractor finds rate-limit signals. The zero value is not usable; use New.
type Extractor struct {
	defaults Profile
	headers  []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDefault replaces the profile returned when no explicit limit is declared.
func WithDefault(p Profile) Option {
	return func(e *Extractor) { e.defaults = p }
}

// WithHeaders replaces the recognized header names. Matching is case-insensitive.
func WithHeaders(names ...string) Option {
	return func(e *Extractor) { e.headers = append([]string(nil), names...) }
}

// New creates an Extractor with DefaultProfile and DefaultHeaders.
func New(opts ...Option) *Extractor {
	e := &Extractor{defaults: DefaultProfile(), headers: DefaultHeaders}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Default returns the profile used when a document declares no numbers.
func (e *Extractor) Default() Profile {
	return e.defaults
}

// Extract returns the document's profile. The boolean reports whether any
// signal was found; when false the profile is the default.
//
// Info extensions win over headers. Headers are looked up on the success
// responses of every tool operation, in path then method order.
func (e *Extractor) Extract(doc *parser.Document) (Profile, bool) {
	if p, ok := e.fromInfo(doc.Info); ok {
		return p, true
	}
	if e.hasHeaderSignal(doc) {
		return e.defaults, true
	}
	return e.defaults, false
}

func (e *Extractor) fromInfo(info parser.Info) (Profile, bool) {
	perMinute, ok := info.Extension(ExtensionPerMinute).Int()
	if !ok {
		return Profile{}, false
	}
	p := Profile{RequestsPerMinute: perMinute, RequestsPerHour: e.defaults.RequestsPerHour, Burst: e.defaults.Burst}
	if perHour, ok := info.Extension(ExtensionPerHour).Int(); ok {
		p.RequestsPerHour = perHour
	}
	return p, true
}

func (e *Extractor) hasHeaderSignal(doc *parser.Document) bool {
	for _, p := range doc.Paths {
		for _, method := range parser.ToolMethods {
			op := p.Item.Operation(method)
			if op == nil {
				continue
			}
			for _, r := range op.Responses {
				if !httputil.IsSuccessStatus(r.Code) || r.Response == nil {
					continue
				}
				for _, h := range r.Response.Headers {
					if e.isRateLimitHeader(h.Name) {
						return true
					}
				}
			}
		}
	}
	return false
}

func (e *Extractor) isRateLimitHeader(name string) bool {
	for _, want := range e.headers {
		if strings.EqualFold(name, want) {
			return true
		}
	}
	return false
}
