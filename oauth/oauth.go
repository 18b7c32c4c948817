// Package oauth extracts the OAuth2 configuration a generated adapter needs
// from an OpenAPI document's security schemes.
package oauth

import "github.com/erraggy/oasmcp/parser"

// OAuth2 flow names as they appear in an OpenAPI flows object.
const (
	FlowAuthorizationCode = "authorizationCode"
	FlowImplicit          = "implicit"
	FlowClientCredentials = "clientCredentials"
)

// SupportedFlows lists the flows adapters can drive, in precedence order.
var SupportedFlows = []string{FlowAuthorizationCode, FlowImplicit, FlowClientCredentials}

// Config is the OAuth configuration of one generation unit.
type Config struct {
	// Scheme is the name of the security scheme the flow came from.
	Scheme string `json:"scheme"`
	// FlowType is one of SupportedFlows.
	FlowType string `json:"flow_type"`
	// AuthURL is empty for the client-credentials flow.
	AuthURL    string `json:"auth_url,omitempty"`
	TokenURL   string `json:"token_url,omitempty"`
	RefreshURL string `json:"refresh_url,omitempty"`
	// Scopes keeps the declaration order of the scopes map.
	Scopes []parser.Scope `json:"scopes"`
}

// ScopeNames returns the scope names in declaration order.
func (c Config) ScopeNames() []string {
	names := make([]string, len(c.Scopes))
	for i, s := range c.Scopes {
		names[i] = s.Name
	}
	return names
}

// Extract scans the document's oauth2 security schemes in declaration order
// and returns the first supported flow found. Within a scheme, flows are
// probed in SupportedFlows order. The boolean is false when no scheme
// declares a supported flow.
func Extract(doc *parser.Document) (Config, bool) {
	for _, named := range doc.Components.SecuritySchemes {
		scheme := named.Scheme
		if scheme == nil || scheme.Type != "oauth2" {
			continue
		}
		for _, name := range SupportedFlows {
			flow := scheme.Flows.Flow(name)
			if flow == nil {
				continue
			}
			return Config{
				Scheme:     named.Name,
				FlowType:   name,
				AuthURL:    flow.AuthorizationURL,
				TokenURL:   flow.TokenURL,
				RefreshURL: flow.RefreshURL,
				Scopes:     append([]parser.Scope{}, flow.Scopes...),
			}, true
		}
	}
	return Config{}, false
}
