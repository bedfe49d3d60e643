package calendar

import (
	"context"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/microsoft"

	"concierge/utils"
)

const graphScope = "https://graph.microsoft.com/.default"

// TokenProvider supplies a bearer token for a single calendar API call.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ClientCredentials acquires tokens via the OAuth2 client-credential grant
// against the tenant's Azure AD endpoint. Tokens are not cached: every call
// re-authenticates, which keeps the flow stateless at the cost of latency.
type ClientCredentials struct {
	conf *clientcredentials.Config
}

// NewClientCredentials builds a token provider for the given app registration.
func NewClientCredentials(clientID, clientSecret, tenantID string) *ClientCredentials {
	return NewClientCredentialsWithTokenURL(clientID, clientSecret, microsoft.AzureADEndpoint(tenantID).TokenURL)
}

// NewClientCredentialsWithTokenURL builds a token provider against a custom
// token endpoint.
func NewClientCredentialsWithTokenURL(clientID, clientSecret, tokenURL string) *ClientCredentials {
	return &ClientCredentials{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       []string{graphScope},
		},
	}
}

// Token exchanges the client credentials for a fresh bearer token.
func (p *ClientCredentials) Token(ctx context.Context) (string, error) {
	tok, err := p.conf.Token(ctx)
	if err != nil {
		return "", &utils.AuthError{Provider: "microsoft graph", Reason: err.Error()}
	}
	if tok.AccessToken == "" {
		return "", &utils.AuthError{Provider: "microsoft graph", Reason: "token response carried no access token"}
	}
	return tok.AccessToken, nil
}
