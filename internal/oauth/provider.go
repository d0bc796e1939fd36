// Package oauth federates logins through external OAuth2 providers.  Each
// provider turns an authorization code into the provider-side user id;
// the Federation maps that id onto a local account.
package oauth

import (
	"context"
	"net/http"
	"sort"

	"golang.org/x/oauth2"
)

// Provider is one external identity provider.
type Provider interface {
	Name() string
	// Configured reports whether client credentials are present.
	Configured() bool
	AuthorizeURL(callbackURL string) string
	// ExchangeCode redeems code and returns the provider's user id.
	ExchangeCode(ctx context.Context, code, callbackURL string) (string, error)
}

// Credentials are the client id and secret issued by a provider.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

func (c Credentials) configured() bool { return c.ClientID != "" && c.ClientSecret != "" }

// base holds what every provider needs for the code exchange.
type base struct {
	creds    Credentials
	endpoint oauth2.Endpoint
	client   *http.Client
}

func (b base) config(callbackURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     b.creds.ClientID,
		ClientSecret: b.creds.ClientSecret,
		Endpoint:     b.endpoint,
		RedirectURL:  callbackURL,
	}
}

func (b base) exchange(ctx context.Context, code, callbackURL string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, b.client)
	return b.config(callbackURL).Exchange(ctx, code)
}

func (b base) Configured() bool { return b.creds.configured() }

func (b base) AuthorizeURL(callbackURL string) string {
	return b.config(callbackURL).AuthCodeURL("")
}

// Option adjusts a provider, mostly for pointing it at test servers.
type Option func(*options)

type options struct {
	endpoint *oauth2.Endpoint
	infoURL  string
	client   *http.Client
}

// WithEndpoint overrides the authorize and token URLs.
func WithEndpoint(authURL, tokenURL string) Option {
	return func(o *options) {
		o.endpoint = &oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams}
	}
}

// WithInfoURL overrides the user info URL of providers that have one.
func WithInfoURL(u string) Option { return func(o *options) { o.infoURL = u } }

// WithHTTPClient sets the client used for provider calls.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.client = c } }

func buildOptions(endpoint oauth2.Endpoint, infoURL string, opts []Option) options {
	o := options{endpoint: &endpoint, infoURL: infoURL, client: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Registry looks providers up by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names lists registered providers in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
