package oauth

import (
	"context"
	"fmt"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/service"
)

// Accounts resolves a provider identity to a local user.
type Accounts interface {
	FindOrCreateBySocialIdentity(ctx context.Context, socialID, provider string) (model.User, error)
}

// Logins records a login and mints tokens for it.
type Logins interface {
	LoginUser(ctx context.Context, u model.User, method, userAgent string) (service.TokenPair, error)
}

// Federation runs the two halves of an authorization-code login.
type Federation struct {
	providers   *Registry
	accounts    Accounts
	logins      Logins
	callbackURL func(provider string) string
}

func NewFederation(providers *Registry, accounts Accounts, logins Logins, callbackURL func(string) string) *Federation {
	return &Federation{providers: providers, accounts: accounts, logins: logins, callbackURL: callbackURL}
}

func (f *Federation) provider(name string) (Provider, error) {
	p, ok := f.providers.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q", service.ErrBadRequest, name)
	}
	if !p.Configured() {
		return nil, fmt.Errorf("%w: provider %q is not configured", service.ErrBadRequest, name)
	}
	return p, nil
}

// Initiate returns the provider URL the client should be redirected to.
func (f *Federation) Initiate(name string) (string, error) {
	p, err := f.provider(name)
	if err != nil {
		return "", err
	}
	return p.AuthorizeURL(f.callbackURL(name)), nil
}

// Complete redeems code at the provider, resolves or provisions the local
// account and logs it in.
func (f *Federation) Complete(ctx context.Context, name, code, userAgent string) (service.TokenPair, error) {
	p, err := f.provider(name)
	if err != nil {
		return service.TokenPair{}, err
	}
	if code == "" {
		return service.TokenPair{}, fmt.Errorf("%w: missing code", service.ErrBadRequest)
	}
	socialID, err := p.ExchangeCode(ctx, code, f.callbackURL(name))
	if err != nil {
		return service.TokenPair{}, fmt.Errorf("%w: %v", service.ErrUnauthorized, err)
	}
	u, err := f.accounts.FindOrCreateBySocialIdentity(ctx, socialID, name)
	if err != nil {
		return service.TokenPair{}, err
	}
	return f.logins.LoginUser(ctx, u, name, userAgent)
}
