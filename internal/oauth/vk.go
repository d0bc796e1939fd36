package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/oauth2"
)

const VKName = "vk"

var vkEndpoint = oauth2.Endpoint{
	AuthURL:   "https://oauth.vk.com/authorize",
	TokenURL:  "https://oauth.vk.com/access_token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// VK returns the user id inside the token response itself.
type VK struct {
	base
}

func NewVK(creds Credentials, opts ...Option) *VK {
	o := buildOptions(vkEndpoint, "", opts)
	return &VK{base: base{creds: creds, endpoint: *o.endpoint, client: o.client}}
}

func (v *VK) Name() string { return VKName }

func (v *VK) ExchangeCode(ctx context.Context, code, callbackURL string) (string, error) {
	tok, err := v.exchange(ctx, code, callbackURL)
	if err != nil {
		return "", fmt.Errorf("vk token exchange: %w", err)
	}
	id, err := extraID(tok.Extra("user_id"))
	if err != nil {
		return "", fmt.Errorf("vk token: %w", err)
	}
	return id, nil
}

func extraID(v any) (string, error) {
	switch id := v.(type) {
	case float64:
		return strconv.FormatInt(int64(id), 10), nil
	case json.Number:
		return id.String(), nil
	case string:
		if id != "" {
			return id, nil
		}
	}
	return "", errors.New("missing user_id")
}
