package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

const YandexName = "yandex"

var yandexEndpoint = oauth2.Endpoint{
	AuthURL:   "https://oauth.yandex.com/authorize",
	TokenURL:  "https://oauth.yandex.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

const yandexInfoURL = "https://login.yandex.ru/info"

// Yandex resolves the user id through the login.yandex.ru info endpoint.
type Yandex struct {
	base
	infoURL string
}

func NewYandex(creds Credentials, opts ...Option) *Yandex {
	o := buildOptions(yandexEndpoint, yandexInfoURL, opts)
	return &Yandex{base: base{creds: creds, endpoint: *o.endpoint, client: o.client}, infoURL: o.infoURL}
}

func (y *Yandex) Name() string { return YandexName }

func (y *Yandex) ExchangeCode(ctx context.Context, code, callbackURL string) (string, error) {
	tok, err := y.exchange(ctx, code, callbackURL)
	if err != nil {
		return "", fmt.Errorf("yandex token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.infoURL+"?format=json", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "OAuth "+tok.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("yandex info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("yandex info: status %d", resp.StatusCode)
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("yandex info: %w", err)
	}
	if payload.ID == "" {
		return "", errors.New("yandex info: missing id")
	}
	return payload.ID, nil
}
