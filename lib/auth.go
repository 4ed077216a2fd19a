package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const loginPath = "/1.1/account/login.json"

// Session is an authenticated platform session.
type Session struct {
	Token string
}

// Authenticator exchanges credentials for a Session.
type Authenticator struct {
	fetcher *Fetcher
	baseURL string
}

// NewAuthenticator creates an Authenticator talking to baseURL.
// If the Fetcher is nil, a default Fetcher will be used.
func NewAuthenticator(f *Fetcher, baseURL string) *Authenticator {
	if f == nil {
		f = NewFetcher()
	}
	return &Authenticator{fetcher: f, baseURL: strings.TrimRight(baseURL, "/")}
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login validates creds and logs in. Nothing is sent over the network when a
// credential is missing.
func (a *Authenticator) Login(ctx context.Context, creds Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(loginRequest{
		Username: creds.Username,
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return nil, err
	}

	res, err := a.fetcher.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+loginPath, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "login failed")
	}
	defer res.Body.Close()

	var lr loginResponse
	if err := json.NewDecoder(res.Body).Decode(&lr); err != nil {
		return nil, errors.Wrap(err, "failed to decode login response")
	}
	if lr.Token == "" {
		return nil, errors.New("login failed: empty session token")
	}

	Log.WithField("user", creds.Username).Debug("logged in")
	return &Session{Token: lr.Token}, nil
}
