package lib

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

//go:generate mockgen -source=client.go -destination=source_mock_test.go -package=lib

const showStatusPath = "/1.1/statuses/show.json"

// PostSource fetches a single remote post by id.
type PostSource interface {
	GetPost(ctx context.Context, id string) (*RemotePost, error)
}

// Client is the authenticated PostSource backed by the platform API.
type Client struct {
	fetcher *Fetcher
	baseURL string
	session *Session
}

// NewClient creates a Client using session for authorization.
func NewClient(f *Fetcher, baseURL string, session *Session) *Client {
	if f == nil {
		f = NewFetcher()
	}
	return &Client{fetcher: f, baseURL: strings.TrimRight(baseURL, "/"), session: session}
}

// GetPost fetches the post with the given id.
func (c *Client) GetPost(ctx context.Context, id string) (*RemotePost, error) {
	q := url.Values{}
	q.Set("id", id)
	q.Set("tweet_mode", "extended")
	u := c.baseURL + showStatusPath + "?" + q.Encode()

	res, err := c.fetcher.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		if c.session != nil {
			req.Header.Set("Authorization", "Bearer "+c.session.Token)
		}
		return req, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch post %s", id)
	}
	defer res.Body.Close()

	var rp RemotePost
	if err := json.NewDecoder(res.Body).Decode(&rp); err != nil {
		return nil, errors.Wrapf(err, "failed to decode post %s", id)
	}
	return &rp, nil
}
