package lib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// DefaultRatePerSecond defines the default request rate per second when creating a new Fetcher.
const DefaultRatePerSecond = 2

// defaultBurst is the number of requests allowed to go through the limiter at once.
const defaultBurst = 1

// defaultRetryAfter specifies the default value for Retry-After header in case of too many requests.
const defaultRetryAfter = 60

// defaultTimeout is the http.Client timeout used when none is configured.
const defaultTimeout = 5 * time.Minute

// userAgent specifies the User-Agent header value used in HTTP requests.
const userAgent = "mlnews/0.1"

// Fetcher performs rate limited HTTP requests. Retries are governed by BackoffCfg,
// which defaults to a single attempt.
type Fetcher struct {
	Client      *http.Client
	RateLimiter *rate.Limiter
	BackoffCfg  backoff.BackOff
	UserAgent   string
}

// FetchError is returned when the server answers with a non-2xx status code.
type FetchError struct {
	StatusCode      int
	TooManyRequests bool
	RetryAfter      int
}

// Error returns the error message for the FetchError.
func (e *FetchError) Error() string {
	if e.TooManyRequests {
		return fmt.Sprintf("too many requests, retry after %d seconds", e.RetryAfter)
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*fetcherConfig)

type fetcherConfig struct {
	ratePerSecond int
	burst         int
	proxyURL      *url.URL
	backoffCfg    backoff.BackOff
	timeout       time.Duration
	userAgent     string
}

// WithRatePerSecond sets the maximum number of requests per second.
func WithRatePerSecond(r int) FetcherOption {
	return func(c *fetcherConfig) {
		c.ratePerSecond = r
	}
}

// WithBurst sets the rate limiter burst size.
func WithBurst(b int) FetcherOption {
	return func(c *fetcherConfig) {
		c.burst = b
	}
}

// WithProxyURL routes every request through the given proxy. A nil URL is ignored.
func WithProxyURL(u *url.URL) FetcherOption {
	return func(c *fetcherConfig) {
		c.proxyURL = u
	}
}

// WithBackOffConfig replaces the default single-attempt policy.
func WithBackOffConfig(b backoff.BackOff) FetcherOption {
	return func(c *fetcherConfig) {
		c.backoffCfg = b
	}
}

// WithTimeout sets the http.Client timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(c *fetcherConfig) {
		c.userAgent = ua
	}
}

// NewFetcher creates a new Fetcher with the given options applied on top of the defaults.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	cfg := &fetcherConfig{
		ratePerSecond: DefaultRatePerSecond,
		burst:         defaultBurst,
		timeout:       defaultTimeout,
		userAgent:     userAgent,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ratePerSecond <= 0 {
		cfg.ratePerSecond = DefaultRatePerSecond
	}
	if cfg.burst <= 0 {
		cfg.burst = defaultBurst
	}
	if cfg.backoffCfg == nil {
		cfg.backoffCfg = &backoff.StopBackOff{}
	}

	transport := http.DefaultTransport
	if cfg.proxyURL != nil {
		transport = &http.Transport{Proxy: http.ProxyURL(cfg.proxyURL)}
	}

	return &Fetcher{
		Client:      &http.Client{Transport: transport, Timeout: cfg.timeout},
		RateLimiter: rate.NewLimiter(rate.Limit(cfg.ratePerSecond), cfg.burst),
		BackoffCfg:  cfg.backoffCfg,
		UserAgent:   cfg.userAgent,
	}
}

// RequestFunc builds a fresh request for every attempt, so bodies can be replayed.
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Do sends the request built by newRequest and returns the response when the status is 2xx.
// The caller owns the response body.
func (f *Fetcher) Do(ctx context.Context, newRequest RequestFunc) (*http.Response, error) {
	var res *http.Response

	operation := func() error {
		if err := f.RateLimiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		req, err := newRequest(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", f.UserAgent)
		}

		r, err := f.Client.Do(req)
		if err != nil {
			return err
		}
		if err := checkStatus(r); err != nil {
			r.Body.Close()
			if fe, ok := err.(*FetchError); ok && !fe.TooManyRequests && fe.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		res = r
		return nil
	}

	notify := func(err error, d time.Duration) {
		Log.WithError(err).WithField("wait", d).Debug("request failed, retrying")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(f.BackoffCfg, ctx), notify); err != nil {
		return nil, err
	}
	return res, nil
}

// FetchURL performs a GET request and returns the response body.
func (f *Fetcher) FetchURL(ctx context.Context, u string) (io.ReadCloser, error) {
	res, err := f.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// checkStatus converts non-2xx responses to a *FetchError.
func checkStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	if res.StatusCode == http.StatusTooManyRequests {
		retryAfter := defaultRetryAfter
		if retryAfterStr := res.Header.Get("Retry-After"); retryAfterStr != "" {
			v, err := strconv.Atoi(retryAfterStr)
			if err != nil {
				return errors.Wrap(err, "invalid Retry-After header")
			}
			retryAfter = v
		}
		return &FetchError{StatusCode: res.StatusCode, TooManyRequests: true, RetryAfter: retryAfter}
	}
	return &FetchError{StatusCode: res.StatusCode}
}
