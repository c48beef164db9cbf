package gateway

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

type options struct {
	httpClient  *http.Client
	credentials CredentialProvider
	retryDelay  time.Duration
	logger      *log.Logger
	verbose     bool
	// secondaryLimit is the longest single sleep allowed on a secondary rate
	// limit. Zero leaves the waiter out of the transport chain.
	secondaryLimit time.Duration
}

// Option configures a GitHubGateway.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		credentials: EnvCredentials{},
		retryDelay:  DefaultRetryDelay,
		logger:      log.New(io.Discard, "", 0),
	}
}

// WithHTTPClient sets the client whose transport and timeout the gateway builds on.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithCredentials sets where the Basic auth credential comes from. The default
// reads API_CREDENTIALS_GITHUB.
func WithCredentials(p CredentialProvider) Option {
	return func(o *options) {
		if p == nil {
			p = NoCredentials{}
		}
		o.credentials = p
	}
}

// WithRetryDelay sets how long Contributions waits before retrying a 202.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.retryDelay = d
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithVerboseTransport logs one line per request and per response to the gateway logger.
func WithVerboseTransport(enabled bool) Option {
	return func(o *options) { o.verbose = enabled }
}

// WithSecondaryRateLimitWaiter makes requests sleep through GitHub secondary
// rate limits, up to maxSleep per occurrence.
func WithSecondaryRateLimitWaiter(maxSleep time.Duration) Option {
	return func(o *options) { o.secondaryLimit = maxSleep }
}

// buildHTTPClient assembles the transport chain, outermost first:
// rate limit waiter, credentials, request logging, base transport.
func (o *options) buildHTTPClient() (*http.Client, error) {
	client := &http.Client{}
	if o.httpClient != nil {
		copied := *o.httpClient
		client = &copied
	}

	var transport http.RoundTripper = client.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if o.verbose {
		transport = &loggingRoundTripper{base: transport, logger: o.logger}
	}
	transport = &credentialTransport{base: transport, credentials: o.credentials}
	if o.secondaryLimit > 0 {
		waiter, err := github_ratelimit.NewRateLimitWaiter(transport, github_ratelimit.WithSingleSleepLimit(o.secondaryLimit, nil))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		transport = waiter
	}

	client.Transport = transport
	return client, nil
}
