// Package gateway provides a gateway to the GitHub REST API for reading
// repository metadata: language breakdown, license and contributor activity.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/go-github/v62/github"
	"github.com/tidwall/gjson"
)

// DefaultRetryDelay is how long Contributions waits before retrying a 202 response.
const DefaultRetryDelay = 3000 * time.Millisecond

// statsMaxTries counts the initial request plus the single retry on 202.
const statsMaxTries = 2

// Fetcher defines the behavior of a gateway for reading repository metadata from GitHub.
type Fetcher interface {
	// Languages returns the raw JSON object mapping language name to byte count.
	Languages(ctx context.Context) (string, error)
	// License returns the SPDX identifier, or ok=false when the repository has no license.
	License(ctx context.Context) (spdxID string, ok bool, err error)
	// Contributions returns the raw JSON array of contributor activity,
	// or ok=false when the repository does not exist.
	Contributions(ctx context.Context) (raw string, ok bool, err error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface for a
// single repository. It holds only immutable configuration and is safe for
// concurrent use.
type GitHubGateway struct {
	restClient *github.Client
	repo       string
	retryDelay time.Duration
	logger     *log.Logger
}

var _ Fetcher = (*GitHubGateway)(nil)

// NewGitHubGateway is a constructor that creates a gateway for repo ("owner/name")
// served by the API rooted at baseAPIURL (e.g. "https://api.github.com").
func NewGitHubGateway(baseAPIURL, repo string, opts ...Option) (*GitHubGateway, error) {
	if baseAPIURL == "" {
		return nil, fmt.Errorf("%w: base API URL is required", ErrInvalidArgument)
	}
	if repo == "" {
		return nil, fmt.Errorf("%w: repository is required", ErrInvalidArgument)
	}
	baseURL, err := url.Parse(strings.TrimRight(baseAPIURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base API URL %q: %v", ErrInvalidArgument, baseAPIURL, err)
	}

	o := defaultOptions()
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}

	httpClient, err := o.buildHTTPClient()
	if err != nil {
		return nil, err
	}
	restClient := github.NewClient(httpClient)
	restClient.BaseURL = baseURL

	return &GitHubGateway{
		restClient: restClient,
		repo:       repo,
		retryDelay: o.retryDelay,
		logger:     o.logger,
	}, nil
}

// Repo returns the "owner/name" identifier the gateway reads.
func (g *GitHubGateway) Repo() string { return g.repo }

func (g *GitHubGateway) Languages(ctx context.Context) (string, error) {
	g.logger.Printf("[1/3] Fetching languages for %s...\n", g.repo)
	body, err := g.get(ctx, g.repoPath("/languages"))
	if err != nil {
		return "", err
	}
	g.logger.Println("Completed fetching languages.")
	return body, nil
}

func (g *GitHubGateway) License(ctx context.Context) (string, bool, error) {
	g.logger.Printf("[2/3] Fetching license for %s...\n", g.repo)
	body, err := g.get(ctx, g.repoPath(""))
	if err != nil {
		return "", false, err
	}
	spdxID, ok, err := extractLicense(body)
	if err != nil {
		return "", false, fmt.Errorf("failed to read license of %s: %w", g.repo, err)
	}
	g.logger.Println("Completed fetching license.")
	return spdxID, ok, nil
}

// Contributions fetches all contributor commit activity. GitHub computes these
// statistics asynchronously and answers 202 until they are ready, so a 202 is
// retried exactly once after the configured delay. A 404 means the repository
// does not exist and is reported as ok=false rather than as an error.
func (g *GitHubGateway) Contributions(ctx context.Context) (string, bool, error) {
	g.logger.Printf("[3/3] Fetching contributor activity for %s...\n", g.repo)
	path := g.repoPath("/stats/contributors")

	operation := func() (string, error) {
		body, err := g.get(ctx, path)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, ErrStatsPending) {
			return "", err
		}
		return "", backoff.Permanent(err)
	}
	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(g.retryDelay)),
		backoff.WithMaxTries(statsMaxTries),
		backoff.WithNotify(func(_ error, wait time.Duration) {
			g.logger.Printf("  Statistics are being computed, retrying in %v...\n", wait)
		}),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		if code, ok := StatusCode(err); ok && code == http.StatusNotFound {
			g.logger.Printf("Repository %s does not exist.\n", g.repo)
			return "", false, nil
		}
		return "", false, err
	}

	if body == "" {
		// The repository exists but has no contributions yet.
		body = "[]"
	}
	g.logger.Println("Completed fetching contributor activity.")
	return body, true, nil
}

func (g *GitHubGateway) repoPath(suffix string) string {
	return "repos/" + g.repo + suffix
}

// get issues a GET for path (relative to the base API URL) and returns the
// response body verbatim.
func (g *GitHubGateway) get(ctx context.Context, path string) (string, error) {
	req, err := g.restClient.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	var body strings.Builder
	if _, err := g.restClient.Do(ctx, req, &body); err != nil {
		return "", translateError(req, err)
	}
	return body.String(), nil
}

// extractLicense reads license.spdx_id from a repository object. A JSON null
// license is reported as ok=false.
func extractLicense(body string) (string, bool, error) {
	if !gjson.Valid(body) {
		return "", false, fmt.Errorf("%w: repository body is not valid JSON", ErrMalformedResponse)
	}
	repo := gjson.Parse(body)
	if !repo.IsObject() {
		return "", false, fmt.Errorf("%w: repository body is not a JSON object", ErrMalformedResponse)
	}

	license := repo.Get("license")
	switch {
	case !license.Exists():
		return "", false, fmt.Errorf("%w: license field is missing", ErrMalformedResponse)
	case license.Type == gjson.Null:
		return "", false, nil
	case !license.IsObject():
		return "", false, fmt.Errorf("%w: license field is not an object", ErrMalformedResponse)
	}

	spdxID := license.Get("spdx_id")
	if spdxID.Type != gjson.String {
		return "", false, fmt.Errorf("%w: license.spdx_id is not a string", ErrMalformedResponse)
	}
	return spdxID.String(), true, nil
}
