package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
)

var (
	// ErrInvalidArgument is returned when a gateway is constructed without a base URL or repository.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedResponse is returned when a response body does not have the expected JSON shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrStatsPending matches an HTTPError with status 202: GitHub is still computing statistics.
	ErrStatsPending = errors.New("statistics are still being computed")
)

// HTTPError is returned for any non-2xx response, and for a 202 that was not
// resolved by the single retry.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	// Err is the underlying go-github error.
	Err error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *HTTPError) Unwrap() error { return e.Err }

// Is reports a 202 HTTPError as ErrStatsPending.
func (e *HTTPError) Is(target error) bool {
	return target == ErrStatsPending && e.StatusCode == http.StatusAccepted
}

// StatusCode returns the HTTP status code carried by err, if any.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// translateError converts go-github's typed errors into an *HTTPError. Errors
// without a response (network failures, cancellation) are wrapped as is.
func translateError(req *http.Request, err error) error {
	status := 0

	var accepted *github.AcceptedError
	var errResp *github.ErrorResponse
	var rateLimit *github.RateLimitError
	var abuse *github.AbuseRateLimitError
	switch {
	case errors.As(err, &accepted):
		status = http.StatusAccepted
	case errors.As(err, &errResp):
		status = responseStatus(errResp.Response)
	case errors.As(err, &rateLimit):
		status = responseStatus(rateLimit.Response)
	case errors.As(err, &abuse):
		status = responseStatus(abuse.Response)
	}
	if status == 0 {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	return &HTTPError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: status,
		Err:        err,
	}
}

func responseStatus(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
