package gateway

import (
	"encoding/base64"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// credentialTransport adds "Authorization: Basic <base64(credential)>" when the
// provider yields a credential and leaves the request untouched otherwise.
type credentialTransport struct {
	base        http.RoundTripper
	credentials CredentialProvider
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	credential, ok := t.credentials.Credential()
	if !ok {
		return t.base.RoundTrip(req)
	}
	token := &oauth2.Token{
		AccessToken: base64.StdEncoding.EncodeToString([]byte(credential)),
		TokenType:   "Basic",
	}
	authed := req.Clone(req.Context())
	token.SetAuthHeader(authed)
	return t.base.RoundTrip(authed)
}

// loggingRoundTripper emits one line per request and response, including latency.
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger *log.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Printf("github api: %s %s\n", req.Method, req.URL.String())
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		t.logger.Printf("github api: error after %s: %v\n", dur, err)
		return resp, err
	}
	t.logger.Printf("github api: %d %s (%s)\n", resp.StatusCode, http.StatusText(resp.StatusCode), dur)
	return resp, nil
}
