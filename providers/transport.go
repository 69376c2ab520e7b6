// Package providers holds shared HTTP-transport plumbing for the
// provider-specific adapters (openai, anthropic, ollama): a pluggable
// HTTPTransport interface plus the error-classification helper every
// adapter uses to turn a transport failure into a core.Error.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jkhoffman/cogni/core"
)

// Config holds the connection settings common to every HTTP-backed
// provider adapter.
type Config struct {
	BaseURL      string
	APIKey       string
	DefaultModel core.Model
	HTTPClient   *http.Client
	Timeout      time.Duration
}

// HTTPTransport is the seam a provider adapter talks to the network
// through. The default implementation wraps *http.Client; tests substitute
// a fake that never touches the network.
type HTTPTransport interface {
	Do(req *http.Request) (*http.Response, error)
}

// StdTransport adapts *http.Client to HTTPTransport.
type StdTransport struct {
	Client *http.Client
}

// Do implements HTTPTransport.
func (t StdTransport) Do(req *http.Request) (*http.Response, error) {
	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(req)
}

// ClassifyHTTPError turns a transport-level error or a non-2xx HTTP
// response into a *core.Error tagged for the given provider. resp's body is
// drained (up to 8 KiB) and included in the message. resp, when non-nil,
// takes priority over transportErr: an SDK client error often wraps both a
// generic "request failed" error and the underlying *http.Response, and the
// response's status code carries the real signal (401/403 -> Authentication,
// 429 -> Provider with Retry-After, ...) that a bare transportErr cannot.
func ClassifyHTTPError(provider string, resp *http.Response, transportErr error) *core.Error {
	if resp == nil {
		if transportErr != nil {
			if errors.Is(transportErr, context.DeadlineExceeded) {
				return core.TimeoutError()
			}
			return core.NewNetworkError(fmt.Sprintf("%s request failed", provider), transportErr)
		}
		return core.NewNetworkError(fmt.Sprintf("%s request failed", provider), errors.New("no response"))
	}

	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	msg := fmt.Sprintf("%s %s", resp.Status, string(data))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return core.NewError(core.ErrAuthentication, msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		var retryAfter *time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := time.ParseDuration(v + "s"); err == nil {
				retryAfter = &secs
			}
		}
		return core.NewProviderError(provider, msg, retryAfter, nil)
	case resp.StatusCode >= 500:
		retry := time.Second
		return core.NewProviderError(provider, msg, &retry, nil)
	case resp.StatusCode == http.StatusRequestTimeout:
		return core.TimeoutError()
	default:
		return core.NewProviderError(provider, msg, nil, nil)
	}
}
