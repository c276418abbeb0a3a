package backends

import (
	"io"
	"net/http"
	"strings"
	"sync/atomic"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// mockClient returns an HTTP client whose transport answers every request via
// fn and counts the calls, so tests can assert how many (if any) outbound
// requests were made.
func mockClient(calls *atomic.Int32, fn func(req *http.Request) *http.Response) *http.Client {
	return &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if calls != nil {
				calls.Add(1)
			}
			return fn(req), nil
		}),
	}
}
