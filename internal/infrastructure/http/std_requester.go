package httpinfra

import (
	"context"
	"io"
	"net/http"
	"net/url"

	httpdomain "neighbournode.dev/cli/internal/core/domain/http"
	httpports "neighbournode.dev/cli/internal/core/ports/http"
)

// StdHttpRequester executes requests with net/http. It performs exactly one
// attempt per call; timeouts and cancellation belong to the caller's context
// and http.Client.
type StdHttpRequester struct {
	client *http.Client
}

func NewStdHttpRequester(client *http.Client) *StdHttpRequester {
	if client == nil {
		client = &http.Client{}
	}
	return &StdHttpRequester{client: client}
}

func (r *StdHttpRequester) Do(ctx context.Context, endpoint httpdomain.BackendEndpoint, req httpdomain.RequestContext) (int, map[string][]string, []byte, error) {
	fullURL, err := joinURL(endpoint.BaseURL, req.Path, req.Query)
	if err != nil {
		return 0, nil, nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, req.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if endpoint.UserAgent != "" {
		httpReq.Header.Set("User-Agent", endpoint.UserAgent)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, body, nil
}

func joinURL(base, p string, q map[string]string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = joinPath(u.Path, p)
	if len(q) > 0 {
		vals := u.Query()
		for k, v := range q {
			vals.Set(k, v)
		}
		u.RawQuery = vals.Encode()
	}
	return u.String(), nil
}

func joinPath(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a[len(a)-1] == '/' {
		a = a[:len(a)-1]
	}
	if b[0] != '/' {
		b = "/" + b
	}
	return a + b
}

var _ httpports.HttpRequester = (*StdHttpRequester)(nil)
