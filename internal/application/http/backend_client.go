package apphttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	httpdomain "neighbournode.dev/cli/internal/core/domain/http"
	httpports "neighbournode.dev/cli/internal/core/ports/http"
	httpinfra "neighbournode.dev/cli/internal/infrastructure/http"
)

// BackendClient is the one JSON client every typed service shares. It
// resolves auth headers per request, treats any status outside 200-299 as a
// StatusError, and decodes success bodies into the caller's value. Retries,
// backoff and caching are deliberately absent; callers own those concerns
// along with timeouts via ctx and the http.Client they supply.
type BackendClient struct {
	endpoint     httpdomain.BackendEndpoint
	requester    httpports.HttpRequester
	authProvider httpports.AuthHeaderProvider
}

func NewBackendClient(baseURL, userAgent string, httpClient *http.Client, auth httpports.AuthHeaderProvider) *BackendClient {
	return &BackendClient{
		endpoint:     httpdomain.BackendEndpoint{BaseURL: baseURL, UserAgent: userAgent},
		requester:    httpinfra.NewStdHttpRequester(httpClient),
		authProvider: auth,
	}
}

// GetJSON issues a GET for path and decodes the success body into out.
// Query values are encoded for the caller; pass nil when there are none.
func (c *BackendClient) GetJSON(ctx context.Context, path string, query map[string]string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, query, out)
}

// PostJSON issues a POST with payload marshalled as JSON.
func (c *BackendClient) PostJSON(ctx context.Context, path string, payload any, out any) error {
	return c.DoJSON(ctx, http.MethodPost, path, payload, out)
}

// DoJSON is the general write form: same contract as PostJSON with the
// method chosen by the caller (PATCH, PUT, DELETE).
func (c *BackendClient) DoJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, body, nil, out)
}

func (c *BackendClient) do(ctx context.Context, method, path string, body io.Reader, query map[string]string, out any) error {
	authHeaders, err := c.authProvider.Headers(ctx)
	if err != nil {
		return err
	}

	headers := authHeaders
	if body != nil {
		headers = httpinfra.MergeHeaders(map[string]string{"Content-Type": "application/json"}, authHeaders)
	}

	status, _, respBody, err := c.requester.Do(ctx, c.endpoint, httpdomain.RequestContext{
		Method:  method,
		Path:    path,
		Query:   query,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return err
	}

	if status < 200 || status > 299 {
		return &httpdomain.StatusError{Method: method, Path: path, StatusCode: status, Body: respBody}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
