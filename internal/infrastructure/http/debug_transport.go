package httpinfra

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DebugTransport wraps a RoundTripper and traces every request to a writer.
// It never alters the request or the outcome, so wire behaviour with and
// without debug tracing is identical.
type DebugTransport struct {
	base http.RoundTripper
	out  io.Writer
}

// NewDebugTransport decorates base with request tracing on stderr. A nil
// base falls back to http.DefaultTransport.
func NewDebugTransport(base http.RoundTripper) *DebugTransport {
	return NewDebugTransportTo(base, os.Stderr)
}

// NewDebugTransportTo decorates base with request tracing on out
func NewDebugTransportTo(base http.RoundTripper, out io.Writer) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DebugTransport{base: base, out: out}
}

func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		fmt.Fprintf(t.out, "[http] %s %s failed after %s: %v\n", req.Method, req.URL.Path, elapsed, err)
		return nil, err
	}

	fmt.Fprintf(t.out, "[http] %s %s %d (%s)\n", req.Method, req.URL.Path, resp.StatusCode, elapsed)
	return resp, nil
}

var _ http.RoundTripper = (*DebugTransport)(nil)
