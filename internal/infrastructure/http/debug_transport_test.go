package httpinfra

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugTransport_TracesWithoutChangingOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-123", r.Header.Get("Authorization"), "headers pass through untouched")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	var trace bytes.Buffer
	client := &http.Client{Transport: NewDebugTransportTo(nil, &trace)}

	req, err := http.NewRequest(http.MethodPost, server.URL+"/listings/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "token-123")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, trace.String(), "[http] POST /listings/ 201")
}

func TestDebugTransport_TracesTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	var trace bytes.Buffer
	client := &http.Client{Transport: NewDebugTransportTo(nil, &trace)}

	_, err := client.Get(server.URL + "/health")

	require.Error(t, err)
	assert.Contains(t, trace.String(), "failed after")
}
