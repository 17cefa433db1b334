package httpdomain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestStatusError_Message_MatchesWireFormat tests the exact error message format
func TestStatusError_Message_MatchesWireFormat(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		expected string
	}{
		{
			name:     "GetNotFound",
			method:   "GET",
			path:     "/items",
			status:   404,
			expected: "GET /items failed: 404",
		},
		{
			name:     "PostUnauthorized",
			method:   "POST",
			path:     "/listings/",
			status:   401,
			expected: "POST /listings/ failed: 401",
		},
		{
			name:     "PatchServerError",
			method:   "PATCH",
			path:     "/listings/abc123",
			status:   500,
			expected: "PATCH /listings/abc123 failed: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &StatusError{Method: tt.method, Path: tt.path, StatusCode: tt.status}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

// TestStatusError_ErrorsAs_ExposesFields tests structured access via errors.As
func TestStatusError_ErrorsAs_ExposesFields(t *testing.T) {
	var err error = &StatusError{Method: "GET", Path: "/items", StatusCode: 404}

	wrapped := fmt.Errorf("fetch items: %w", err)

	var statusErr *StatusError
	require.True(t, errors.As(wrapped, &statusErr), "errors.As should unwrap StatusError")
	assert.Equal(t, "GET", statusErr.Method)
	assert.Equal(t, "/items", statusErr.Path)
	assert.Equal(t, 404, statusErr.StatusCode)
}

// TestIsStatus_MatchesOnlyExactCode tests the IsStatus helper
func TestIsStatus_MatchesOnlyExactCode(t *testing.T) {
	err := &StatusError{Method: "GET", Path: "/health", StatusCode: 503}

	assert.True(t, IsStatus(err, 503))
	assert.False(t, IsStatus(err, 500))
	assert.False(t, IsStatus(errors.New("plain error"), 503))
	assert.False(t, IsStatus(nil, 503))
}

// TestStatusCodeOf_ExtractsCode tests status code extraction
func TestStatusCodeOf_ExtractsCode(t *testing.T) {
	code, ok := StatusCodeOf(&StatusError{Method: "GET", Path: "/x", StatusCode: 418})
	require.True(t, ok)
	assert.Equal(t, 418, code)

	_, ok = StatusCodeOf(errors.New("not a status error"))
	assert.False(t, ok)
}

// TestStatusError_Properties tests message invariants across arbitrary inputs
func TestStatusError_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		method := rapid.SampledFrom([]string{"GET", "POST", "PUT", "PATCH", "DELETE"}).Draw(t, "method")
		path := "/" + rapid.StringMatching(`[a-z0-9/_-]{0,40}`).Draw(t, "path")
		status := rapid.IntRange(100, 599).Draw(t, "status")

		err := &StatusError{Method: method, Path: path, StatusCode: status}

		assert.Equal(t, fmt.Sprintf("%s %s failed: %d", method, path, status), err.Error())
		assert.True(t, IsStatus(err, status))

		extracted, ok := StatusCodeOf(err)
		assert.True(t, ok)
		assert.Equal(t, status, extracted)
	})
}
