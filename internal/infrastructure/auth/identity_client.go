package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"neighbournode.dev/cli/internal/core/domain"
)

// The backend verifies Google Identity Platform ID tokens, so sign-in and
// refresh go to the Identity Toolkit REST surface directly.
const (
	DefaultSignInHost = "https://identitytoolkit.googleapis.com"
	DefaultTokenHost  = "https://securetoken.googleapis.com"
)

// IdentityError is the failure envelope the identity endpoints return
type IdentityError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error returns the raw identity failure for logs and wrapping
func (e *IdentityError) Error() string {
	return fmt.Sprintf("identity request failed: %s (status %d)", e.Message, e.Code)
}

// Friendly maps the terse upstream error codes onto something a person can
// act on. Unknown codes pass through as-is.
func (e *IdentityError) Friendly() string {
	switch {
	case strings.HasPrefix(e.Message, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(e.Message, "INVALID_PASSWORD"),
		strings.HasPrefix(e.Message, "INVALID_LOGIN_CREDENTIALS"):
		return "email or password is incorrect"
	case strings.HasPrefix(e.Message, "USER_DISABLED"):
		return "this account has been disabled"
	case strings.HasPrefix(e.Message, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return "too many attempts, try again later"
	case strings.HasPrefix(e.Message, "TOKEN_EXPIRED"),
		strings.HasPrefix(e.Message, "INVALID_REFRESH_TOKEN"),
		strings.HasPrefix(e.Message, "USER_NOT_FOUND"):
		return "session expired, sign in again with 'nn auth login'"
	default:
		return e.Message
	}
}

// IdentityClient signs users in with email and password and exchanges
// refresh tokens for fresh ID tokens
type IdentityClient struct {
	signInHost string
	tokenHost  string
	apiKey     string
	httpClient *http.Client
}

// NewIdentityClient creates an identity client. Empty hosts fall back to the
// Google endpoints; a nil http client gets a 30 second timeout.
func NewIdentityClient(signInHost, tokenHost, apiKey string, httpClient *http.Client) *IdentityClient {
	if signInHost == "" {
		signInHost = DefaultSignInHost
	}
	if tokenHost == "" {
		tokenHost = DefaultTokenHost
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &IdentityClient{
		signInHost: signInHost,
		tokenHost:  tokenHost,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// SignInWithPassword exchanges an email and password for credentials
func (c *IdentityClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Credentials, error) {
	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var response signInResponse
	if err := c.post(ctx, c.signInHost+"/v1/accounts:signInWithPassword", payload, &response); err != nil {
		return nil, err
	}

	return buildCredentials(response.LocalID, response.Email, response.IDToken, response.RefreshToken, response.ExpiresIn)
}

// The secure-token endpoint answers in snake_case, unlike sign-in
type refreshResponse struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

// RefreshIDToken exchanges a refresh token for a fresh ID token. The
// response carries no email; the caller keeps the one it already has.
func (c *IdentityClient) RefreshIDToken(ctx context.Context, refreshToken string) (*domain.Credentials, error) {
	payload := map[string]interface{}{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}

	var response refreshResponse
	if err := c.post(ctx, c.tokenHost+"/v1/token", payload, &response); err != nil {
		return nil, err
	}

	return buildCredentials(response.UserID, "", response.IDToken, response.RefreshToken, response.ExpiresIn)
}

func buildCredentials(uid, email, idToken, refreshToken, expiresIn string) (*domain.Credentials, error) {
	// The identity endpoints report token lifetime as a string of seconds
	seconds, err := strconv.Atoi(expiresIn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token lifetime %q: %w", expiresIn, err)
	}

	now := time.Now()
	return &domain.Credentials{
		UID:          uid,
		Email:        email,
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(time.Duration(seconds) * time.Second),
		IssuedAt:     now,
	}, nil
}

func (c *IdentityClient) post(ctx context.Context, endpoint string, payload interface{}, out interface{}) error {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	// The API key travels in the query string on both endpoints
	requestURL := fmt.Sprintf("%s?key=%s", endpoint, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, "POST", requestURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseIdentityError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func parseIdentityError(status int, body []byte) error {
	var envelope struct {
		Error IdentityError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		if envelope.Error.Code == 0 {
			envelope.Error.Code = status
		}
		return &envelope.Error
	}

	return &IdentityError{Code: status, Message: strings.TrimSpace(string(body))}
}
