package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"neighbournode.dev/cli/internal/core/domain"
)

// MockBackend fakes the Neighbour Node backend for tests: the full route
// surface, an in-memory store seeded through the builder, and a request log
// for assertions on what actually went over the wire.
type MockBackend struct {
	*httptest.Server
	Config     MockBackendConfig
	RequestLog []RequestInfo
	mu         sync.Mutex

	profile     *domain.UserProfile
	listings    []domain.Listing
	urgentNeeds []domain.UrgentNeed
	messages    map[string][]domain.Message
	reactions   map[string][]domain.Reaction
}

// MockBackendConfig contains the configuration options for the mock backend
type MockBackendConfig struct {
	// ValidToken, when set, makes every route except /health demand
	// "Bearer <ValidToken>" and answer 401 otherwise.
	ValidToken string

	// Seed data
	TokenInfo   domain.TokenInfo
	Profile     *domain.UserProfile
	Listings    []domain.Listing
	UrgentNeeds []domain.UrgentNeed
	Messages    map[string][]domain.Message
	Reactions   map[string][]domain.Reaction
	Matches     map[string][]domain.ListingMatch
	ChatAnswer  *domain.ChatAnswer

	// ResolveStatus overrides the status word answered per urgent need ID
	ResolveStatus map[string]string

	// StatusOverrides forces an HTTP status for exact paths
	StatusOverrides map[string]int

	// CustomHandlers take over specific paths entirely
	CustomHandlers map[string]http.HandlerFunc
}

// RequestInfo captures one request for test assertions
type RequestInfo struct {
	Method      string
	Path        string
	Headers     http.Header
	Body        []byte
	Timestamp   time.Time
	QueryParams map[string][]string
}

// MockBackendBuilder provides a fluent interface for configuring the mock
type MockBackendBuilder struct {
	t      *testing.T
	config MockBackendConfig
}

// NewMockBackend creates a new mock backend builder
func NewMockBackend(t *testing.T) *MockBackendBuilder {
	return &MockBackendBuilder{
		t: t,
		config: MockBackendConfig{
			TokenInfo: domain.TokenInfo{
				UID:           "test-user-123",
				Email:         "test@example.com",
				EmailVerified: true,
			},
			Messages:        make(map[string][]domain.Message),
			Reactions:       make(map[string][]domain.Reaction),
			Matches:         make(map[string][]domain.ListingMatch),
			ResolveStatus:   make(map[string]string),
			StatusOverrides: make(map[string]int),
			CustomHandlers:  make(map[string]http.HandlerFunc),
		},
	}
}

// WithToken makes authenticated routes demand this bearer token
func (b *MockBackendBuilder) WithToken(token string) *MockBackendBuilder {
	b.config.ValidToken = token
	return b
}

// WithTokenInfo sets the claims /auth/me echoes back
func (b *MockBackendBuilder) WithTokenInfo(info domain.TokenInfo) *MockBackendBuilder {
	b.config.TokenInfo = info
	return b
}

// WithProfile seeds the stored profile
func (b *MockBackendBuilder) WithProfile(profile domain.UserProfile) *MockBackendBuilder {
	b.config.Profile = &profile
	return b
}

// WithListings seeds the listings board
func (b *MockBackendBuilder) WithListings(listings ...domain.Listing) *MockBackendBuilder {
	b.config.Listings = append(b.config.Listings, listings...)
	return b
}

// WithUrgentNeeds seeds active urgent needs
func (b *MockBackendBuilder) WithUrgentNeeds(needs ...domain.UrgentNeed) *MockBackendBuilder {
	b.config.UrgentNeeds = append(b.config.UrgentNeeds, needs...)
	return b
}

// WithMessages seeds the thread under an urgent need
func (b *MockBackendBuilder) WithMessages(needID string, messages ...domain.Message) *MockBackendBuilder {
	b.config.Messages[needID] = append(b.config.Messages[needID], messages...)
	return b
}

// WithReactions seeds reactions under a target key such as
// "listings/<id>" or "urgent/<id>".
func (b *MockBackendBuilder) WithReactions(target string, reactions ...domain.Reaction) *MockBackendBuilder {
	b.config.Reactions[target] = append(b.config.Reactions[target], reactions...)
	return b
}

// WithMatches seeds the caller's matching listings for an urgent need
func (b *MockBackendBuilder) WithMatches(needID string, matches ...domain.ListingMatch) *MockBackendBuilder {
	b.config.Matches[needID] = append(b.config.Matches[needID], matches...)
	return b
}

// WithChatAnswer sets the chatbot's canned reply
func (b *MockBackendBuilder) WithChatAnswer(answer domain.ChatAnswer) *MockBackendBuilder {
	b.config.ChatAnswer = &answer
	return b
}

// WithResolveStatus sets the status word answered when resolving a need
func (b *MockBackendBuilder) WithResolveStatus(needID, status string) *MockBackendBuilder {
	b.config.ResolveStatus[needID] = status
	return b
}

// WithStatus forces an HTTP status code for an exact path
func (b *MockBackendBuilder) WithStatus(path string, code int) *MockBackendBuilder {
	b.config.StatusOverrides[path] = code
	return b
}

// WithCustomHandler takes over a specific path entirely
func (b *MockBackendBuilder) WithCustomHandler(path string, handler http.HandlerFunc) *MockBackendBuilder {
	b.config.CustomHandlers[path] = handler
	return b
}

// Build starts the configured mock backend
func (b *MockBackendBuilder) Build() *MockBackend {
	mock := &MockBackend{
		Config:      b.config,
		RequestLog:  []RequestInfo{},
		profile:     b.config.Profile,
		listings:    append([]domain.Listing{}, b.config.Listings...),
		urgentNeeds: append([]domain.UrgentNeed{}, b.config.UrgentNeeds...),
		messages:    make(map[string][]domain.Message),
		reactions:   make(map[string][]domain.Reaction),
	}
	for id, msgs := range b.config.Messages {
		mock.messages[id] = append([]domain.Message{}, msgs...)
	}
	for target, reactions := range b.config.Reactions {
		mock.reactions[target] = append([]domain.Reaction{}, reactions...)
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(mock.route))
	b.t.Cleanup(mock.Server.Close)

	return mock
}

// Request log helpers

// GetLastRequest returns the most recent request, nil when none arrived
func (m *MockBackend) GetLastRequest() *RequestInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.RequestLog) == 0 {
		return nil
	}
	last := m.RequestLog[len(m.RequestLog)-1]
	return &last
}

// GetRequestCount counts logged requests, all of them when path is empty
func (m *MockBackend) GetRequestCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if path == "" {
		return len(m.RequestLog)
	}

	count := 0
	for _, r := range m.RequestLog {
		if r.Path == path {
			count++
		}
	}
	return count
}

// ClearRequestLog empties the request log
func (m *MockBackend) ClearRequestLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestLog = []RequestInfo{}
}

func (m *MockBackend) logRequest(r *http.Request) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	m.RequestLog = append(m.RequestLog, RequestInfo{
		Method:      r.Method,
		Path:        r.URL.Path,
		Headers:     r.Header.Clone(),
		Body:        body,
		Timestamp:   time.Now(),
		QueryParams: r.URL.Query(),
	})

	return body
}

// Routing

func (m *MockBackend) route(w http.ResponseWriter, r *http.Request) {
	body := m.logRequest(r)

	if handler, exists := m.Config.CustomHandlers[r.URL.Path]; exists {
		handler(w, r)
		return
	}

	if code, exists := m.Config.StatusOverrides[r.URL.Path]; exists {
		w.WriteHeader(code)
		return
	}

	if r.URL.Path == "/health" {
		writeJSON(w, map[string]string{"status": "ok"})
		return
	}

	if m.Config.ValidToken != "" && r.Header.Get("Authorization") != "Bearer "+m.Config.ValidToken {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid authentication credentials"})
		return
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/auth/me":
		writeJSON(w, m.Config.TokenInfo)

	case r.Method == http.MethodGet && r.URL.Path == "/auth/profile":
		m.mu.Lock()
		profile := m.profile
		m.mu.Unlock()
		writeJSON(w, profile)

	case r.Method == http.MethodPost && r.URL.Path == "/auth/profile":
		var profile domain.UserProfile
		json.Unmarshal(body, &profile)
		profile.UID = m.Config.TokenInfo.UID
		m.mu.Lock()
		m.profile = &profile
		m.mu.Unlock()
		writeJSON(w, map[string]string{"status": "ok"})

	case r.Method == http.MethodPost && r.URL.Path == "/listings/":
		m.handleCreateListing(w, body)

	case r.Method == http.MethodGet && r.URL.Path == "/listings/":
		m.mu.Lock()
		listings := append([]domain.Listing{}, m.listings...)
		m.mu.Unlock()
		writeJSON(w, listings)

	case r.Method == http.MethodPatch && len(segments) == 2 && segments[0] == "listings":
		m.handlePatchListing(w, segments[1], body)

	case r.Method == http.MethodPost && r.URL.Path == "/urgent/":
		m.handleCreateUrgentNeed(w, body)

	case r.Method == http.MethodGet && r.URL.Path == "/urgent/nearby":
		m.mu.Lock()
		needs := append([]domain.UrgentNeed{}, m.urgentNeeds...)
		m.mu.Unlock()
		writeJSON(w, needs)

	case r.Method == http.MethodPost && len(segments) == 3 && segments[0] == "urgent" && segments[2] == "resolve":
		status, exists := m.Config.ResolveStatus[segments[1]]
		if !exists {
			status = "ok"
		}
		writeJSON(w, map[string]string{"status": status})

	case len(segments) == 3 && segments[0] == "urgent" && segments[2] == "messages":
		m.handleMessages(w, r.Method, segments[1], body)

	case r.Method == http.MethodGet && len(segments) == 3 && segments[0] == "urgent" && segments[2] == "my-matching-listings":
		writeJSON(w, map[string]interface{}{"listings": m.Config.Matches[segments[1]]})

	case r.Method == http.MethodPost && len(segments) == 3 && segments[0] == "urgent" && segments[2] == "respond-with-listing":
		writeJSON(w, map[string]string{
			"status":     "ok",
			"message_id": uuid.NewString(),
			"message":    "listing shared in the thread",
		})

	case len(segments) == 4 && segments[0] == "reactions" && segments[3] == "reactions":
		m.handleReactions(w, r.Method, segments[1]+"/"+segments[2], body)

	case r.Method == http.MethodPost && r.URL.Path == "/chatbot/query":
		if m.Config.ChatAnswer != nil {
			writeJSON(w, m.Config.ChatAnswer)
			return
		}
		writeJSON(w, domain.ChatAnswer{Response: "Nothing nearby matched your question."})

	default:
		http.NotFound(w, r)
	}
}

func (m *MockBackend) handleCreateListing(w http.ResponseWriter, body []byte) {
	var draft domain.ListingDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	listing := domain.Listing{
		ID:          uuid.NewString(),
		OwnerUID:    m.Config.TokenInfo.UID,
		Title:       draft.Title,
		Description: draft.Description,
		Type:        draft.Type,
		IsFree:      draft.IsFree,
		IsTrade:     draft.IsTrade,
		Category:    draft.Category,
		Lat:         draft.Lat,
		Lng:         draft.Lng,
		Status:      domain.ListingActive,
		CreatedAt:   time.Now().UTC(),
	}

	m.mu.Lock()
	m.listings = append(m.listings, listing)
	m.mu.Unlock()

	writeJSON(w, listing)
}

func (m *MockBackend) handlePatchListing(w http.ResponseWriter, listingID string, body []byte) {
	var patch domain.ListingPatch
	json.Unmarshal(body, &patch)

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.listings {
		if m.listings[i].ID != listingID {
			continue
		}
		if patch.Status != nil {
			m.listings[i].Status = *patch.Status
		}
		if patch.Description != nil {
			m.listings[i].Description = *patch.Description
		}
		writeJSON(w, m.listings[i])
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"detail": "Listing not found"})
}

func (m *MockBackend) handleCreateUrgentNeed(w http.ResponseWriter, body []byte) {
	var draft domain.UrgentNeedDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	need := domain.UrgentNeed{
		ID:          uuid.NewString(),
		UserUID:     m.Config.TokenInfo.UID,
		Title:       draft.Title,
		Description: draft.Description,
		Lat:         draft.Lat,
		Lng:         draft.Lng,
		RadiusKm:    draft.RadiusKm,
		Status:      domain.UrgentActive,
		CreatedAt:   time.Now().UTC(),
	}

	m.mu.Lock()
	m.urgentNeeds = append(m.urgentNeeds, need)
	m.mu.Unlock()

	writeJSON(w, need)
}

func (m *MockBackend) handleMessages(w http.ResponseWriter, method, needID string, body []byte) {
	switch method {
	case http.MethodGet:
		m.mu.Lock()
		messages := append([]domain.Message{}, m.messages[needID]...)
		m.mu.Unlock()
		writeJSON(w, messages)

	case http.MethodPost:
		var draft domain.MessageDraft
		json.Unmarshal(body, &draft)

		message := domain.Message{
			ID:             uuid.NewString(),
			ConversationID: "urgent_" + needID,
			SenderUID:      m.Config.TokenInfo.UID,
			Content:        draft.Content,
			CreatedAt:      time.Now().UTC(),
		}

		m.mu.Lock()
		m.messages[needID] = append(m.messages[needID], message)
		m.mu.Unlock()

		writeJSON(w, message)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (m *MockBackend) handleReactions(w http.ResponseWriter, method, target string, body []byte) {
	switch method {
	case http.MethodGet:
		m.mu.Lock()
		reactions := append([]domain.Reaction{}, m.reactions[target]...)
		m.mu.Unlock()
		writeJSON(w, reactions)

	case http.MethodPost:
		var req struct {
			ReactionType string `json:"reaction_type"`
		}
		json.Unmarshal(body, &req)

		reaction := domain.Reaction{
			ID:        uuid.NewString(),
			UserUID:   m.Config.TokenInfo.UID,
			Type:      domain.ReactionType(req.ReactionType),
			CreatedAt: time.Now().UTC(),
		}

		m.mu.Lock()
		// One reaction per user per target; reacting again replaces it
		kept := m.reactions[target][:0]
		for _, existing := range m.reactions[target] {
			if existing.UserUID != reaction.UserUID {
				kept = append(kept, existing)
			}
		}
		m.reactions[target] = append(kept, reaction)
		m.mu.Unlock()

		writeJSON(w, reaction)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
