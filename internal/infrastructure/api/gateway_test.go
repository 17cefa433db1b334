package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "neighbournode.dev/cli/internal/application/http"
	"neighbournode.dev/cli/internal/core/domain"
	httpdomain "neighbournode.dev/cli/internal/core/domain/http"
	authports "neighbournode.dev/cli/internal/core/ports/auth"
	"neighbournode.dev/cli/internal/core/testfixtures"
	"neighbournode.dev/cli/internal/infrastructure/auth"
	"neighbournode.dev/cli/test/testutil"
)

const testToken = "test-id-token"

func newTestGateway(t *testing.T, mock *testutil.MockBackend, token string) *Gateway {
	t.Helper()

	var provider authports.IdentityProvider
	if token == "" {
		provider = auth.SignedOut()
	} else {
		provider = auth.NewStaticProvider(auth.NewStaticIdentity("test-user-123", "test@example.com", token))
	}

	client := apphttp.NewBackendClient(mock.URL, "neighbournode-cli/test", mock.Client(), apphttp.NewAuthHeaderService(provider))
	return NewGateway(client)
}

func TestGateway_Health(t *testing.T) {
	t.Run("healthy backend", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).Build()
		gateway := newTestGateway(t, mock, "")

		assert.NoError(t, gateway.Health(context.Background()))
	})

	t.Run("degraded backend", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).
			WithCustomHandler("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status":"degraded"}`))
			}).
			Build()
		gateway := newTestGateway(t, mock, "")

		err := gateway.Health(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "degraded")
	})

	t.Run("unreachable route", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).WithStatus("/health", http.StatusBadGateway).Build()
		gateway := newTestGateway(t, mock, "")

		err := gateway.Health(context.Background())

		var statusErr *httpdomain.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	})
}

func TestGateway_Me(t *testing.T) {
	mock := testutil.NewMockBackend(t).
		WithToken(testToken).
		WithTokenInfo(domain.TokenInfo{UID: "user-9", Email: "mira@example.com", EmailVerified: true}).
		Build()
	gateway := newTestGateway(t, mock, testToken)

	info, err := gateway.Me(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "user-9", info.UID)
	assert.Equal(t, "mira@example.com", info.Email)

	last := mock.GetLastRequest()
	require.NotNil(t, last)
	assert.Equal(t, "Bearer "+testToken, last.Headers.Get("Authorization"))
}

func TestGateway_UnauthorizedPassesThrough(t *testing.T) {
	mock := testutil.NewMockBackend(t).WithToken(testToken).Build()
	gateway := newTestGateway(t, mock, "wrong-token")

	_, err := gateway.Me(context.Background())

	var statusErr *httpdomain.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "GET /auth/me failed: 401", statusErr.Error())
}

func TestGateway_Profile(t *testing.T) {
	t.Run("no profile yet", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).Build()
		gateway := newTestGateway(t, mock, "")

		profile, err := gateway.Profile(context.Background())

		require.NoError(t, err)
		assert.Nil(t, profile, "a JSON null body means no profile, not an error")
	})

	t.Run("existing profile", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).
			WithProfile(domain.UserProfile{DisplayName: "Asha", Lat: 12.9716, Lng: 77.5946, RadiusKmDefault: 3}).
			Build()
		gateway := newTestGateway(t, mock, "")

		profile, err := gateway.Profile(context.Background())

		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, "Asha", profile.DisplayName)
	})
}

func TestGateway_SaveProfile(t *testing.T) {
	t.Run("applies default radius before sending", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).Build()
		gateway := newTestGateway(t, mock, "")

		err := gateway.SaveProfile(context.Background(), domain.UserProfile{
			DisplayName: "Asha",
			Lat:         12.9716,
			Lng:         77.5946,
		})
		require.NoError(t, err)

		last := mock.GetLastRequest()
		require.NotNil(t, last)
		assert.Equal(t, http.MethodPost, last.Method)
		assert.Equal(t, "/auth/profile", last.Path)

		var sent domain.UserProfile
		require.NoError(t, json.Unmarshal(last.Body, &sent))
		assert.Equal(t, domain.DefaultSearchRadiusKm, sent.RadiusKmDefault)
	})

	t.Run("invalid profile never reaches the wire", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).Build()
		gateway := newTestGateway(t, mock, "")

		err := gateway.SaveProfile(context.Background(), domain.UserProfile{Lat: 12.9716, Lng: 77.5946})

		require.Error(t, err)
		assert.Equal(t, 0, mock.GetRequestCount(""))
	})
}

func TestGateway_CreateListing(t *testing.T) {
	mock := testutil.NewMockBackend(t).WithToken(testToken).Build()
	gateway := newTestGateway(t, mock, testToken)

	listing, err := gateway.CreateListing(context.Background(), domain.ListingDraft{
		Title:       "Cordless drill",
		Description: "Bosch 18V, weekends only",
		Type:        domain.ListingOffer,
		IsFree:      true,
		Lat:         12.9716,
		Lng:         77.5946,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, listing.ID)
	assert.Equal(t, "test-user-123", listing.OwnerUID)
	assert.Equal(t, domain.ListingActive, listing.Status)
	assert.Equal(t, "/listings/", mock.GetLastRequest().Path)
}

func TestGateway_CreateListing_InvalidDraft(t *testing.T) {
	mock := testutil.NewMockBackend(t).Build()
	gateway := newTestGateway(t, mock, "")

	_, err := gateway.CreateListing(context.Background(), domain.ListingDraft{Title: "No description"})

	require.Error(t, err)
	assert.Equal(t, 0, mock.GetRequestCount(""), "invalid drafts never reach the wire")
}

func TestGateway_NearbyListings(t *testing.T) {
	seeded := testfixtures.NewListingBuilder().WithID("l1").WithTitle("Ladder").Build()

	tests := []struct {
		name           string
		radiusKm       float64
		expectedRadius string
	}{
		{name: "default radius", radiusKm: 0, expectedRadius: "3"},
		{name: "explicit radius", radiusKm: 5.5, expectedRadius: "5.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockBackend(t).WithListings(seeded).Build()
			gateway := newTestGateway(t, mock, "")

			listings, err := gateway.NearbyListings(context.Background(), domain.Coordinates{Lat: 12.9716, Lng: 77.5946}, tt.radiusKm)

			require.NoError(t, err)
			require.Len(t, listings, 1)
			assert.Equal(t, "Ladder", listings[0].Title)

			params := mock.GetLastRequest().QueryParams
			assert.Equal(t, []string{"12.9716"}, params["lat"])
			assert.Equal(t, []string{"77.5946"}, params["lng"])
			assert.Equal(t, []string{tt.expectedRadius}, params["radius_km"])
		})
	}

	t.Run("radius beyond the cap fails locally", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).Build()
		gateway := newTestGateway(t, mock, "")

		_, err := gateway.NearbyListings(context.Background(), domain.Coordinates{}, domain.MaxRadiusKm+1)

		require.Error(t, err)
		assert.Equal(t, 0, mock.GetRequestCount(""))
	})
}

func TestGateway_UpdateListing(t *testing.T) {
	reserved := domain.ListingReserved

	t.Run("patches status", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).
			WithListings(testfixtures.NewListingBuilder().WithID("l1").WithTitle("Ladder").Build()).
			Build()
		gateway := newTestGateway(t, mock, "")

		listing, err := gateway.UpdateListing(context.Background(), "l1", domain.ListingPatch{Status: &reserved})

		require.NoError(t, err)
		assert.Equal(t, domain.ListingReserved, listing.Status)
		assert.Equal(t, http.MethodPatch, mock.GetLastRequest().Method)
	})

	t.Run("unknown listing surfaces the status error", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).Build()
		gateway := newTestGateway(t, mock, "")

		_, err := gateway.UpdateListing(context.Background(), "nope", domain.ListingPatch{Status: &reserved})

		var statusErr *httpdomain.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, "PATCH /listings/nope failed: 404", statusErr.Error())
	})
}

func TestGateway_CreateUrgentNeed_DefaultsRadius(t *testing.T) {
	mock := testutil.NewMockBackend(t).Build()
	gateway := newTestGateway(t, mock, "")

	need, err := gateway.CreateUrgentNeed(context.Background(), domain.UrgentNeedDraft{
		Title:       "Need a car jack",
		Description: "Flat tyre outside building C",
		Lat:         12.9716,
		Lng:         77.5946,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUrgentRadiusKm, need.RadiusKm)
	assert.Equal(t, domain.UrgentActive, need.Status)

	var sent domain.UrgentNeedDraft
	require.NoError(t, json.Unmarshal(mock.GetLastRequest().Body, &sent))
	assert.Equal(t, domain.DefaultUrgentRadiusKm, sent.RadiusKm)
}

func TestGateway_NearbyUrgentNeeds(t *testing.T) {
	mock := testutil.NewMockBackend(t).
		WithUrgentNeeds(testfixtures.NewUrgentNeedBuilder().WithID("u1").WithTitle("Car jack").Build()).
		Build()
	gateway := newTestGateway(t, mock, "")

	needs, err := gateway.NearbyUrgentNeeds(context.Background(), domain.Coordinates{Lat: 12.9716, Lng: 77.5946}, 0)

	require.NoError(t, err)
	require.Len(t, needs, 1)

	last := mock.GetLastRequest()
	assert.Equal(t, "/urgent/nearby", last.Path)
	assert.Equal(t, []string{"2"}, last.QueryParams["radius_km"], "urgent needs default to the tighter radius")
}

func TestGateway_ResolveUrgentNeed(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		expectError bool
		contains    string
	}{
		{name: "resolved", status: "ok"},
		{name: "unknown need", status: "not_found", expectError: true, contains: "not found"},
		{name: "someone else's need", status: "forbidden", expectError: true, contains: "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockBackend(t).WithResolveStatus("u1", tt.status).Build()
			gateway := newTestGateway(t, mock, "")

			err := gateway.ResolveUrgentNeed(context.Background(), "u1")

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.contains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGateway_UrgentMessages(t *testing.T) {
	mock := testutil.NewMockBackend(t).Build()
	gateway := newTestGateway(t, mock, "")

	sent, err := gateway.SendUrgentMessage(context.Background(), "u1", "I have one, flat 4B")
	require.NoError(t, err)
	assert.Equal(t, "urgent_u1", sent.ConversationID)
	assert.Equal(t, "I have one, flat 4B", sent.Content)

	messages, err := gateway.UrgentMessages(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, sent.ID, messages[0].ID)

	_, err = gateway.SendUrgentMessage(context.Background(), "u1", "")
	require.Error(t, err, "empty messages never reach the wire")
}

func TestGateway_MatchingListings(t *testing.T) {
	mock := testutil.NewMockBackend(t).
		WithMatches("u1",
			domain.ListingMatch{ID: "l1", Title: "Car jack", MatchScore: 3},
			domain.ListingMatch{ID: "l2", Title: "Tool box", MatchScore: 1},
		).
		Build()
	gateway := newTestGateway(t, mock, "")

	matches, err := gateway.MatchingListings(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 3, matches[0].MatchScore)
	assert.Equal(t, "/urgent/u1/my-matching-listings", mock.GetLastRequest().Path)
}

func TestGateway_RespondWithListing(t *testing.T) {
	mock := testutil.NewMockBackend(t).Build()
	gateway := newTestGateway(t, mock, "")

	result, err := gateway.RespondWithListing(context.Background(), "u1", "l1")

	require.NoError(t, err)
	assert.Equal(t, "ok", result.Status)
	assert.NotEmpty(t, result.MessageID)

	var sent map[string]string
	require.NoError(t, json.Unmarshal(mock.GetLastRequest().Body, &sent))
	assert.Equal(t, "l1", sent["listing_id"])

	_, err = gateway.RespondWithListing(context.Background(), "u1", "")
	require.Error(t, err)
}

func TestGateway_Reactions(t *testing.T) {
	t.Run("react and list on a listing", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).Build()
		gateway := newTestGateway(t, mock, "")

		first, err := gateway.ReactToListing(context.Background(), "l1", domain.ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, domain.ReactionLike, first.Type)

		// Reacting again replaces, never stacks
		_, err = gateway.ReactToListing(context.Background(), "l1", domain.ReactionHelpful)
		require.NoError(t, err)

		reactions, err := gateway.ListingReactions(context.Background(), "l1")
		require.NoError(t, err)
		require.Len(t, reactions, 1)
		assert.Equal(t, domain.ReactionHelpful, reactions[0].Type)
	})

	t.Run("urgent need reactions", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).
			WithReactions("urgent/u1", domain.Reaction{ID: "r1", UserUID: "other", Type: domain.ReactionAvailable}).
			Build()
		gateway := newTestGateway(t, mock, "")

		reactions, err := gateway.UrgentNeedReactions(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, reactions, 1)
		assert.Equal(t, domain.ReactionAvailable, reactions[0].Type)
	})

	t.Run("invalid reaction type fails locally", func(t *testing.T) {
		mock := testutil.NewMockBackend(t).Build()
		gateway := newTestGateway(t, mock, "")

		_, err := gateway.ReactToListing(context.Background(), "l1", "meh")

		require.Error(t, err)
		assert.Equal(t, 0, mock.GetRequestCount(""))
	})
}

func TestGateway_AskChatbot(t *testing.T) {
	distance := 0.4
	mock := testutil.NewMockBackend(t).
		WithChatAnswer(domain.ChatAnswer{
			Response: "Two neighbours have a drill nearby.",
			Suggestions: []domain.Suggestion{
				{ID: "l1", Title: "Cordless drill", Type: "offer", IsFree: true, DistanceKm: &distance, RelevanceScore: 5},
			},
			ExternalLinks: []domain.ExternalLink{
				{Platform: "QuickMart", URL: "https://quickmart.example/search?q=drill", Icon: "shopping_bag"},
			},
		}).
		Build()
	gateway := newTestGateway(t, mock, "")

	lat, lng := 12.9716, 77.5946
	answer, err := gateway.AskChatbot(context.Background(), domain.ChatQuery{Query: "anyone got a drill?", Lat: &lat, Lng: &lng})

	require.NoError(t, err)
	assert.Contains(t, answer.Response, "drill")
	require.Len(t, answer.Suggestions, 1)
	assert.Equal(t, 5, answer.Suggestions[0].RelevanceScore)
	require.Len(t, answer.ExternalLinks, 1)

	_, err = gateway.AskChatbot(context.Background(), domain.ChatQuery{})
	require.Error(t, err, "empty queries never reach the wire")
}
