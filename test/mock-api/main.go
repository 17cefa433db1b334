package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Standalone in-memory Neighbour Node backend for local development.
// It speaks the same wire format as the real API so the CLI can be
// pointed at it without any other infrastructure running.

type listing struct {
	ID          string    `json:"id"`
	OwnerUID    string    `json:"owner_uid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	IsFree      bool      `json:"is_free"`
	IsTrade     bool      `json:"is_trade"`
	Category    string    `json:"category,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type urgentNeed struct {
	ID          string    `json:"id"`
	UserUID     string    `json:"user_uid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	RadiusKm    float64   `json:"radius_km"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderUID      string    `json:"sender_uid"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type reaction struct {
	ID           string    `json:"id"`
	UserUID      string    `json:"user_uid"`
	ReactionType string    `json:"reaction_type"`
	CreatedAt    time.Time `json:"created_at"`
}

type profile struct {
	UID             string  `json:"uid,omitempty"`
	DisplayName     string  `json:"display_name"`
	PhotoURL        string  `json:"photo_url,omitempty"`
	Bio             string  `json:"bio,omitempty"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	RadiusKmDefault float64 `json:"radius_km_default"`
}

type suggestion struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	IsFree         bool     `json:"is_free"`
	DistanceKm     *float64 `json:"distance_km"`
	RelevanceScore int      `json:"relevance_score"`
}

type externalLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

type server struct {
	mu        sync.Mutex
	listings  map[string]*listing
	needs     map[string]*urgentNeed
	messages  map[string][]message  // keyed by need ID
	reactions map[string][]reaction // keyed by "listings/<id>" or "urgent/<id>"
	profiles  map[string]*profile   // keyed by UID
	nextID    int
}

func main() {
	addr := flag.String("addr", ":8000", "address to listen on")
	flag.Parse()

	s := newServer()
	s.seed()

	fmt.Println("🏘️  Neighbour Node Dev Backend")
	fmt.Println("==============================")
	fmt.Printf("Listening on http://localhost%s\n", *addr)
	fmt.Println()
	fmt.Println("Any bearer token signs you in; the token doubles as your user ID.")
	fmt.Println()
	fmt.Println("Try it:")
	fmt.Printf("  export NN_API_URL=http://localhost%s\n", *addr)
	fmt.Println("  export NN_ID_TOKEN=dev-ada")
	fmt.Println("  nn listings nearby --lat 52.52 --lng 13.405")
	fmt.Println()

	log.Fatal(http.ListenAndServe(*addr, s.routes()))
}

func newServer() *server {
	return &server{
		listings:  make(map[string]*listing),
		needs:     make(map[string]*urgentNeed),
		messages:  make(map[string][]message),
		reactions: make(map[string][]reaction),
		profiles:  make(map[string]*profile),
	}
}

// seed drops a few entries around Alexanderplatz so nearby searches
// return something on first run
func (s *server) seed() {
	s.listings["seed-1"] = &listing{
		ID: "seed-1", OwnerUID: "dev-bob", Title: "Aluminium ladder, 3m",
		Description: "Sturdy, folds flat. Pick up any evening.",
		Type:        "offer", IsFree: true, Category: "tools",
		Lat: 52.523, Lng: 13.41, Status: "active", CreatedAt: time.Now().Add(-26 * time.Hour),
	}
	s.listings["seed-2"] = &listing{
		ID: "seed-2", OwnerUID: "dev-carol", Title: "Looking for a cordless drill",
		Description: "Just for next weekend, shelves to hang.",
		Type:        "request", Category: "tools",
		Lat: 52.517, Lng: 13.395, Status: "active", CreatedAt: time.Now().Add(-3 * time.Hour),
	}
	s.needs["seed-n1"] = &urgentNeed{
		ID: "seed-n1", UserUID: "dev-carol", Title: "Jump starter tonight",
		Description: "Car battery dead, need to leave at 7am.",
		Lat:         52.52, Lng: 13.405, RadiusKm: 2, Status: "active", CreatedAt: time.Now().Add(-40 * time.Minute),
	}
	s.nextID = 3
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /auth/me", s.withAuth(s.handleMe))
	mux.HandleFunc("GET /auth/profile", s.withAuth(s.handleGetProfile))
	mux.HandleFunc("POST /auth/profile", s.withAuth(s.handleSaveProfile))

	mux.HandleFunc("POST /listings/{$}", s.withAuth(s.handleCreateListing))
	mux.HandleFunc("GET /listings/{$}", s.withAuth(s.handleNearbyListings))
	mux.HandleFunc("PATCH /listings/{id}", s.withAuth(s.handlePatchListing))

	mux.HandleFunc("POST /urgent/{$}", s.withAuth(s.handleCreateNeed))
	mux.HandleFunc("GET /urgent/nearby", s.withAuth(s.handleNearbyNeeds))
	mux.HandleFunc("POST /urgent/{id}/resolve", s.withAuth(s.handleResolveNeed))
	mux.HandleFunc("GET /urgent/{id}/messages", s.withAuth(s.handleListMessages))
	mux.HandleFunc("POST /urgent/{id}/messages", s.withAuth(s.handleSendMessage))
	mux.HandleFunc("GET /urgent/{id}/my-matching-listings", s.withAuth(s.handleMatchingListings))
	mux.HandleFunc("POST /urgent/{id}/respond-with-listing", s.withAuth(s.handleRespondWithListing))

	mux.HandleFunc("POST /reactions/listings/{id}/reactions", s.withAuth(s.handleReact("listings")))
	mux.HandleFunc("GET /reactions/listings/{id}/reactions", s.withAuth(s.handleListReactions("listings")))
	mux.HandleFunc("POST /reactions/urgent/{id}/reactions", s.withAuth(s.handleReact("urgent")))
	mux.HandleFunc("GET /reactions/urgent/{id}/reactions", s.withAuth(s.handleListReactions("urgent")))

	mux.HandleFunc("POST /chatbot/query", s.withAuth(s.handleChatQuery))

	return mux
}

type authedHandler func(w http.ResponseWriter, r *http.Request, uid string)

// withAuth accepts any non-empty bearer token and uses it as the UID,
// which keeps multi-user testing as simple as switching NN_ID_TOKEN.
func (s *server) withAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		log.Printf("[API] %s %s (uid %s)", r.Method, r.URL.Path, token)
		next(w, r, token)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request, uid string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"uid":            uid,
		"email":          uid + "@dev.local",
		"email_verified": true,
	})
}

func (s *server) handleGetProfile(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// the real API returns a JSON null body when no profile exists
	writeJSON(w, http.StatusOK, s.profiles[uid])
}

func (s *server) handleSaveProfile(w http.ResponseWriter, r *http.Request, uid string) {
	var p profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid profile body"})
		return
	}
	p.UID = uid

	s.mu.Lock()
	s.profiles[uid] = &p
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCreateListing(w http.ResponseWriter, r *http.Request, uid string) {
	var l listing
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil || l.Title == "" || l.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid listing body"})
		return
	}

	s.mu.Lock()
	l.ID = s.newID("listing")
	l.OwnerUID = uid
	l.Status = "active"
	l.CreatedAt = time.Now()
	s.listings[l.ID] = &l
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, l)
}

func (s *server) handleNearbyListings(w http.ResponseWriter, r *http.Request, uid string) {
	centre, radius, err := parseGeoQuery(r, 3)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := []listing{}
	for _, l := range s.listings {
		if l.Status == "active" && distanceKm(centre.lat, centre.lng, l.Lat, l.Lng) <= radius {
			result = append(result, *l)
		}
	}
	sortByNewest(result, func(l listing) time.Time { return l.CreatedAt })
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handlePatchListing(w http.ResponseWriter, r *http.Request, uid string) {
	var patch struct {
		Status      *string `json:"status"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid patch body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "listing not found"})
		return
	}
	if l.OwnerUID != uid {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "not your listing"})
		return
	}

	if patch.Status != nil {
		l.Status = *patch.Status
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	writeJSON(w, http.StatusOK, *l)
}

func (s *server) handleCreateNeed(w http.ResponseWriter, r *http.Request, uid string) {
	var n urgentNeed
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil || n.Title == "" || n.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid urgent need body"})
		return
	}
	if n.RadiusKm <= 0 {
		n.RadiusKm = 2
	}

	s.mu.Lock()
	n.ID = s.newID("need")
	n.UserUID = uid
	n.Status = "active"
	n.CreatedAt = time.Now()
	s.needs[n.ID] = &n
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, n)
}

func (s *server) handleNearbyNeeds(w http.ResponseWriter, r *http.Request, uid string) {
	centre, radius, err := parseGeoQuery(r, 2)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := []urgentNeed{}
	for _, n := range s.needs {
		if n.Status == "active" && distanceKm(centre.lat, centre.lng, n.Lat, n.Lng) <= radius {
			result = append(result, *n)
		}
	}
	sortByNewest(result, func(n urgentNeed) time.Time { return n.CreatedAt })
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleResolveNeed(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.needs[r.PathValue("id")]
	switch {
	case !ok:
		writeJSON(w, http.StatusOK, map[string]string{"status": "not_found"})
	case n.UserUID != uid:
		writeJSON(w, http.StatusOK, map[string]string{"status": "forbidden"})
	default:
		n.Status = "resolved"
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *server) handleListMessages(w http.ResponseWriter, r *http.Request, uid string) {
	needID := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.needs[needID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "urgent need not found"})
		return
	}
	messages := s.messages[needID]
	if messages == nil {
		messages = []message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *server) handleSendMessage(w http.ResponseWriter, r *http.Request, uid string) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Content == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "message content required"})
		return
	}

	needID := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.needs[needID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "urgent need not found"})
		return
	}

	sent := message{
		ID:             s.newID("msg"),
		ConversationID: "urgent_" + needID,
		SenderUID:      uid,
		Content:        body.Content,
		CreatedAt:      time.Now(),
	}
	s.messages[needID] = append(s.messages[needID], sent)
	writeJSON(w, http.StatusOK, sent)
}

func (s *server) handleMatchingListings(w http.ResponseWriter, r *http.Request, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.needs[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "urgent need not found"})
		return
	}

	type match struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Type        string `json:"type"`
		IsFree      bool   `json:"is_free"`
		MatchScore  int    `json:"match_score"`
	}

	matches := []match{}
	for _, l := range s.listings {
		if l.OwnerUID != uid || l.Status != "active" || l.Type == "request" {
			continue
		}
		if score := matchScore(n, l); score > 0 {
			matches = append(matches, match{
				ID: l.ID, Title: l.Title, Description: l.Description,
				Type: l.Type, IsFree: l.IsFree, MatchScore: score,
			})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchScore > matches[j].MatchScore })
	writeJSON(w, http.StatusOK, map[string]any{"listings": matches})
}

func (s *server) handleRespondWithListing(w http.ResponseWriter, r *http.Request, uid string) {
	var body struct {
		ListingID string `json:"listing_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ListingID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "listing_id required"})
		return
	}

	needID := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.needs[needID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "urgent need not found"})
		return
	}
	l, ok := s.listings[body.ListingID]
	if !ok || l.OwnerUID != uid {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "listing not found"})
		return
	}

	sent := message{
		ID:             s.newID("msg"),
		ConversationID: "urgent_" + n.ID,
		SenderUID:      uid,
		Content:        fmt.Sprintf("I can help with my listing: %s", l.Title),
		CreatedAt:      time.Now(),
	}
	s.messages[needID] = append(s.messages[needID], sent)

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"message_id": sent.ID,
		"message":    sent.Content,
	})
}

var validReactions = map[string]bool{
	"like": true, "helpful": true, "available": true, "unavailable": true,
}

func (s *server) handleReact(kind string) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, uid string) {
		var body struct {
			ReactionType string `json:"reaction_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !validReactions[body.ReactionType] {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid reaction_type"})
			return
		}

		key := kind + "/" + r.PathValue("id")

		s.mu.Lock()
		defer s.mu.Unlock()

		// one reaction per user per target, re-reacting replaces it
		kept := s.reactions[key][:0]
		for _, existing := range s.reactions[key] {
			if existing.UserUID != uid {
				kept = append(kept, existing)
			}
		}
		added := reaction{
			ID:           s.newID("react"),
			UserUID:      uid,
			ReactionType: body.ReactionType,
			CreatedAt:    time.Now(),
		}
		s.reactions[key] = append(kept, added)

		writeJSON(w, http.StatusOK, added)
	}
}

func (s *server) handleListReactions(kind string) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, uid string) {
		key := kind + "/" + r.PathValue("id")

		s.mu.Lock()
		defer s.mu.Unlock()

		reactions := s.reactions[key]
		if reactions == nil {
			reactions = []reaction{}
		}
		writeJSON(w, http.StatusOK, reactions)
	}
}

func (s *server) handleChatQuery(w http.ResponseWriter, r *http.Request, uid string) {
	var query struct {
		Query string   `json:"query"`
		Lat   *float64 `json:"lat"`
		Lng   *float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil || query.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "query required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	suggestions := []suggestion{}
	words := keywords(query.Query)
	for _, l := range s.listings {
		if l.Status != "active" {
			continue
		}
		score := 0
		hay := strings.ToLower(l.Title + " " + l.Description + " " + l.Category)
		for _, word := range words {
			if strings.Contains(hay, word) {
				score += 25
			}
		}
		if score == 0 {
			continue
		}
		if score > 100 {
			score = 100
		}

		entry := suggestion{
			ID: l.ID, Title: l.Title, Description: l.Description,
			Type: l.Type, IsFree: l.IsFree, RelevanceScore: score,
		}
		if query.Lat != nil && query.Lng != nil {
			d := distanceKm(*query.Lat, *query.Lng, l.Lat, l.Lng)
			entry.DistanceKm = &d
		}
		suggestions = append(suggestions, entry)
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].RelevanceScore > suggestions[j].RelevanceScore
	})

	response := fmt.Sprintf("I found %d listing(s) that might help.", len(suggestions))
	links := []externalLink{}
	if len(suggestions) == 0 {
		response = "Nothing on the board matches that right now. You could raise an urgent need or try these:"
		links = append(links, externalLink{
			Platform: "freecycle", URL: "https://www.freecycle.org", Icon: "🔄",
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"response":       response,
		"suggestions":    suggestions,
		"external_links": links,
	})
}

func (s *server) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

type geoPoint struct {
	lat float64
	lng float64
}

func parseGeoQuery(r *http.Request, defaultRadius float64) (geoPoint, float64, error) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return geoPoint{}, 0, fmt.Errorf("lat query parameter required")
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return geoPoint{}, 0, fmt.Errorf("lng query parameter required")
	}

	radius := defaultRadius
	if raw := q.Get("radius_km"); raw != "" {
		if radius, err = strconv.ParseFloat(raw, 64); err != nil {
			return geoPoint{}, 0, fmt.Errorf("radius_km must be a number")
		}
	}
	return geoPoint{lat: lat, lng: lng}, radius, nil
}

// distanceKm is the haversine distance between two WGS84 points
func distanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func matchScore(n *urgentNeed, l *listing) int {
	score := 0
	hay := strings.ToLower(l.Title + " " + l.Description)
	for _, word := range keywords(n.Title + " " + n.Description) {
		if strings.Contains(hay, word) {
			score += 25
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

// keywords keeps words long enough to be meaningful search terms
func keywords(text string) []string {
	var words []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?\"'")
		if len(word) >= 4 {
			words = append(words, word)
		}
	}
	return words
}

func sortByNewest[T any](items []T, createdAt func(T) time.Time) {
	sort.Slice(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}
