package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/willora/willora-backend/internal/models"
	"github.com/willora/willora-backend/internal/services"
	"github.com/willora/willora-backend/internal/store/memstore"
)

type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Generate(context.Context, string) (string, error) {
	return g.reply, g.err
}

func newTestServer(t *testing.T, gen services.Generator) *httptest.Server {
	t.Helper()

	s := memstore.New()
	clock := services.SystemClock(time.UTC)
	tokens := services.NewTokenIssuer("test-secret", time.Hour)

	r := chi.NewRouter()
	SetupRoutes(r, Services{
		Auth:      services.NewAuthService(s.Users, tokens),
		Journals:  services.NewJournalService(s.Journals, clock),
		Stats:     services.NewStatsService(s, clock),
		Community: services.NewCommunityService(s.Posts, clock),
		Dashboard: services.NewDashboardService(s, clock, []string{"tip"}, []string{"quote"}),
		AI:        services.NewAIService(gen, "SYSTEM", "No response from AI"),
	}, tokens)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func register(t *testing.T, srv *httptest.Server, name, email string) services.AuthResult {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "pw-123456",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: %d %s", resp.StatusCode, body)
	}
	return decode[services.AuthResult](t, body)
}

func TestCommunityPostThenList(t *testing.T) {
	srv := newTestServer(t, stubGenerator{reply: "ok"})

	_, _ = do(t, srv, http.MethodPost, "/api/community", "", map[string]string{"content": "older"})

	resp, body := do(t, srv, http.MethodPost, "/api/community", "", map[string]string{
		"content": "hello", "postedBy": "Alice",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: %d %s", resp.StatusCode, body)
	}
	created := decode[map[string]any](t, body)
	if created["likes"] != float64(0) {
		t.Errorf("likes = %v, want 0", created["likes"])
	}
	if comments, ok := created["comments"].([]any); !ok || len(comments) != 0 {
		t.Errorf("comments = %v, want []", created["comments"])
	}
	if created["postedBy"] != "Alice" {
		t.Errorf("postedBy = %v", created["postedBy"])
	}

	resp, body = do(t, srv, http.MethodGet, "/api/community", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list posts: %d", resp.StatusCode)
	}
	posts := decode[[]models.Post](t, body)
	if len(posts) != 2 || posts[0].Content != "hello" {
		t.Fatalf("newest post not first: %+v", posts)
	}
}

func TestCommunityValidationUsesErrorKey(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})

	resp, body := do(t, srv, http.MethodPost, "/api/community", "", map[string]string{"content": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if msg := decode[map[string]string](t, body)["error"]; msg == "" {
		t.Fatalf("missing error key in %s", body)
	}

	resp, body = do(t, srv, http.MethodGet, "/api/community/unknown/comments", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("comments of unknown post: %d %s", resp.StatusCode, body)
	}
}

func TestUpvoteToggleRoundTrip(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})
	user := register(t, srv, "Voter", "voter@example.com")

	_, body := do(t, srv, http.MethodPost, "/api/community", "", map[string]string{"content": "vote me"})
	post := decode[models.Post](t, body)

	// Voter taken from the body.
	_, body = do(t, srv, http.MethodPost, "/api/community/"+post.ID+"/upvote", "", map[string]string{"userId": "u-1"})
	if got := decode[models.Post](t, body); got.Likes != 1 {
		t.Fatalf("likes after body vote = %d", got.Likes)
	}

	// Voter taken from the token when the body names none.
	_, body = do(t, srv, http.MethodPost, "/api/community/"+post.ID+"/upvote", user.Token, map[string]string{})
	got := decode[models.Post](t, body)
	if got.Likes != 2 || got.UpvotedBy[1] != user.User.ID {
		t.Fatalf("after token vote: %+v", got)
	}

	_, body = do(t, srv, http.MethodPost, "/api/community/"+post.ID+"/upvote", "", map[string]string{"userId": "u-1"})
	if got := decode[models.Post](t, body); got.Likes != 1 {
		t.Fatalf("likes after un-vote = %d", got.Likes)
	}

	resp, _ := do(t, srv, http.MethodPost, "/api/community/"+post.ID+"/upvote", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("anonymous vote without userId: %d", resp.StatusCode)
	}
}

func TestSignedInUpvoteIgnoresBodyUserID(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})
	mallory := register(t, srv, "Mallory", "mallory@example.com")

	_, body := do(t, srv, http.MethodPost, "/api/community", "", map[string]string{"content": "liked"})
	post := decode[models.Post](t, body)

	_, body = do(t, srv, http.MethodPost, "/api/community/"+post.ID+"/upvote", "", map[string]string{"userId": "victim"})
	if got := decode[models.Post](t, body); got.Likes != 1 {
		t.Fatalf("likes after victim vote = %d", got.Likes)
	}

	// Naming the victim in the body adds the caller's own like instead of removing the victim's.
	_, body = do(t, srv, http.MethodPost, "/api/community/"+post.ID+"/upvote", mallory.Token, map[string]string{"userId": "victim"})
	got := decode[models.Post](t, body)
	if got.Likes != 2 || len(got.UpvotedBy) != 2 || got.UpvotedBy[0] != "victim" || got.UpvotedBy[1] != mallory.User.ID {
		t.Fatalf("after signed-in vote: %+v", got)
	}
}

func TestDeletePostOwnership(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})
	alice := register(t, srv, "Alice", "alice@example.com")
	bob := register(t, srv, "Bob", "bob@example.com")

	_, body := do(t, srv, http.MethodPost, "/api/community", alice.Token, map[string]string{"content": "mine"})
	post := decode[models.Post](t, body)
	if post.AuthorID != alice.User.ID {
		t.Fatalf("authorId = %q, want %q", post.AuthorID, alice.User.ID)
	}

	resp, _ := do(t, srv, http.MethodDelete, "/api/community/"+post.ID, bob.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("delete by another user: %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodDelete, "/api/community/"+post.ID, alice.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete by author: %d", resp.StatusCode)
	}
	resp, body = do(t, srv, http.MethodDelete, "/api/community/"+post.ID, alice.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: %d %s", resp.StatusCode, body)
	}
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})
	user := register(t, srv, "Alice", "Alice@Example.com")
	if user.Token == "" || user.User.Email != "alice@example.com" {
		t.Fatalf("unexpected register result: %+v", user)
	}

	resp, body := do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Again", "email": " alice@example.com ", "password": "x",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: %d", resp.StatusCode)
	}
	if msg := decode[map[string]string](t, body)["message"]; msg != "User already exists" {
		t.Fatalf("message = %q", msg)
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "pw",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown email: %d", resp.StatusCode)
	}

	resp, body = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ALICE@example.com", "password": "pw-123456",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: %d %s", resp.StatusCode, body)
	}
	login := decode[services.AuthResult](t, body)
	if bytes.Contains(body, []byte("password")) {
		t.Fatalf("password hash leaked: %s", body)
	}

	resp, body = do(t, srv, http.MethodPut, "/api/auth/update", login.Token, map[string]string{"name": "Alicia"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: %d %s", resp.StatusCode, body)
	}
	updated := decode[map[string]models.User](t, body)["user"]
	if updated.Name != "Alicia" || updated.Email != "alice@example.com" {
		t.Fatalf("updated user: %+v", updated)
	}

	resp, body = do(t, srv, http.MethodGet, "/api/auth/me", login.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: %d %s", resp.StatusCode, body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})

	for _, path := range []string{"/api/journal", "/api/journals/stats", "/api/dashboard/tip", "/api/auth/me"} {
		resp, _ := do(t, srv, http.MethodGet, path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without token: %d, want 401", path, resp.StatusCode)
		}
		resp, _ = do(t, srv, http.MethodGet, path, "garbage", nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("GET %s with bad token: %d, want 403", path, resp.StatusCode)
		}
	}
}

func TestJournalAndStats(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})
	alice := register(t, srv, "Alice", "alice@example.com")
	bob := register(t, srv, "Bob", "bob@example.com")

	resp, body := do(t, srv, http.MethodPost, "/api/journal", alice.Token, map[string]string{
		"text": "Sunny walk", "mood": "Very Happy",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create entry: %d %s", resp.StatusCode, body)
	}
	entry := decode[models.JournalEntry](t, body)
	if entry.DateOnly != time.Now().UTC().Format(models.DateLayout) {
		t.Errorf("dateOnly = %q, want today", entry.DateOnly)
	}
	_, _ = do(t, srv, http.MethodPost, "/api/journal", alice.Token, map[string]string{"text": "Fine", "mood": "Happy"})

	resp, _ = do(t, srv, http.MethodPost, "/api/journal", alice.Token, map[string]string{"text": "no mood"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing mood: %d", resp.StatusCode)
	}

	_, body = do(t, srv, http.MethodGet, "/api/journal", bob.Token, nil)
	if entries := decode[[]models.JournalEntry](t, body); len(entries) != 0 {
		t.Fatalf("bob sees %d of alice's entries", len(entries))
	}

	resp, _ = do(t, srv, http.MethodDelete, "/api/journal/"+entry.ID, bob.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete: %d, want 404", resp.StatusCode)
	}

	resp, body = do(t, srv, http.MethodGet, "/api/journals/stats", alice.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: %d %s", resp.StatusCode, body)
	}
	stats := decode[models.UserStats](t, body)
	if stats.TotalEntries != 2 || stats.AverageMood != 4.5 || stats.Streak != 1 {
		t.Fatalf("unexpected stats: %s", body)
	}
	if !bytes.Contains(body, []byte(`"averageMood":4.5`)) {
		t.Fatalf("averageMood encoding: %s", body)
	}

	resp, _ = do(t, srv, http.MethodDelete, "/api/journal/"+entry.ID, alice.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner delete: %d", resp.StatusCode)
	}
}

func TestDashboardRoutes(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})
	user := register(t, srv, "Alice", "alice@example.com")
	_, _ = do(t, srv, http.MethodPost, "/api/journal", user.Token, map[string]string{"text": "t", "mood": "Sad"})

	_, body := do(t, srv, http.MethodGet, "/api/dashboard/stats", user.Token, nil)
	if totals := decode[models.JournalTotals](t, body); totals.Total != 1 || totals.Streak != 1 {
		t.Fatalf("dashboard stats: %s", body)
	}

	_, body = do(t, srv, http.MethodGet, "/api/dashboard/mood-trend", user.Token, nil)
	if points := decode[[]models.MoodPoint](t, body); len(points) != 1 || points[0].Mood != "Sad" {
		t.Fatalf("mood trend: %s", body)
	}

	_, body = do(t, srv, http.MethodGet, "/api/dashboard/tip", user.Token, nil)
	if decode[map[string]string](t, body)["tip"] != "tip" {
		t.Fatalf("tip: %s", body)
	}

	resp, body := do(t, srv, http.MethodGet, "/api/insights/quote", "", nil)
	if resp.StatusCode != http.StatusOK || decode[map[string]string](t, body)["quote"] != "quote" {
		t.Fatalf("quote: %d %s", resp.StatusCode, body)
	}
}

func TestAIRoutes(t *testing.T) {
	t.Run("relays the reply", func(t *testing.T) {
		srv := newTestServer(t, stubGenerator{reply: "You sound calm."})
		user := register(t, srv, "Alice", "alice@example.com")

		resp, body := do(t, srv, http.MethodPost, "/api/ai/analyze", user.Token, map[string]string{"journalText": "calm day"})
		if resp.StatusCode != http.StatusOK || decode[map[string]string](t, body)["aiMessage"] != "You sound calm." {
			t.Fatalf("analyze: %d %s", resp.StatusCode, body)
		}

		resp, body = do(t, srv, http.MethodPost, "/api/chat", "", map[string]string{"message": "hi"})
		if resp.StatusCode != http.StatusOK || decode[map[string]string](t, body)["reply"] != "You sound calm." {
			t.Fatalf("chat: %d %s", resp.StatusCode, body)
		}
	})

	t.Run("falls back on upstream failure", func(t *testing.T) {
		srv := newTestServer(t, services.DisabledGenerator())
		user := register(t, srv, "Alice", "alice@example.com")

		resp, body := do(t, srv, http.MethodPost, "/api/ai/analyze", user.Token, map[string]string{"journalText": "x"})
		if resp.StatusCode != http.StatusOK || decode[map[string]string](t, body)["aiMessage"] != "No response from AI" {
			t.Fatalf("analyze fallback: %d %s", resp.StatusCode, body)
		}
	})

	t.Run("validates input", func(t *testing.T) {
		srv := newTestServer(t, stubGenerator{reply: "x"})
		user := register(t, srv, "Alice", "alice@example.com")

		resp, _ := do(t, srv, http.MethodPost, "/api/ai/analyze", user.Token, map[string]string{})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("analyze without text: %d", resp.StatusCode)
		}
		resp, body := do(t, srv, http.MethodPost, "/api/chat", "", map[string]string{})
		if resp.StatusCode != http.StatusBadRequest || decode[map[string]string](t, body)["error"] == "" {
			t.Fatalf("chat without message: %d %s", resp.StatusCode, body)
		}
		resp, _ = do(t, srv, http.MethodPost, "/api/ai/analyze", "", map[string]string{"journalText": "x"})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("analyze without token: %d", resp.StatusCode)
		}
	})
}
