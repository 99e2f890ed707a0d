package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ConversationViewer/internal/config"
	"ConversationViewer/internal/domain"
)

type stubVerifier struct{}

// Verify accepts "token-<user>".
func (stubVerifier) Verify(_ context.Context, token string) (string, error) {
	user, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return user, nil
}

type stubStore struct {
	conversations map[string]domain.Conversation
	err           error
}

func (s *stubStore) List(_ context.Context, userID string) ([]domain.ConversationMeta, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.ConversationMeta
	for _, c := range s.conversations {
		if c.UserID == userID {
			out = append(out, c.Meta())
		}
	}
	return out, nil
}

func (s *stubStore) Get(_ context.Context, userID, id string) (domain.Conversation, error) {
	c, ok := s.conversations[id]
	if !ok || c.UserID != userID {
		return domain.Conversation{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *stubStore) UpdateNotes(context.Context, string, string, domain.NotesUpdate) error {
	return nil
}

func (s *stubStore) Seed(context.Context, string, []domain.Conversation) (int, error) {
	return 0, nil
}

type stubRecommender struct {
	rec    domain.Recommendation
	err    error
	userID string
	convID string
}

func (s *stubRecommender) Recommend(_ context.Context, userID, conversationID string) (domain.Recommendation, error) {
	s.userID, s.convID = userID, conversationID
	return s.rec, s.err
}

type stubNotes struct {
	text string
	err  error
}

func (s stubNotes) Summarize(context.Context, string, string) (string, error) { return s.text, s.err }
func (s stubNotes) Feedback(context.Context, string, string) (string, error) { return s.text, s.err }

type stubOnboarding struct{ created int }

func (s stubOnboarding) InitUser(context.Context, string) (int, error) { return s.created, nil }

type fixture struct {
	store      *stubStore
	news       *stubRecommender
	notes      stubNotes
	onboarding stubOnboarding
	server     config.ServerConfig
}

func newFixture() *fixture {
	return &fixture{
		store: &stubStore{conversations: map[string]domain.Conversation{
			"launch": {ID: "launch", UserID: "alice", Title: "Launch", Content: "# Dialogue\nhi"},
		}},
		news: &stubRecommender{},
	}
}

func (f *fixture) do(t *testing.T, method, path, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	handler := NewHandler(f.store, f.news, f.notes, f.onboarding, nil)
	srv := NewServer(f.server, handler, stubVerifier{}, nil)

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func TestNewsReturnsHeadlines(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.news.rec = domain.Recommendation{
		Headlines: []domain.Article{{
			Title:       "Comet visible",
			Description: "Look up tonight.",
			URL:         "https://news.example/comet",
			Source:      "Sky News",
			PublishedAt: time.Date(2025, time.November, 8, 6, 0, 0, 0, time.UTC),
			Topic:       "science",
		}},
		Topics: []domain.Topic{"science"},
	}

	rec, body := f.do(t, http.MethodPost, "/api/conversations/launch/news", "token-alice")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", f.news.userID)
	assert.Equal(t, "launch", f.news.convID)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{"science"}, body["topics"])
	assert.NotContains(t, body, "message")

	headlines := body["headlines"].([]any)
	require.Len(t, headlines, 1)
	assert.Equal(t, map[string]any{
		"title":       "Comet visible",
		"description": "Look up tonight.",
		"url":         "https://news.example/comet",
		"source":      "Sky News",
		"publishedAt": "2025-11-08T06:00:00Z",
		"topic":       "science",
	}, headlines[0])
}

func TestNewsEmptyOutcomes(t *testing.T) {
	t.Parallel()

	t.Run("no topics", func(t *testing.T) {
		f := newFixture()
		f.news.rec = domain.Recommendation{Message: domain.MessageNoTopics}

		rec, body := f.do(t, http.MethodPost, "/api/conversations/launch/news", "token-alice")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{}, body["headlines"])
		assert.Equal(t, "No relevant topics found", body["message"])
		assert.NotContains(t, body, "topics")
	})

	t.Run("no articles", func(t *testing.T) {
		f := newFixture()
		f.news.rec = domain.Recommendation{
			Headlines: []domain.Article{},
			Topics:    []domain.Topic{"technology"},
			Message:   domain.MessageNoArticles,
		}

		rec, body := f.do(t, http.MethodPost, "/api/conversations/launch/news", "token-alice")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{}, body["headlines"])
		assert.Equal(t, []any{"technology"}, body["topics"])
		assert.Equal(t, "No articles found for selected topics", body["message"])
	})
}

func TestNewsErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		token  string
		status int
		want   map[string]any
	}{
		{"missing token", nil, "", http.StatusUnauthorized, map[string]any{"error": "Unauthorized"}},
		{"bad token", nil, "forged", http.StatusUnauthorized, map[string]any{"error": "Unauthorized"}},
		{
			"unknown conversation",
			fmt.Errorf("load conversation x: %w", domain.ErrNotFound),
			"token-alice",
			http.StatusNotFound,
			map[string]any{"error": "Conversation not found"},
		},
		{
			"classifier down",
			&domain.ClassificationError{Err: errors.New("quota exceeded")},
			"token-alice",
			http.StatusInternalServerError,
			map[string]any{"error": "Failed to fetch news", "details": "classify topics: quota exceeded"},
		},
		{
			"selector down",
			&domain.SelectionError{Err: errors.New("timeout")},
			"token-alice",
			http.StatusInternalServerError,
			map[string]any{"error": "Failed to fetch news", "details": "select headlines: timeout"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.news.err = tc.err

			rec, body := f.do(t, http.MethodPost, "/api/conversations/launch/news", tc.token)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.want, body)
		})
	}
}

func TestConversationRoutes(t *testing.T) {
	t.Parallel()

	f := newFixture()

	rec, body := f.do(t, http.MethodGet, "/api/conversations", "token-alice")
	assert.Equal(t, http.StatusOK, rec.Code)
	list := body["conversations"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "launch", list[0].(map[string]any)["id"])

	rec, body = f.do(t, http.MethodGet, "/api/conversations", "token-bob")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["conversations"])

	rec, body = f.do(t, http.MethodGet, "/api/conversations/launch", "token-alice")
	assert.Equal(t, http.StatusOK, rec.Code)
	conversation := body["conversation"].(map[string]any)
	assert.Equal(t, "# Dialogue\nhi", conversation["dialogue"])

	rec, _ = f.do(t, http.MethodGet, "/api/conversations/launch", "token-bob")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListFailureIs500(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.store.err = errors.New("disk full")

	rec, body := f.do(t, http.MethodGet, "/api/conversations", "token-alice")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to list conversations", body["error"])
}

func TestNotesRoutes(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.notes = stubNotes{text: "Clear and friendly."}

	rec, body := f.do(t, http.MethodPost, "/api/conversations/launch/summarize", "token-alice")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "summary": "Clear and friendly."}, body)

	rec, body = f.do(t, http.MethodPost, "/api/conversations/launch/feedback", "token-alice")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "feedback": "Clear and friendly."}, body)

	f.notes = stubNotes{err: errors.New("upstream 502")}
	rec, body = f.do(t, http.MethodPost, "/api/conversations/launch/summarize", "token-alice")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate summary", body["error"])
}

func TestInitUser(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.onboarding = stubOnboarding{created: 3}

	rec, body := f.do(t, http.MethodPost, "/api/init-user", "token-carol")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "carol", body["userId"])
	assert.Equal(t, "Example conversations created", body["message"])
	assert.EqualValues(t, 3, body["created"])
}

func TestHealthIsPublic(t *testing.T) {
	t.Parallel()

	rec, body := newFixture().do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestGenerationRoutesAreRateLimited(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.server = config.ServerConfig{RateLimit: 0.001, RateBurst: 1}
	f.news.rec = domain.Recommendation{Message: domain.MessageNoTopics}

	handler := NewHandler(f.store, f.news, f.notes, f.onboarding, nil)
	srv := NewServer(f.server, handler, stubVerifier{}, nil)

	send := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/conversations/launch/news", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("token-alice").Code)
	limited := send("token-alice")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, send("token-bob").Code)
}
