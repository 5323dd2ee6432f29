package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"isekai-quiz-service/internal/app"
	"isekai-quiz-service/internal/domain"
	"isekai-quiz-service/internal/infra/file"
	"isekai-quiz-service/internal/infra/memory"
)

func newTestServer(t *testing.T, cfg HandlerConfig) *httptest.Server {
	t.Helper()
	store := memory.NewSessionStore()
	repo := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(transportCatalog()), time.Minute)
	service := app.NewQuizService(store, repo, domain.DefaultResults(), app.DefaultSequenceOverride)
	ratings := file.NewRatingsStore(filepath.Join(t.TempDir(), "ratings.json"))

	handler := NewHandler(service, ratings, cfg)
	mux := http.NewServeMux()
	handler.Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func transportCatalog() domain.Catalog {
	return domain.Catalog{
		{ID: "intro", Text: "Welcome", Options: []domain.Option{{Text: "Hi", Response: "Hello."}}},
		{ID: "intro2", Text: "Ready?", Options: []domain.Option{{Text: "Yes"}}},
		{ID: "q1", Text: "Crowds?", Options: []domain.Option{
			{Text: "Love them", Trait: domain.TraitE},
			{Text: "No thanks", Trait: domain.TraitI},
		}},
	}
}

func postJSON(t *testing.T, url string, body any) map[string]any {
	t.Helper()
	raw, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	decoded["_status"] = float64(resp.StatusCode)
	return decoded
}

func TestStartAnswerCompleteFlow(t *testing.T) {
	server := newTestServer(t, HandlerConfig{})

	started := postJSON(t, server.URL+"/api/start_quiz", map[string]any{})
	sessionID, _ := started["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("expected session_id, got %+v", started)
	}
	question := started["question"].(map[string]any)
	if question["id"] != "intro" {
		t.Fatalf("expected intro first, got %+v", question)
	}

	next := postJSON(t, server.URL+"/api/answer", map[string]any{"session_id": sessionID, "choice": "Hi"})
	if next["god_response"] != "Hello." {
		t.Fatalf("expected god response, got %+v", next)
	}
	if next["next_question"].(map[string]any)["id"] != "intro2" {
		t.Fatalf("expected intro2 next, got %+v", next)
	}

	postJSON(t, server.URL+"/api/answer", map[string]any{"session_id": sessionID, "choice": "Yes"})
	final := postJSON(t, server.URL+"/api/answer", map[string]any{"session_id": sessionID, "choice": "No thanks"})
	if final["quiz_complete"] != true {
		t.Fatalf("expected completion, got %+v", final)
	}
	result := final["result"].(map[string]any)
	if result["personality_type"] != "INFP" {
		t.Fatalf("expected INFP, got %v", result["personality_type"])
	}
	imageURL, _ := result["image_url"].(string)
	if !strings.HasPrefix(imageURL, "http://") || !strings.HasSuffix(imageURL, "/images/creatures/unicorn.jpg") {
		t.Fatalf("image URL not qualified: %q", imageURL)
	}
}

func TestAnswerUnknownSessionReturnsReplacement(t *testing.T) {
	server := newTestServer(t, HandlerConfig{})

	resp := postJSON(t, server.URL+"/api/answer", map[string]any{"session_id": "bogus", "choice": "x"})
	if resp["_status"] != float64(http.StatusOK) {
		t.Fatalf("replacement must not be an HTTP error: %+v", resp)
	}
	if resp["session_replaced"] != true {
		t.Fatalf("expected session_replaced, got %+v", resp)
	}
	if resp["session_id"] == "" || resp["question"].(map[string]any)["id"] != "intro" {
		t.Fatalf("expected fresh session and first question, got %+v", resp)
	}
}

func TestAnswerAfterCompletionConflicts(t *testing.T) {
	server := newTestServer(t, HandlerConfig{})

	started := postJSON(t, server.URL+"/api/start_quiz", nil)
	sessionID := started["session_id"].(string)
	for _, choice := range []string{"Hi", "Yes", "Love them"} {
		postJSON(t, server.URL+"/api/answer", map[string]any{"session_id": sessionID, "choice": choice})
	}

	resp := postJSON(t, server.URL+"/api/answer", map[string]any{"session_id": sessionID, "choice": "Love them"})
	if resp["_status"] != float64(http.StatusConflict) {
		t.Fatalf("expected 409 for post-completion answer, got %+v", resp)
	}
}

func TestRestartEndpoint(t *testing.T) {
	server := newTestServer(t, HandlerConfig{})

	started := postJSON(t, server.URL+"/api/start_quiz", nil)
	sessionID := started["session_id"].(string)

	resp := postJSON(t, server.URL+"/api/restart", map[string]any{"session_id": sessionID})
	if _, ok := resp["session_id"]; ok {
		t.Fatalf("reused session must not return a new id: %+v", resp)
	}
	if resp["question"].(map[string]any)["id"] != "q1" {
		t.Fatalf("restart should land on q1, got %+v", resp)
	}

	fresh := postJSON(t, server.URL+"/api/restart", map[string]any{"session_id": "unknown"})
	if fresh["session_id"] == "" {
		t.Fatalf("unknown id should create a session: %+v", fresh)
	}
}

func TestRatingsEndpoints(t *testing.T) {
	server := newTestServer(t, HandlerConfig{})

	missing := postJSON(t, server.URL+"/api/submit_rating", map[string]any{})
	if missing["_status"] != float64(http.StatusBadRequest) || missing["error"] != "Missing rating" {
		t.Fatalf("expected missing-rating error, got %+v", missing)
	}

	invalid := postJSON(t, server.URL+"/api/submit_rating", map[string]any{"rating": 6})
	if invalid["_status"] != float64(http.StatusBadRequest) {
		t.Fatalf("expected 400 for out-of-range rating, got %+v", invalid)
	}

	ok := postJSON(t, server.URL+"/api/submit_rating", map[string]any{"rating": 5})
	if ok["success"] != true {
		t.Fatalf("expected success, got %+v", ok)
	}

	resp, err := http.Get(server.URL + "/api/ratings")
	if err != nil {
		t.Fatalf("get ratings: %v", err)
	}
	defer resp.Body.Close()
	var stats map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats["count"] != float64(1) || stats["avg"] != float64(5) {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCORSPreflightAndOriginFilter(t *testing.T) {
	server := newTestServer(t, HandlerConfig{AllowedOrigins: []string{"https://quiz.example"}})

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/start_quiz", nil)
	req.Header.Set("Origin", "https://quiz.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preflight status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://quiz.example" {
		t.Fatalf("expected origin echo, got %q", got)
	}

	req, _ = http.NewRequest(http.MethodOptions, server.URL+"/api/start_quiz", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("disallowed origin must get no CORS header, got %q", got)
	}
}

func TestMethodEnforcement(t *testing.T) {
	server := newTestServer(t, HandlerConfig{})
	resp, err := http.Get(server.URL + "/api/start_quiz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
