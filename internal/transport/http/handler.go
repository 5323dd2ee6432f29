package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"isekai-quiz-service/internal/app"
	"isekai-quiz-service/internal/domain"
	"isekai-quiz-service/internal/infra/file"
)

// HandlerConfig carries the boundary-layer settings the core never touches.
type HandlerConfig struct {
	// BaseURL, when set, overrides request-derived URL qualification of
	// result image paths.
	BaseURL string
	// ImagesDir is the directory served under /images/. Empty disables it.
	ImagesDir string
	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string
}

// Handler exposes the quiz use cases over plain HTTP.
type Handler struct {
	service *app.QuizService
	ratings *file.RatingsStore
	cfg     HandlerConfig
}

func NewHandler(service *app.QuizService, ratings *file.RatingsStore, cfg HandlerConfig) *Handler {
	return &Handler{service: service, ratings: ratings, cfg: cfg}
}

// Register wires all routes onto mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/start_quiz", h.cors(h.startQuiz, http.MethodPost))
	mux.HandleFunc("/api/answer", h.cors(h.answer, http.MethodPost))
	mux.HandleFunc("/api/restart", h.cors(h.restart, http.MethodPost))
	mux.HandleFunc("/api/submit_rating", h.cors(h.submitRating, http.MethodPost))
	mux.HandleFunc("/api/ratings", h.cors(h.getRatings, http.MethodGet))
	if h.cfg.ImagesDir != "" {
		mux.Handle("/images/", http.StripPrefix("/images/", http.FileServer(http.Dir(h.cfg.ImagesDir))))
	}
}

type answerRequest struct {
	SessionID string `json:"session_id"`
	Choice    string `json:"choice"`
}

type restartRequest struct {
	SessionID string `json:"session_id"`
}

type ratingRequest struct {
	Rating *int `json:"rating"`
}

type startResponse struct {
	SessionID string          `json:"session_id"`
	Question  domain.Question `json:"question"`
}

type replacedResponse struct {
	SessionReplaced bool             `json:"session_replaced"`
	Message         string           `json:"message"`
	SessionID       string           `json:"session_id"`
	Question        *domain.Question `json:"question"`
}

type nextQuestionResponse struct {
	GodResponse  string           `json:"god_response"`
	NextQuestion *domain.Question `json:"next_question"`
}

type completeResponse struct {
	GodResponse  string        `json:"god_response"`
	QuizComplete bool          `json:"quiz_complete"`
	Result       resultPayload `json:"result"`
}

type resultPayload struct {
	PersonalityType  string                `json:"personality_type"`
	TypeName         string                `json:"type_name"`
	Creature         string                `json:"creature"`
	ImageURL         string                `json:"image_url"`
	Description      string                `json:"description"`
	Scores           domain.TraitScores    `json:"scores"`
	TraitQuestions   domain.TraitQuestions `json:"trait_questions"`
	TraitComparisons map[string]string     `json:"trait_comparisons"`
}

type restartResponse struct {
	SessionID string          `json:"session_id,omitempty"`
	Question  domain.Question `json:"question"`
}

type ratingResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Stats   file.RatingStats `json:"stats"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) startQuiz(w http.ResponseWriter, r *http.Request) {
	started, err := h.service.Start(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, startResponse{SessionID: started.SessionID, Question: started.Question})
}

func (h *Handler) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Request must be JSON"})
		return
	}

	outcome, err := h.service.Answer(r.Context(), req.SessionID, req.Choice)
	switch {
	case errors.Is(err, domain.ErrQuizCompleted):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	switch {
	case outcome.SessionReplaced:
		writeJSON(w, http.StatusOK, replacedResponse{
			SessionReplaced: true,
			Message:         outcome.Message,
			SessionID:       outcome.SessionID,
			Question:        outcome.Question,
		})
	case outcome.Complete:
		writeJSON(w, http.StatusOK, completeResponse{
			GodResponse:  outcome.GodResponse,
			QuizComplete: true,
			Result:       h.resultPayload(r, outcome.Result),
		})
	default:
		writeJSON(w, http.StatusOK, nextQuestionResponse{
			GodResponse:  outcome.GodResponse,
			NextQuestion: outcome.Question,
		})
	}
}

func (h *Handler) restart(w http.ResponseWriter, r *http.Request) {
	var req restartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Request must be JSON"})
		return
	}
	restarted, err := h.service.Restart(r.Context(), req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, restartResponse{SessionID: restarted.SessionID, Question: restarted.Question})
}

func (h *Handler) submitRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Request must be JSON"})
		return
	}
	if req.Rating == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing rating"})
		return
	}
	stats, err := h.ratings.Add(*req.Rating)
	switch {
	case errors.Is(err, domain.ErrInvalidRating):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to save rating statistics"})
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{
		Success: true,
		Message: "Rating recorded anonymously",
		Stats:   stats,
	})
}

func (h *Handler) getRatings(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ratings.Stats()
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "No ratings data available"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// resultPayload qualifies the relative image path against the request base URL.
func (h *Handler) resultPayload(r *http.Request, result *domain.CompletedResult) resultPayload {
	return resultPayload{
		PersonalityType:  result.PersonalityType,
		TypeName:         result.TypeName,
		Creature:         result.Creature,
		ImageURL:         h.baseURL(r) + result.ImagePath,
		Description:      result.Description,
		Scores:           result.Scores,
		TraitQuestions:   result.TraitQuestions,
		TraitComparisons: result.TraitComparisons,
	}
}

func (h *Handler) baseURL(r *http.Request) string {
	if h.cfg.BaseURL != "" {
		return strings.TrimRight(h.cfg.BaseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// cors enforces the method, answers preflight requests, and reflects allowed
// origins.
func (h *Handler) cors(next http.HandlerFunc, method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if h.originAllowed(origin) {
			allow := origin
			if allow == "" {
				allow = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", allow)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
			w.Header().Set("Access-Control-Allow-Methods", method+",OPTIONS")
		}
		if r.Method == http.MethodOptions {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		if r.Method != method {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}
		next(w, r)
	}
}

func (h *Handler) originAllowed(origin string) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == origin || allowed == "*" {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
