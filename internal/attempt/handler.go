package attempt

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"quizhub/internal/apperr"
	"quizhub/internal/auth"
	"quizhub/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	Time    int              `json:"time"`
	Answers map[string][]int `json:"answers"`
}

// validate covers schema-level checks only; question-id membership is the
// service's job.
func (req submitRequest) validate() error {
	if req.Time < 0 {
		return apperr.Validation("time must be a non-negative integer")
	}
	for questionID, indices := range req.Answers {
		for _, idx := range indices {
			if idx < 0 {
				return apperr.Validation("answer indices for question %s must be non-negative", questionID)
			}
		}
	}
	return nil
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		apperr.Write(w, apperr.Unauthorized("authentication required"))
		return
	}
	quizSetID := mux.Vars(r)["quizId"]

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		apperr.Write(w, err)
		return
	}

	record, err := h.service.Submit(r.Context(), userID, quizSetID, req.Time, req.Answers)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record.ToDTO())
}

func (h *Handler) GetQuizSetAttempts(w http.ResponseWriter, r *http.Request) {
	quizSetID := mux.Vars(r)["quizId"]
	page, limit := parsePagination(r)

	attempts, pagination, err := h.service.QuizSetAttempts(r.Context(), quizSetID, page, limit)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	data := make([]models.AttemptDTO, 0, len(attempts))
	for _, a := range attempts {
		data = append(data, a.ToDTO())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":       data,
		"pagination": pagination,
	})
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	quizSetID := mux.Vars(r)["quizId"]
	page, limit := parsePagination(r)

	entries, pagination, err := h.service.Leaderboard(r.Context(), quizSetID, page, limit)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":       entries,
		"pagination": pagination,
	})
}

func parsePagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
