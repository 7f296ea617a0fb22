package quiz

import (
	"encoding/json"
	"net/http"

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

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) CreateQuizSet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		apperr.Write(w, apperr.Unauthorized("authentication required"))
		return
	}

	var input QuizSetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}

	quizSet, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quizSet.ToDTO(true))
}

func (h *Handler) UpdateQuizSet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	quizSetID := mux.Vars(r)["quizId"]

	var update QuizSetUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}

	quizSet, err := h.service.Update(r.Context(), userID, quizSetID, update)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizSet.ToDTO(true))
}

func (h *Handler) PublishQuizSet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	quizSetID := mux.Vars(r)["quizId"]

	quizSet, err := h.service.Publish(r.Context(), userID, quizSetID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizSet.ToDTO(true))
}

func (h *Handler) DeleteQuizSet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	quizSetID := mux.Vars(r)["quizId"]

	if err := h.service.Delete(r.Context(), userID, quizSetID); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetQuizSet serves the taker view: answers and explanations are stripped
// unless the requester owns the quiz set.
func (h *Handler) GetQuizSet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	quizSetID := mux.Vars(r)["quizId"]

	quizSet, err := h.service.Get(r.Context(), quizSetID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizSet.ToDTO(quizSet.UserID == userID))
}

func (h *Handler) ListQuizSets(w http.ResponseWriter, r *http.Request) {
	quizSets, err := h.service.ListPublished(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	data := make([]models.QuizSetDTO, 0, len(quizSets))
	for _, quizSet := range quizSets {
		data = append(data, quizSet.ToDTO(false))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

func (h *Handler) ListMyQuizSets(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)

	quizSets, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	data := make([]models.QuizSetDTO, 0, len(quizSets))
	for _, quizSet := range quizSets {
		data = append(data, quizSet.ToDTO(true))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	quizSetID := mux.Vars(r)["quizId"]

	questions, err := h.service.Questions(r.Context(), userID, quizSetID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": questions})
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	quizSetID := mux.Vars(r)["quizId"]

	var input QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}

	question, err := h.service.AddQuestion(r.Context(), userID, quizSetID, input)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question.ToDTO(true))
}

func (h *Handler) AddBulkQuestions(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	quizSetID := mux.Vars(r)["quizId"]

	var inputs []QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}

	questions, err := h.service.AddQuestions(r.Context(), userID, quizSetID, inputs)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	data := make([]models.QuestionDTO, 0, len(questions))
	for _, q := range questions {
		data = append(data, q.ToDTO(true))
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": data})
}

func (h *Handler) EditQuestion(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	questionID := mux.Vars(r)["questionId"]

	var input QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}

	question, err := h.service.EditQuestion(r.Context(), userID, questionID, input)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question.ToDTO(true))
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	questionID := mux.Vars(r)["questionId"]

	if err := h.service.RemoveQuestion(r.Context(), userID, questionID); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type rateRequest struct {
	Rating int `json:"rating"`
}

func (h *Handler) RateQuizSet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		apperr.Write(w, apperr.Unauthorized("authentication required"))
		return
	}
	quizSetID := mux.Vars(r)["quizId"]

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}

	rating, err := h.service.Rate(r.Context(), userID, quizSetID, req.Rating)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rating)
}
