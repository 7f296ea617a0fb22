package user

import (
	"encoding/json"
	"net/http"

	"quizhub/internal/apperr"
	"quizhub/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		apperr.Write(w, apperr.Unauthorized("authentication required"))
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func (h *Handler) GetMyAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		apperr.Write(w, apperr.Unauthorized("authentication required"))
		return
	}

	attempts, err := h.service.Attempts(r.Context(), userID)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": attempts})
}

func (h *Handler) GetMyRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		apperr.Write(w, apperr.Unauthorized("authentication required"))
		return
	}

	ratings, err := h.service.Ratings(r.Context(), userID)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": ratings})
}
