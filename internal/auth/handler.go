package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"quizhub/internal/apperr"
	"quizhub/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req RegisterRequest) validate() error {
	details := map[string]string{}
	if strings.TrimSpace(req.FullName) == "" {
		details["full_name"] = "full name is required"
	}
	if !strings.Contains(req.Email, "@") {
		details["email"] = "invalid email format"
	}
	if len(req.Password) < 8 {
		details["password"] = "password must be at least 8 characters long"
	}
	if len(details) > 0 {
		return apperr.ValidationWithDetails("invalid registration payload", details)
	}
	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}

	token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		apperr.Write(w, err)
		return
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}

	if err := h.service.Register(user); err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user.Summary())
}
