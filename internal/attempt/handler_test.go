package attempt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"quizhub/internal/auth"
	"quizhub/internal/models"
)

func newTestRouter(service *Service) *mux.Router {
	handler := NewHandler(service)
	router := mux.NewRouter()
	router.HandleFunc("/api/quiz-sets/{quizId}/attempt", handler.SubmitAttempt).Methods("POST")
	router.HandleFunc("/api/quiz-sets/{quizId}/leaderboard", handler.GetLeaderboard).Methods("GET")
	return router
}

func submitRequestAs(t *testing.T, userID, quizSetID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/quiz-sets/"+quizSetID+"/attempt", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(auth.WithUser(req.Context(), userID, models.RoleUser))
	}
	return req
}

func TestSubmitAttemptEndToEnd(t *testing.T) {
	store := newFakeStore()
	store.quizSets["quiz-1"] = singleQuestionQuizSet()
	store.users["u1"] = models.UserSummary{ID: "u1", FullName: "Alice"}
	router := newTestRouter(newTestService(store))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequestAs(t, "u1", "quiz-1", `{"time":30,"answers":{"q1":[0]}}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var dto models.AttemptDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if dto.Score != 5 || dto.Correct != 1 || dto.Wrong != 0 || dto.Skipped != 0 || dto.Percentage != 100 {
		t.Fatalf("unexpected attempt body: %+v", dto)
	}
	if len(dto.SubmittedAnswers["q1"]) != 1 || dto.SubmittedAnswers["q1"][0] != 0 {
		t.Fatalf("submitted answers not echoed: %v", dto.SubmittedAnswers)
	}
}

func TestSubmitAttemptRequiresAuth(t *testing.T) {
	store := newFakeStore()
	store.quizSets["quiz-1"] = singleQuestionQuizSet()
	router := newTestRouter(newTestService(store))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequestAs(t, "", "quiz-1", `{"time":30,"answers":{}}`))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSubmitAttemptUnknownQuiz(t *testing.T) {
	router := newTestRouter(newTestService(newFakeStore()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequestAs(t, "u1", "missing", `{"time":30,"answers":{}}`))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSubmitAttemptInvalidQuestionID(t *testing.T) {
	store := newFakeStore()
	store.quizSets["quiz-1"] = singleQuestionQuizSet()
	router := newTestRouter(newTestService(store))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequestAs(t, "u1", "quiz-1", `{"time":30,"answers":{"bogus":[0]}}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if store.createCalls != 0 {
		t.Fatalf("rejected submission must not create attempts, got %d inserts", store.createCalls)
	}
}

func TestSubmitAttemptDuplicateConflict(t *testing.T) {
	store := newFakeStore()
	store.quizSets["quiz-1"] = singleQuestionQuizSet()
	store.users["u1"] = models.UserSummary{ID: "u1", FullName: "Alice"}
	router := newTestRouter(newTestService(store))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequestAs(t, "u1", "quiz-1", `{"time":30,"answers":{"q1":[0]}}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first attempt should succeed, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequestAs(t, "u1", "quiz-1", `{"time":30,"answers":{"q1":[0]}}`))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSubmitAttemptRejectsNegativeIndices(t *testing.T) {
	store := newFakeStore()
	store.quizSets["quiz-1"] = singleQuestionQuizSet()
	router := newTestRouter(newTestService(store))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequestAs(t, "u1", "quiz-1", `{"time":30,"answers":{"q1":[-1]}}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitAttemptRejectsMalformedBody(t *testing.T) {
	store := newFakeStore()
	store.quizSets["quiz-1"] = singleQuestionQuizSet()
	router := newTestRouter(newTestService(store))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submitRequestAs(t, "u1", "quiz-1", `{"answers":["q1"]}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	store := newFakeStore()
	store.quizSets["quiz-1"] = singleQuestionQuizSet()
	store.attempts[attemptKey("u1", "quiz-1")] = &models.Attempt{
		UserID:     "u1",
		QuizSetID:  "quiz-1",
		Score:      5,
		Percentage: 100,
	}
	router := newTestRouter(NewService(store, newFakeLeaderboardCache()))

	req := httptest.NewRequest(http.MethodGet, "/api/quiz-sets/quiz-1/leaderboard?page=1&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data       []models.LeaderboardEntry `json:"data"`
		Pagination models.Pagination         `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].UserID != "u1" {
		t.Fatalf("unexpected leaderboard: %+v", body.Data)
	}
	if body.Pagination.Total != 1 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}
}
