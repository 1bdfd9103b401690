package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adityarw/nasabah-scoring-backend/internal/controller"
	appErrors "github.com/adityarw/nasabah-scoring-backend/internal/errors"
	"github.com/adityarw/nasabah-scoring-backend/internal/features"
	"github.com/adityarw/nasabah-scoring-backend/internal/middleware"
	"github.com/adityarw/nasabah-scoring-backend/internal/ml"
	"github.com/adityarw/nasabah-scoring-backend/internal/model"
	"github.com/adityarw/nasabah-scoring-backend/internal/service"
)

// --- Mock Repositories ---

type MockUserRepo struct{}

func (m *MockUserRepo) GetByID(id string) (*model.User, error) {
	if id == "user_1" {
		return &model.User{ID: "user_1", Name: "Demo Agent", Email: "demo@example.com"}, nil
	}
	return nil, nil
}

func (m *MockUserRepo) GetByEmail(email string) (*model.User, error) { return nil, nil }
func (m *MockUserRepo) Create(u *model.User) error                   { return nil }

type MockNasabahRepo struct {
	created      []*model.Nasabah
	statusWrites int
}

func (m *MockNasabahRepo) Create(ctx context.Context, n *model.Nasabah) error {
	n.CreatedAt = time.Now()
	m.created = append(m.created, n)
	return nil
}

func (m *MockNasabahRepo) GetByID(userID, id string) (*model.Nasabah, error) {
	return nil, appErrors.NewNasabahNotFound(id)
}

func (m *MockNasabahRepo) List(userID, statusCall, prediction string, offset, limit int) ([]*model.Nasabah, int, error) {
	return []*model.Nasabah{}, 0, nil
}

func (m *MockNasabahRepo) UpdateFields(userID, id string, name, phone, notes *string) (*model.Nasabah, error) {
	return nil, appErrors.NewNasabahNotFound(id)
}

func (m *MockNasabahRepo) UpdateStatus(userID, id, status string, notes *string) (*model.Nasabah, error) {
	m.statusWrites++
	return &model.Nasabah{ID: id, UserID: userID, StatusCall: status}, nil
}

func (m *MockNasabahRepo) Delete(userID, id string) error {
	return appErrors.NewNasabahNotFound(id)
}

type MockScorer struct{}

func (m *MockScorer) Score(ctx context.Context, fs features.FeatureSet) (*ml.ScoreResult, error) {
	return &ml.ScoreResult{Label: "YES", Probability: 0.8123, Threshold: 0.24, Raw: 1}, nil
}

func (m *MockScorer) ScoreBatch(ctx context.Context, list []features.FeatureSet) (*ml.BatchResult, error) {
	return &ml.BatchResult{}, nil
}

func newTestRouter(repo *MockNasabahRepo) http.Handler {
	svc := &service.NasabahService{
		NasabahRepo: repo,
		Scorer:      &MockScorer{},
	}
	ctrl := &controller.NasabahController{NasabahService: svc}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(&MockUserRepo{}))
		r.Post("/api/nasabah/predict", ctrl.PredictAndCreate)
		r.Get("/api/nasabah/{id}", ctrl.GetByID)
		r.Patch("/api/nasabah/{id}/status", ctrl.UpdateStatus)
		r.Delete("/api/nasabah/{id}", ctrl.Delete)
	})
	return r
}

// --- Tests ---

func TestPredictAndCreateHandler(t *testing.T) {
	repo := &MockNasabahRepo{}
	router := newTestRouter(repo)

	body, _ := json.Marshal(map[string]any{
		"name":      "Budi Santoso",
		"age":       35,
		"job":       "technician",
		"marital":   "married",
		"education": "university.degree",
	})

	req := httptest.NewRequest("POST", "/api/nasabah/predict", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user_1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	var res struct {
		Success bool `json:"success"`
		Data    struct {
			NasabahID   string  `json:"nasabahId"`
			Prediction  string  `json:"prediction"`
			Probability float64 `json:"probability"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !res.Success {
		t.Error("expected success true")
	}
	if res.Data.Prediction != "YES" || res.Data.Probability != 0.8123 {
		t.Errorf("unexpected prediction payload: %+v", res.Data)
	}
	if !strings.HasPrefix(res.Data.NasabahID, "cust_") {
		t.Errorf("expected cust_ id, got %q", res.Data.NasabahID)
	}
	if len(repo.created) != 1 {
		t.Errorf("expected one persisted record, got %d", len(repo.created))
	}
}

func TestPredictAndCreateRejectsMissingFields(t *testing.T) {
	repo := &MockNasabahRepo{}
	router := newTestRouter(repo)

	body, _ := json.Marshal(map[string]any{"name": "Budi Santoso"})
	req := httptest.NewRequest("POST", "/api/nasabah/predict", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user_1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(repo.created) != 0 {
		t.Errorf("nothing should be persisted on validation failure")
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := &MockNasabahRepo{}
	router := newTestRouter(repo)

	body, _ := json.Marshal(map[string]any{"status_call": "contacted"})
	req := httptest.NewRequest("PATCH", "/api/nasabah/cust_abc/status", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user_1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "pending, called, failed, not_interested") {
		t.Errorf("response must name the permitted set, got %s", w.Body.String())
	}
	if repo.statusWrites != 0 {
		t.Errorf("invalid status must not reach the store")
	}
}

func TestGetUnknownRecordReturnsNotFound(t *testing.T) {
	router := newTestRouter(&MockNasabahRepo{})

	req := httptest.NewRequest("GET", "/api/nasabah/cust_missing", nil)
	req.Header.Set("X-User-ID", "user_1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteForeignRecordReturnsNotFound(t *testing.T) {
	// The mock treats every id as unowned, same as a cross-owner delete.
	router := newTestRouter(&MockNasabahRepo{})

	req := httptest.NewRequest("DELETE", "/api/nasabah/cust_foreign", nil)
	req.Header.Set("X-User-ID", "user_1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestMissingIdentityHeaderIsUnauthorized(t *testing.T) {
	router := newTestRouter(&MockNasabahRepo{})

	req := httptest.NewRequest("GET", "/api/nasabah/cust_abc", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUnknownUserIsUnauthorized(t *testing.T) {
	router := newTestRouter(&MockNasabahRepo{})

	req := httptest.NewRequest("GET", "/api/nasabah/cust_abc", nil)
	req.Header.Set("X-User-ID", "user_ghost")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
