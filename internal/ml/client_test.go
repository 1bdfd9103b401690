package ml_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appErrors "github.com/adityarw/nasabah-scoring-backend/internal/errors"
	"github.com/adityarw/nasabah-scoring-backend/internal/features"
	"github.com/adityarw/nasabah-scoring-backend/internal/ml"
)

func TestScoreDecodesResponseVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("expected /predict, got %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if _, ok := body["client"]; !ok {
			t.Error(`request body must wrap features under "client"`)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"label":       "YES",
			"probability": 0.8123,
			"threshold":   0.24,
			"prediction":  1,
		})
	}))
	defer srv.Close()

	c := ml.NewClient(srv.URL)
	res, err := c.Score(context.Background(), features.FeatureSet{Age: 35, Job: "technician"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Label != "YES" || res.Probability != 0.8123 || res.Threshold != 0.24 || res.Raw != 1 {
		t.Errorf("response not decoded verbatim: %+v", res)
	}
}

func TestScorePassesThroughUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"Model not loaded"}`))
	}))
	defer srv.Close()

	c := ml.NewClient(srv.URL)
	_, err := c.Score(context.Background(), features.FeatureSet{})
	if err == nil {
		t.Fatal("expected an error")
	}

	var ue *appErrors.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
	if ue.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", ue.Status)
	}
	if !strings.Contains(ue.Body, "Model not loaded") {
		t.Errorf("expected upstream body to be carried, got %q", ue.Body)
	}
}

func TestScoreTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := ml.NewClient(srv.URL)
	_, err := c.Score(context.Background(), features.FeatureSet{})
	if err == nil {
		t.Fatal("expected an error")
	}

	var ue *appErrors.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
	if ue.Status != 0 {
		t.Errorf("transport failure must carry status 0, got %d", ue.Status)
	}
}

func TestScoreBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict/batch" {
			t.Errorf("expected /predict/batch, got %s", r.URL.Path)
		}
		var body struct {
			Clients []map[string]any `json:"clients"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(body.Clients) != 2 {
			t.Errorf("expected 2 clients, got %d", len(body.Clients))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"predictions": []map[string]any{
				{"label": "YES", "probability": 0.7, "threshold": 0.24, "prediction": 1},
				{"label": "NO", "probability": 0.1, "threshold": 0.24, "prediction": 0},
			},
		})
	}))
	defer srv.Close()

	c := ml.NewClient(srv.URL)
	res, err := c.ScoreBatch(context.Background(), []features.FeatureSet{{Age: 30}, {Age: 40}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(res.Predictions))
	}
	if res.Predictions[0].Label != "YES" || res.Predictions[1].Label != "NO" {
		t.Errorf("unexpected predictions: %+v", res.Predictions)
	}
}

func TestHealthProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("expected /health, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "healthy", "model_loaded": true})
	}))
	defer srv.Close()

	c := ml.NewClient(srv.URL)
	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status["status"] != "healthy" {
		t.Errorf("unexpected health payload: %v", status)
	}
}
