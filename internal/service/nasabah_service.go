// internal/service/nasabah_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/adityarw/nasabah-scoring-backend/internal/errors"
	"github.com/adityarw/nasabah-scoring-backend/internal/features"
	"github.com/adityarw/nasabah-scoring-backend/internal/ml"
	"github.com/adityarw/nasabah-scoring-backend/internal/model"
	"github.com/adityarw/nasabah-scoring-backend/internal/queue"
	"github.com/adityarw/nasabah-scoring-backend/internal/repository"
)

type NasabahService struct {
	NasabahRepo repository.NasabahRepositoryInterface
	Scorer      ml.Scorer
	Queue       queue.Queue
}

// CreateResult is what a successful create returns to the caller.
type CreateResult struct {
	NasabahID   string    `json:"nasabahId"`
	Prediction  string    `json:"prediction"`
	Probability float64   `json:"probability"`
	Timestamp   time.Time `json:"timestamp"`
}

// Pagination mirrors the list response envelope.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

var requiredCreateFields = []string{"name", "age", "job", "marital", "education"}

// Create runs the full scoring sequence: gate on required fields,
// normalize and default the features once, call the scoring API, then
// persist the snapshot together with the outcome in one transaction. The
// scoring call happens before the transaction opens so no connection is
// held across the network round-trip, and a scoring failure writes
// nothing at all.
func (s *NasabahService) Create(ctx context.Context, userID string, payload map[string]any) (*CreateResult, error) {
	missing := []string{}
	for _, field := range requiredCreateFields {
		if isAbsent(payload[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.NewValidation("Required fields: name, age, job, marital, education", missing)
	}

	norm := features.Normalize(payload)
	fs := features.ForCreate(norm)

	result, err := s.Scorer.Score(ctx, fs)
	if err != nil {
		return nil, err
	}

	name, _ := payload["name"].(string)
	var phone *string
	if p, ok := payload["phone"].(string); ok && p != "" {
		phone = &p
	}

	n := &model.Nasabah{
		ID:            newNasabahID(),
		UserID:        userID,
		Name:          name,
		Phone:         phone,
		Age:           fs.Age,
		Job:           fs.Job,
		Marital:       fs.Marital,
		Education:     fs.Education,
		DefaultStatus: fs.Default,
		Housing:       fs.Housing,
		Loan:          fs.Loan,
		Contact:       fs.Contact,
		Month:         fs.Month,
		DayOfWeek:     fs.DayOfWeek,
		Campaign:      fs.Campaign,
		EmpVarRate:    fs.EmpVarRate,
		ConsPriceIdx:  fs.ConsPriceIdx,
		ConsConfIdx:   fs.ConsConfIdx,
		Euribor3m:     fs.Euribor3m,
		NrEmployed:    fs.NrEmployed,
		Prediction:    result.Label,
		Probability:   result.Probability,
		StatusCall:    model.StatusPending,
	}

	if err := s.NasabahRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	return &CreateResult{
		NasabahID:   n.ID,
		Prediction:  n.Prediction,
		Probability: n.Probability,
		Timestamp:   n.CreatedAt,
	}, nil
}

// List fetches one page of owned records plus pagination arithmetic.
func (s *NasabahService) List(userID, statusCall, prediction string, page, limit int) ([]*model.Nasabah, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	records, total, err := s.NasabahRepo.List(userID, statusCall, prediction, offset, limit)
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + limit - 1) / limit
	pagination := &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}

	return records, pagination, nil
}

func (s *NasabahService) Get(userID, id string) (*model.Nasabah, error) {
	return s.NasabahRepo.GetByID(userID, id)
}

func (s *NasabahService) UpdateFields(userID, id string, name, phone, notes *string) (*model.Nasabah, error) {
	return s.NasabahRepo.UpdateFields(userID, id, name, phone, notes)
}

// UpdateCallStatus rejects values outside the permitted set before any
// write; within the set every transition is allowed.
func (s *NasabahService) UpdateCallStatus(userID, id, status string, notes *string) (*model.Nasabah, error) {
	valid := false
	for _, v := range model.ValidCallStatuses {
		if v == status {
			valid = true
			break
		}
	}
	if !valid {
		msg := fmt.Sprintf("Invalid status. Must be one of: %s", strings.Join(model.ValidCallStatuses, ", "))
		return nil, appErrors.NewValidation(msg, []string{"status_call"})
	}
	return s.NasabahRepo.UpdateStatus(userID, id, status, notes)
}

func (s *NasabahService) Delete(userID, id string) error {
	return s.NasabahRepo.Delete(userID, id)
}

// EnqueueBatch publishes one score job per prospect and reports how many
// made it onto the queue. A failed publish skips that prospect rather
// than aborting the batch.
func (s *NasabahService) EnqueueBatch(userID string, clients []map[string]any) (int, error) {
	if len(clients) == 0 {
		return 0, appErrors.NewValidation("Clients array cannot be empty", nil)
	}

	queued := 0
	for _, client := range clients {
		job := queue.ScoreJob{UserID: userID, Payload: client}
		if err := s.Queue.Publish(queue.TopicScoreJobs, job); err != nil {
			log.Println("⚠️ failed to enqueue score job:", err)
			continue
		}
		queued++
	}
	return queued, nil
}

// Absent mirrors the inbound JSON: missing key, null, empty string, or
// numeric zero. Zero is never a real value for the gated fields (age 0
// would otherwise slip through to the scoring API).
func isAbsent(v any) bool {
	switch n := v.(type) {
	case nil:
		return true
	case string:
		return n == ""
	case float64:
		return n == 0
	case int:
		return n == 0
	}
	return false
}

func newNasabahID() string {
	return "cust_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
