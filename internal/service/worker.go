package service

import (
	"context"
	"log"

	appErrors "github.com/adityarw/nasabah-scoring-backend/internal/errors"
	"github.com/adityarw/nasabah-scoring-backend/internal/queue"
)

// RecordCreator defines what the worker needs from the service layer.
type RecordCreator interface {
	Create(ctx context.Context, userID string, payload map[string]any) (*CreateResult, error)
}

// Worker drains queued score jobs through the creation flow.
type Worker struct {
	Creator RecordCreator
	JobChan <-chan queue.ScoreJob
}

// Constructor
func NewWorker(creator RecordCreator, jobChan <-chan queue.ScoreJob) *Worker {
	return &Worker{
		Creator: creator,
		JobChan: jobChan,
	}
}

// Start begins processing jobs
func (w *Worker) Start() {
	for job := range w.JobChan {
		result, err := w.Creator.Create(context.Background(), job.UserID, job.Payload)
		if err != nil {
			if appErrors.IsValidation(err) {
				log.Println("Score job rejected:", err)
			} else {
				log.Println("Score job failed:", err)
			}
			continue
		}
		log.Printf("Scored %s: %s (%.4f)\n", result.NasabahID, result.Prediction, result.Probability)
	}
}
