package queue

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// TopicScoreJobs is the queue batch scoring jobs travel on.
const TopicScoreJobs = "nasabah_scores"

// ScoreJob is one queued prospect waiting to be scored and persisted.
type ScoreJob struct {
	UserID  string         `json:"user_id"`
	Payload map[string]any `json:"payload"`
}

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is the broker-less fallback used when AMQP_URL is unset,
// and in tests.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %v\n", job.RetryCount, job.MaxRetries, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartScoreSubscriber wires queued score jobs into the creation flow.
// Validation failures are dropped without retry; a rescheduled run of the
// same malformed payload can never succeed.
func StartScoreSubscriber(q Queue, create func(ctx context.Context, userID string, payload map[string]any) error, isRetryable func(error) bool) {
	go func() {
		err := q.Subscribe(TopicScoreJobs, func(payload any) error {
			job, ok := payload.(ScoreJob)
			if !ok {
				log.Println("⚠️ Invalid payload type, expected ScoreJob")
				return nil
			}

			log.Println("📩 Processing queued score job for user:", job.UserID)

			if err := create(context.Background(), job.UserID, job.Payload); err != nil {
				if !isRetryable(err) {
					log.Println("⚠️ Score job rejected, dropping:", err)
					return nil // no retry
				}
				log.Println("⚠️ Score job failed:", err)
				return err // triggers retry in queue
			}
			return nil
		})

		if err != nil {
			log.Println("⚠️ Failed to start subscriber for", TopicScoreJobs, ":", err)
		}
	}()
}
