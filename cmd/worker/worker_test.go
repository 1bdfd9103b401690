package main

import (
	"context"
	"sync"
	"testing"

	"github.com/streadway/amqp"

	"github.com/adityarw/nasabah-scoring-backend/internal/queue"
	"github.com/adityarw/nasabah-scoring-backend/internal/service"
)

// MockCreator records the jobs it was asked to score
type MockCreator struct {
	mu       sync.Mutex
	lastUser string
	payloads []map[string]any
	done     *sync.WaitGroup
}

func (m *MockCreator) Create(ctx context.Context, userID string, payload map[string]any) (*service.CreateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUser = userID
	m.payloads = append(m.payloads, payload)
	m.done.Done()
	return &service.CreateResult{NasabahID: "cust_test", Prediction: "YES", Probability: 0.8}, nil
}

func TestWorkerDrivesCreation(t *testing.T) {
	jobChan := make(chan queue.ScoreJob, 1)
	jobChan <- queue.ScoreJob{
		UserID:  "user_1",
		Payload: map[string]any{"name": "Budi", "age": 35.0},
	}

	var wg sync.WaitGroup
	wg.Add(1)

	creator := &MockCreator{done: &wg}
	worker := service.NewWorker(creator, jobChan)

	// Start worker
	go worker.Start()

	// Wait until worker processes the job
	wg.Wait()

	creator.mu.Lock()
	defer creator.mu.Unlock()
	if creator.lastUser != "user_1" {
		t.Errorf("expected job for user_1, got %q", creator.lastUser)
	}
	if len(creator.payloads) != 1 || creator.payloads[0]["name"] != "Budi" {
		t.Errorf("payload not forwarded intact: %+v", creator.payloads)
	}
}

func TestRetryCountFromHeaders(t *testing.T) {
	cases := []struct {
		name    string
		headers amqp.Table
		want    int
	}{
		{"nil headers", nil, 0},
		{"absent key", amqp.Table{}, 0},
		{"int32", amqp.Table{"x-retry-count": int32(2)}, 2},
		{"int64", amqp.Table{"x-retry-count": int64(3)}, 3},
		{"int", amqp.Table{"x-retry-count": 1}, 1},
		{"garbage", amqp.Table{"x-retry-count": "bogus"}, 0},
	}

	for _, tc := range cases {
		if got := retryCountFrom(tc.headers); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}
