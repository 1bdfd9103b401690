package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/adityarw/nasabah-scoring-backend/internal/db"
	appErrors "github.com/adityarw/nasabah-scoring-backend/internal/errors"
	"github.com/adityarw/nasabah-scoring-backend/internal/ml"
	"github.com/adityarw/nasabah-scoring-backend/internal/queue"
	"github.com/adityarw/nasabah-scoring-backend/internal/repository"
	"github.com/adityarw/nasabah-scoring-backend/internal/service"
)

const maxJobRetries = 3

// retryCountFrom reads the republish counter from the message headers.
// amqp decodes small numbers as int32, but the concrete type is not
// guaranteed across clients.
func retryCountFrom(headers amqp.Table) int {
	switch n := headers["x-retry-count"].(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	pool, err := db.Connect()
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	defer pool.Close()

	nasabahRepo := &repository.NasabahRepository{DB: pool}
	mlClient := ml.NewClient(os.Getenv("ML_API_URL"))

	nasabahService := &service.NasabahService{
		NasabahRepo: nasabahRepo,
		Scorer:      mlClient,
	}

	amqpURL := os.Getenv("AMQP_URL")
	if amqpURL == "" {
		log.Fatal("AMQP_URL is required for the worker")
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue.TopicScoreJobs, // name
		true,                 // durable
		false,                // delete when unused
		false,                // exclusive
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var job queue.ScoreJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Println("Invalid job:", err)
				d.Ack(false)
				continue
			}

			_, err := nasabahService.Create(context.Background(), job.UserID, job.Payload)
			if err != nil {
				// A malformed payload will never succeed; drop it.
				// Upstream/persistence failures get requeued a few times.
				if appErrors.IsValidation(err) {
					log.Println("Score job rejected:", err)
					d.Ack(false)
					continue
				}

				log.Println("Score job failed:", err)
				retryCount := retryCountFrom(d.Headers)
				if retryCount < maxJobRetries {
					// Republish with the bumped counter; a plain Nack
					// requeue carries the original headers and would
					// loop forever.
					pub := amqp.Publishing{
						ContentType: "application/json",
						Body:        d.Body,
						Headers:     amqp.Table{"x-retry-count": int32(retryCount + 1)},
					}
					if pubErr := ch.Publish("", q.Name, false, false, pub); pubErr != nil {
						log.Println("Failed to requeue score job:", pubErr)
						d.Nack(false, true)
						continue
					}
					d.Ack(false)
					continue
				}
				log.Printf("Score job permanently failed after %d attempts\n", maxJobRetries)
			}

			d.Ack(false)
		}
	}()

	log.Println("Worker running, waiting for score jobs...")
	<-forever
}
