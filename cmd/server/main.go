// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/adityarw/nasabah-scoring-backend/internal/controller"
	"github.com/adityarw/nasabah-scoring-backend/internal/db"
	appErrors "github.com/adityarw/nasabah-scoring-backend/internal/errors"
	"github.com/adityarw/nasabah-scoring-backend/internal/middleware"
	"github.com/adityarw/nasabah-scoring-backend/internal/ml"
	"github.com/adityarw/nasabah-scoring-backend/internal/queue"
	"github.com/adityarw/nasabah-scoring-backend/internal/repository"
	"github.com/adityarw/nasabah-scoring-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	pool, err := db.Connect()
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	defer pool.Close()

	userRepo := &repository.UserRepository{DB: pool}
	nasabahRepo := &repository.NasabahRepository{DB: pool}
	statsRepo := &repository.StatsRepository{DB: pool}

	mlClient := ml.NewClient(os.Getenv("ML_API_URL"))

	nasabahService := &service.NasabahService{
		NasabahRepo: nasabahRepo,
		Scorer:      mlClient,
	}
	summaryService := &service.SummaryService{
		StatsRepo: statsRepo,
	}

	// Score jobs go through RabbitMQ when a broker is configured;
	// otherwise the in-process queue handles them.
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		nasabahService.Queue = queue.NewAMQPQueue(amqpURL)
		log.Println("📨 Score jobs publish to RabbitMQ")
	} else {
		q := queue.NewInMemoryQueue()
		queue.StartScoreSubscriber(q,
			func(ctx context.Context, userID string, payload map[string]any) error {
				_, err := nasabahService.Create(ctx, userID, payload)
				return err
			},
			func(err error) bool { return !appErrors.IsValidation(err) },
		)
		nasabahService.Queue = q
		log.Println("📨 Score jobs run in-process (no AMQP_URL set)")
	}

	nasabahController := &controller.NasabahController{
		NasabahService: nasabahService,
	}
	adminController := &controller.AdminController{
		SummaryService: summaryService,
	}
	mlController := &controller.MLController{
		ML: mlClient,
	}

	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		// Scoring passthrough + probes
		r.Post("/predict", mlController.Predict)
		r.Post("/predict/batch", mlController.PredictBatch)
		r.Get("/health", mlController.Health)

		// Everything below acts on behalf of one authenticated owner
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(userRepo))

			r.Post("/nasabah/predict", nasabahController.PredictAndCreate)
			r.Post("/nasabah/predict/batch", nasabahController.BatchPredict)
			r.Get("/nasabah", nasabahController.List)
			r.Get("/nasabah/{id}", nasabahController.GetByID)
			r.Put("/nasabah/{id}", nasabahController.Update)
			r.Delete("/nasabah/{id}", nasabahController.Delete)
			r.Patch("/nasabah/{id}/status", nasabahController.UpdateStatus)

			r.Get("/admin/summary", adminController.GetSummary)
			r.Get("/admin/stats", adminController.GetStats)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
