// internal/service/summary_service.go
package service

import (
	"fmt"
	"math"

	"github.com/adityarw/nasabah-scoring-backend/internal/model"
	"github.com/adityarw/nasabah-scoring-backend/internal/repository"
)

type SummaryService struct {
	StatsRepo repository.StatsRepositoryInterface
}

type PredictionSummary struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

type Summary struct {
	TotalNasabah        int                    `json:"total_nasabah"`
	PredictionSummary   PredictionSummary      `json:"prediction_summary"`
	CallTrackingSummary map[string]int         `json:"call_tracking_summary"`
	SuccessRate         string                 `json:"success_rate"`
	RecentActivities    []model.RecentActivity `json:"recent_activities"`
}

type StatsReport struct {
	Period             string            `json:"period"`
	DailyStats         []model.DailyStat `json:"daily_stats"`
	AverageProbability float64           `json:"average_probability"`
}

// periodDays maps the selectable windows to day counts. Anything else
// maps to 0, which disables the date filter.
var periodDays = map[string]int{
	"7days":  7,
	"30days": 30,
	"90days": 90,
}

const defaultPeriod = "7days"

// GetSummary assembles the per-owner dashboard: totals, histograms,
// success rate and the ten most recent records.
func (s *SummaryService) GetSummary(userID string) (*Summary, error) {
	total, err := s.StatsRepo.CountAll(userID)
	if err != nil {
		return nil, err
	}

	predictions, err := s.StatsRepo.PredictionCounts(userID)
	if err != nil {
		return nil, err
	}

	statuses, err := s.StatsRepo.StatusCounts(userID)
	if err != nil {
		return nil, err
	}

	calledYes, err := s.StatsRepo.CalledYesCount(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.StatsRepo.Recent(userID, 10)
	if err != nil {
		return nil, err
	}

	// Success = already called and predicted YES, over everyone called.
	// A zero denominator yields the literal "0%".
	called := statuses[model.StatusCalled]
	successRate := "0%"
	if called > 0 {
		successRate = fmt.Sprintf("%.1f%%", float64(calledYes)/float64(called)*100)
	}

	return &Summary{
		TotalNasabah: total,
		PredictionSummary: PredictionSummary{
			Positive: predictions[model.PredictionYes],
			Negative: predictions[model.PredictionNo],
		},
		CallTrackingSummary: statuses,
		SuccessRate:         successRate,
		RecentActivities:    recent,
	}, nil
}

// GetStats returns per-day buckets and the mean probability for the
// selected window. Unrecognized periods apply no date filter.
func (s *SummaryService) GetStats(userID, period string) (*StatsReport, error) {
	if period == "" {
		period = defaultPeriod
	}
	days := periodDays[period]

	daily, err := s.StatsRepo.DailyStats(userID, days)
	if err != nil {
		return nil, err
	}

	avg, err := s.StatsRepo.AvgProbability(userID, days)
	if err != nil {
		return nil, err
	}

	return &StatsReport{
		Period:             period,
		DailyStats:         daily,
		AverageProbability: math.Round(avg*10000) / 10000,
	}, nil
}
