package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/adityarw/nasabah-scoring-backend/internal/model"
)

// StatsRepositoryInterface covers the read-only aggregation queries
// behind the dashboard. All of them are scoped to one owner.
type StatsRepositoryInterface interface {
	CountAll(userID string) (int, error)
	PredictionCounts(userID string) (map[string]int, error)
	StatusCounts(userID string) (map[string]int, error)
	CalledYesCount(userID string) (int, error)
	Recent(userID string, limit int) ([]model.RecentActivity, error)
	DailyStats(userID string, days int) ([]model.DailyStat, error)
	AvgProbability(userID string, days int) (float64, error)
}

type StatsRepository struct {
	DB *sql.DB
}

func (r *StatsRepository) CountAll(userID string) (int, error) {
	var total int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM nasabah WHERE user_id=$1`, userID).Scan(&total)
	return total, err
}

// PredictionCounts tallies YES/NO predictions; any other stored value is
// ignored rather than surfaced.
func (r *StatsRepository) PredictionCounts(userID string) (map[string]int, error) {
	query := `SELECT prediction, COUNT(*) FROM nasabah WHERE user_id=$1 GROUP BY prediction`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{model.PredictionYes: 0, model.PredictionNo: 0}
	for rows.Next() {
		var prediction string
		var count int
		if err := rows.Scan(&prediction, &count); err != nil {
			return nil, err
		}
		if _, ok := counts[prediction]; ok {
			counts[prediction] = count
		}
	}
	return counts, rows.Err()
}

func (r *StatsRepository) StatusCounts(userID string) (map[string]int, error) {
	query := `SELECT status_call, COUNT(*) FROM nasabah WHERE user_id=$1 GROUP BY status_call`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for _, s := range model.ValidCallStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		if _, ok := counts[status]; ok {
			counts[status] = count
		}
	}
	return counts, rows.Err()
}

// CalledYesCount is the success-rate numerator: rows already called whose
// prediction was positive.
func (r *StatsRepository) CalledYesCount(userID string) (int, error) {
	var count int
	err := r.DB.QueryRow(
		`SELECT COUNT(*) FROM nasabah WHERE user_id=$1 AND status_call=$2 AND prediction=$3`,
		userID, model.StatusCalled, model.PredictionYes,
	).Scan(&count)
	return count, err
}

func (r *StatsRepository) Recent(userID string, limit int) ([]model.RecentActivity, error) {
	query := `
        SELECT id, name, prediction, probability, status_call, created_at
        FROM nasabah
        WHERE user_id=$1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.DB.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []model.RecentActivity{}
	for rows.Next() {
		var a model.RecentActivity
		if err := rows.Scan(&a.ID, &a.Name, &a.Prediction, &a.Probability, &a.StatusCall, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// dateFilter builds the window clause; days is one of the fixed period
// values, never caller input.
func dateFilter(days int) string {
	if days <= 0 {
		return ""
	}
	return fmt.Sprintf(" AND created_at >= NOW() - INTERVAL '%d days'", days)
}

func (r *StatsRepository) DailyStats(userID string, days int) ([]model.DailyStat, error) {
	query := fmt.Sprintf(`
        SELECT
            DATE(created_at) AS date,
            COUNT(*) AS total,
            COUNT(CASE WHEN prediction = 'YES' THEN 1 END) AS positive,
            COUNT(CASE WHEN prediction = 'NO' THEN 1 END) AS negative
        FROM nasabah
        WHERE user_id=$1%s
        GROUP BY DATE(created_at)
        ORDER BY date DESC
    `, dateFilter(days))

	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []model.DailyStat{}
	for rows.Next() {
		var day time.Time
		var s model.DailyStat
		if err := rows.Scan(&day, &s.Total, &s.Positive, &s.Negative); err != nil {
			return nil, err
		}
		s.Date = day.Format("2006-01-02")
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *StatsRepository) AvgProbability(userID string, days int) (float64, error) {
	query := fmt.Sprintf(
		`SELECT COALESCE(AVG(probability), 0) FROM nasabah WHERE user_id=$1%s`,
		dateFilter(days),
	)
	var avg float64
	err := r.DB.QueryRow(query, userID).Scan(&avg)
	return avg, err
}

var _ StatsRepositoryInterface = (*StatsRepository)(nil)
