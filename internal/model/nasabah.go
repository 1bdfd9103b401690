// internal/model/nasabah.go
package model

import "time"

// Call-status values a nasabah can carry. Any value from this set may
// overwrite any other; there is no enforced ordering.
const (
	StatusPending       = "pending"
	StatusCalled        = "called"
	StatusFailed        = "failed"
	StatusNotInterested = "not_interested"
)

var ValidCallStatuses = []string{StatusPending, StatusCalled, StatusFailed, StatusNotInterested}

const (
	PredictionYes = "YES"
	PredictionNo  = "NO"
)

// Nasabah is one scored prospect: the feature snapshot captured at scoring
// time, the scoring outcome, and the manual follow-up state.
type Nasabah struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Name          string    `db:"name" json:"name"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Age           int       `db:"age" json:"age"`
	Job           string    `db:"job" json:"job"`
	Marital       string    `db:"marital" json:"marital"`
	Education     string    `db:"education" json:"education"`
	DefaultStatus string    `db:"default_status" json:"default_status"`
	Housing       string    `db:"housing" json:"housing"`
	Loan          string    `db:"loan" json:"loan"`
	Contact       string    `db:"contact" json:"contact"`
	Month         string    `db:"month" json:"month"`
	DayOfWeek     string    `db:"day_of_week" json:"day_of_week"`
	Campaign      int       `db:"campaign" json:"campaign"`
	EmpVarRate    float64   `db:"emp_var_rate" json:"emp_var_rate"`
	ConsPriceIdx  float64   `db:"cons_price_idx" json:"cons_price_idx"`
	ConsConfIdx   float64   `db:"cons_conf_idx" json:"cons_conf_idx"`
	Euribor3m     float64   `db:"euribor3m" json:"euribor3m"`
	NrEmployed    float64   `db:"nr_employed" json:"nr_employed"`
	Prediction    string    `db:"prediction" json:"prediction"`
	Probability   float64   `db:"probability" json:"probability"`
	StatusCall    string    `db:"status_call" json:"status_call"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// RecentActivity is the trimmed-down row returned in dashboard summaries.
type RecentActivity struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Prediction  string    `db:"prediction" json:"prediction"`
	Probability float64   `db:"probability" json:"probability"`
	StatusCall  string    `db:"status_call" json:"status_call"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DailyStat is one calendar-day bucket of scoring activity.
type DailyStat struct {
	Date     string `db:"date" json:"date"`
	Total    int    `db:"total" json:"total"`
	Positive int    `db:"positive" json:"positive"`
	Negative int    `db:"negative" json:"negative"`
}
