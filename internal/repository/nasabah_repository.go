package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	appErrors "github.com/adityarw/nasabah-scoring-backend/internal/errors"
	"github.com/adityarw/nasabah-scoring-backend/internal/model"
)

// NasabahRepositoryInterface defines methods used by the service layer.
// Every operation is scoped by userID; a row owned by someone else is
// indistinguishable from one that does not exist.
type NasabahRepositoryInterface interface {
	Create(ctx context.Context, n *model.Nasabah) error
	GetByID(userID, id string) (*model.Nasabah, error)
	List(userID, statusCall, prediction string, offset, limit int) ([]*model.Nasabah, int, error)
	UpdateFields(userID, id string, name, phone, notes *string) (*model.Nasabah, error)
	UpdateStatus(userID, id, status string, notes *string) (*model.Nasabah, error)
	Delete(userID, id string) error
}

type NasabahRepository struct {
	DB *sql.DB
}

const nasabahColumns = `id, user_id, name, phone, age, job, marital, education,
	default_status, housing, loan, contact, month, day_of_week, campaign,
	emp_var_rate, cons_price_idx, cons_conf_idx, euribor3m, nr_employed,
	prediction, probability, status_call, notes, created_at`

// Create inserts the scored record inside its own transaction. The record
// only becomes observable once prediction and probability are both in the
// row, so a failure anywhere rolls the whole insert back.
func (r *NasabahRepository) Create(ctx context.Context, n *model.Nasabah) error {
	n.CreatedAt = time.Now()
	if n.StatusCall == "" {
		n.StatusCall = model.StatusPending
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return appErrors.NewPersistence("begin", err)
	}

	query := `
        INSERT INTO nasabah (
            id, user_id, name, phone, age, job, marital, education,
            default_status, housing, loan, contact, month, day_of_week,
            campaign, emp_var_rate, cons_price_idx, cons_conf_idx,
            euribor3m, nr_employed, prediction, probability, status_call, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
            $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
        )
    `
	_, err = tx.ExecContext(ctx, query,
		n.ID, n.UserID, n.Name, n.Phone, n.Age, n.Job, n.Marital, n.Education,
		n.DefaultStatus, n.Housing, n.Loan, n.Contact, n.Month, n.DayOfWeek,
		n.Campaign, n.EmpVarRate, n.ConsPriceIdx, n.ConsConfIdx,
		n.Euribor3m, n.NrEmployed, n.Prediction, n.Probability, n.StatusCall, n.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return appErrors.NewPersistence("insert nasabah", err)
	}
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return appErrors.NewPersistence("commit", err)
	}
	return nil
}

func (r *NasabahRepository) GetByID(userID, id string) (*model.Nasabah, error) {
	query := fmt.Sprintf(`SELECT %s FROM nasabah WHERE id=$1 AND user_id=$2`, nasabahColumns)
	n, err := scanNasabah(r.DB.QueryRow(query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNasabahNotFound(id)
		}
		return nil, err
	}
	return n, nil
}

func (r *NasabahRepository) List(userID, statusCall, prediction string, offset, limit int) ([]*model.Nasabah, int, error) {
	records := []*model.Nasabah{}
	query := fmt.Sprintf(`SELECT %s FROM nasabah WHERE user_id=$1`, nasabahColumns)
	args := []interface{}{userID}
	argPos := 2

	if statusCall != "" {
		query += fmt.Sprintf(" AND status_call=$%d", argPos)
		args = append(args, statusCall)
		argPos++
	}
	if prediction != "" {
		query += fmt.Sprintf(" AND prediction=$%d", argPos)
		args = append(args, prediction)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		n, err := scanNasabah(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// Count total over the same filter, independent of the page
	countQuery := `SELECT COUNT(*) FROM nasabah WHERE user_id=$1`
	argsCount := []interface{}{userID}
	argPosCount := 2
	if statusCall != "" {
		countQuery += fmt.Sprintf(" AND status_call=$%d", argPosCount)
		argsCount = append(argsCount, statusCall)
		argPosCount++
	}
	if prediction != "" {
		countQuery += fmt.Sprintf(" AND prediction=$%d", argPosCount)
		argsCount = append(argsCount, prediction)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// UpdateFields changes only the mutable identity fields; nil arguments
// leave the stored value alone.
func (r *NasabahRepository) UpdateFields(userID, id string, name, phone, notes *string) (*model.Nasabah, error) {
	query := fmt.Sprintf(`
        UPDATE nasabah
        SET name = COALESCE($1, name),
            phone = COALESCE($2, phone),
            notes = COALESCE($3, notes)
        WHERE id=$4 AND user_id=$5
        RETURNING %s`, nasabahColumns)
	n, err := scanNasabah(r.DB.QueryRow(query, name, phone, notes, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNasabahNotFound(id)
		}
		return nil, err
	}
	return n, nil
}

// UpdateStatus overwrites status_call unconditionally; the caller has
// already checked the value against the permitted set. Notes are only
// touched when supplied.
func (r *NasabahRepository) UpdateStatus(userID, id, status string, notes *string) (*model.Nasabah, error) {
	query := fmt.Sprintf(`
        UPDATE nasabah
        SET status_call = $1, notes = COALESCE($2, notes)
        WHERE id=$3 AND user_id=$4
        RETURNING %s`, nasabahColumns)
	n, err := scanNasabah(r.DB.QueryRow(query, status, notes, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNasabahNotFound(id)
		}
		return nil, err
	}
	return n, nil
}

func (r *NasabahRepository) Delete(userID, id string) error {
	var deleted string
	err := r.DB.QueryRow(
		`DELETE FROM nasabah WHERE id=$1 AND user_id=$2 RETURNING id`,
		id, userID,
	).Scan(&deleted)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewNasabahNotFound(id)
		}
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNasabah(row rowScanner) (*model.Nasabah, error) {
	var n model.Nasabah
	err := row.Scan(
		&n.ID, &n.UserID, &n.Name, &n.Phone, &n.Age, &n.Job, &n.Marital, &n.Education,
		&n.DefaultStatus, &n.Housing, &n.Loan, &n.Contact, &n.Month, &n.DayOfWeek,
		&n.Campaign, &n.EmpVarRate, &n.ConsPriceIdx, &n.ConsConfIdx,
		&n.Euribor3m, &n.NrEmployed, &n.Prediction, &n.Probability,
		&n.StatusCall, &n.Notes, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

var _ NasabahRepositoryInterface = (*NasabahRepository)(nil)
