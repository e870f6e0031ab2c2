package relationship

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type linkRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &linkRepoPG{pool: pool}
}

const linkCols = `id, caregiver_id, patient_id, is_active, created_at, updated_at`

func scanLink(row pgx.Row) (*CaregiverPatientLink, error) {
	var l CaregiverPatientLink
	err := row.Scan(&l.ID, &l.CaregiverID, &l.PatientID, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	return &l, err
}

func (r *linkRepoPG) FindActiveLink(ctx context.Context, caregiverID string, patientID uuid.UUID) (*CaregiverPatientLink, error) {
	l, err := scanLink(r.pool.QueryRow(ctx, `
		SELECT `+linkCols+` FROM caregiver_patient_links
		WHERE caregiver_id = $1 AND patient_id = $2 AND is_active = TRUE
		LIMIT 1`, caregiverID, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *linkRepoPG) ListByCaregiver(ctx context.Context, caregiverID string, limit, offset int) ([]*CaregiverPatientLink, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM caregiver_patient_links WHERE caregiver_id = $1 AND is_active = TRUE`, caregiverID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+linkCols+` FROM caregiver_patient_links
		WHERE caregiver_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, caregiverID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*CaregiverPatientLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	return items, total, nil
}
