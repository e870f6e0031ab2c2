package medication

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &medicationRepoPG{pool: pool}
}

func (r *medicationRepoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO medications (id, patient_id, name) VALUES ($1, $2, $3)`,
		m.ID, m.PatientID, m.Name); err != nil {
		return err
	}
	if err := insertDoses(ctx, tx, m.ID, m.Doses); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *medicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	var m Medication
	err := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, name, created_at, updated_at
		FROM medications WHERE id = $1`, id).
		Scan(&m.ID, &m.PatientID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if m.Doses, err = r.doses(ctx, m.ID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicationRepoPG) Update(ctx context.Context, m *Medication) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE medications SET name = $2, updated_at = NOW() WHERE id = $1`,
		m.ID, m.Name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	// Doses are replaced wholesale to preserve the submitted order.
	if _, err := tx.Exec(ctx, `DELETE FROM medication_doses WHERE medication_id = $1`, m.ID); err != nil {
		return err
	}
	if err := insertDoses(ctx, tx, m.ID, m.Doses); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *medicationRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *medicationRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medications WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, name, created_at, updated_at
		FROM medications WHERE patient_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Medication
	for rows.Next() {
		var m Medication
		if err := rows.Scan(&m.ID, &m.PatientID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, m := range items {
		if m.Doses, err = r.doses(ctx, m.ID); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *medicationRepoPG) doses(ctx context.Context, medicationID uuid.UUID) ([]Dose, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT dose_time FROM medication_doses
		WHERE medication_id = $1 ORDER BY position`, medicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doses []Dose
	for rows.Next() {
		var d Dose
		if err := rows.Scan(&d.Time); err != nil {
			return nil, err
		}
		doses = append(doses, d)
	}
	return doses, rows.Err()
}

func insertDoses(ctx context.Context, tx pgx.Tx, medicationID uuid.UUID, doses []Dose) error {
	for i, d := range doses {
		if _, err := tx.Exec(ctx, `
			INSERT INTO medication_doses (medication_id, position, dose_time)
			VALUES ($1, $2, $3)`, medicationID, i, d.Time); err != nil {
			return err
		}
	}
	return nil
}
