package medication

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no medication exists for an id.
var ErrNotFound = errors.New("medication not found")

// Repository defines persistence operations for medications and their doses.
type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error)
}
