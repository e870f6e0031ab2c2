package relationship

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines read operations over caregiver-patient links.
type Repository interface {
	// FindActiveLink returns the active link for the pair, or nil when no
	// active link exists.
	FindActiveLink(ctx context.Context, caregiverID string, patientID uuid.UUID) (*CaregiverPatientLink, error)
	ListByCaregiver(ctx context.Context, caregiverID string, limit, offset int) ([]*CaregiverPatientLink, int, error)
}
