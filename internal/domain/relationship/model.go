package relationship

import (
	"time"

	"github.com/google/uuid"
)

// CaregiverPatientLink maps to the caregiver_patient_links table. Links are
// created and deactivated by the account-management flow; this service only
// reads them.
type CaregiverPatientLink struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CaregiverID string    `db:"caregiver_id" json:"caregiver_id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
