package medication

import (
	"time"

	"github.com/google/uuid"
)

// Dose is one scheduled intake. Time is an opaque schedule descriptor
// (typically a time-of-day string); it is passed through, never parsed.
type Dose struct {
	Time string `db:"dose_time" json:"time"`
}

// Medication maps to the medications table with doses in a position-ordered
// child table. Dose order is insertion order, not sorted by time.
type Medication struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Name      string    `db:"name" json:"name"`
	Doses     []Dose    `json:"doses"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AlarmObligation is a derived "should eventually alarm for this dose" fact
// for a downstream scheduler. It is never persisted here.
type AlarmObligation struct {
	MedicationID   uuid.UUID `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	PatientID      uuid.UUID `json:"patient_id"`
	DoseTime       string    `json:"dose_time"`
}

// ChangeEvent describes one medication write. A nil Before means create, a
// nil After means delete.
type ChangeEvent struct {
	Before *Medication
	After  *Medication
}
