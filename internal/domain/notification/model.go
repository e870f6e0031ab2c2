package notification

import "github.com/google/uuid"

// CaregiverMessage is a free-form notification from a caregiver to a linked
// patient. Extra keys are merged into the structured payload after the
// reserved keys, so a caller-supplied key overrides a reserved one on
// collision.
type CaregiverMessage struct {
	PatientID uuid.UUID         `json:"patient_id"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Extra     map[string]string `json:"extra_data,omitempty"`
}

// MedicationAlarm is a dose-time reminder. Title and body are derived from
// the medication name, never caller-supplied.
type MedicationAlarm struct {
	PatientID      uuid.UUID `json:"patient_id"`
	MedicationID   string    `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Time           string    `json:"time"`
	AlarmType      string    `json:"alarm_type,omitempty"`
}

// DispatchResult is the outcome of a dispatch call that did not fail.
// Success=false with a Reason means the request was valid but nothing could
// be delivered (no registered device).
type DispatchResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
