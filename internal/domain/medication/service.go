package medication

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// WriteListener is notified once per successful medication write. Delivery is
// at-least-once from the caller's perspective; listeners must tolerate
// redundant events and depend only on the event's own snapshots.
type WriteListener interface {
	OnMedicationWrite(ctx context.Context, ev ChangeEvent)
}

// Service provides medication CRUD and fans out change events.
type Service struct {
	medications Repository
	listeners   []WriteListener
}

func NewService(medications Repository) *Service {
	return &Service{medications: medications}
}

// AddListener registers a write listener. Not safe to call concurrently with
// writes; wire listeners at startup.
func (s *Service) AddListener(l WriteListener) {
	s.listeners = append(s.listeners, l)
}

func (s *Service) emit(ctx context.Context, ev ChangeEvent) {
	for _, l := range s.listeners {
		l.OnMedicationWrite(ctx, ev)
	}
}

func (s *Service) Create(ctx context.Context, m *Medication) error {
	if m.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := s.medications.Create(ctx, m); err != nil {
		return err
	}
	s.emit(ctx, ChangeEvent{After: m})
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.medications.GetByID(ctx, id)
}

// Update replaces name and doses, emitting an event carrying both the prior
// and the new snapshot.
func (s *Service) Update(ctx context.Context, m *Medication) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	before, err := s.medications.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	m.PatientID = before.PatientID
	if err := s.medications.Update(ctx, m); err != nil {
		return err
	}
	s.emit(ctx, ChangeEvent{Before: before, After: m})
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	before, err := s.medications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.medications.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, ChangeEvent{Before: before})
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	return s.medications.ListByPatient(ctx, patientID, limit, offset)
}
