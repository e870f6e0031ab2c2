package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides patient lookup and device registration.
type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// Resolve returns the patient record for id. ErrNotFound propagates
// unchanged; a record without a token is returned as-is.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// RegisterDevice stores a device token for the patient.
func (s *Service) RegisterDevice(ctx context.Context, id uuid.UUID, token string) error {
	if token == "" {
		return fmt.Errorf("device token is required")
	}
	return s.patients.UpdateDeviceToken(ctx, id, &token)
}

// UnregisterDevice clears the patient's device token.
func (s *Service) UnregisterDevice(ctx context.Context, id uuid.UUID) error {
	return s.patients.UpdateDeviceToken(ctx, id, nil)
}
