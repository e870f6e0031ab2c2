package relationship

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service answers "may this requester notify this patient". Every call
// re-queries the store; authorization reflects link state at call time.
type Service struct {
	links Repository
}

func NewService(links Repository) *Service {
	return &Service{links: links}
}

// Authorize reports whether requesterID may dispatch a notification to
// patientID. When allowSelf is set, a requester targeting themself is
// authorized without consulting the store; otherwise an active link must
// exist.
func (s *Service) Authorize(ctx context.Context, requesterID string, patientID uuid.UUID, allowSelf bool) (bool, error) {
	if allowSelf && requesterID == patientID.String() {
		return true, nil
	}
	link, err := s.links.FindActiveLink(ctx, requesterID, patientID)
	if err != nil {
		return false, fmt.Errorf("querying caregiver link: %w", err)
	}
	return link != nil, nil
}

// ListPatients returns the active links for a caregiver.
func (s *Service) ListPatients(ctx context.Context, caregiverID string, limit, offset int) ([]*CaregiverPatientLink, int, error) {
	return s.links.ListByCaregiver(ctx, caregiverID, limit, offset)
}
