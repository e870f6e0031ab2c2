package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no patient record exists for an id. It is
// distinct from a record that exists without a device token.
var ErrNotFound = errors.New("patient not found")

// Repository defines persistence operations for patient records.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// UpdateDeviceToken sets or clears (nil) the device token.
	UpdateDeviceToken(ctx context.Context, id uuid.UUID, token *string) error
}
