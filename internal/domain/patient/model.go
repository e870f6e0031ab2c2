package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. DeviceToken is nil until the mobile
// app registers one; a patient without a token is a valid, reachable-by-web
// account that simply cannot receive push messages.
type Patient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	GivenName   string    `db:"given_name" json:"given_name"`
	FamilyName  string    `db:"family_name" json:"family_name"`
	DeviceToken *string   `db:"device_token" json:"device_token,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HasDeviceToken reports whether a non-empty token is registered.
func (p *Patient) HasDeviceToken() bool {
	return p.DeviceToken != nil && *p.DeviceToken != ""
}
