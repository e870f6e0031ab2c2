package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carealert/carealert/internal/domain/patient"
	"github.com/carealert/carealert/internal/platform/push"
)

// noDeviceReason is returned to callers when a patient exists but has no
// registered device.
const noDeviceReason = "patient has no registered device"

// Authorizer answers whether a requester may notify a patient.
type Authorizer interface {
	Authorize(ctx context.Context, requesterID string, patientID uuid.UUID, allowSelf bool) (bool, error)
}

// Resolver looks up patient records.
type Resolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// Dispatcher runs the authorize → resolve → build → send pipeline. It is
// stateless; concurrent dispatches share nothing but the injected
// collaborators.
type Dispatcher struct {
	authorizer Authorizer
	patients   Resolver
	builder    *Builder
	sender     push.Sender
	logger     zerolog.Logger
}

func NewDispatcher(authorizer Authorizer, patients Resolver, builder *Builder, sender push.Sender, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		authorizer: authorizer,
		patients:   patients,
		builder:    builder,
		sender:     sender,
		logger:     logger,
	}
}

// DispatchCaregiverMessage sends a caregiver message to a linked patient.
// There is no self-notify path: a caregiver message is always to someone
// else, so even the patient themself needs an active link.
func (d *Dispatcher) DispatchCaregiverMessage(ctx context.Context, requesterID string, in *CaregiverMessage) (*DispatchResult, error) {
	if requesterID == "" {
		return nil, E(KindUnauthenticated, "no authenticated requester")
	}
	if in.PatientID == uuid.Nil || in.Title == "" || in.Body == "" {
		return nil, E(KindInvalidArgument, "patient_id, title and body are required")
	}

	ok, err := d.authorizer.Authorize(ctx, requesterID, in.PatientID, false)
	if err != nil {
		return nil, Wrap(KindInternal, "authorization check failed", err)
	}
	if !ok {
		d.logger.Warn().
			Str("requester", requesterID).
			Str("patient_id", in.PatientID.String()).
			Msg("caregiver message denied: no active link")
		return nil, E(KindPermissionDenied, "requester is not an active caregiver for this patient")
	}

	p, err := d.resolve(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !p.HasDeviceToken() {
		d.logger.Info().
			Str("patient_id", in.PatientID.String()).
			Msg("caregiver message not delivered: no device token")
		return &DispatchResult{Success: false, Reason: noDeviceReason}, nil
	}

	env := d.builder.BuildCaregiverMessage(requesterID, in, *p.DeviceToken)
	return d.send(ctx, env)
}

// DispatchMedicationAlarm sends a dose reminder. A patient may always alarm
// themself; anyone else needs an active caregiver link.
func (d *Dispatcher) DispatchMedicationAlarm(ctx context.Context, requesterID string, in *MedicationAlarm) (*DispatchResult, error) {
	if requesterID == "" {
		return nil, E(KindUnauthenticated, "no authenticated requester")
	}
	if in.PatientID == uuid.Nil || in.MedicationID == "" || in.MedicationName == "" || in.Time == "" {
		return nil, E(KindInvalidArgument, "patient_id, medication_id, medication_name and time are required")
	}

	ok, err := d.authorizer.Authorize(ctx, requesterID, in.PatientID, true)
	if err != nil {
		return nil, Wrap(KindInternal, "authorization check failed", err)
	}
	if !ok {
		d.logger.Warn().
			Str("requester", requesterID).
			Str("patient_id", in.PatientID.String()).
			Msg("medication alarm denied: no active link")
		return nil, E(KindPermissionDenied, "requester is not an active caregiver for this patient")
	}

	p, err := d.resolve(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !p.HasDeviceToken() {
		d.logger.Info().
			Str("patient_id", in.PatientID.String()).
			Str("medication_id", in.MedicationID).
			Msg("medication alarm not delivered: no device token")
		return &DispatchResult{Success: false, Reason: noDeviceReason}, nil
	}

	env := d.builder.BuildMedicationAlarm(in, *p.DeviceToken)
	return d.send(ctx, env)
}

func (d *Dispatcher) resolve(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, err := d.patients.Resolve(ctx, id)
	if errors.Is(err, patient.ErrNotFound) {
		d.logger.Warn().Str("patient_id", id.String()).Msg("dispatch target not found")
		return nil, E(KindNotFound, "patient not found")
	}
	if err != nil {
		return nil, Wrap(KindInternal, "resolving patient", err)
	}
	return p, nil
}

func (d *Dispatcher) send(ctx context.Context, env *push.Envelope) (*DispatchResult, error) {
	msgID, err := d.sender.Send(ctx, env)
	if err != nil {
		d.logger.Error().Err(err).Msg("push send failed")
		return nil, Wrap(KindInternal, "sending notification", err)
	}
	return &DispatchResult{Success: true, MessageID: msgID}, nil
}
