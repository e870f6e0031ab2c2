package medication

import (
	"context"

	"github.com/rs/zerolog"
)

// Reconciler derives the alarm obligation set for a medication from its
// current state. It never diffs against the prior snapshot: a consumer must
// replace its whole obligation set for the medication on every event, not
// patch it incrementally.
type Reconciler struct{}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile returns one obligation per dose in after, in dose order. A nil
// after (deleted record) yields an empty set. The result depends only on
// after, so repeated or out-of-order invocations for the same snapshot
// produce identical output.
func (r *Reconciler) Reconcile(before, after *Medication) []AlarmObligation {
	if after == nil {
		return nil
	}
	obligations := make([]AlarmObligation, 0, len(after.Doses))
	for _, d := range after.Doses {
		obligations = append(obligations, AlarmObligation{
			MedicationID:   after.ID,
			MedicationName: after.Name,
			PatientID:      after.PatientID,
			DoseTime:       d.Time,
		})
	}
	return obligations
}

// ObligationLogger reconciles on every medication write and logs the full
// replacement obligation set for the downstream scheduler to consume.
type ObligationLogger struct {
	reconciler *Reconciler
	logger     zerolog.Logger
}

func NewObligationLogger(reconciler *Reconciler, logger zerolog.Logger) *ObligationLogger {
	return &ObligationLogger{reconciler: reconciler, logger: logger}
}

func (o *ObligationLogger) OnMedicationWrite(_ context.Context, ev ChangeEvent) {
	obligations := o.reconciler.Reconcile(ev.Before, ev.After)

	evt := o.logger.Info()
	if ev.After != nil {
		evt = evt.Str("medication_id", ev.After.ID.String()).
			Str("patient_id", ev.After.PatientID.String())
	} else if ev.Before != nil {
		evt = evt.Str("medication_id", ev.Before.ID.String()).
			Str("patient_id", ev.Before.PatientID.String())
	}

	times := make([]string, len(obligations))
	for i, ob := range obligations {
		times[i] = ob.DoseTime
	}
	evt.Strs("dose_times", times).
		Int("obligations", len(obligations)).
		Msg("alarm obligations recomputed")
}
