package notification

import (
	"fmt"
	"time"

	"github.com/carealert/carealert/internal/platform/push"
)

const (
	payloadTypeCaregiverAction = "caregiver_action"
	payloadTypeMedicationAlarm = "medication_alarm"

	channelCaregiver = "caregiver_notifications"
	channelAlarm     = "medication_alarms"

	apnsCategoryAlarm = "MEDICATION_ALARM"

	defaultAlarmType = "scheduled"
)

// Builder assembles push envelopes from intents. It performs no I/O; the
// clock is injected so payload timestamps are testable.
type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// NewBuilderWithClock creates a builder with a fixed timestamp source.
func NewBuilderWithClock(now func() time.Time) *Builder {
	return &Builder{now: now}
}

func (b *Builder) timestamp() string {
	return b.now().UTC().Format(time.RFC3339)
}

// BuildCaregiverMessage assembles the envelope for a caregiver message.
// Reserved payload keys are written first, then the caller's extra keys, so
// a colliding caller key wins.
func (b *Builder) BuildCaregiverMessage(requesterID string, in *CaregiverMessage, token string) *push.Envelope {
	data := map[string]string{
		"type":        payloadTypeCaregiverAction,
		"caregiverId": requesterID,
		"patientId":   in.PatientID.String(),
		"timestamp":   b.timestamp(),
	}
	for k, v := range in.Extra {
		data[k] = v
	}

	return &push.Envelope{
		Token: token,
		Title: in.Title,
		Body:  in.Body,
		Data:  data,
		Android: push.AndroidHints{
			Priority:  "high",
			Sound:     "default",
			ChannelID: channelCaregiver,
		},
		APNS: push.APNSHints{
			Sound: "default",
			Badge: 1,
		},
	}
}

// BuildMedicationAlarm assembles the envelope for a dose reminder. The alarm
// channel and categories mark it for aggressive delivery on both platforms.
func (b *Builder) BuildMedicationAlarm(in *MedicationAlarm, token string) *push.Envelope {
	alarmType := in.AlarmType
	if alarmType == "" {
		alarmType = defaultAlarmType
	}

	data := map[string]string{
		"type":           payloadTypeMedicationAlarm,
		"medicationId":   in.MedicationID,
		"medicationName": in.MedicationName,
		"time":           in.Time,
		"alarmType":      alarmType,
		"patientId":      in.PatientID.String(),
		"timestamp":      b.timestamp(),
	}

	return &push.Envelope{
		Token: token,
		Title: "Medication Reminder",
		Body:  fmt.Sprintf("Time to take %s", in.MedicationName),
		Data:  data,
		Android: push.AndroidHints{
			Priority:   "high",
			Sound:      "default",
			ChannelID:  channelAlarm,
			Importance: "high",
			Category:   "alarm",
		},
		APNS: push.APNSHints{
			Sound:    "default",
			Badge:    1,
			Category: apnsCategoryAlarm,
		},
	}
}
