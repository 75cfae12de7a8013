package notifier

import (
	"context"

	"github.com/clinicore/clinic-api/internal/model"
)

// Notifier delivers booking notifications to patients. Delivery is
// best-effort: the workflow never fails because a notification did.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appointment *model.Appointment, patient *model.Patient, doctor *model.Doctor) error
	AppointmentCancelled(ctx context.Context, appointment *model.Appointment, patient *model.Patient) error
}

// Noop is used when email notifications are disabled.
type Noop struct{}

func (Noop) AppointmentBooked(context.Context, *model.Appointment, *model.Patient, *model.Doctor) error {
	return nil
}

func (Noop) AppointmentCancelled(context.Context, *model.Appointment, *model.Patient) error {
	return nil
}
