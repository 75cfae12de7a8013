package notifier

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/clinicore/clinic-api/internal/config"
	"github.com/clinicore/clinic-api/internal/model"
)

type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
	logger *zerolog.Logger
}

func NewEmailNotifier(cfg config.SMTPConfig, logger *zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (n *EmailNotifier) AppointmentBooked(ctx context.Context, appointment *model.Appointment, patient *model.Patient, doctor *model.Doctor) error {
	if patient.Email == "" {
		return nil
	}

	subject := "Appointment confirmation"
	body := fmt.Sprintf(
		"Hello %s %s,\r\n\r\nYour appointment with Dr. %s %s is booked for %s.\r\n\r\nReason: %s\r\n",
		patient.FirstName, patient.LastName,
		doctor.FirstName, doctor.LastName,
		appointment.DateTime.Format("Mon, 02 Jan 2006 15:04"),
		appointment.Reason,
	)
	return n.send(patient.Email, subject, body)
}

func (n *EmailNotifier) AppointmentCancelled(ctx context.Context, appointment *model.Appointment, patient *model.Patient) error {
	if patient.Email == "" {
		return nil
	}

	subject := "Appointment cancelled"
	body := fmt.Sprintf(
		"Hello %s %s,\r\n\r\nYour appointment scheduled for %s has been cancelled.\r\n",
		patient.FirstName, patient.LastName,
		appointment.DateTime.Format("Mon, 02 Jan 2006 15:04"),
	)
	return n.send(patient.Email, subject, body)
}

func (n *EmailNotifier) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		n.logger.Error().Err(err).Str("to", to).Msg("failed to send notification email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
