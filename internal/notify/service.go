package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/tusabogados/intake-platform/internal/intake"
	"github.com/tusabogados/intake-platform/pkg/logging"
)

// Service builds and sends intake notifications through the configured
// EmailSender. A nil sender disables notifications without failing callers.
type Service struct {
	sender EmailSender
	logger *logging.Logger
}

// NewService creates the notification service.
func NewService(sender EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sender: sender, logger: logger}
}

var categoryNames = map[intake.Category]string{
	intake.CategoryCivil:       "civil",
	intake.CategoryLabor:       "laboral",
	intake.CategoryCriminal:    "penal",
	intake.CategoryUnspecified: "por determinar",
}

// SendAppointmentConfirmation emails the booked slot and case summary to the
// caller. Requires a confirmed slot and an email address on the session.
func (s *Service) SendAppointmentConfirmation(ctx context.Context, sess *intake.Session) error {
	if s == nil || s.sender == nil {
		return nil
	}
	if sess == nil || sess.ConfirmedSlot == nil {
		return fmt.Errorf("notify: session has no confirmed appointment")
	}
	if strings.TrimSpace(sess.Email) == "" {
		return fmt.Errorf("notify: session has no email address")
	}

	var b strings.Builder
	b.WriteString("Su cita con TusAbogados.com está confirmada.\n\n")
	fmt.Fprintf(&b, "Horario: %s\n", sess.ConfirmedSlot.Label)
	if cat, ok := categoryNames[sess.Category]; ok {
		fmt.Fprintf(&b, "Tipo de caso: %s\n", cat)
	}
	b.WriteString("\nRecuerde: si su caso supera los 10 millones, no hay costo inicial. Solo paga el 10% si recuperamos su dinero.\n")

	msg := EmailMessage{
		To:      sess.Email,
		ToName:  sess.Name,
		Subject: "Cita confirmada - TusAbogados.com",
		Body:    b.String(),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return err
	}

	s.logger.Info("appointment confirmation sent", "session_id", sess.ID, "slot", sess.ConfirmedSlot.ID)
	return nil
}
