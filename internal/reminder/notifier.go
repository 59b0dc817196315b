package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crewdeck/crewclock/internal/logging"
	"github.com/crewdeck/crewclock/internal/payroll"
	"github.com/crewdeck/crewclock/internal/timecalc"
)

// Message is a punch-in reminder ready for delivery.
type Message struct {
	Scheduled payroll.ClockTime
	Now       time.Time
}

// Text renders the reminder for a human.
func (m Message) Text() string {
	late := m.Now.Sub(m.Scheduled.On(m.Now))
	return fmt.Sprintf("You were scheduled to start at %s and have not punched in (%s late).",
		m.Scheduled.String(), timecalc.FormatDuration(late.Hours()))
}

// Notifier delivers reminders. Push and SMS delivery live outside crewclock;
// implementations only need to hand the message off.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, msg Message) error {
	logging.Logger.WithFields(logrus.Fields{
		"scheduled": msg.Scheduled.String(),
		"date":      timecalc.DateKey(msg.Now, msg.Now.Location()),
	}).Warn(msg.Text())
	return nil
}
