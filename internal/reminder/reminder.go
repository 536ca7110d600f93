package reminder

import (
	"fmt"
	"time"

	"github.com/ukydev/smart-garage/internal/models"
)

// Due says when a reminder falls relative to the scan date.
type Due int

const (
	DueToday Due = iota
	DueTomorrow
)

func (d Due) String() string {
	if d == DueTomorrow {
		return "tomorrow"
	}
	return "today"
}

// Reminder points at a maintenance record due today or tomorrow.
type Reminder struct {
	Due    Due
	Kind   models.Kind
	Model  string
	Record models.MaintenanceRecord
}

// Message is the user-facing reminder text.
func (r Reminder) Message() string {
	prefix := "LEMBRETE HOJE"
	if r.Due == DueTomorrow {
		prefix = "LEMBRETE AMANHÃ"
	}
	return fmt.Sprintf("%s: %s - %s (%s)", prefix, r.Record.ServiceType(), r.Model, r.Record.FormatForDisplay(models.DateStyleDMY))
}

// FindDueReminders returns every maintenance record dated today or tomorrow,
// walking vehicles in models.Kinds order and each history by date. Records
// are compared by calendar date only.
func FindDueReminders(fleet models.Fleet, today time.Time) []Reminder {
	day := models.Day(today)
	tomorrow := day.AddDate(0, 0, 1)

	var out []Reminder
	for _, v := range fleet.Vehicles() {
		if !v.Kind().Maintainable() {
			continue
		}
		for _, r := range v.MaintenanceHistory() {
			d, ok := r.Day()
			if !ok {
				continue
			}
			var due Due
			switch {
			case d.Equal(day):
				due = DueToday
			case d.Equal(tomorrow):
				due = DueTomorrow
			default:
				continue
			}
			out = append(out, Reminder{Due: due, Kind: v.Kind(), Model: v.Model(), Record: r})
		}
	}
	return out
}
