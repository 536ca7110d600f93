package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the calendar date encoding used by forms and the snapshot.
const DateLayout = "2006-01-02"

// InvalidDateText replaces the date portion of a record whose date does not parse.
const InvalidDateText = "Data Inválida"

// DateStyle selects how FormatForDisplay renders the record date.
type DateStyle int

const (
	DateStyleDMY DateStyle = iota // DD/MM/AAAA
	DateStyleISO                  // AAAA-MM-DD
)

// ParseDateStyle maps a config value to a DateStyle, defaulting to DD/MM/AAAA.
func ParseDateStyle(s string) DateStyle {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ISO", "AAAA-MM-DD", "YYYY-MM-DD":
		return DateStyleISO
	default:
		return DateStyleDMY
	}
}

// MaintenanceRecord is a single service entry (past or scheduled) of a vehicle.
// Records are values: once built they are never modified, only added to or
// removed from a vehicle's history.
type MaintenanceRecord struct {
	date        string
	serviceType string
	cost        float64
	description string
}

// MaintenanceData is the persistable form of a MaintenanceRecord.
type MaintenanceData struct {
	Date        string  `json:"date" bson:"date"`
	Kind        string  `json:"kind" bson:"kind"`
	Cost        float64 `json:"cost" bson:"cost"`
	Description string  `json:"description" bson:"description"`
}

// NewMaintenanceRecord builds a record without validating it. Call Validate
// (or IsValid) before storing it anywhere.
func NewMaintenanceRecord(date, serviceType string, cost float64, description string) MaintenanceRecord {
	return MaintenanceRecord{
		date:        strings.TrimSpace(date),
		serviceType: strings.TrimSpace(serviceType),
		cost:        cost,
		description: strings.TrimSpace(description),
	}
}

// ParseMaintenanceRecord builds a record from raw form input. An unparseable
// cost is coerced to 0.
func ParseMaintenanceRecord(date, serviceType, cost, description string) MaintenanceRecord {
	c, err := strconv.ParseFloat(strings.TrimSpace(cost), 64)
	if err != nil {
		c = 0
	}
	return NewMaintenanceRecord(date, serviceType, c, description)
}

// MaintenanceFromPersistable rebuilds a record from its stored form and
// rejects it if it is not valid.
func MaintenanceFromPersistable(d MaintenanceData) (MaintenanceRecord, error) {
	r := NewMaintenanceRecord(d.Date, d.Kind, d.Cost, d.Description)
	if err := r.Validate(); err != nil {
		return MaintenanceRecord{}, err
	}
	return r, nil
}

// Date is the service date as entered (YYYY-MM-DD).
func (r MaintenanceRecord) Date() string { return r.date }

// ServiceType is the kind of service, e.g. "Troca de Óleo".
func (r MaintenanceRecord) ServiceType() string { return r.serviceType }

// Cost is the service cost in reais.
func (r MaintenanceRecord) Cost() float64 { return r.cost }

// Description holds optional free-text notes.
func (r MaintenanceRecord) Description() string { return r.description }

// Day returns the record date at midnight UTC. ok is false when the stored
// date is not a real calendar date.
func (r MaintenanceRecord) Day() (day time.Time, ok bool) {
	t, err := time.Parse(DateLayout, r.date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Validate returns an error wrapping ErrInvalidMaintenance when the record
// must not be stored.
func (r MaintenanceRecord) Validate() error {
	if _, ok := r.Day(); !ok {
		return fmt.Errorf("%w: %w: %q", ErrInvalidMaintenance, ErrInvalidDate, r.date)
	}
	if r.serviceType == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMaintenance, ErrEmptyServiceType)
	}
	if math.IsNaN(r.cost) || math.IsInf(r.cost, 0) || r.cost < 0 {
		return fmt.Errorf("%w: %w: %v", ErrInvalidMaintenance, ErrInvalidCost, r.cost)
	}
	return nil
}

// IsValid reports whether the record may be stored.
func (r MaintenanceRecord) IsValid() bool {
	return r.Validate() == nil
}

// FormatForDisplay renders "<kind> em <date> - <cost>" with the description
// appended when present.
func (r MaintenanceRecord) FormatForDisplay(style DateStyle) string {
	date := InvalidDateText
	if day, ok := r.Day(); ok {
		switch style {
		case DateStyleISO:
			date = day.Format(DateLayout)
		default:
			date = day.Format("02/01/2006")
		}
	}

	serviceType := r.serviceType
	if serviceType == "" {
		serviceType = "Tipo Inválido"
	}

	out := fmt.Sprintf("%s em %s - %s", serviceType, date, FormatCost(r.cost))
	if r.description != "" {
		out += fmt.Sprintf(" (Descrição: %s)", r.description)
	}
	return out
}

// ToPersistable returns the stored form. Valid dates are re-encoded as
// YYYY-MM-DD.
func (r MaintenanceRecord) ToPersistable() MaintenanceData {
	date := r.date
	if day, ok := r.Day(); ok {
		date = day.Format(DateLayout)
	}
	return MaintenanceData{
		Date:        date,
		Kind:        r.serviceType,
		Cost:        r.cost,
		Description: r.description,
	}
}

// FormatCost renders an amount in Brazilian reais ("R$ 1.234,50").
func FormatCost(amount float64) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprint(currency.Symbol(currency.BRL.Amount(amount)))
}

// Day truncates t to its calendar date, expressed as midnight UTC so it
// compares directly with MaintenanceRecord.Day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
