package models

import (
	"math"
	"slices"
	"strings"
	"time"
)

// DefaultCargoCapacity is used for trucks built with a non-positive capacity (kg).
const DefaultCargoCapacity = 5000.0

// Summary sentinels shown when there is nothing to list.
const (
	NoMaintenanceText         = "Nenhum registro de manutenção."
	NoPastMaintenanceText     = "Nenhum registro de manutenção passada."
	NoUpcomingMaintenanceText = "Nenhum agendamento futuro."
	NotApplicableText         = "N/A"
)

// Vehicle is a garage vehicle of one of the five kinds. Kind-specific state
// (turbo, cargo) is only meaningful for the kind that owns it; every
// operation resolves kind-specific behavior with a switch on v.kind.
type Vehicle struct {
	kind    Kind
	model   string
	color   string
	running bool
	speed   float64
	history []MaintenanceRecord

	// SportsCar only
	turboEngaged bool

	// Truck only, in kg
	cargoCapacity float64
	currentLoad   float64
}

// VehicleData is the persistable form of a Vehicle. Optional fields are
// pointers so kinds that do not carry them omit the key entirely.
type VehicleData struct {
	Model              string             `json:"model" bson:"model"`
	Color              string             `json:"color" bson:"color"`
	Kind               Kind               `json:"kind" bson:"kind"`
	IsRunning          *bool              `json:"isRunning,omitempty" bson:"isRunning,omitempty"`
	Speed              float64            `json:"speed" bson:"speed"`
	MaintenanceHistory *[]MaintenanceData `json:"maintenanceHistory,omitempty" bson:"maintenanceHistory,omitempty"`
	TurboEngaged       *bool              `json:"turboEngaged,omitempty" bson:"turboEngaged,omitempty"`
	CargoCapacity      *float64           `json:"cargoCapacity,omitempty" bson:"cargoCapacity,omitempty"`
	CurrentLoad        *float64           `json:"currentLoad,omitempty" bson:"currentLoad,omitempty"`
}

// NewVehicle creates a stopped vehicle of the given kind. Trucks get
// DefaultCargoCapacity; use NewTruck to choose one.
func NewVehicle(kind Kind, model, color string) (*Vehicle, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	v := &Vehicle{kind: kind, model: model, color: color}
	if kind == KindTruck {
		v.cargoCapacity = DefaultCargoCapacity
	}
	return v, nil
}

// NewCar creates a stopped car.
func NewCar(model, color string) *Vehicle {
	return &Vehicle{kind: KindCar, model: model, color: color}
}

// NewSportsCar creates a stopped sports car with the turbo off.
func NewSportsCar(model, color string) *Vehicle {
	return &Vehicle{kind: KindSportsCar, model: model, color: color}
}

// NewTruck creates an empty truck. A capacity that is not a positive number
// falls back to DefaultCargoCapacity.
func NewTruck(model, color string, cargoCapacity float64) *Vehicle {
	if math.IsNaN(cargoCapacity) || math.IsInf(cargoCapacity, 0) || cargoCapacity <= 0 {
		cargoCapacity = DefaultCargoCapacity
	}
	return &Vehicle{kind: KindTruck, model: model, color: color, cargoCapacity: cargoCapacity}
}

// NewMotorcycle creates a stopped motorcycle.
func NewMotorcycle(model, color string) *Vehicle {
	return &Vehicle{kind: KindMotorcycle, model: model, color: color}
}

// NewBicycle creates a bicycle at rest. Bicycles have no ignition.
func NewBicycle(model, color string) *Vehicle {
	return &Vehicle{kind: KindBicycle, model: model, color: color}
}

// Kind is the vehicle variant.
func (v *Vehicle) Kind() Kind { return v.kind }

// Model is the vehicle model name.
func (v *Vehicle) Model() string { return v.model }

// Color is the current paint color.
func (v *Vehicle) Color() string { return v.color }

// IsRunning reports whether the engine is on. Always false for bicycles.
func (v *Vehicle) IsRunning() bool { return v.running }

// Speed is the current speed in km/h.
func (v *Vehicle) Speed() float64 { return v.speed }

// TurboEngaged reports whether the sports car turbo is on.
func (v *Vehicle) TurboEngaged() bool { return v.turboEngaged }

// CargoCapacity is the truck capacity in kg; 0 for other kinds.
func (v *Vehicle) CargoCapacity() float64 { return v.cargoCapacity }

// CurrentLoad is the cargo on board in kg.
func (v *Vehicle) CurrentLoad() float64 { return v.currentLoad }

// MaintenanceHistory returns a copy of the history, sorted ascending by date.
func (v *Vehicle) MaintenanceHistory() []MaintenanceRecord {
	return slices.Clone(v.history)
}

// MaxSpeed is the speed cap (km/h) for the vehicle in its current state.
func (v *Vehicle) MaxSpeed() float64 {
	switch v.kind {
	case KindSportsCar:
		if v.turboEngaged {
			return 250
		}
		return 200
	case KindTruck:
		return 120
	case KindMotorcycle:
		return 160
	case KindBicycle:
		return 30
	default:
		return 180
	}
}

// TurnOn starts the engine.
func (v *Vehicle) TurnOn() error {
	if !v.kind.Motorized() {
		return ErrNotApplicable
	}
	if v.running {
		return ErrAlreadyOn
	}
	v.running = true
	return nil
}

// TurnOff stops the engine. The vehicle has to be standing still.
func (v *Vehicle) TurnOff() error {
	if !v.kind.Motorized() {
		return ErrNotApplicable
	}
	if !v.running {
		return ErrAlreadyOff
	}
	if v.speed > 0 {
		return ErrMustStopFirst
	}
	v.running = false
	v.speed = 0
	return nil
}

// Accelerate raises the speed by the kind-adjusted increment, capped at
// MaxSpeed. Already at the cap it does nothing.
func (v *Vehicle) Accelerate(increment float64) error {
	if math.IsNaN(increment) || increment <= 0 {
		return ErrInvalidAmount
	}
	if v.kind.Motorized() && !v.running {
		return ErrNotRunning
	}
	limit := v.MaxSpeed()
	if v.speed >= limit {
		return nil
	}
	v.speed = math.Min(v.speed+v.effectiveIncrement(increment), limit)
	return nil
}

func (v *Vehicle) effectiveIncrement(increment float64) float64 {
	switch v.kind {
	case KindSportsCar:
		if v.turboEngaged {
			return increment * 1.5
		}
	case KindTruck:
		return increment * v.LoadFactor()
	}
	return increment
}

// LoadFactor scales truck acceleration down as cargo grows, never below 0.5.
// It is 1 for every other kind.
func (v *Vehicle) LoadFactor() float64 {
	if v.kind != KindTruck || v.cargoCapacity <= 0 {
		return 1
	}
	return math.Max(0.5, 1-(v.currentLoad/v.cargoCapacity)*0.5)
}

// Brake lowers the speed, never below zero.
func (v *Vehicle) Brake(decrement float64) error {
	if math.IsNaN(decrement) || decrement <= 0 {
		return ErrInvalidAmount
	}
	if v.speed == 0 {
		return nil
	}
	v.speed = math.Max(0, v.speed-decrement)
	return nil
}

// ChangeColor repaints the vehicle.
func (v *Vehicle) ChangeColor(color string) error {
	color = strings.TrimSpace(color)
	if color == "" {
		return ErrBlankColor
	}
	v.color = color
	return nil
}

// EngageTurbo switches the sports car turbo on. changed is false when it
// already was.
func (v *Vehicle) EngageTurbo() (changed bool, err error) {
	if v.kind != KindSportsCar {
		return false, ErrNotApplicable
	}
	if !v.running {
		return false, ErrNotRunning
	}
	if v.turboEngaged {
		return false, nil
	}
	v.turboEngaged = true
	return true, nil
}

// DisengageTurbo switches the turbo off and pulls the speed back under the
// non-turbo cap.
func (v *Vehicle) DisengageTurbo() (changed bool, err error) {
	if v.kind != KindSportsCar {
		return false, ErrNotApplicable
	}
	if !v.turboEngaged {
		return false, nil
	}
	v.turboEngaged = false
	v.speed = math.Min(v.speed, v.MaxSpeed())
	return true, nil
}

// Load adds cargo up to the truck's capacity and returns the amount actually
// loaded.
func (v *Vehicle) Load(amount float64) (float64, error) {
	if v.kind != KindTruck {
		return 0, ErrNotApplicable
	}
	if v.running {
		return 0, ErrRunning
	}
	if math.IsNaN(amount) || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	actual := math.Min(amount, v.cargoCapacity-v.currentLoad)
	if actual <= 0 {
		return 0, ErrCargoFull
	}
	v.currentLoad += actual
	return actual, nil
}

// Unload removes cargo and returns the amount actually removed.
func (v *Vehicle) Unload(amount float64) (float64, error) {
	if v.kind != KindTruck {
		return 0, ErrNotApplicable
	}
	if v.running {
		return 0, ErrRunning
	}
	if math.IsNaN(amount) || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	actual := math.Min(amount, v.currentLoad)
	if actual <= 0 {
		return 0, ErrCargoEmpty
	}
	v.currentLoad -= actual
	return actual, nil
}

// AddMaintenanceRecord validates r and inserts it, keeping the history
// sorted by date. Invalid records leave the history untouched.
func (v *Vehicle) AddMaintenanceRecord(r MaintenanceRecord) error {
	if !v.kind.Maintainable() {
		return ErrMaintenanceNotSupported
	}
	if err := r.Validate(); err != nil {
		return err
	}
	v.history = append(v.history, r)
	sortHistory(v.history)
	return nil
}

func sortHistory(h []MaintenanceRecord) {
	slices.SortStableFunc(h, func(a, b MaintenanceRecord) int {
		da, _ := a.Day()
		db, _ := b.Day()
		return da.Compare(db)
	})
}

// PastMaintenance returns records dated on or before today, most recent first.
func (v *Vehicle) PastMaintenance(today time.Time) []MaintenanceRecord {
	cutoff := Day(today)
	var past []MaintenanceRecord
	for i := len(v.history) - 1; i >= 0; i-- {
		if day, ok := v.history[i].Day(); ok && !day.After(cutoff) {
			past = append(past, v.history[i])
		}
	}
	return past
}

// UpcomingMaintenance returns records dated after today, soonest first.
func (v *Vehicle) UpcomingMaintenance(today time.Time) []MaintenanceRecord {
	cutoff := Day(today)
	var upcoming []MaintenanceRecord
	for _, r := range v.history {
		if day, ok := r.Day(); ok && day.After(cutoff) {
			upcoming = append(upcoming, r)
		}
	}
	return upcoming
}

// PastMaintenanceSummary lists past records one per line ("- <record>").
func (v *Vehicle) PastMaintenanceSummary(today time.Time, style DateStyle) string {
	if !v.kind.Maintainable() {
		return NotApplicableText
	}
	if len(v.history) == 0 {
		return NoMaintenanceText
	}
	past := v.PastMaintenance(today)
	if len(past) == 0 {
		return NoPastMaintenanceText
	}
	return summarize(past, style)
}

// UpcomingMaintenanceSummary lists scheduled records one per line.
func (v *Vehicle) UpcomingMaintenanceSummary(today time.Time, style DateStyle) string {
	if !v.kind.Maintainable() {
		return NotApplicableText
	}
	upcoming := v.UpcomingMaintenance(today)
	if len(upcoming) == 0 {
		return NoUpcomingMaintenanceText
	}
	return summarize(upcoming, style)
}

func summarize(records []MaintenanceRecord, style DateStyle) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, "- "+r.FormatForDisplay(style))
	}
	return strings.Join(lines, "\n")
}

// ToPersistable returns the stored form of the vehicle. Bicycles carry
// neither an ignition flag nor a maintenance history.
func (v *Vehicle) ToPersistable() VehicleData {
	d := VehicleData{
		Model: v.model,
		Color: v.color,
		Kind:  v.kind,
		Speed: v.speed,
	}
	if v.kind.Motorized() {
		running := v.running
		d.IsRunning = &running
	}
	if v.kind.Maintainable() {
		history := make([]MaintenanceData, 0, len(v.history))
		for _, r := range v.history {
			history = append(history, r.ToPersistable())
		}
		d.MaintenanceHistory = &history
	}
	switch v.kind {
	case KindSportsCar:
		turbo := v.turboEngaged
		d.TurboEngaged = &turbo
	case KindTruck:
		capacity, load := v.cargoCapacity, v.currentLoad
		d.CargoCapacity = &capacity
		d.CurrentLoad = &load
	}
	return d
}

// FromPersistable rebuilds a vehicle from its stored form, dispatching on
// d.Kind. Invalid maintenance entries are dropped; dropped reports how many.
// Out of range speed and load values are clamped.
func FromPersistable(d VehicleData) (v *Vehicle, dropped int, err error) {
	kind, err := ParseKind(string(d.Kind))
	if err != nil {
		return nil, 0, err
	}

	switch kind {
	case KindCar:
		v = NewCar(d.Model, d.Color)
	case KindSportsCar:
		v = NewSportsCar(d.Model, d.Color)
		if d.TurboEngaged != nil {
			v.turboEngaged = *d.TurboEngaged
		}
	case KindTruck:
		capacity := 0.0
		if d.CargoCapacity != nil {
			capacity = *d.CargoCapacity
		}
		v = NewTruck(d.Model, d.Color, capacity)
		if d.CurrentLoad != nil {
			v.currentLoad = clamp(*d.CurrentLoad, 0, v.cargoCapacity)
		}
	case KindMotorcycle:
		v = NewMotorcycle(d.Model, d.Color)
	case KindBicycle:
		v = NewBicycle(d.Model, d.Color)
	}

	if kind.Motorized() && d.IsRunning != nil {
		v.running = *d.IsRunning
	}
	v.speed = clamp(d.Speed, 0, v.MaxSpeed())

	if kind.Maintainable() && d.MaintenanceHistory != nil {
		for _, md := range *d.MaintenanceHistory {
			r, err := MaintenanceFromPersistable(md)
			if err != nil {
				dropped++
				continue
			}
			v.history = append(v.history, r)
		}
		sortHistory(v.history)
	}
	return v, dropped, nil
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Max(lo, math.Min(x, hi))
}
