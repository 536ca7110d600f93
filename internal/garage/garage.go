package garage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/smart-garage/internal/models"
	"github.com/ukydev/smart-garage/internal/notify"
	"github.com/ukydev/smart-garage/internal/reminder"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrMissingFields   = errors.New("date, kind and cost are required")
)

const (
	loadedDuration   = 2500 * time.Millisecond
	reminderDuration = 15 * time.Second
	reminderStagger  = 500 * time.Millisecond
)

// Garage is the application state: the live fleet, the selected vehicle and
// the collaborators every operation reports to.
type Garage struct {
	fleet       models.Fleet
	selected    models.Kind
	persistence *Persistence
	notifier    notify.Notifier
	sounds      SoundPlayer
	renderer    Renderer
	now         func() time.Time
	dateStyle   models.DateStyle
}

// Option configures a Garage.
type Option func(*Garage)

func WithNotifier(n notify.Notifier) Option { return func(g *Garage) { g.notifier = n } }
func WithSoundPlayer(s SoundPlayer) Option  { return func(g *Garage) { g.sounds = s } }
func WithRenderer(r Renderer) Option        { return func(g *Garage) { g.renderer = r } }
func WithClock(now func() time.Time) Option { return func(g *Garage) { g.now = now } }
func WithDateStyle(s models.DateStyle) Option {
	return func(g *Garage) { g.dateStyle = s }
}

// Open restores the saved fleet. A missing, corrupt or empty snapshot is
// replaced by the default fleet, which is saved right away. Reminders due
// today or tomorrow are raised before Open returns.
func Open(ctx context.Context, p *Persistence, opts ...Option) *Garage {
	g := &Garage{
		persistence: p,
		notifier:    notify.LogNotifier{},
		sounds:      nopSounds{},
		renderer:    nopRenderer{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	fleet, err := p.Load(ctx)
	switch {
	case err == nil && len(fleet) > 0:
		g.fleet = fleet
		g.notify("Dados da garagem carregados.", notify.SeverityInfo, loadedDuration)
	case err == nil, errors.Is(err, ErrNoSnapshot):
		g.resetToDefaults(ctx)
	case errors.Is(err, ErrCorruptSnapshot):
		g.notify("Erro ao carregar dados salvos. Resetando para padrões.", notify.SeverityError, 0)
		g.resetToDefaults(ctx)
	default:
		// The store is unreachable; keep whatever it holds untouched.
		log.WithError(err).Error("Failed to load garage, using defaults")
		g.notify("Erro ao carregar dados salvos. Usando veículos padrão.", notify.SeverityError, 0)
		g.fleet = models.DefaultFleet()
	}

	for _, v := range g.fleet.Vehicles() {
		for _, f := range []Field{FieldState, FieldSpeed, FieldColor, FieldTurbo, FieldCargo, FieldMaintenance} {
			g.renderer.VehicleChanged(v, f)
		}
	}
	g.CheckReminders()
	return g
}

func (g *Garage) resetToDefaults(ctx context.Context) {
	log.Info("Initializing garage with default vehicles")
	g.fleet = models.DefaultFleet()
	g.selected = ""
	g.save(ctx)
}

// Reset discards the current fleet and saves the default one.
func (g *Garage) Reset(ctx context.Context) {
	g.resetToDefaults(ctx)
	g.notify("Garagem restaurada para os veículos padrão.", notify.SeverityInfo, 0)
	for _, v := range g.fleet.Vehicles() {
		g.renderer.VehicleChanged(v, FieldState)
	}
}

// Fleet returns the live fleet.
func (g *Garage) Fleet() models.Fleet { return g.fleet }

// Selected returns the kind shown in the detail view, if any.
func (g *Garage) Selected() (models.Kind, bool) {
	return g.selected, g.selected != ""
}

// Vehicle looks a vehicle up by kind.
func (g *Garage) Vehicle(kind models.Kind) (*models.Vehicle, error) {
	v, ok := g.fleet[kind]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, kind)
	}
	return v, nil
}

// Select shows kind in the detail view.
func (g *Garage) Select(kind models.Kind) error {
	if _, err := g.Vehicle(kind); err != nil {
		return err
	}
	g.selected = kind
	g.refreshDetail(kind)
	return nil
}

func (g *Garage) TurnOn(ctx context.Context, kind models.Kind) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	if err := v.TurnOn(); err != nil {
		return g.report(v, err, "")
	}
	log.WithFields(log.Fields{"kind": kind, "model": v.Model()}).Debug("Vehicle turned on")
	g.sounds.Play(CueIgnitionOn)
	g.changed(ctx, v, true, FieldState)
	return nil
}

func (g *Garage) TurnOff(ctx context.Context, kind models.Kind) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	if err := v.TurnOff(); err != nil {
		return g.report(v, err, "")
	}
	log.WithFields(log.Fields{"kind": kind, "model": v.Model()}).Debug("Vehicle turned off")
	g.sounds.Play(CueIgnitionOff)
	g.changed(ctx, v, true, FieldState, FieldSpeed)
	return nil
}

// Accelerate applies amount, or the kind's default step when amount is 0.
// Speed is not persisted.
func (g *Garage) Accelerate(kind models.Kind, amount float64) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	if amount == 0 {
		amount = kind.DefaultAccelerateStep()
	}
	before := v.Speed()
	if err := v.Accelerate(amount); err != nil {
		return g.report(v, err, "")
	}
	if v.Speed() == before {
		return nil
	}
	log.WithFields(log.Fields{"kind": kind, "speed": v.Speed()}).Debug("Vehicle accelerated")
	g.sounds.Play(CueAccelerate)
	g.changed(context.Background(), v, false, FieldSpeed)
	return nil
}

// Brake applies amount, or the kind's default step when amount is 0.
// Speed is not persisted.
func (g *Garage) Brake(kind models.Kind, amount float64) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	if amount == 0 {
		amount = kind.DefaultBrakeStep()
	}
	before := v.Speed()
	if err := v.Brake(amount); err != nil {
		return g.report(v, err, "")
	}
	if v.Speed() == before {
		return nil
	}
	log.WithFields(log.Fields{"kind": kind, "speed": v.Speed()}).Debug("Vehicle braked")
	if v.Speed() > 0 && kind.Motorized() {
		g.sounds.Play(CueBrake)
	}
	g.changed(context.Background(), v, false, FieldSpeed)
	return nil
}

// Horn plays the horn of a motorized vehicle, running or not.
func (g *Garage) Horn(kind models.Kind) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	if !kind.Motorized() {
		return g.report(v, models.ErrNotApplicable, "horn")
	}
	g.sounds.Play(CueHorn)
	return nil
}

// ChangeColor repaints a vehicle. A blank color is rejected; repainting
// with the current color does nothing.
func (g *Garage) ChangeColor(ctx context.Context, kind models.Kind, color string) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	before := v.Color()
	if err := v.ChangeColor(color); err != nil {
		return g.report(v, err, "")
	}
	if v.Color() == before {
		return nil
	}
	g.changed(ctx, v, true, FieldColor)
	g.notify(fmt.Sprintf("Cor do %s alterada para %s.", v.Model(), v.Color()), notify.SeveritySuccess, 0)
	return nil
}

func (g *Garage) EngageTurbo(ctx context.Context, kind models.Kind) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	changed, err := v.EngageTurbo()
	if err != nil {
		return g.report(v, err, "turbo")
	}
	if !changed {
		return nil
	}
	g.changed(ctx, v, true, FieldTurbo)
	g.notify("Turbo Ativado!", notify.SeverityWarning, 0)
	return nil
}

func (g *Garage) DisengageTurbo(ctx context.Context, kind models.Kind) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	changed, err := v.DisengageTurbo()
	if err != nil {
		return g.report(v, err, "")
	}
	if !changed {
		return nil
	}
	g.changed(ctx, v, true, FieldTurbo, FieldSpeed)
	return nil
}

// LoadCargo loads a truck. amount is raw user input.
func (g *Garage) LoadCargo(ctx context.Context, kind models.Kind, amount string) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	loaded, err := v.Load(parseAmount(amount))
	if err != nil {
		return g.report(v, err, "carregar")
	}
	g.changed(ctx, v, true, FieldCargo)
	g.notify(fmt.Sprintf("Carregado %.0f kg. Carga total: %.0f kg.", loaded, v.CurrentLoad()), notify.SeveritySuccess, 0)
	return nil
}

// UnloadCargo unloads a truck. amount is raw user input.
func (g *Garage) UnloadCargo(ctx context.Context, kind models.Kind, amount string) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	unloaded, err := v.Unload(parseAmount(amount))
	if err != nil {
		return g.report(v, err, "descarregar")
	}
	g.changed(ctx, v, true, FieldCargo)
	g.notify(fmt.Sprintf("Descarregado %.0f kg. Carga restante: %.0f kg.", unloaded, v.CurrentLoad()), notify.SeveritySuccess, 0)
	return nil
}

func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// ScheduleForm is the raw input of the maintenance form.
type ScheduleForm struct {
	Date        string
	ServiceType string
	Cost        string
	Description string
}

// Schedule validates the form and records the maintenance on kind.
func (g *Garage) Schedule(ctx context.Context, kind models.Kind, form ScheduleForm) error {
	_, err := g.Vehicle(kind)
	if err != nil || !kind.Maintainable() {
		g.notify("Selecione um veículo válido (não bicicleta) para agendar.", notify.SeverityError, 0)
		if err != nil {
			return err
		}
		return models.ErrMaintenanceNotSupported
	}

	if strings.TrimSpace(form.Date) == "" || strings.TrimSpace(form.ServiceType) == "" || strings.TrimSpace(form.Cost) == "" {
		g.notify("Preencha todos os campos obrigatórios (Data, Tipo, Custo).", notify.SeverityError, 0)
		return ErrMissingFields
	}
	cost, err := strconv.ParseFloat(strings.TrimSpace(form.Cost), 64)
	if err != nil || cost < 0 {
		g.notify("O custo deve ser um número positivo.", notify.SeverityError, 0)
		return fmt.Errorf("%w: %w", models.ErrInvalidMaintenance, models.ErrInvalidCost)
	}

	return g.AddMaintenance(ctx, kind, models.NewMaintenanceRecord(form.Date, form.ServiceType, cost, form.Description))
}

// AddMaintenance stores r on kind, persists the fleet and re-checks
// reminders.
func (g *Garage) AddMaintenance(ctx context.Context, kind models.Kind, r models.MaintenanceRecord) error {
	v, err := g.Vehicle(kind)
	if err != nil {
		return err
	}
	if err := v.AddMaintenanceRecord(r); err != nil {
		return g.report(v, err, "")
	}
	log.WithFields(log.Fields{"kind": kind, "date": r.Date(), "service": r.ServiceType()}).Info("Maintenance recorded")
	g.changed(ctx, v, true, FieldMaintenance)
	g.notify(fmt.Sprintf("Manutenção para %s registrada/agendada com sucesso!", v.Model()), notify.SeveritySuccess, 0)
	g.CheckReminders()
	return nil
}

// CheckReminders raises one warning per record due today or tomorrow and
// returns them.
func (g *Garage) CheckReminders() []reminder.Reminder {
	due := reminder.FindDueReminders(g.fleet, g.now())
	for i, r := range due {
		g.notify(r.Message(), notify.SeverityWarning, reminderDuration+time.Duration(i+1)*reminderStagger)
	}
	if len(due) == 0 {
		log.Debug("No maintenance due today or tomorrow")
	}
	return due
}

// changed fans a successful mutation out to the renderer, the store and the
// detail view.
func (g *Garage) changed(ctx context.Context, v *models.Vehicle, persist bool, fields ...Field) {
	for _, f := range fields {
		g.renderer.VehicleChanged(v, f)
	}
	if persist {
		g.save(ctx)
	}
	if g.selected == v.Kind() {
		g.refreshDetail(v.Kind())
	}
}

// save persists the fleet. A failure is reported, never returned: the
// in-memory state stays authoritative.
func (g *Garage) save(ctx context.Context) {
	if err := g.persistence.Save(ctx, g.fleet); err != nil {
		g.notify("Falha ao salvar os dados da garagem.", notify.SeverityWarning, 0)
	}
}

func (g *Garage) refreshDetail(kind models.Kind) {
	detail, err := g.Detail(kind)
	if err != nil {
		return
	}
	g.renderer.DetailChanged(kind, detail)
}

func (g *Garage) notify(message string, severity notify.Severity, d time.Duration) {
	g.notifier.Notify(notify.New(message, severity, d))
}

// report turns a rejected operation into a notification and returns err.
func (g *Garage) report(v *models.Vehicle, err error, verb string) error {
	message, severity := describe(v, err, verb)
	log.WithError(err).WithFields(log.Fields{"kind": v.Kind(), "model": v.Model()}).Debug("Operation rejected")
	g.notify(message, severity, 0)
	return err
}
