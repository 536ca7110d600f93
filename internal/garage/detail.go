package garage

import (
	"fmt"
	"strings"

	"github.com/ukydev/smart-garage/internal/models"
)

// Detail renders the detail view of a vehicle as plain text.
func (g *Garage) Detail(kind models.Kind) (string, error) {
	v, err := g.Vehicle(kind)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", kind.Label())
	fmt.Fprintf(&b, "Modelo: %s\n", v.Model())
	fmt.Fprintf(&b, "Cor: %s\n", v.Color())
	if kind.Motorized() {
		state := "Desligado"
		if v.IsRunning() {
			state = "Ligado"
		}
		fmt.Fprintf(&b, "Estado: %s\n", state)
	}
	if kind == models.KindTruck {
		fmt.Fprintf(&b, "Velocidade: %.1f km/h (máx. %.0f)\n", v.Speed(), v.MaxSpeed())
	} else {
		fmt.Fprintf(&b, "Velocidade: %.0f km/h (máx. %.0f)\n", v.Speed(), v.MaxSpeed())
	}

	switch kind {
	case models.KindSportsCar:
		turbo := "Desativado"
		if v.TurboEngaged() {
			turbo = "Ativado"
		}
		fmt.Fprintf(&b, "Turbo: %s\n", turbo)
	case models.KindTruck:
		fmt.Fprintf(&b, "Capacidade: %.0f kg\n", v.CargoCapacity())
		fmt.Fprintf(&b, "Carga Atual: %.0f kg\n", v.CurrentLoad())
	}

	if !kind.Maintainable() {
		b.WriteString("\nBicicletas não possuem histórico ou agendamento de manutenção neste sistema.\n")
		return b.String(), nil
	}

	today := g.now()
	fmt.Fprintf(&b, "\nHistórico de Manutenção\n%s\n", v.PastMaintenanceSummary(today, g.dateStyle))
	fmt.Fprintf(&b, "\nAgendamentos Futuros\n%s\n", v.UpcomingMaintenanceSummary(today, g.dateStyle))
	return b.String(), nil
}

// History returns the past and upcoming maintenance summaries of kind as
// of the garage clock.
func (g *Garage) History(kind models.Kind) (past, upcoming string, err error) {
	v, err := g.Vehicle(kind)
	if err != nil {
		return "", "", err
	}
	today := g.now()
	return v.PastMaintenanceSummary(today, g.dateStyle), v.UpcomingMaintenanceSummary(today, g.dateStyle), nil
}
