package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ukydev/smart-garage/internal/garage"
	"github.com/ukydev/smart-garage/internal/models"
)

// soundPrinter stands in for audio playback on a terminal.
type soundPrinter struct{ out io.Writer }

func (s soundPrinter) Play(cue garage.Cue) { fmt.Fprintf(s.out, "♪ %s\n", cue) }

func printStatus(out io.Writer, fleet models.Fleet) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VEÍCULO\tMODELO\tCOR\tESTADO\tVELOCIDADE\tEXTRA")
	for _, v := range fleet.Vehicles() {
		state := "-"
		if v.Kind().Motorized() {
			state = "Desligado"
			if v.IsRunning() {
				state = "Ligado"
			}
		}
		extra := ""
		switch v.Kind() {
		case models.KindSportsCar:
			extra = "turbo desativado"
			if v.TurboEngaged() {
				extra = "turbo ativado"
			}
		case models.KindTruck:
			extra = fmt.Sprintf("carga %.0f/%.0f kg", v.CurrentLoad(), v.CargoCapacity())
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f km/h\t%s\n", v.Kind(), v.Model(), v.Color(), state, v.Speed(), extra)
	}
	w.Flush()
}

func printSpeed(out io.Writer, v *models.Vehicle) {
	if v == nil {
		return
	}
	if v.Kind() == models.KindTruck {
		fmt.Fprintf(out, "%s: %.1f km/h\n", v.Model(), v.Speed())
		return
	}
	fmt.Fprintf(out, "%s: %.0f km/h\n", v.Model(), v.Speed())
}

func printHistory(out io.Writer, kind models.Kind, past, upcoming string) {
	if !kind.Maintainable() {
		fmt.Fprintln(out, past)
		return
	}
	fmt.Fprintf(out, "Histórico de Manutenção\n%s\n\nAgendamentos Futuros\n%s\n", past, upcoming)
}
