package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukydev/smart-garage/internal/garage"
	"github.com/ukydev/smart-garage/internal/models"
)

// reportedError marks an error the garage has already shown to the user as
// a notification.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// outcome converts the result of a garage operation into a command result.
// Warnings are not failures.
func outcome(err error) error {
	if err == nil || models.IsWarning(err) {
		return nil
	}
	return reportedError{err: err}
}

var kindAliases = map[string]models.Kind{
	"car":        models.KindCar,
	"carro":      models.KindCar,
	"sportscar":  models.KindSportsCar,
	"esportivo":  models.KindSportsCar,
	"truck":      models.KindTruck,
	"caminhao":   models.KindTruck,
	"caminhão":   models.KindTruck,
	"motorcycle": models.KindMotorcycle,
	"moto":       models.KindMotorcycle,
	"bicycle":    models.KindBicycle,
	"bicicleta":  models.KindBicycle,
}

func parseKindArg(s string) (models.Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return models.ParseKind(s)
}

func parseAmountArg(args []string, i int) (float64, error) {
	if len(args) <= i {
		return 0, nil
	}
	f, err := strconv.ParseFloat(args[i], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", args[i], err)
	}
	return f, nil
}

// vehicleRun adapts a per-vehicle action into a cobra RunE. The first
// argument is always the vehicle kind.
func (c *cli) vehicleRun(action func(ctx context.Context, g *garage.Garage, kind models.Kind, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		kind, err := parseKindArg(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return action(ctx, c.garage, kind, args[1:])
	}
}

func addVehicleCommands(parent *cobra.Command, c *cli) {
	parent.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show a one-line summary of every vehicle",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				printStatus(c.out, c.garage.Fleet())
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <vehicle>",
			Short: "Select a vehicle and print its detail view",
			Args:  cobra.ExactArgs(1),
			RunE: c.vehicleRun(func(_ context.Context, g *garage.Garage, kind models.Kind, _ []string) error {
				if err := g.Select(kind); err != nil {
					return err
				}
				detail, err := g.Detail(kind)
				if err != nil {
					return err
				}
				fmt.Fprint(c.out, detail)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "on <vehicle>",
			Short: "Turn the engine on",
			Args:  cobra.ExactArgs(1),
			RunE: c.vehicleRun(func(ctx context.Context, g *garage.Garage, kind models.Kind, _ []string) error {
				return outcome(g.TurnOn(ctx, kind))
			}),
		},
		&cobra.Command{
			Use:   "off <vehicle>",
			Short: "Turn the engine off (the vehicle must be stopped)",
			Args:  cobra.ExactArgs(1),
			RunE: c.vehicleRun(func(ctx context.Context, g *garage.Garage, kind models.Kind, _ []string) error {
				return outcome(g.TurnOff(ctx, kind))
			}),
		},
		&cobra.Command{
			Use:   "accelerate <vehicle> [amount]",
			Short: "Increase speed by amount km/h (default step per vehicle)",
			Args:  cobra.RangeArgs(1, 2),
			RunE: c.vehicleRun(func(_ context.Context, g *garage.Garage, kind models.Kind, args []string) error {
				amount, err := parseAmountArg(args, 0)
				if err != nil {
					return err
				}
				if err := outcome(g.Accelerate(kind, amount)); err != nil {
					return err
				}
				printSpeed(c.out, g.Fleet()[kind])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "brake <vehicle> [amount]",
			Short: "Decrease speed by amount km/h (default step per vehicle)",
			Args:  cobra.RangeArgs(1, 2),
			RunE: c.vehicleRun(func(_ context.Context, g *garage.Garage, kind models.Kind, args []string) error {
				amount, err := parseAmountArg(args, 0)
				if err != nil {
					return err
				}
				if err := outcome(g.Brake(kind, amount)); err != nil {
					return err
				}
				printSpeed(c.out, g.Fleet()[kind])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "horn <vehicle>",
			Short: "Sound the horn (motorized vehicles only)",
			Args:  cobra.ExactArgs(1),
			RunE: c.vehicleRun(func(_ context.Context, g *garage.Garage, kind models.Kind, _ []string) error {
				return outcome(g.Horn(kind))
			}),
		},
		&cobra.Command{
			Use:   "color <vehicle> <color>",
			Short: "Repaint a vehicle",
			Args:  cobra.MinimumNArgs(2),
			RunE: c.vehicleRun(func(ctx context.Context, g *garage.Garage, kind models.Kind, args []string) error {
				return outcome(g.ChangeColor(ctx, kind, strings.Join(args, " ")))
			}),
		},
		&cobra.Command{
			Use:       "turbo <vehicle> on|off",
			Short:     "Engage or disengage the sports car turbo",
			Args:      cobra.ExactArgs(2),
			ValidArgs: []string{"on", "off"},
			RunE: c.vehicleRun(func(ctx context.Context, g *garage.Garage, kind models.Kind, args []string) error {
				switch strings.ToLower(args[0]) {
				case "on":
					return outcome(g.EngageTurbo(ctx, kind))
				case "off":
					return outcome(g.DisengageTurbo(ctx, kind))
				default:
					return fmt.Errorf("turbo expects on or off, got %q", args[0])
				}
			}),
		},
		&cobra.Command{
			Use:   "cargo <vehicle> load|unload <kg>",
			Short: "Load or unload truck cargo",
			Args:  cobra.ExactArgs(3),
			RunE: c.vehicleRun(func(ctx context.Context, g *garage.Garage, kind models.Kind, args []string) error {
				switch strings.ToLower(args[0]) {
				case "load":
					return outcome(g.LoadCargo(ctx, kind, args[1]))
				case "unload":
					return outcome(g.UnloadCargo(ctx, kind, args[1]))
				default:
					return fmt.Errorf("cargo expects load or unload, got %q", args[0])
				}
			}),
		},
		newScheduleCmd(c),
		&cobra.Command{
			Use:   "history <vehicle>",
			Short: "List past and upcoming maintenance",
			Args:  cobra.ExactArgs(1),
			RunE: c.vehicleRun(func(_ context.Context, g *garage.Garage, kind models.Kind, _ []string) error {
				past, upcoming, err := g.History(kind)
				if err != nil {
					return err
				}
				printHistory(c.out, kind, past, upcoming)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "reminders",
			Short: "List maintenance due today or tomorrow",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if len(c.garage.CheckReminders()) == 0 {
					fmt.Fprintln(c.out, "Nenhum lembrete para hoje ou amanhã.")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Replace the saved fleet with the default vehicles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				c.garage.Reset(ctx)
				printStatus(c.out, c.garage.Fleet())
				return nil
			},
		},
	)
}

func newScheduleCmd(c *cli) *cobra.Command {
	var form garage.ScheduleForm
	cmd := &cobra.Command{
		Use:   "schedule <vehicle>",
		Short: "Record or schedule a maintenance service",
		Example: `  garage schedule Car --date 2024-04-10 --type "Troca de Óleo" --cost 150
  garage schedule Truck --date 2024-05-02 --type Revisão --cost 900 --description "Freios"`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&form.Date, "date", "", "service date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.ServiceType, "type", "", "service type")
	cmd.Flags().StringVar(&form.Cost, "cost", "", "cost in R$")
	cmd.Flags().StringVar(&form.Description, "description", "", "optional notes")
	cmd.RunE = c.vehicleRun(func(ctx context.Context, g *garage.Garage, kind models.Kind, _ []string) error {
		return outcome(g.Schedule(ctx, kind, form))
	})
	return cmd
}
