package main

import (
	"context"
	"fmt"
	"io"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukydev/smart-garage/internal/config"
	"github.com/ukydev/smart-garage/internal/db"
	"github.com/ukydev/smart-garage/internal/garage"
	"github.com/ukydev/smart-garage/internal/logging"
	"github.com/ukydev/smart-garage/internal/models"
	"github.com/ukydev/smart-garage/internal/notify"
)

// cli holds what one invocation shares between commands.
type cli struct {
	in         io.Reader
	out        io.Writer
	configPath string

	cfg    *config.Config
	store  db.KeyValueStore
	mqtt   mqtt.Client
	garage *garage.Garage
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{in: in, out: out}

	root := &cobra.Command{
		Use:   "garage",
		Short: "Smart garage: drive, maintain and track a five-vehicle fleet",
		Long: `garage manages a car, a sports car, a truck, a motorcycle and a bicycle.
State and maintenance records are saved to the configured storage backend
after every change; speed is kept only for the running process (see "shell").`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		PersistentPreRunE:  c.open,
		PersistentPostRunE: c.close,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file (default: $GARAGE_CONFIG)")
	root.SetIn(in)
	root.SetOut(out)

	addVehicleCommands(root, c)
	root.AddCommand(newShellCmd(c))
	return root
}

func (c *cli) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	logging.Setup(cfg.Log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := db.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	c.store = store

	notifiers := notify.Fanout{notify.WriterNotifier{Out: c.out}}
	if cfg.MQTT.Broker != "" {
		client, err := notify.NewMQTTClient(cfg.MQTT)
		if err != nil {
			log.WithError(err).WithField("broker", cfg.MQTT.Broker).Warn("MQTT unavailable, notifications stay local")
		} else {
			c.mqtt = client
			notifiers = append(notifiers, notify.NewMQTTNotifier(client, cfg.MQTT.Topic, cfg.MQTT.Timeout))
		}
	}

	c.garage = garage.Open(ctx, garage.NewPersistence(store, cfg.Storage.Key),
		garage.WithNotifier(notifiers),
		garage.WithSoundPlayer(soundPrinter{out: c.out}),
		garage.WithDateStyle(models.ParseDateStyle(cfg.Display.DateStyle)),
	)
	return nil
}

func (c *cli) close(_ *cobra.Command, _ []string) error {
	if c.mqtt != nil {
		c.mqtt.Disconnect(250)
	}
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
