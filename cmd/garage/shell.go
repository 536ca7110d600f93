package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const shellPrompt = "garagem> "

// newShellCmd runs an interactive session against one garage so speed and
// other in-memory state survive between commands.
func newShellCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session (speed is kept between commands)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(c.out, `Garagem Inteligente. Digite "help" para ver os comandos, "exit" para sair.`)
			scanner := bufio.NewScanner(c.in)
			for {
				fmt.Fprint(c.out, shellPrompt)
				if !scanner.Scan() {
					fmt.Fprintln(c.out)
					return scanner.Err()
				}
				args := strings.Fields(scanner.Text())
				if len(args) == 0 {
					continue
				}
				if args[0] == "exit" || args[0] == "quit" {
					return nil
				}
				if err := c.runLine(cmd, args); err != nil {
					var rep reportedError
					if !errors.As(err, &rep) {
						fmt.Fprintln(c.out, "Erro:", err)
					}
				}
			}
		},
	}
}

// runLine executes one shell line on a fresh command tree bound to the
// already open garage.
func (c *cli) runLine(parent *cobra.Command, args []string) error {
	line := &cobra.Command{
		Use:           "garagem",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	line.SetOut(c.out)
	line.SetErr(c.out)
	line.SetArgs(args)
	addVehicleCommands(line, c)
	ctx := parent.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := line.ExecuteContextC(ctx)
	return err
}
