package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"netorg/internal/config"
)

func newConfigureCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Create or update the configuration interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wizard := config.NewWizard(config.TerminalPrompter{})
			cfg, err := wizard.Generate(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			if err := c.store.Save(cfg); err != nil {
				return err
			}
			pterm.Success.Printfln("Configuration saved to %s", c.store.Path())
			return nil
		},
	}
}
