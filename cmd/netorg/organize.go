package main

import (
	"github.com/spf13/cobra"
)

func newOrganizeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "organize",
		Short: "Record new devices and give every device a fixed IP reservation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, closeApp, err := c.buildApp()
			if err != nil {
				return err
			}
			defer closeApp()

			return app.Organize(cmd.Context())
		},
	}
}
