package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"netorg/internal/adapter"
	"netorg/internal/codec"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the device table to stdout or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The output file is only replaced once the export succeeded
			var buf bytes.Buffer
			if output != "" {
				c.out = &buf
			}

			app, closeApp, err := c.buildApp()
			if err != nil {
				return err
			}
			defer closeApp()

			if err := app.Export(cmd.Context(), format); err != nil {
				return err
			}
			if output == "" {
				return nil
			}
			if err := adapter.WriteFileAtomic(output, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			return nil
		},
	}

	var formats []string
	for _, e := range codec.Exporters() {
		formats = append(formats, e.Format())
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format ("+strings.Join(formats, ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
