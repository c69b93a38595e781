package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"netorg/internal/adapter"
)

func newLeasesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leases",
		Short: "Manage the local DHCP lease table used by the sqlite source",
	}
	cmd.AddCommand(newLeasesImportCmd(c), newLeasesListCmd(c))
	return cmd
}

func newLeasesImportCmd(c *cli) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "import <dnsmasq.leases>",
		Short: "Record the leases of a dnsmasq lease file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			clients, err := adapter.ParseLeases(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if err := store.RecordLeases(ctx, clients, time.Now().Add(ttl)); err != nil {
				return err
			}
			pruned, err := store.PruneLeases(ctx)
			if err != nil {
				return err
			}
			c.log.Infof("Imported %d leases, pruned %d expired", len(clients), pruned)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "how long imported leases count as active")
	return cmd
}

func newLeasesListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the unexpired leases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			clients, err := store.ActiveLeases(cmd.Context())
			if err != nil {
				return err
			}
			if len(clients) == 0 {
				pterm.Info.Println("No active leases.")
				return nil
			}

			data := pterm.TableData{{"MAC", "IP", "Name"}}
			for _, cl := range clients {
				data = append(data, []string{cl.MAC, cl.IP, cl.Name})
			}
			table, err := pterm.DefaultTable.WithHasHeader(true).WithBoxed(false).WithData(data).Srender()
			if err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}
			fmt.Fprintln(c.out, table)
			return nil
		},
	}
}
