package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"netorg/internal/config"
	"netorg/internal/logger"
)

// cli holds state shared by the subcommands
type cli struct {
	cfgFile string
	verbose bool

	out   io.Writer
	store *config.FileStore
	cfg   *config.Config
	log   *logrus.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	rootCmd := &cobra.Command{
		Use:   "netorg",
		Short: "Organize the devices on a home network VLAN",
		Long: `netorg keeps a curated list of known devices, compares it with the
clients active on the VLAN and the DHCP server's fixed IP reservations,
and gives every device a stable address.

Examples:
  netorg configure
  netorg scan --watch
  netorg organize
  netorg export --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: search $NETORG_CONFIG, ./.netorg.cfg, ~/.netorg.cfg)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging with timestamps")

	rootCmd.AddCommand(
		newConfigureCmd(c),
		newScanCmd(c),
		newOrganizeCmd(c),
		newExportCmd(c),
		newLeasesCmd(c),
	)
	return rootCmd
}

// init loads the configuration and sets up logging. configure may run
// without a config file; every other command needs one.
func (c *cli) init(cmd *cobra.Command) error {
	c.store = config.NewFileStore(c.cfgFile)
	cfg, err := c.store.Load()
	if err != nil {
		if cmd.Name() != "configure" {
			return err
		}
		cfg = config.DefaultConfig()
	}
	c.cfg = cfg

	log, err := logger.Init(cfg.Log, logger.Options{Verbose: c.verbose})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	c.log = log
	c.log.Debugf("Configuration: %s", c.cfg.Summary())
	return nil
}
