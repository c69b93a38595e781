package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"netorg/internal/service"
	"netorg/internal/watcher"
)

func newScanCmd(c *cli) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify every device and record new ones as known devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, closeApp, err := c.buildApp()
			if err != nil {
				return err
			}
			defer closeApp()

			ctx := cmd.Context()
			if _, err := app.Scan(ctx); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return c.watchAndScan(ctx, app)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rescan whenever the known devices file changes")
	return cmd
}

// watchAndScan rescans on every edit of the known devices file until ctx
// is cancelled. A failed rescan is logged and watching continues.
func (c *cli) watchAndScan(ctx context.Context, app *service.App) error {
	events := make(chan service.Event, 16)
	app.EventBus().Subscribe(events)
	go func() {
		for {
			select {
			case e := <-events:
				if stats, ok := e.Payload.(service.TableStats); ok && e.Type == service.EventScanCompleted {
					c.log.Debugf("Scan completed: %d devices, %d active", stats.Devices, stats.Active)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	w := watcher.New([]string{c.cfg.DevicesPath()}, func(path string) {
		if _, err := app.Scan(ctx); err != nil {
			c.log.Errorf("Rescan failed: %v", err)
		}
	}).WithLogger(c.log)

	err := w.Watch(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
