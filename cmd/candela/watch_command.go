package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"candela/internal/config"
	"candela/internal/hotplug"
	"candela/internal/scan"
)

// settleDelay coalesces the uevent bursts a single cable plug produces.
const settleDelay = 500 * time.Millisecond

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch for displays being connected and disconnected",
		Long: `Watch subscribes to kernel hotplug events, re-enumerates when the display
topology changes, and prints one line per appeared or vanished display.
Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			trigger := make(chan struct{}, 1)
			watcher := hotplug.NewWatcher(logger, func(context.Context, hotplug.Event) {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
			if err := watcher.Start(sigCtx); err != nil {
				return fmt.Errorf("start hotplug watcher: %w", err)
			}
			defer watcher.Stop()

			out := cmd.OutOrStdout()
			known, err := snapshot(sigCtx, cfg, ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Watching %d display(s); press Ctrl-C to stop.\n", len(known))

			for {
				select {
				case <-sigCtx.Done():
					return nil
				case <-trigger:
					if !settle(sigCtx, trigger) {
						return nil
					}
					current, err := snapshot(sigCtx, cfg, ctx)
					if err != nil {
						if sigCtx.Err() != nil {
							return nil
						}
						return err
					}
					for id, label := range current {
						if _, ok := known[id]; !ok {
							fmt.Fprintf(out, "+ %s\n", label)
						}
					}
					for id, label := range known {
						if _, ok := current[id]; !ok {
							fmt.Fprintf(out, "- %s\n", label)
						}
					}
					known = current
				}
			}
		},
	}
	return cmd
}

// settle waits out the event burst, draining further triggers. It reports
// false when the context ended while waiting.
func settle(ctx context.Context, trigger <-chan struct{}) bool {
	timer := time.NewTimer(settleDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-trigger:
		case <-timer.C:
			return true
		}
	}
}

// snapshot enumerates and reduces the result to id -> printable label,
// releasing all handles before returning.
func snapshot(ctx context.Context, cfg *config.Config, cctx *commandContext) (map[string]string, error) {
	res, err := scan.Enumerate(ctx, cfg, cctx.ensureLogger())
	if err != nil {
		return nil, err
	}
	defer res.Close()

	out := make(map[string]string, len(res.Displays))
	for _, d := range res.Displays {
		_ = d.UpdateEDID()
		out[d.ID()] = d.Info().String()
	}
	return out, nil
}
