package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/selenecli/selene/internal/model"
	"github.com/selenecli/selene/internal/render"
	"github.com/selenecli/selene/internal/sensor"
)

var watchFlags struct {
	Count  int
	Record bool
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the moon state on a fixed interval",
	Long: `Runs refresh cycles on a fixed cadence, printing one line per reading.
The first cycle runs immediately; subsequent cycles are paced at the
configured interval. A failed cycle is logged and skipped, the poller
keeps running. Stop with Ctrl-C.

Examples:
  selene watch --interval 5m
  selene watch --interval 30s --count 10 --record
  selene watch --format jsonl > readings.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.RequireLocation(); err != nil {
			return err
		}
		if watchFlags.Record {
			if err := deps.RequireStore(); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		format := resolveFormat(deps.Config.Format)
		out := cmd.OutOrStdout()
		enc := json.NewEncoder(out)

		opts := sensor.Options{
			Interval: deps.Config.Interval,
			Count:    watchFlags.Count,
			Store:    deps.Store,
			OnReading: func(r model.Reading) {
				if deps.Config.Quiet {
					return
				}
				switch format {
				case render.FormatJSON, render.FormatJSONL:
					_ = enc.Encode(r)
				default:
					age, illum := "-", "-"
					if r.Attributes.Age != nil {
						age = fmt.Sprintf("%.2f", *r.Attributes.Age)
					}
					if r.Attributes.IlluminationFraction != nil {
						illum = fmt.Sprintf("%.1f", *r.Attributes.IlluminationFraction)
					}
					fmt.Fprintf(out, "%s  %-16s age=%s  illum=%s%%\n",
						r.TakenAt.Format("2006-01-02 15:04:05"), r.PhaseName, age, illum)
				}
			},
			OnError: func(err error) {
				fmt.Fprintln(cmd.ErrOrStderr(), "cycle failed:", err)
			},
		}

		if err := sensor.New(deps.State, opts).Run(ctx); err != nil {
			// Ctrl-C is a normal way to stop watching.
			if ctx.Err() != nil && err == context.Canceled {
				return nil
			}
			if err == context.Canceled || err == context.DeadlineExceeded {
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().IntVar(&watchFlags.Count, "count", 0,
		"stop after this many cycles (0 = run until interrupted)")
	watchCmd.Flags().BoolVar(&watchFlags.Record, "record", false,
		"persist every reading to the database")
	rootCmd.AddCommand(watchCmd)
}
