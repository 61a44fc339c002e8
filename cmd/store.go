package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/selenecli/selene/internal/model"
	"github.com/selenecli/selene/internal/render"
	"github.com/selenecli/selene/internal/util"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect and manage the reading database",
	Long: `Manages the local bbolt database that accumulated readings live in.

Examples:
  selene store stats
  selene store list --limit 20
  selene store latest
  selene store prune --before 2026-01-01
  selene store clear`,
}

var storeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bucket sizes and entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		start := time.Now()
		stats, err := deps.Store.Stats()
		if err != nil {
			return err
		}

		format := resolveFormat(deps.Config.Format)
		if format == render.FormatTable {
			fmt.Fprintln(cmd.OutOrStdout(), "database:", deps.Store.Path())
			printSimpleTable(cmd.OutOrStdout(), []string{"BUCKET", "ENTRIES", "SIZE"}, func(add func(...string)) {
				for _, b := range stats {
					add(b.Name, strconv.Itoa(b.Count), util.HumanBytes(b.Bytes))
				}
			})
			return nil
		}

		result := buildResult(model.KindStoreStats, "store stats", stats, len(stats), start)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

var storeListFlags struct {
	Limit int
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded readings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		start := time.Now()
		readings, err := deps.Store.ListReadings(storeListFlags.Limit)
		if err != nil {
			return err
		}

		result := buildResult(model.KindReadingList, "store list", readings, len(readings), start)
		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

var storeLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent recorded reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		start := time.Now()
		reading, found, err := deps.Store.LatestReading()
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no readings recorded yet (try `selene now --record`)")
		}

		result := buildReadingResult("store latest", &reading, start)
		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

var storePruneFlags struct {
	Before string
}

var storePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete readings older than a cutoff date",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		if storePruneFlags.Before == "" {
			return fmt.Errorf("--before is required (YYYY-MM-DD)")
		}
		cutoff, err := util.ParseDate(storePruneFlags.Before)
		if err != nil {
			return err
		}

		n, err := deps.Store.Prune(cutoff)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pruned %d readings before %s\n", n, util.FormatDate(cutoff))
		return nil
	},
}

var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := deps.RequireStore(); err != nil {
			return err
		}

		if err := deps.Store.ClearAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "store cleared")
		return nil
	},
}

func init() {
	storeListCmd.Flags().IntVar(&storeListFlags.Limit, "limit", 50,
		"maximum readings to list (0 = all)")
	storePruneCmd.Flags().StringVar(&storePruneFlags.Before, "before", "",
		"delete readings taken before this date (YYYY-MM-DD)")

	storeCmd.AddCommand(storeStatsCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeLatestCmd)
	storeCmd.AddCommand(storePruneCmd)
	storeCmd.AddCommand(storeClearCmd)
	rootCmd.AddCommand(storeCmd)
}
