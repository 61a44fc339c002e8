package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selenecli/selene/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage selene configuration",
	Long:  `Read and write selene configuration stored in config.json.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template config.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config.json already exists at %s (delete it first to re-initialise)", path)
		}
		tmpl := config.Template()
		if err := config.WriteFile(path, tmpl); err != nil {
			return err
		}
		fmt.Printf("✓ Created %s\n", path)
		fmt.Println("  Edit it and set your latitude, longitude and timezone to get started.")
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		cfg := deps.Config

		src := "(not found)"
		if cfg.ConfigPath != "" {
			src = cfg.ConfigPath
		}

		format := resolveFormat(cfg.Format)
		if format == "json" {
			type configOut struct {
				City      string  `json:"city"`
				Region    string  `json:"region"`
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
				Timezone  string  `json:"timezone"`
				Format    string  `json:"default_format"`
				Interval  string  `json:"interval"`
				DBPath    string  `json:"db_path"`
				File      string  `json:"config_file"`
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(configOut{
				City:      cfg.City,
				Region:    cfg.Region,
				Latitude:  cfg.Latitude,
				Longitude: cfg.Longitude,
				Timezone:  cfg.Timezone,
				Format:    cfg.Format,
				Interval:  cfg.Interval.String(),
				DBPath:    cfg.DBPath,
				File:      src,
			})
		}

		rows := [][]string{
			{"city", cfg.City},
			{"region", cfg.Region},
			{"latitude", strconv.FormatFloat(cfg.Latitude, 'f', -1, 64)},
			{"longitude", strconv.FormatFloat(cfg.Longitude, 'f', -1, 64)},
			{"timezone", cfg.Timezone},
			{"default_format", cfg.Format},
			{"interval", cfg.Interval.String()},
			{"db_path", cfg.DBPath},
			{"config_file", src},
		}
		printKVTable(rows)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in config.json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		val := args[1]

		// Load existing file or start from template
		var f config.File
		existing, path, err := loadConfigFile()
		if err != nil {
			path = config.DefaultConfigFile
			f = config.Template()
		} else {
			f = *existing
		}

		switch key {
		case "city":
			f.City = val
		case "region":
			f.Region = val
		case "latitude":
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("latitude must be a number")
			}
			f.Latitude = &v
		case "longitude":
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("longitude must be a number")
			}
			f.Longitude = &v
		case "timezone", "tz":
			f.Timezone = val
		case "default_format", "format":
			f.DefaultFormat = val
		case "interval":
			f.Interval = val
		case "db_path":
			f.DBPath = val
		default:
			return fmt.Errorf("unknown config key: %q\n\nValid keys: city, region, latitude, longitude, timezone, default_format, interval, db_path", key)
		}

		if err := config.WriteFile(path, f); err != nil {
			return err
		}
		fmt.Printf("✓ Set %s in %s\n", key, path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path of the config.json in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if deps.Config.ConfigPath == "" {
			return fmt.Errorf("no config.json found (run `selene config init` to create one)")
		}
		fmt.Fprintln(cmd.OutOrStdout(), deps.Config.ConfigPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

// loadConfigFile reads config.json from cwd; used by configSetCmd.
func loadConfigFile() (*config.File, string, error) {
	path := config.DefaultConfigFile
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	var f config.File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", err
	}
	return &f, path, nil
}

// printKVTable renders a two-column key/value table to stdout using aligned columns.
func printKVTable(rows [][]string) {
	maxKey := 0
	for _, r := range rows {
		if len(r[0]) > maxKey {
			maxKey = len(r[0])
		}
	}
	for _, r := range rows {
		padding := strings.Repeat(" ", maxKey-len(r[0]))
		fmt.Printf("  %s%s  %s\n", r[0], padding, r[1])
	}
}
