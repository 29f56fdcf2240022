package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/breakcheck/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage breakcheck configuration",
	}
	cmd.AddCommand(
		newConfigInitCommand(a),
		newConfigSetCommand(a),
		newConfigShowCommand(a),
		newConfigPathCommand(a),
	)
	return cmd
}

func newConfigInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(a.stderr, "Config file already exists at %s\n", path)
				return nil
			}
			if err := config.Save(config.Default()); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Fprintf(a.stdout, "Config file created at %s\n", path)
			return nil
		},
	}
}

func newConfigSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a configuration value in the config file. Keys: model, baseURL, " +
			"temperature, timeout, format, logLevel, maxDiffBytes, concurrency, redactSecrets.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(config.Default())
			if err != nil {
				return withExit(ExitUsageError, err)
			}
			if err := config.SetField(&cfg, args[0], args[1]); err != nil {
				return withExit(ExitUsageError, err)
			}
			if err := cfg.Validate(); err != nil {
				return withExit(ExitUsageError, err)
			}
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(a.stdout, "Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(nil)
			if err != nil {
				return withExit(ExitUsageError, err)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, string(data))

			creds, err := config.LoadCredentials()
			if err != nil {
				return err
			}
			state := "set"
			if _, err := creds.APIKey(); errors.Is(err, config.ErrMissingCredential) {
				state = "not set"
			}
			fmt.Fprintf(a.stdout, "# API key: %s\n", state)
			return nil
		},
	}
}

func newConfigPathCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
}
