// Package cli holds the command-line plumbing shared by the mutannot tools:
// configuration, logging, exit codes and the config/version subcommands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Configuration keys.
const (
	KeyLogLevel = "log.level"
	KeyDBPath   = "db.path"
)

// Keys lists the configuration keys the tools read. Only these can be set
// or queried through the config command.
var Keys = []string{KeyLogLevel, KeyDBPath}

// ConfigName is the base name of the config file in the home directory.
const ConfigName = ".mutannot"

// InitConfig sets defaults, binds MUTANNOT_* environment variables and reads
// ~/.mutannot.yaml (or cfgFile, if set). A missing config file is not an error.
func InitConfig(v *viper.Viper, cfgFile string) error {
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyDBPath, "")

	v.SetEnvPrefix("MUTANNOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (cfgFile == "" && os.IsNotExist(err)) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// NewConfigCmd returns the config command operating on v.
func NewConfigCmd(v *viper.Viper, tool string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mutannot configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/" + ConfigName + ".yaml.",
		Example: fmt.Sprintf(`  %[1]s config                         # show all config
  %[1]s config set db.path results.duckdb  # persist results in DuckDB
  %[1]s config get log.level               # get a value`, tool),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Runtime(runConfigShow(v, cmd.OutOrStdout()))
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Runtime(runConfigSet(v, cmd.OutOrStdout(), args[0], args[1]))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Runtime(runConfigGet(v, cmd.OutOrStdout(), args[0]))
		},
	})

	return cmd
}

func runConfigShow(v *viper.Viper, w io.Writer) error {
	settings := v.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintf(w, "# No configuration set. Config file: ~/%s.yaml\n", ConfigName)
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(w, string(out))
	return nil
}

// checkKey rejects keys outside Keys.
func checkKey(key string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

func checkValue(key, value string) error {
	if key == KeyLogLevel {
		if _, err := zapcore.ParseLevel(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}
	return nil
}

func runConfigSet(v *viper.Viper, w io.Writer, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := checkValue(key, value); err != nil {
		return err
	}
	v.Set(key, value)

	// Ensure config file exists
	cfgFile := v.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ConfigName+".yaml")
	}

	if err := v.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(v *viper.Viper, w io.Writer, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if !v.IsSet(key) {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, v.Get(key))
	return nil
}
