package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFail(t *testing.T) {
	var buf bytes.Buffer
	cause := errors.New("boom")

	err := Fail(&buf, "Error loading VCF file", cause)

	assert.Equal(t, "Error loading VCF file: boom\n", buf.String())
	var exitErr *ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ExitError, exitErr.Code)
	assert.ErrorIs(t, err, cause)
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		runE    func(cmd *cobra.Command, args []string) error
		want    int
		wantErr string
	}{
		{"success", func(*cobra.Command, []string) error { return nil }, ExitSuccess, ""},
		{"reported failure", func(cmd *cobra.Command, _ []string) error {
			return Fail(cmd.OutOrStdout(), "failed", errors.New("x"))
		}, ExitError, ""},
		{"runtime error", func(*cobra.Command, []string) error {
			return Runtime(errors.New("reading config: bad yaml"))
		}, ExitError, "Error: reading config: bad yaml"},
		{"usage error", func(*cobra.Command, []string) error { return errors.New("bad input") }, ExitUsage, "Error: bad input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cmd := &cobra.Command{Use: "tool", RunE: tt.runE}
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)

			assert.Equal(t, tt.want, Execute(cmd, nil))
			if tt.wantErr != "" {
				assert.Contains(t, stderr.String(), tt.wantErr)
			} else {
				assert.Empty(t, stderr.String())
			}
		})
	}
}

func TestExecute_UnknownFlag(t *testing.T) {
	var stderr bytes.Buffer
	cmd := &cobra.Command{Use: "tool", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.SetErr(&stderr)

	assert.Equal(t, ExitUsage, Execute(cmd, []string{"--nope"}))
	assert.Contains(t, stderr.String(), "unknown flag: --nope")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = NewLogger(&buf, "chatty")
	assert.Error(t, err)
}

func TestInitConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := viper.New()

	require.NoError(t, InitConfig(v, ""))
	assert.Equal(t, "warn", v.GetString(KeyLogLevel))
	assert.Empty(t, v.GetString(KeyDBPath))
}

func TestInitConfig_FileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigName+".yaml"),
		[]byte("log:\n  level: debug\ndb:\n  path: from-file.duckdb\n"), 0o644))
	t.Setenv("MUTANNOT_DB_PATH", "from-env.duckdb")

	v := viper.New()
	require.NoError(t, InitConfig(v, ""))
	assert.Equal(t, "debug", v.GetString(KeyLogLevel))
	assert.Equal(t, "from-env.duckdb", v.GetString(KeyDBPath))
}

func TestInitConfig_MissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := viper.New()

	err := InitConfig(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigCmd_SetGet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	runConfig := func(args ...string) (string, int) {
		v := viper.New()
		require.NoError(t, InitConfig(v, ""))
		var stdout bytes.Buffer
		cmd := NewConfigCmd(v, "tool")
		cmd.SetOut(&stdout)
		cmd.SetErr(&stdout)
		code := Execute(cmd, args)
		return stdout.String(), code
	}

	out, code := runConfig("set", KeyDBPath, "results.duckdb")
	require.Equal(t, ExitSuccess, code, out)
	assert.Contains(t, out, "Set db.path = results.duckdb")
	assert.FileExists(t, filepath.Join(home, ConfigName+".yaml"))

	out, code = runConfig("get", KeyDBPath)
	require.Equal(t, ExitSuccess, code, out)
	assert.Equal(t, "results.duckdb\n", out)

	out, code = runConfig()
	require.Equal(t, ExitSuccess, code, out)
	assert.Contains(t, out, "path: results.duckdb")

	out, code = runConfig("get", "no.such.key")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, out, `unknown config key "no.such.key"`)
}

func TestConfigCmd_SetRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"unknown key", []string{"set", "db.pth", "results.duckdb"}, `unknown config key "db.pth"`},
		{"bad log level", []string{"set", KeyLogLevel, "chatty"}, `invalid log.level "chatty"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HOME", home)

			v := viper.New()
			require.NoError(t, InitConfig(v, ""))
			var stdout bytes.Buffer
			cmd := NewConfigCmd(v, "tool")
			cmd.SetOut(&stdout)
			cmd.SetErr(&stdout)

			assert.Equal(t, ExitError, Execute(cmd, tt.args))
			assert.Contains(t, stdout.String(), tt.msg)
			assert.NoFileExists(t, filepath.Join(home, ConfigName+".yaml"))
		})
	}
}

func TestRuntime_Nil(t *testing.T) {
	assert.NoError(t, Runtime(nil))
}

func TestVersionCmd(t *testing.T) {
	var stdout bytes.Buffer
	cmd := NewVersionCmd("tool")
	cmd.SetOut(&stdout)

	assert.Equal(t, ExitSuccess, Execute(cmd, nil))
	assert.Equal(t, "tool version dev (none) built unknown\n", stdout.String())
}
