package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/provide-io/distbundle/pkg/ledger"
)

// Environment switches of the command line
const (
	envPrefix    = "DISTBUNDLE"
	envRunLedger = "DISTBUNDLE_RUN_LEDGER"
)

// newViper returns a viper instance reading the optional --config file,
// DISTBUNDLE_* variables and the flags of cmd. Flag foo-bar is key foo_bar.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Name == "config" || f.Name == "help" {
			return
		}
		bindErr = v.BindPFlag(flagKey(f.Name), f)
	})
	if bindErr != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, &invalidArgsError{err: fmt.Errorf("config file not found: %s", configPath)}
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, &invalidArgsError{err: fmt.Errorf("failed to read config %s: %w", configPath, err)}
		}
		logger.Debug("⚙️ Loaded configuration", "path", configPath)
	}
	return v, nil
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// parseParams merges repeated key=value flags over the configured map.
func parseParams(base map[string]string, pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(base)+len(pairs))
	for k, v := range base {
		params[k] = v
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &invalidArgsError{err: fmt.Errorf("parameter %q is not key=value", pair)}
		}
		params[key] = value
	}
	return params, nil
}

// openLedger opens the run ledger. A ledger handed over through
// DISTBUNDLE_RUN_LEDGER belongs to the caller and is kept; otherwise it is
// discarded when the command finishes.
func openLedger(buildDir string) (*ledger.Ledger, func(), error) {
	if shared := os.Getenv(envRunLedger); shared != "" {
		l, err := ledger.Open(shared)
		if err != nil {
			return nil, nil, err
		}
		return l, func() { l.Close() }, nil
	}

	l, err := ledger.Open(filepath.Join(buildDir, ledger.DefaultFileName))
	if err != nil {
		return nil, nil, err
	}
	return l, func() {
		if err := l.Discard(); err != nil {
			logger.Debug("Failed to discard ledger", "error", err)
		}
	}, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
