package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	URL         string `yaml:"url"`
	APIURL      string `yaml:"api_url"`
	Concurrency int    `yaml:"concurrency"`
	CacheTTL    string `yaml:"cache_ttl"`
	Overrides   string `yaml:"overrides,omitempty"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and local store",
		Long: "Init writes config.yaml to the configuration directory if it is missing\n" +
			"and creates the SQLite store in the data directory.",
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}

	written, err := a.writeConfigIfMissing(cfg)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	if err := store.Detach(); err != nil {
		return fmt.Errorf("finalize store: %w", err)
	}

	w := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(w, "Wrote %s\n", a.configPath())
	} else {
		fmt.Fprintf(w, "Kept existing %s\n", a.configPath())
	}
	fmt.Fprintf(w, "Store ready in %s\n", cfg.DataDir)
	return nil
}

// writeConfigIfMissing writes config.yaml from the effective settings. An
// existing file is left untouched. A --data-dir flag is recorded as the
// absolute path resolved in store, so later runs from another directory
// reach the same store.
func (a *app) writeConfigIfMissing(store types.Config) (bool, error) {
	path := a.configPath()
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	cfg := configFile{
		Backend:     a.cfg.GetString(cfgKeyBackend),
		URL:         a.cfg.GetString(cfgKeyURL),
		APIURL:      a.cfg.GetString(cfgKeyAPIURL),
		Concurrency: a.cfg.GetInt(cfgKeyConcurrency),
		CacheTTL:    a.cacheTTL().String(),
		Overrides:   a.cfg.GetString(cfgKeyOverrides),
	}
	if cfg.Backend == "" {
		cfg.Backend = types.BackendSQLite
	}
	if a.dataDirFlag != "" {
		cfg.DataDir = store.DataDir
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}
