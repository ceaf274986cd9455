package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/xcube/internal/catalog"
	"github.com/mesh-intelligence/xcube/internal/mtgapi"
	"github.com/mesh-intelligence/xcube/internal/paths"
	"github.com/mesh-intelligence/xcube/internal/scrape"
	"github.com/mesh-intelligence/xcube/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyURL         = "url"
	cfgKeyAPIURL      = "api_url"
	cfgKeyConcurrency = "concurrency"
	cfgKeyCacheTTL    = "cache_ttl"
	cfgKeyOverrides   = "overrides"
)

// loadConfig reads config.yaml from configDir with defaults for every key.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyURL, scrape.DefaultURL)
	v.SetDefault(cfgKeyAPIURL, mtgapi.DefaultBaseURL)
	v.SetDefault(cfgKeyConcurrency, catalog.DefaultConcurrency)
	v.SetDefault(cfgKeyCacheTTL, types.DefaultCacheTTL)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// storeConfig builds the Store configuration. The data directory follows
// --data-dir > config.yaml data_dir > XCUBE_DATA_DIR > platform default.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.dataDirFlag, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg := types.Config{
		Backend:  a.cfg.GetString(cfgKeyBackend),
		DataDir:  dataDir,
		CacheTTL: a.cfg.GetDuration(cfgKeyCacheTTL),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config %s: %w", a.configPath(), err)
	}
	return cfg, nil
}

func (a *app) configPath() string {
	return paths.ResolveInConfigDir(a.configDir, configFileExt)
}

// overridesPath returns the overrides file named in config.yaml, resolved
// against the config directory, or "" when none is configured.
func (a *app) overridesPath() (string, error) {
	p := paths.ResolveInConfigDir(a.configDir, a.cfg.GetString(cfgKeyOverrides))
	if p == "" {
		return "", nil
	}
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("overrides: %w", err)
	}
	return p, nil
}

func (a *app) cacheTTL() time.Duration {
	return a.cfg.GetDuration(cfgKeyCacheTTL)
}
