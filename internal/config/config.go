package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Ledger      LedgerConfig      `yaml:"ledger" mapstructure:"ledger"`
	NetSuite    NetSuiteConfig    `yaml:"netsuite" mapstructure:"netsuite"`
	BigCommerce BigCommerceConfig `yaml:"bigcommerce" mapstructure:"bigcommerce"`
	Batch       BatchConfig       `yaml:"batch" mapstructure:"batch"`
	Timezone    string            `yaml:"timezone" mapstructure:"timezone"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// LedgerConfig configures where attribution records are appended.
type LedgerConfig struct {
	Backend     string `yaml:"backend" mapstructure:"backend"`
	WebhookURL  string `yaml:"webhook_url" mapstructure:"webhook_url"`
	NotionToken string `yaml:"notion_token" mapstructure:"notion_token"`
	NotionDB    string `yaml:"notion_db" mapstructure:"notion_db"`
	XLSXPath    string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
}

// NetSuiteConfig holds SuiteTalk token-based-authentication credentials.
type NetSuiteConfig struct {
	AccountID      string `yaml:"account_id" mapstructure:"account_id"`
	ConsumerKey    string `yaml:"consumer_key" mapstructure:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret" mapstructure:"consumer_secret"`
	TokenID        string `yaml:"token_id" mapstructure:"token_id"`
	TokenSecret    string `yaml:"token_secret" mapstructure:"token_secret"`
}

// Validate reports the first missing NetSuite credential.
func (c NetSuiteConfig) Validate() error {
	switch {
	case c.AccountID == "":
		return eris.New("config: netsuite.account_id is required")
	case c.ConsumerKey == "":
		return eris.New("config: netsuite.consumer_key is required")
	case c.ConsumerSecret == "":
		return eris.New("config: netsuite.consumer_secret is required")
	case c.TokenID == "":
		return eris.New("config: netsuite.token_id is required")
	case c.TokenSecret == "":
		return eris.New("config: netsuite.token_secret is required")
	}
	return nil
}

// BigCommerceConfig holds the per-store credential roster. Stores may be
// listed inline or in a standalone YAML file named by StoresFile; file
// entries are appended to the inline list.
type BigCommerceConfig struct {
	Stores     []StoreCredentials `yaml:"stores" mapstructure:"stores"`
	StoresFile string             `yaml:"stores_file" mapstructure:"stores_file"`
}

// StoreCredentials identifies one storefront and its API credentials.
// Name is the key matched against the inbound webhook's store field;
// DisplayName is what gets written to the ledger (defaults to Name).
type StoreCredentials struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Hash        string `yaml:"hash" mapstructure:"hash"`
	Token       string `yaml:"token" mapstructure:"token"`
	DisplayName string `yaml:"display_name" mapstructure:"display_name"`
}

// BatchConfig configures bulk attribution.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// StoreByName looks up a store's credentials by its webhook name.
func (c *Config) StoreByName(name string) (StoreCredentials, bool) {
	for _, s := range c.BigCommerce.Stores {
		if s.Name == name {
			return s, true
		}
	}
	return StoreCredentials{}, false
}

// Load reads configuration from file and environment, then merges in the
// standalone store roster when one is configured.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ATTRIB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "attribution.db")
	v.SetDefault("ledger.backend", "webhook")
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("timezone", "America/Chicago")

	// Empty defaults register the keys so AutomaticEnv can fill them
	// during Unmarshal.
	for _, key := range []string{
		"ledger.webhook_url", "ledger.notion_token", "ledger.notion_db", "ledger.xlsx_path",
		"netsuite.account_id", "netsuite.consumer_key", "netsuite.consumer_secret",
		"netsuite.token_id", "netsuite.token_secret",
		"bigcommerce.stores_file",
	} {
		v.SetDefault(key, "")
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.BigCommerce.StoresFile != "" {
		roster, err := LoadStores(cfg.BigCommerce.StoresFile)
		if err != nil {
			return nil, err
		}
		cfg.BigCommerce.Stores = append(cfg.BigCommerce.Stores, roster...)
	}

	return &cfg, nil
}

// storesFile is the shape of a standalone store-roster YAML file.
type storesFile struct {
	Stores []StoreCredentials `yaml:"stores"`
}

// LoadStores reads per-store credentials from a standalone YAML file.
func LoadStores(path string) ([]StoreCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read stores file %s", path)
	}

	var f storesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "config: parse stores file %s", path)
	}

	for i := range f.Stores {
		if f.Stores[i].Name == "" {
			return nil, eris.Errorf("config: stores file %s: entry %d missing name", path, i)
		}
	}
	return f.Stores, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
