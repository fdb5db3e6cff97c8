package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Templates  TemplatesConfig  `mapstructure:"templates"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Export     ExportConfig     `mapstructure:"export"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// TemplatesConfig holds template store configuration
type TemplatesConfig struct {
	Dir       string `mapstructure:"dir"`
	DefaultID string `mapstructure:"default_id"`
}

// ExtractionConfig holds extraction and assembly configuration
type ExtractionConfig struct {
	DefaultCurrency string  `mapstructure:"default_currency"`
	DefaultVATRate  float64 `mapstructure:"default_vat_rate"`
}

// DatabaseConfig holds the usage statistics database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ExportConfig holds batch output configuration
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from the YAML file at configPath and the
// environment. A missing file is not an error; defaults apply.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Template defaults
	viper.SetDefault("templates.dir", "templates")
	viper.SetDefault("templates.default_id", "generic_nl")

	// Extraction defaults
	viper.SetDefault("extraction.default_currency", "EUR")
	viper.SetDefault("extraction.default_vat_rate", 21.0)

	// Database defaults
	viper.SetDefault("database.path", "data/pdf2ubl.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Export defaults
	viper.SetDefault("export.output_dir", "output")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("server.port", "PDF2UBL_PORT")
	viper.BindEnv("templates.dir", "PDF2UBL_TEMPLATE_DIR")
	viper.BindEnv("database.path", "PDF2UBL_DB_PATH")
	viper.BindEnv("export.output_dir", "PDF2UBL_OUTPUT_DIR")
	viper.BindEnv("logger.level", "PDF2UBL_LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Templates.Dir == "" {
		return fmt.Errorf("templates.dir is required")
	}
	if c.Templates.DefaultID == "" {
		return fmt.Errorf("templates.default_id is required")
	}
	if c.Extraction.DefaultVATRate < 0 || c.Extraction.DefaultVATRate > 100 {
		return fmt.Errorf("extraction.default_vat_rate must be between 0 and 100")
	}
	if c.Extraction.DefaultCurrency == "" {
		return fmt.Errorf("extraction.default_currency is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number")
	}
	return nil
}
