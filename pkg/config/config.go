// Package config provides configuration loading and management for BackupConsole
package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ServiceConfig defines how to reach the backup inventory service
type ServiceConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"` // Go duration, 0 for no client timeout
}

// ConsoleConfig defines the web console settings
type ConsoleConfig struct {
	Port              string `yaml:"port"`
	ResetPageOnFilter bool   `yaml:"resetPageOnFilter"`
}

// LogConfig defines logger settings
type LogConfig struct {
	Format string `yaml:"format"` // text or json
}

// AppConfig contains the complete application configuration
type AppConfig struct {
	Service    ServiceConfig `yaml:"service"`
	Console    ConsoleConfig `yaml:"console"`
	Log        LogConfig     `yaml:"log"`
	Debug      bool          `yaml:"debug"`
	ConfigFile string        `yaml:"-"`
}

// CFG is the global configuration object
var CFG AppConfig

// LoadConfiguration loads the optional configuration file named by
// CONFIG_FILE, then applies environment variables on top of it.
func LoadConfiguration() error {
	CFG = defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return err
		}
		CFG = fileCfg
		CFG.ConfigFile = path
	}

	loadFromEnvironment()
	setDefaults()

	if CFG.Debug {
		log.Printf("Configuration loaded: %+v", CFG)
	}
	return nil
}

// defaultConfig returns the configuration used when nothing is set
func defaultConfig() AppConfig {
	return AppConfig{
		Service: ServiceConfig{
			URL:     "http://localhost:3000",
			Timeout: "0",
		},
		Console: ConsoleConfig{
			Port:              "8080",
			ResetPageOnFilter: true,
		},
		Log: LogConfig{
			Format: "text",
		},
	}
}

// loadFromEnvironment overrides CFG with any environment variables that are set
func loadFromEnvironment() {
	CFG.Debug = parseEnvBool("DEBUG", CFG.Debug)

	CFG.Service.URL = getEnvOrDefault("BACKUP_SERVICE_URL", CFG.Service.URL)
	CFG.Service.Timeout = getEnvOrDefault("BACKUP_SERVICE_TIMEOUT", CFG.Service.Timeout)

	CFG.Console.Port = getEnvOrDefault("CONSOLE_PORT", CFG.Console.Port)
	CFG.Console.ResetPageOnFilter = parseEnvBool("CONSOLE_RESET_PAGE_ON_FILTER", CFG.Console.ResetPageOnFilter)

	CFG.Log.Format = getEnvOrDefault("LOG_FORMAT", CFG.Log.Format)
}

// setDefaults ensures all config fields have reasonable default values
func setDefaults() {
	if CFG.Console.Port == "" {
		CFG.Console.Port = "8080"
	}
	if CFG.Service.Timeout == "" {
		CFG.Service.Timeout = "0"
	}
	if CFG.Log.Format == "" {
		CFG.Log.Format = "text"
	}
	CFG.Service.URL = strings.TrimRight(CFG.Service.URL, "/")
}

// ValidateConfig checks that the configuration is usable
func ValidateConfig() error {
	if CFG.Service.URL == "" {
		return errors.New("backup service URL is required")
	}
	u, err := url.Parse(CFG.Service.URL)
	if err != nil {
		return errors.Wrap(err, "invalid backup service URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("backup service URL must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("backup service URL has no host")
	}

	if _, err := CFG.ServiceTimeout(); err != nil {
		return err
	}

	if CFG.Console.Port == "" {
		return errors.New("console port is required")
	}

	switch CFG.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unsupported log format %q", CFG.Log.Format)
	}
	return nil
}

// ServiceTimeout parses the configured service timeout
func (c AppConfig) ServiceTimeout() (time.Duration, error) {
	if c.Service.Timeout == "" || c.Service.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Service.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid backup service timeout %q", c.Service.Timeout)
	}
	if d < 0 {
		return 0, errors.Errorf("backup service timeout must not be negative, got %s", d)
	}
	return d, nil
}

// Helper functions for environment variables

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if defaultValue != "" && os.Getenv("DEBUG") == "true" {
		log.Printf("Environment variable %s not set. Using default: %s", key, defaultValue)
	}
	return defaultValue
}

func parseEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value = strings.ToLower(value)

	switch value {
	case "1", "t", "true", "yes", "on", "enabled":
		return true
	case "0", "f", "false", "no", "off", "disabled":
		return false
	default:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("Error parsing %s as bool: %v. Using default value: %t", key, err, defaultValue)
			return defaultValue
		}
		return boolValue
	}
}

// DisplayConfiguration outputs the current configuration in a readable format
func DisplayConfiguration() {
	log.Println("========== BackupConsole Configuration ==========")
	log.Printf("Debug Mode: %t", CFG.Debug)
	log.Printf("Config File: %s", CFG.ConfigFile)
	log.Printf("Backup Service URL: %s", maskURLCredentials(CFG.Service.URL))
	log.Printf("Backup Service Timeout: %s", CFG.Service.Timeout)
	log.Printf("Console Port: %s", CFG.Console.Port)
	log.Printf("Reset Page On Filter: %t", CFG.Console.ResetPageOnFilter)
	log.Printf("Log Format: %s", CFG.Log.Format)
	log.Println("=================================================")
}

// maskURLCredentials hides any password embedded in a URL
func maskURLCredentials(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "********")
	}
	return u.String()
}
