package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/monshunter/ephemfetch/pkg/envar"
	"gopkg.in/yaml.v3"
)

// CDDIS anonymous archive defaults
const (
	DefaultHost        = "gdc.cddis.eosdis.nasa.gov"
	DefaultPort        = 21
	DefaultUser        = "anonymous"
	DefaultProductsDir = "gnss/products"
	DefaultOutputDir   = "."
	DefaultTimeout     = 30 * time.Second
)

// DotEnvFile is read from the working directory when present
const DotEnvFile = ".env"

// Config holds everything needed to reach the archive and store products.
// Email is sent as the anonymous password, as the archive's access policy asks.
type Config struct {
	Host               string        `yaml:"host,omitempty" env:"HOST"`
	Port               int           `yaml:"port,omitempty" env:"PORT"`
	User               string        `yaml:"user,omitempty" env:"USER"`
	Email              string        `yaml:"email,omitempty" env:"EMAIL"`
	ProductsDir        string        `yaml:"productsDir,omitempty" env:"PRODUCTS_DIR"`
	OutputDir          string        `yaml:"outputDir,omitempty" env:"OUTPUT_DIR"`
	Timeout            time.Duration `yaml:"timeout,omitempty" env:"TIMEOUT"`
	InsecureSkipVerify bool          `yaml:"insecureSkipVerify,omitempty" env:"INSECURE_SKIP_VERIFY"`
	DisableEPSV        bool          `yaml:"disableEPSV,omitempty" env:"DISABLE_EPSV"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		User:        DefaultUser,
		ProductsDir: DefaultProductsDir,
		OutputDir:   DefaultOutputDir,
		Timeout:     DefaultTimeout,
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path, then .env, then EPHEMFETCH_* environment variables. A missing file is
// only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	c := Default()
	if path != "" {
		if err := c.LoadFile(path); err != nil {
			if required || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile overlays the YAML file at path onto c
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays EPHEMFETCH_* environment variables onto c. Unset
// variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c, env.Options{Prefix: envar.EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration can be used to open a session
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.User == "" {
		return errors.New("user must not be empty")
	}
	if c.Email == "" {
		return errors.New("email must not be empty, it is used as the anonymous login password")
	}
	if c.ProductsDir == "" {
		return errors.New("productsDir must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Address returns host:port of the archive
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
