package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"loanpredict/logging"
	"loanpredict/ml"
)

type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	} `yaml:"http"`
	Log   logging.Config `yaml:"log"`
	Model struct {
		Source         string        `yaml:"source"`
		Watch          bool          `yaml:"watch"`
		PredictTimeout time.Duration `yaml:"predict_timeout"`
		CacheSize      int           `yaml:"cache_size"`
	} `yaml:"model"`
	Registry struct {
		Path string `yaml:"path"`
	} `yaml:"registry"`
}

// Default returns the settings used for any key the file leaves out.
func Default() *Config {
	cfg := &Config{}
	cfg.Http.Port = 8080
	cfg.Http.Timeout = 30 * time.Second
	cfg.Http.AllowedOrigins = []string{"*"}
	cfg.Http.MaxBodyBytes = 1 << 16
	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 100
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28
	cfg.Model.Source = "./models/loan_approval.json"
	return cfg
}

// Load decodes the YAML file at path over the defaults. Relative file paths
// in the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	base := filepath.Dir(path)
	config.Model.Source = resolve(base, config.Model.Source)
	config.Registry.Path = resolve(base, config.Registry.Path)
	config.Log.File = resolve(base, config.Log.File)
	return config, nil
}

// Locate returns "config.yaml" or, when run from cmd/, "../config.yaml".
func Locate() string {
	configPath := "config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = filepath.Join("..", "config.yaml")
	}
	return configPath
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, ml.RegistryScheme) {
		return p
	}
	return filepath.Join(base, p)
}
