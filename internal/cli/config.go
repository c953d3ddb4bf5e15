package cli

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultServerURL = "http://localhost:8430"
	defaultPort      = "8430"
)

type CLIConfig struct {
	ServerURL string `yaml:"server_url"`
	Port      string `yaml:"port"`
}

func loadCLIConfig() *CLIConfig {
	cfg := &CLIConfig{
		ServerURL: defaultServerURL,
		Port:      defaultPort,
	}

	configPath := flagConfig
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg
		}
		configPath = filepath.Join(home, ".orionhealth", "config.yaml")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, cfg)

	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	return cfg
}

func defaultModelsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./models"
	}
	return filepath.Join(home, ".orionhealth", "models")
}

func getServerURL() string {
	if flagServerURL != "" {
		return flagServerURL
	}
	if env := os.Getenv("ORION_URL"); env != "" {
		return env
	}
	return loadCLIConfig().ServerURL
}
