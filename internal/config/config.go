package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	LLM      LLMConfig      `yaml:"llm"`
	Datasets DatasetsConfig `yaml:"datasets"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	APIKey      string  `yaml:"-"`
}

type DatasetsConfig struct {
	Homicides string `yaml:"homicides"`
	Tourism   string `yaml:"tourism"`
	Hazards   string `yaml:"hazards"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server: ServerConfig{Port: 8050},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		LLM: LLMConfig{
			BaseURL:     "https://generativelanguage.googleapis.com",
			Model:       "gemini-1.5-flash-latest",
			Temperature: 0.4,
			TimeoutSecs: 30,
		},
		Datasets: DatasetsConfig{
			Homicides: "data/mdi_homicidiosintencionales_pm_2023_enero_septiembre.csv",
			Tourism:   "data/atractivos_tur.csv",
			Hazards:   "data/SGR_EventosPeligrosos_2010_2022Diciembre.xlsx",
		},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/safeguide/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.LLM.BaseURL, "GEMINI_BASE_URL")
	envOverride(&c.LLM.Model, "GEMINI_MODEL")
	envOverride(&c.LLM.APIKey, "API_KEY_GEMINI")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverride(&c.Datasets.Homicides, "DATASET_HOMICIDES")
	envOverride(&c.Datasets.Tourism, "DATASET_TOURISM")
	envOverride(&c.Datasets.Hazards, "DATASET_HAZARDS")
	envOverrideInt(&c.Server.Port, "PORT")

	return c
}

// Validate checks the startup-fatal settings. The API credential has no
// default on purpose: the chat assistant cannot run without it, and a
// dashboard with a dead chat panel must not be served.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("API_KEY_GEMINI is not set; add it to the environment or a .env file")
	}
	if c.Datasets.Homicides == "" || c.Datasets.Tourism == "" || c.Datasets.Hazards == "" {
		return errors.New("all three dataset paths must be configured")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
