package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFileName = "csv2sqlite.yaml"
	envFileName    = ".env"

	defaultDataPath   = "."
	defaultOutputFile = "printersv2.db"

	envDataPath   = "CSV2SQLITE_DATA_PATH"
	envOutputFile = "CSV2SQLITE_OUTPUT_FILE"
)

// Config struct
type Config struct {
	DataPath   string `yaml:"dataPath" validate:"required"`
	OutputFile string `yaml:"outputFile" validate:"required"`
}

// Validate func
func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// loadConfig - konfiguracja: wartości domyślne, plik yaml (jeżeli istnieje),
// plik .env i zmienne środowiskowe
func loadConfig(configFile, envFile string) (*Config, error) {
	cfg := &Config{
		DataPath:   defaultDataPath,
		OutputFile: defaultOutputFile,
	}

	if fileExists(configFile) {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", configFile, err)
		}
		if err := yaml.UnmarshalStrict(buf, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", configFile, err)
		}
	}

	if fileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("env file %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv(envDataPath); ok {
		cfg.DataPath = v
	}
	if v, ok := os.LookupEnv(envOutputFile); ok {
		cfg.OutputFile = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}
