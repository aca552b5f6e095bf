package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Lore Reader Configuration

server:
  addr: ":8000"
  mode: release
  cors_origins: ["*"]

store:
  backend: sqlite # sqlite, mongo or qdrant
  sqlite:
    path: .lore/lore.db
  mongo:
    uri: mongodb://localhost:27017 # or set MONGO_URI
    database: shonovel_db
    collection: lore
  qdrant:
    host: localhost
    port: 6334
    collection: lore_entities
    # api_key: your-api-key (or set QDRANT_API_KEY)

cache:
  backend: none # redis or none
  ttl: 1h
  redis:
    addr: localhost:6379 # or set REDIS_ADDR

library:
  root: library
  language: vn

log:
  mode: dev
  level: info
`

// WriteDefault creates the .lore directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
