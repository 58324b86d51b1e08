package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	DefaultAPIURL   = "http://localhost:5000/api"
	DefaultCurrency = "KSh"

	envAPIURL     = "FREELANCEPAY_API_URL"
	envToken      = "FREELANCEPAY_TOKEN"
	envS3Endpoint = "FREELANCEPAY_S3_ENDPOINT"
	envS3Region   = "FREELANCEPAY_S3_REGION"
)

// Client is the CLI configuration file.
type Client struct {
	APIURL   string `yaml:"api_url,omitempty"`
	Token    string `yaml:"token,omitempty"`
	Currency string `yaml:"currency,omitempty"`

	// S3Endpoint points exports at an S3-compatible server such as MinIO.
	S3Endpoint string `yaml:"s3_endpoint,omitempty"`
	S3Region   string `yaml:"s3_region,omitempty"`
}

// DefaultClientPath is ~/.config/freelancepay/config.yaml, or the
// platform's equivalent.
func DefaultClientPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "freelancepay", "config.yaml")
}

// LoadClient reads the YAML file at path; a missing file yields defaults.
// FREELANCEPAY_API_URL, FREELANCEPAY_TOKEN, FREELANCEPAY_S3_ENDPOINT and
// FREELANCEPAY_S3_REGION override the file.
func LoadClient(path string) (Client, error) {
	cfg, err := readClient(path)
	if err != nil {
		return Client{}, err
	}

	if v := os.Getenv(envAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(envToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(envS3Endpoint); v != "" {
		cfg.S3Endpoint = v
	}
	if v := os.Getenv(envS3Region); v != "" {
		cfg.S3Region = v
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	return cfg, nil
}

// readClient reads the file alone, without environment overrides or
// defaults. A missing file is empty.
func readClient(path string) (Client, error) {
	var cfg Client
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return Client{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Client{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToken replaces the token stored at path and leaves every other setting
// of the file as written, so flag and environment overrides are not
// persisted.
func SaveToken(path, token string) error {
	cfg, err := readClient(path)
	if err != nil {
		return err
	}
	cfg.Token = token
	return SaveClient(path, cfg)
}

// SaveClient writes cfg to path, readable only by the owner since it holds
// the session token.
func SaveClient(path string, cfg Client) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Chmod(path, 0o600)
}
