// Package config loads the campaign deployment settings from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/amigos-cultura/solicitud/internal/uploadlimit"
)

// SMTP carries the outbound mail server settings.
type SMTP struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	SSL      bool   `toml:"ssl"`
}

// Mail carries the campaign addresses.
type Mail struct {
	Office  string `toml:"office"`
	Sender  string `toml:"sender"`
	Confirm string `toml:"confirm"`
}

// Uploads carries the size ceilings in php.ini shorthand ("8M", "512K").
type Uploads struct {
	PostMaxSize       string `toml:"post_max_size"`
	UploadMaxFilesize string `toml:"upload_max_filesize"`
}

// Assets names the images placed on the PDF summary.
type Assets struct {
	Logo    string `toml:"logo"`
	Closing string `toml:"closing"`
}

// Config is the root of the TOML document.
type Config struct {
	SMTP    SMTP    `toml:"smtp"`
	Mail    Mail    `toml:"mail"`
	Uploads Uploads `toml:"uploads"`
	Assets  Assets  `toml:"assets"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		SMTP: SMTP{Port: 587},
		Uploads: Uploads{
			PostMaxSize:       "8M",
			UploadMaxFilesize: "2M",
		},
	}
}

// Load reads and decodes the TOML file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if _, err := cfg.UploadCeiling(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UploadCeiling resolves the effective per-file upload limit in bytes.
func (c Config) UploadCeiling() (int64, error) {
	post, err := uploadlimit.ParseSize(c.Uploads.PostMaxSize)
	if err != nil {
		return 0, fmt.Errorf("config: post_max_size: %w", err)
	}
	perFile, err := uploadlimit.ParseSize(c.Uploads.UploadMaxFilesize)
	if err != nil {
		return 0, fmt.Errorf("config: upload_max_filesize: %w", err)
	}
	return uploadlimit.Ceiling(post, perFile), nil
}
