package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "checkpoint"

type Config struct {
	DataDir  string
	DBPath   string
	LogPath  string
	Database string
}

type fileConfig struct {
	DataDir  string `yaml:"data_dir"`
	Database string `yaml:"database"`
}

// New resolves the effective configuration. Precedence: the explicit dataDir
// argument (usually the --data flag), then config.yaml under the XDG config
// dir, then the XDG data dir default.
func New(dataDir string) (Config, error) {
	fc, err := loadFile(filepath.Join(xdg.ConfigHome, appName, "config.yaml"))
	if err != nil {
		return Config{}, err
	}

	dir := dataDir
	if dir == "" {
		dir = fc.DataDir
	}
	if dir == "" {
		dir = filepath.Join(xdg.DataHome, appName)
	}

	database := fc.Database
	if database == "" {
		database = "checkpoint.db"
	}

	return Config{
		DataDir:  dir,
		DBPath:   filepath.Join(dir, database),
		LogPath:  filepath.Join(dir, appName+".log"),
		Database: database,
	}, nil
}

func loadFile(path string) (fileConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return fc, nil
}
