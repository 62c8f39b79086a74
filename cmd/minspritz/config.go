package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	homedir "github.com/mitchellh/go-homedir"
)

// config holds the defaults a user can set in ~/.minspritz.toml.
// Command-line flags override anything set here.
type config struct {
	Jobs   int
	Size   int
	OutDir string
}

func defaultConfig() config {
	return config{Jobs: 8, Size: 256}
}

func loadConfig() config {
	home, err := homedir.Dir()
	if err != nil {
		return defaultConfig()
	}
	return loadConfigFile(filepath.Join(home, ".minspritz.toml"))
}

func loadConfigFile(path string) config {
	cfg := defaultConfig()
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "ignoring %s: %v\n", path, err)
		return defaultConfig()
	}
	return cfg
}
