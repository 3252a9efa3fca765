package main

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/smarty/libman/contracts"
	"github.com/smarty/libman/core"
)

type Config struct {
	Root        string
	Manifest    string
	Concurrency int
	Timeout     time.Duration
	CdnjsAPI    string
	CdnjsFiles  string
	NoColor     bool
}

func defineFlags(flags *pflag.FlagSet) {
	flags.String("root", ".", "The project directory that destinations are relative to.")
	flags.String("manifest", "libman.json", "The manifest file, relative to the project directory.")
	flags.Int("concurrency", core.DefaultConcurrency, "The maximum number of libraries installed at once.")
	flags.Duration("timeout", 30*time.Second, "The timeout of each HTTP request.")
	flags.String("cdnjs-api", "", "The cdnjs API address (defaults to the public API).")
	flags.String("cdnjs-files", "", "The cdnjs file address (defaults to the public CDN).")
	flags.Bool("no-color", false, "Disable colored output.")
}

// loadConfig layers flags over LIBMAN_* environment variables over defaults.
func loadConfig(settings *viper.Viper, flags *pflag.FlagSet) (config Config, err error) {
	settings.SetEnvPrefix("LIBMAN")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	if err = settings.BindPFlags(flags); err != nil {
		return config, err
	}

	config.Root = settings.GetString("root")
	config.Manifest = settings.GetString("manifest")
	config.Concurrency = settings.GetInt("concurrency")
	config.Timeout = settings.GetDuration("timeout")
	config.CdnjsAPI = settings.GetString("cdnjs-api")
	config.CdnjsFiles = settings.GetString("cdnjs-files")
	config.NoColor = settings.GetBool("no-color")

	if config.Concurrency < 1 {
		return config, errors.New("concurrency must be at least 1")
	}
	if config.Timeout <= 0 {
		return config, errors.New("timeout must be positive")
	}
	if strings.TrimSpace(config.Manifest) == "" || contracts.EscapesRoot(config.Manifest) {
		return config, errors.New("the manifest must be a path inside the project directory")
	}
	config.Root, err = filepath.Abs(config.Root)
	return config, err
}

func (this Config) ManifestPath() string {
	return filepath.Join(this.Root, filepath.FromSlash(this.Manifest))
}
