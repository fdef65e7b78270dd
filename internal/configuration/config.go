package configuration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"
)

const configEnv = "F2AAC_CONFIG"

type Config struct {
	Paths       Paths       `yaml:"paths"`
	F2AAC       F2AAC       `yaml:"f2aac"`
	Transcoding Transcoding `yaml:"transcoding"`

	// Input is the file or directory given on the command line.
	Input string `yaml:"-"`
	// Format restricts a directory listing to one extension ("mp3", "flac").
	Format string `yaml:"-"`
}

type F2AAC struct {
	LogLevel logrus.Level `yaml:"log_level"`
	Quiet    bool         `yaml:"quiet"`
}

type Paths struct {
	Output string `yaml:"output"`
}

type Transcoding struct {
	Parallel           int64  `yaml:"parallel"`
	Decoder            string `yaml:"decoder"`
	Encoder            string `yaml:"encoder"`
	Muxer              string `yaml:"muxer"`
	IntermediateFormat string `yaml:"intermediate_format"`
	Quality            int    `yaml:"quality"`
	MinOutputSize      int64  `yaml:"min_output_size"`
	SkipFresh          bool   `yaml:"skip_fresh"`
}

// Default returns the configuration used when neither a config file nor
// flags say otherwise.
func Default() *Config {
	return &Config{
		F2AAC: F2AAC{
			LogLevel: logrus.InfoLevel,
		},
		Transcoding: Transcoding{
			Parallel:           4,
			Decoder:            "ffmpeg",
			Encoder:            "fdkaac",
			Muxer:              "ffmpeg",
			IntermediateFormat: "caf",
			Quality:            5,
			MinOutputSize:      1024,
		},
	}
}

// New builds the configuration from defaults, the optional YAML file and
// the command line, in that order of precedence.
func New(args []string) (*Config, error) {
	flags, err := parseFlags(args, os.Stderr)
	if err != nil {
		return nil, err
	}

	if flags.version {
		return nil, ErrVersionRequested
	}

	config := Default()

	path, required := configPath(flags.configPath)
	if path != "" {
		err = config.load(path, required)
		if err != nil {
			return nil, err
		}
	}

	flags.apply(config)

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

// configPath returns the YAML file to read and whether its absence is an
// error. Explicit paths must exist; the per-user default may be missing.
func configPath(flagPath string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}

	if customPath, ok := os.LookupEnv(configEnv); ok && customPath != "" {
		return customPath, true
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}

	return filepath.Join(configDir, "f2aac.yaml"), false
}

func (c *Config) load(path string, required bool) error {
	rawConfig, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("%w: %w (%w)", ErrConfiguration, ErrCantReadConfigFile, err)
	}

	err = yaml.Unmarshal(rawConfig, c)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrConfiguration, ErrCantParseConfigFile, err)
	}

	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Input == "":
		return fmt.Errorf("%w: %w (%s)", ErrConfiguration, ErrInvalidConfig, "input file or directory is required")
	case c.Transcoding.Parallel < 1:
		return fmt.Errorf(
			"%w: %w (parallel must be at least 1, got %d)",
			ErrConfiguration, ErrInvalidConfig, c.Transcoding.Parallel,
		)
	case c.Transcoding.Quality < 1 || c.Transcoding.Quality > 5:
		return fmt.Errorf(
			"%w: %w (quality must be between 1 and 5, got %d)",
			ErrConfiguration, ErrInvalidConfig, c.Transcoding.Quality,
		)
	case c.Transcoding.Decoder == "" || c.Transcoding.Encoder == "" || c.Transcoding.Muxer == "":
		return fmt.Errorf("%w: %w (%s)", ErrConfiguration, ErrInvalidConfig, "external programs must be set")
	}

	return nil
}
