package wallpaperlib

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/awused/awconf"
)

const configName = "wallpaper-randomizer"

const defaultCommandTimeout = 10

type Config struct {
	// Used when no directory is given on the command line, only checked when
	// it is actually used
	Directory string
	Gsettings string
	// Seconds to wait for each gsettings call, 0 waits forever
	CommandTimeout *int
	// Only treat failures to start gsettings as errors
	IgnoreExitStatus bool
	LogFile          string
	LogLevel         string
	LogFormat        string

	// The file given with --config, or the config name when awconf found one.
	// awconf doesn't report which of its search paths matched.
	// Empty when defaults are in use, LoadErr then says why.
	Source  string `toml:"-"`
	LoadErr error  `toml:"-"`
}

var conf *Config

func GetConfig() (*Config, error) {
	if conf != nil {
		return conf, nil
	}

	return nil, fmt.Errorf("Init never called")
}

// Init reads the config from path, or searches the usual config directories
// when path is empty. Missing config in the search path means defaults.
func Init(path string) (*Config, error) {
	c := &Config{}

	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, fmt.Errorf("Error reading config [%s]: %w", path, err)
		}
		c.Source = path
	} else if err := awconf.LoadConfig(configName, c); err != nil {
		if !isConfigNotFound(err) {
			return nil, fmt.Errorf("Error reading config [%s.toml]: %w", configName, err)
		}
		c = &Config{LoadErr: err}
	} else {
		c.Source = configName + ".toml"
	}

	err := c.validate()
	if err != nil {
		return nil, err
	}

	conf = c
	return c, nil
}

// awconf only reports a missing file through its message
func isConfigNotFound(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unable to find config")
}

func (c *Config) Timeout() int {
	if c.CommandTimeout == nil {
		return defaultCommandTimeout
	}
	return *c.CommandTimeout
}

func (c *Config) validate() error {
	if c.Gsettings == "" {
		c.Gsettings = defaultGsettings
	}

	if c.CommandTimeout == nil {
		t := defaultCommandTimeout
		c.CommandTimeout = &t
	}
	if *c.CommandTimeout < 0 {
		return fmt.Errorf("CommandTimeout must not be negative")
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if !validFormat(c.LogFormat) {
		return fmt.Errorf("Unsupported LogFormat [%s]", c.LogFormat)
	}

	return nil
}
