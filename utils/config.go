package utils

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	DefaultPolicy      = "geotransform && projection && bands"
	DefaultConcurrency = 4

	// MissingGeorefMismatch treats a dataset without georeferencing as
	// different from one that has it.
	MissingGeorefMismatch = "mismatch"
	// MissingGeorefError fails the pair when either dataset lacks
	// georeferencing.
	MissingGeorefError = "error"
)

// Pair names one golden/new comparison.
type Pair struct {
	Name   string `yaml:"name"`
	Golden string `yaml:"golden"`
	New    string `yaml:"new"`
}

// Config is the batch comparison document. Relative dataset paths are
// resolved against the directory holding the config file.
type Config struct {
	Policy        string `yaml:"policy"`
	Concurrency   int    `yaml:"concurrency"`
	Verbose       bool   `yaml:"verbose"`
	ReportFile    string `yaml:"report_file"`
	MaxReportSize int64  `yaml:"max_report_size"`
	MissingGeoref string `yaml:"missing_georef"`
	Pairs         []Pair `yaml:"pairs"`
}

// LoadConfig reads a YAML batch document, fills in defaults and
// validates it.
func LoadConfig(configFile string) (*Config, error) {
	rawData, err := ioutil.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("Error while reading config file: %s. Error: %v", configFile, err)
	}

	config, err := ParseConfig(rawData)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", configFile, err)
	}

	baseDir := filepath.Dir(configFile)
	for i := range config.Pairs {
		config.Pairs[i].Golden = resolvePath(baseDir, config.Pairs[i].Golden)
		config.Pairs[i].New = resolvePath(baseDir, config.Pairs[i].New)
	}
	if config.ReportFile != "" {
		config.ReportFile = resolvePath(baseDir, config.ReportFile)
	}
	return config, nil
}

// ParseConfig unmarshals a YAML batch document without touching the
// filesystem.
func ParseConfig(rawData []byte) (*Config, error) {
	config := &Config{}
	err := yaml.UnmarshalStrict(rawData, config)
	if err != nil {
		return nil, fmt.Errorf("Error at YAML parsing config document: %v", err)
	}
	return config, config.setDefaults()
}

// NewConfig builds a config with default settings for the given pairs.
func NewConfig(pairs ...Pair) (*Config, error) {
	config := &Config{Pairs: pairs}
	return config, config.setDefaults()
}

func (config *Config) setDefaults() error {
	if strings.TrimSpace(config.Policy) == "" {
		config.Policy = DefaultPolicy
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	if config.MissingGeoref == "" {
		config.MissingGeoref = MissingGeorefMismatch
	}
	return config.validate()
}

func (config *Config) validate() error {
	if config.MissingGeoref != MissingGeorefMismatch && config.MissingGeoref != MissingGeorefError {
		return fmt.Errorf("missing_georef must be %q or %q, got %q", MissingGeorefMismatch, MissingGeorefError, config.MissingGeoref)
	}

	if len(config.Pairs) == 0 {
		return fmt.Errorf("no pairs to compare")
	}

	names := make(map[string]struct{}, len(config.Pairs))
	for i := range config.Pairs {
		p := &config.Pairs[i]
		if p.Golden == "" || p.New == "" {
			return fmt.Errorf("pair %d: both golden and new paths are required", i+1)
		}
		if p.Name == "" {
			p.Name = filepath.Base(p.Golden) + ":" + filepath.Base(p.New)
			continue
		}
		if _, found := names[p.Name]; found {
			return fmt.Errorf("pair %d: duplicate name %q", i+1, p.Name)
		}
		names[p.Name] = struct{}{}
	}
	return nil
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
