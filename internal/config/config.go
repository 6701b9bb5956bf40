package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/knobs-dev/knobs/internal/errors"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "knobs.json"

	// YAMLFileName is the YAML configuration file name.
	YAMLFileName = "knobs.yaml"

	// DefaultName is the default application name.
	DefaultName = "knobs-app"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultUploadDir is the default upload directory.
	DefaultUploadDir = "uploads"

	// DefaultMaxSizeMB is the default upload size cap in megabytes.
	DefaultMaxSizeMB = 16

	// DefaultOutDir is the default build output directory.
	DefaultOutDir = "dist"

	// maxSizeCapMB is the hard upper bound on the upload size cap.
	maxSizeCapMB = 1024
)

// Config represents the complete knobs.json / knobs.yaml configuration.
type Config struct {
	// App contains application identity and listen settings.
	App AppConfig `json:"app,omitempty" yaml:"app,omitempty"`

	// Serve contains preview server settings.
	Serve ServeConfig `json:"serve,omitempty" yaml:"serve,omitempty"`

	// Upload contains upload storage settings.
	Upload UploadConfig `json:"upload,omitempty" yaml:"upload,omitempty"`

	// Build contains build output settings.
	Build BuildConfig `json:"build,omitempty" yaml:"build,omitempty"`

	// MinVersion is the minimum CLI version this project requires,
	// as a semver string like "v0.3.0".
	MinVersion string `json:"minVersion,omitempty" yaml:"minVersion,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// AppConfig contains application identity and listen settings.
type AppConfig struct {
	// Name is the application name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Addr is the listen address as host:port.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// ServeConfig contains preview server settings.
type ServeConfig struct {
	// Dev enables development mode (verbose logging).
	Dev bool `json:"dev,omitempty" yaml:"dev,omitempty"`

	// TraceEndpoint is the OTLP HTTP endpoint for trace export.
	// Empty disables tracing export.
	TraceEndpoint string `json:"traceEndpoint,omitempty" yaml:"traceEndpoint,omitempty"`

	// ServiceName is the service name reported to the trace backend.
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
}

// UploadConfig contains upload storage settings.
type UploadConfig struct {
	// Dir is the local directory for uploaded files.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// MaxSizeMB is the upload size cap in megabytes.
	MaxSizeMB int `json:"maxSizeMB,omitempty" yaml:"maxSizeMB,omitempty"`

	// S3 configures S3-backed storage. A non-empty bucket selects S3
	// over the local directory.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config contains S3 storage settings.
type S3Config struct {
	// Bucket is the S3 bucket name.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Region is the AWS region.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Endpoint overrides the S3 endpoint URL, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// BuildConfig contains build output settings.
type BuildConfig struct {
	// OutDir is the output directory for knobs build.
	OutDir string `json:"outDir,omitempty" yaml:"outDir,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		App: AppConfig{
			Name: DefaultName,
			Addr: DefaultAddr,
		},
		Upload: UploadConfig{
			Dir:       DefaultUploadDir,
			MaxSizeMB: DefaultMaxSizeMB,
		},
		Build: BuildConfig{
			OutDir: DefaultOutDir,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// knobs.json first, then knobs.yaml. A directory with neither yields
// the default configuration, not an error.
func Load(dir string) (*Config, error) {
	jsonPath := filepath.Join(dir, JSONFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		return LoadFile(jsonPath)
	}
	yamlPath := filepath.Join(dir, YAMLFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return LoadFile(yamlPath)
	}
	cfg := New()
	cfg.applyDefaults()
	return cfg, nil
}

// LoadFile reads configuration from the specified file path. The format
// is chosen by extension: .yaml and .yml parse as YAML, everything else
// as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.CategoryConfig, "cannot read %s", filepath.Base(path)).Wrap(err)
	}

	cfg := New()
	if isYAMLPath(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Newf(errors.CategoryConfig, "cannot parse %s", filepath.Base(path)).
				WithDetail(err.Error()).
				WithHint("Check that the file is valid YAML")
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.Newf(errors.CategoryConfig, "cannot parse %s", filepath.Base(path)).
				WithDetail(err.Error()).
				WithHint("Check that the file is valid JSON")
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, in the format
// matching its extension.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	if isYAMLPath(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	}
	if err != nil {
		return errors.New(errors.CategoryConfig, "cannot encode config").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Newf(errors.CategoryConfig, "cannot write %s", filepath.Base(path)).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = DefaultName
	}
	if c.App.Addr == "" {
		c.App.Addr = DefaultAddr
	}
	if c.Serve.ServiceName == "" {
		c.Serve.ServiceName = c.App.Name
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = DefaultUploadDir
	}
	if c.Upload.MaxSizeMB == 0 {
		c.Upload.MaxSizeMB = DefaultMaxSizeMB
	}
	if c.Build.OutDir == "" {
		c.Build.OutDir = DefaultOutDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	_, port, err := net.SplitHostPort(c.App.Addr)
	if err != nil {
		return errors.Newf(errors.CategoryConfig, "invalid listen address %q", c.App.Addr).
			WithHint("Use host:port, for example :8080 or 127.0.0.1:3000")
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return errors.Newf(errors.CategoryConfig, "invalid port in address %q", c.App.Addr).
			WithDetail("Port must be a number between 0 and 65535")
	}

	if c.Upload.MaxSizeMB < 0 {
		return errors.New(errors.CategoryConfig, "upload.maxSizeMB must not be negative")
	}
	if c.Upload.MaxSizeMB > maxSizeCapMB {
		return errors.Newf(errors.CategoryConfig, "upload.maxSizeMB must not exceed %d", maxSizeCapMB)
	}

	s3 := c.Upload.S3
	if s3.Bucket == "" && (s3.Region != "" || s3.Prefix != "" || s3.Endpoint != "") {
		return errors.New(errors.CategoryConfig, "upload.s3.bucket is required when S3 is configured").
			WithHint("Set upload.s3.bucket, or remove the other s3 fields to use local storage")
	}

	if c.MinVersion != "" && !semver.IsValid(normalizeVersion(c.MinVersion)) {
		return errors.Newf(errors.CategoryConfig, "invalid minVersion %q", c.MinVersion).
			WithHint(`Use a semver string like "v0.3.0"`)
	}

	return nil
}

// CheckVersion enforces the minVersion constraint against the running
// CLI version. Development builds (empty or "dev") always pass.
func (c *Config) CheckVersion(version string) error {
	if c.MinVersion == "" {
		return nil
	}
	if version == "" || version == "dev" {
		return nil
	}
	min := normalizeVersion(c.MinVersion)
	cur := normalizeVersion(version)
	if !semver.IsValid(cur) {
		return nil
	}
	if semver.Compare(cur, min) < 0 {
		return errors.Newf(errors.CategoryConfig, "knobs %s is older than the required %s", version, c.MinVersion).
			WithHint("Upgrade with: go install github.com/knobs-dev/knobs/cmd/knobs@latest")
	}
	return nil
}

// HasS3 reports whether S3 storage is configured.
func (c *Config) HasS3() bool {
	return c.Upload.S3.Bucket != ""
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) << 20
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Build.OutDir) {
		return c.Build.OutDir
	}
	return filepath.Join(c.Dir(), c.Build.OutDir)
}

// UploadPath returns the absolute path to the upload directory.
func (c *Config) UploadPath() string {
	if filepath.IsAbs(c.Upload.Dir) {
		return c.Upload.Dir
	}
	return filepath.Join(c.Dir(), c.Upload.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root, the
// nearest directory containing a config file.
func FindProjectRoot(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		if Exists(dir) {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest project root
// above the current working directory, falling back to defaults when no
// config file exists.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, ok := FindProjectRoot(wd)
	if !ok {
		cfg := New()
		cfg.applyDefaults()
		return cfg, nil
	}

	return Load(root)
}

func isYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
