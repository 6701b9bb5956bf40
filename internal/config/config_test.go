package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/knobs-dev/knobs/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.App.Name != DefaultName {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, DefaultName)
	}
	if cfg.App.Addr != DefaultAddr {
		t.Errorf("App.Addr = %q, want %q", cfg.App.Addr, DefaultAddr)
	}
	if cfg.Upload.Dir != DefaultUploadDir {
		t.Errorf("Upload.Dir = %q, want %q", cfg.Upload.Dir, DefaultUploadDir)
	}
	if cfg.Upload.MaxSizeMB != DefaultMaxSizeMB {
		t.Errorf("Upload.MaxSizeMB = %d, want %d", cfg.Upload.MaxSizeMB, DefaultMaxSizeMB)
	}
	if cfg.Build.OutDir != DefaultOutDir {
		t.Errorf("Build.OutDir = %q, want %q", cfg.Build.OutDir, DefaultOutDir)
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.App.Addr != DefaultAddr {
		t.Errorf("App.Addr = %q, want %q", cfg.App.Addr, DefaultAddr)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configJSON := `{
  "app": {
    "name": "gallery",
    "addr": "127.0.0.1:3000"
  },
  "serve": {
    "dev": true,
    "traceEndpoint": "localhost:4318"
  },
  "upload": {
    "maxSizeMB": 8
  },
  "minVersion": "v0.2.0"
}
`
	path := filepath.Join(tmpDir, JSONFileName)
	if err := os.WriteFile(path, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.App.Name != "gallery" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "gallery")
	}
	if cfg.App.Addr != "127.0.0.1:3000" {
		t.Errorf("App.Addr = %q, want %q", cfg.App.Addr, "127.0.0.1:3000")
	}
	if !cfg.Serve.Dev {
		t.Error("Serve.Dev should be true")
	}
	if cfg.Serve.TraceEndpoint != "localhost:4318" {
		t.Errorf("Serve.TraceEndpoint = %q, want %q", cfg.Serve.TraceEndpoint, "localhost:4318")
	}
	if cfg.Upload.MaxSizeMB != 8 {
		t.Errorf("Upload.MaxSizeMB = %d, want %d", cfg.Upload.MaxSizeMB, 8)
	}
	if cfg.MinVersion != "v0.2.0" {
		t.Errorf("MinVersion = %q, want %q", cfg.MinVersion, "v0.2.0")
	}

	// Defaults fill the rest
	if cfg.Upload.Dir != DefaultUploadDir {
		t.Errorf("Upload.Dir = %q, want %q", cfg.Upload.Dir, DefaultUploadDir)
	}
	if cfg.Serve.ServiceName != "gallery" {
		t.Errorf("Serve.ServiceName = %q, want %q", cfg.Serve.ServiceName, "gallery")
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `app:
  name: gallery
  addr: ":9090"
upload:
  s3:
    bucket: my-bucket
    region: eu-west-1
    prefix: widgets/
`
	if err := os.WriteFile(filepath.Join(tmpDir, YAMLFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.App.Name != "gallery" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "gallery")
	}
	if cfg.App.Addr != ":9090" {
		t.Errorf("App.Addr = %q, want %q", cfg.App.Addr, ":9090")
	}
	if !cfg.HasS3() {
		t.Error("HasS3() should be true")
	}
	if cfg.Upload.S3.Region != "eu-west-1" {
		t.Errorf("S3.Region = %q, want %q", cfg.Upload.S3.Region, "eu-west-1")
	}
	if cfg.Upload.S3.Prefix != "widgets/" {
		t.Errorf("S3.Prefix = %q, want %q", cfg.Upload.S3.Prefix, "widgets/")
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, JSONFileName), []byte(`{"app":{"name":"from-json"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, YAMLFileName), []byte("app:\n  name: from-yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.App.Name != "from-json" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "from-json")
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, JSONFileName)

	if err := os.WriteFile(path, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	var ce *errors.CLIError
	if !stderrors.As(err, &ce) {
		t.Fatalf("Expected CLIError, got %T", err)
	}
	if ce.Category != errors.CategoryConfig {
		t.Errorf("Category = %q, want %q", ce.Category, errors.CategoryConfig)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:   "explicit host and port",
			mutate: func(c *Config) { c.App.Addr = "0.0.0.0:3000" },
		},
		{
			name:    "address without port",
			mutate:  func(c *Config) { c.App.Addr = "localhost" },
			wantErr: "invalid listen address",
		},
		{
			name:    "non-numeric port",
			mutate:  func(c *Config) { c.App.Addr = "localhost:http" },
			wantErr: "invalid port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.App.Addr = ":70000" },
			wantErr: "invalid port",
		},
		{
			name:    "negative size cap",
			mutate:  func(c *Config) { c.Upload.MaxSizeMB = -1 },
			wantErr: "must not be negative",
		},
		{
			name:    "size cap too large",
			mutate:  func(c *Config) { c.Upload.MaxSizeMB = 4096 },
			wantErr: "must not exceed",
		},
		{
			name:    "s3 region without bucket",
			mutate:  func(c *Config) { c.Upload.S3.Region = "us-east-1" },
			wantErr: "bucket is required",
		},
		{
			name:    "bad minVersion",
			mutate:  func(c *Config) { c.MinVersion = "latest" },
			wantErr: "invalid minVersion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name       string
		minVersion string
		version    string
		wantErr    bool
	}{
		{name: "no constraint", minVersion: "", version: "v0.1.0", wantErr: false},
		{name: "dev build passes", minVersion: "v0.3.0", version: "dev", wantErr: false},
		{name: "empty version passes", minVersion: "v0.3.0", version: "", wantErr: false},
		{name: "older fails", minVersion: "v0.3.0", version: "v0.2.5", wantErr: true},
		{name: "equal passes", minVersion: "v0.3.0", version: "v0.3.0", wantErr: false},
		{name: "newer passes", minVersion: "v0.3.0", version: "v1.0.0", wantErr: false},
		{name: "missing v prefix normalized", minVersion: "0.3.0", version: "0.4.0", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.MinVersion = tt.minVersion
			err := cfg.CheckVersion(tt.version)
			if tt.wantErr && err == nil {
				t.Error("Expected version error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("CheckVersion error: %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, JSONFileName)

	cfg := New()
	cfg.App.Name = "saved"
	cfg.Upload.MaxSizeMB = 32

	// Save should fail without configPath set
	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.App.Name != "saved" {
		t.Errorf("App.Name = %q, want %q", loaded.App.Name, "saved")
	}
	if loaded.Upload.MaxSizeMB != 32 {
		t.Errorf("Upload.MaxSizeMB = %d, want %d", loaded.Upload.MaxSizeMB, 32)
	}

	// Save now works against the stored path
	cfg2, _ := LoadFile(path)
	cfg2.App.Name = "resaved"
	if err := cfg2.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	reloaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if reloaded.App.Name != "resaved" {
		t.Errorf("App.Name = %q, want %q", reloaded.App.Name, "resaved")
	}
}

func TestSaveYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, YAMLFileName)

	cfg := New()
	cfg.App.Name = "yaml-saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.App.Name != "yaml-saved" {
		t.Errorf("App.Name = %q, want %q", loaded.App.Name, "yaml-saved")
	}
}

func TestOutputPath(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, JSONFileName), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := filepath.Join(tmpDir, DefaultOutDir)
	if cfg.OutputPath() != want {
		t.Errorf("OutputPath() = %q, want %q", cfg.OutputPath(), want)
	}

	cfg.Build.OutDir = "/abs/dist"
	if cfg.OutputPath() != "/abs/dist" {
		t.Errorf("OutputPath() = %q, want %q", cfg.OutputPath(), "/abs/dist")
	}
}

func TestMaxUploadBytes(t *testing.T) {
	cfg := New()
	cfg.Upload.MaxSizeMB = 2
	if got := cfg.MaxUploadBytes(); got != 2<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", got, 2<<20)
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, JSONFileName), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	root, ok := FindProjectRoot(nested)
	if !ok {
		t.Fatal("FindProjectRoot should find the root")
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatal(err)
	}
	wantRoot, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != wantRoot {
		t.Errorf("root = %q, want %q", resolved, wantRoot)
	}

	if _, ok := FindProjectRoot(t.TempDir()); ok {
		t.Error("FindProjectRoot should not find a root outside any project")
	}
}
