package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rheumaview/rheumaview/internal/compose"
	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/rheumaview/rheumaview/internal/report"
)

func boolPtr(b bool) *bool {
	return &b
}

// TestNewConfig documents the defaults; changing one should be intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default OutputDir is the current directory", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputDir != "." {
			t.Errorf("expected OutputDir to be '.', got %q", cfg.OutputDir)
		}
	})

	t.Run("default format is docx", func(t *testing.T) {
		t.Parallel()
		f, err := cfg.ExportFormat()
		if err != nil || f != model.FormatDOCX {
			t.Errorf("expected docx, got %q (%v)", f, err)
		}
	})

	t.Run("default page layout", func(t *testing.T) {
		t.Parallel()
		if cfg.PageSize != report.PageA4 || cfg.FontSize != report.DefaultFontSize {
			t.Errorf("unexpected layout %q %v", cfg.PageSize, cfg.FontSize)
		}
	})

	t.Run("default filename prefix", func(t *testing.T) {
		t.Parallel()
		if cfg.FilenamePrefix != compose.DefaultFilenamePrefix {
			t.Errorf("expected %q, got %q", compose.DefaultFilenamePrefix, cfg.FilenamePrefix)
		}
	})

	t.Run("optional capabilities are off", func(t *testing.T) {
		t.Parallel()
		if cfg.Manifest || cfg.DetectRegions || cfg.InferDate || cfg.IncludeClinicalContext {
			t.Error("expected manifest, detection, date inference and clinical context to be off")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Sources = []string{"request.yaml"}
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"valid config", func(*Config) {}, nil},
		{"interactive without sources", func(c *Config) { c.Sources = nil; c.Interactive = true }, nil},
		{"format alias", func(c *Config) { c.Format = "word" }, nil},
		{"lower-case page size", func(c *Config) { c.PageSize = "letter" }, nil},
		{"no request", func(c *Config) { c.Sources = nil }, ErrNoRequest},
		{"unknown format", func(c *Config) { c.Format = "rtf" }, ErrUnknownFormat},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"negative batch size", func(c *Config) { c.BatchSize = -1 }, ErrInvalidBatchSize},
		{"unknown page size", func(c *Config) { c.PageSize = "A3" }, ErrInvalidPageSize},
		{"font too small", func(c *Config) { c.FontSize = 4 }, ErrInvalidFontSize},
		{"font too large", func(c *Config) { c.FontSize = 30 }, ErrInvalidFontSize},
		{"stdout with several requests", func(c *Config) {
			c.Stdout = true
			c.Sources = []string{"a.yaml", "b.yaml"}
		}, ErrStdoutMultiple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigReportDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Format = "md"
	cfg.Header = "Department of Radiology"

	got := cfg.ReportDefaults()
	if got.Format != model.FormatMarkdown || got.Header != "Department of Radiology" {
		t.Errorf("unexpected defaults %+v", got)
	}
	if len(cfg.WriterOptions()) != 2 {
		t.Errorf("expected page size and font size options")
	}
}

func TestFileGetProfile(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: Profile{
			Format:   "docx",
			Header:   "General Hospital",
			PageSize: "A4",
			Manifest: boolPtr(true),
		},
		Profiles: map[string]Profile{
			"clinic": {
				Header:   "Rheumatology Clinic",
				PageSize: "Letter",
				FontSize: 12,
				Manifest: boolPtr(false),
			},
		},
	}

	t.Run("returns defaults for an empty name", func(t *testing.T) {
		t.Parallel()

		p := cf.GetProfile("")
		if p.Header != "General Hospital" || p.PageSize != "A4" {
			t.Errorf("unexpected profile %+v", p)
		}
	})

	t.Run("returns defaults for an unknown name", func(t *testing.T) {
		t.Parallel()

		if p := cf.GetProfile("nowhere"); p.Header != "General Hospital" {
			t.Errorf("unexpected profile %+v", p)
		}
	})

	t.Run("profile overrides defaults", func(t *testing.T) {
		t.Parallel()

		p := cf.GetProfile("clinic")
		if p.Header != "Rheumatology Clinic" || p.PageSize != "Letter" || p.FontSize != 12 {
			t.Errorf("unexpected profile %+v", p)
		}
		if p.Format != "docx" {
			t.Errorf("expected format inherited from defaults, got %q", p.Format)
		}
		if p.Manifest == nil || *p.Manifest {
			t.Error("expected profile to turn the manifest off")
		}
	})

	t.Run("nil profiles map", func(t *testing.T) {
		t.Parallel()

		empty := &File{Defaults: Profile{Title: "Report"}}
		if p := empty.GetProfile("clinic"); p.Title != "Report" {
			t.Errorf("unexpected profile %+v", p)
		}
	})
}

func TestConfigApplyProfile(t *testing.T) {
	t.Parallel()

	p := Profile{
		Format:        "pdf",
		OutputDir:     "/srv/reports",
		FontSize:      12,
		Manifest:      boolPtr(true),
		DetectRegions: boolPtr(true),
	}

	t.Run("applies every setting without explicit flags", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyProfile(p, nil)
		if cfg.Format != "pdf" || cfg.OutputDir != "/srv/reports" || cfg.FontSize != 12 {
			t.Errorf("unexpected config %+v", cfg)
		}
		if !cfg.Manifest || !cfg.DetectRegions {
			t.Error("expected switches from the profile")
		}
	})

	t.Run("explicit flags win", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Format = "text"
		explicit := func(key string) bool { return key == KeyFormat || key == KeyManifest }

		cfg.ApplyProfile(p, explicit)
		if cfg.Format != "text" {
			t.Errorf("expected explicit format to win, got %q", cfg.Format)
		}
		if cfg.Manifest {
			t.Error("expected explicit manifest flag to win")
		}
		if cfg.OutputDir != "/srv/reports" {
			t.Errorf("expected output dir from profile, got %q", cfg.OutputDir)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `defaults:
  format: pdf
  pageSize: Letter
profiles:
  clinic:
    header: Rheumatology Clinic
    includeClinicalContext: true
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Defaults.Format != "pdf" || cf.Defaults.PageSize != "Letter" {
			t.Errorf("unexpected defaults %+v", cf.Defaults)
		}
		clinic := cf.GetProfile("clinic")
		if clinic.IncludeClinicalContext == nil || !*clinic.IncludeClinicalContext {
			t.Error("expected includeClinicalContext to be decoded")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("defaults: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Profiles map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("defaults:\n  format: text\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Profiles == nil {
			t.Error("expected Profiles map to be initialized")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("defaults: {}\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

func TestConfigResolve(t *testing.T) {
	t.Parallel()

	writeConfig := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "rheumaview.yaml")
		content := `defaults:
  footer: Reviewed electronically.
profiles:
  clinic:
    format: pdf
    pageSize: Letter
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("applies the selected profile", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ConfigFilePath = writeConfig(t)
		cfg.Profile = "clinic"

		if err := cfg.Resolve(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Format != "pdf" || cfg.PageSize != "Letter" || cfg.Footer != "Reviewed electronically." {
			t.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ConfigFilePath = writeConfig(t)
		cfg.Profile = "elsewhere"

		if err := cfg.Resolve(nil); !errors.Is(err, ErrUnknownProfile) {
			t.Errorf("expected ErrUnknownProfile, got %v", err)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ConfigFilePath = filepath.Join(t.TempDir(), "absent.yaml")

		if err := cfg.Resolve(nil); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	if dir := XDGConfigDir(); filepath.Base(dir) != AppName {
		t.Errorf("expected directory named %q, got %q", AppName, dir)
	}
}
