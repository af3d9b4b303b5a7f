package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envVars = []string{
	"CONTENT_ROOT", "INDEX_PATH", "MAX_WORDS", "OVERLAP_WORDS", "TOP_K", "STEMMER",
	"API_PORT", "LOG_LEVEL", "LOG_FORMAT", "WALK_CONCURRENCY", "QUERY_CACHE_SIZE", "SITES_FILE",
}

// isolateEnv clears configuration variables and moves into a directory
// without a .env file.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DB_PATH", filepath.Join(dir, "data", "docsearch.db"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T, dir string)
		wantErr     string
		checkConfig func(t *testing.T, cfg *Config)
	}{
		{
			name:     "missing content root",
			setupEnv: func(t *testing.T, dir string) {},
			wantErr:  "content root is required",
		},
		{
			name: "content root does not exist",
			setupEnv: func(t *testing.T, dir string) {
				t.Setenv("CONTENT_ROOT", filepath.Join(dir, "missing"))
			},
			wantErr: "content root",
		},
		{
			name: "defaults",
			setupEnv: func(t *testing.T, dir string) {
				t.Setenv("CONTENT_ROOT", dir)
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				if len(cfg.Sites) != 1 {
					t.Fatalf("Sites = %d, want 1", len(cfg.Sites))
				}
				got := cfg.Sites[0]
				want := Site{
					Name:         DefaultSiteName,
					ContentRoot:  got.ContentRoot,
					IndexPath:    "./data/index.json",
					MaxWords:     120,
					OverlapWords: 30,
					TopK:         5,
					Stemmer:      "porter",
				}
				if got != want {
					t.Errorf("Sites[0] = %+v, want %+v", got, want)
				}
				if cfg.APIPort != "9000" || cfg.LogFormat != "text" || cfg.LogLevel != slog.LevelInfo {
					t.Errorf("Load() ambient defaults = %q %q %v", cfg.APIPort, cfg.LogFormat, cfg.LogLevel)
				}
				if cfg.WalkConcurrency != 8 || cfg.QueryCacheSize != 256 {
					t.Errorf("Load() sizes = %d %d", cfg.WalkConcurrency, cfg.QueryCacheSize)
				}
			},
		},
		{
			name: "custom values",
			setupEnv: func(t *testing.T, dir string) {
				t.Setenv("CONTENT_ROOT", dir)
				t.Setenv("INDEX_PATH", "out/idx.json")
				t.Setenv("MAX_WORDS", "80")
				t.Setenv("OVERLAP_WORDS", "10")
				t.Setenv("TOP_K", "3")
				t.Setenv("STEMMER", "snowball")
				t.Setenv("LOG_LEVEL", "debug")
				t.Setenv("LOG_FORMAT", "JSON")
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				s := cfg.Sites[0]
				if s.IndexPath != "out/idx.json" || s.MaxWords != 80 || s.OverlapWords != 10 || s.TopK != 3 || s.Stemmer != "snowball" {
					t.Errorf("Sites[0] = %+v", s)
				}
				if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
					t.Errorf("logging = %v %q", cfg.LogLevel, cfg.LogFormat)
				}
			},
		},
		{
			name: "invalid integer",
			setupEnv: func(t *testing.T, dir string) {
				t.Setenv("CONTENT_ROOT", dir)
				t.Setenv("MAX_WORDS", "many")
			},
			wantErr: "MAX_WORDS must be a valid integer",
		},
		{
			name: "non-positive max words",
			setupEnv: func(t *testing.T, dir string) {
				t.Setenv("CONTENT_ROOT", dir)
				t.Setenv("MAX_WORDS", "-1")
			},
			wantErr: "max_words must be greater than 0",
		},
		{
			name: "unknown stemmer",
			setupEnv: func(t *testing.T, dir string) {
				t.Setenv("CONTENT_ROOT", dir)
				t.Setenv("STEMMER", "lancaster")
			},
			wantErr: "unknown stemmer",
		},
		{
			name: "invalid log format",
			setupEnv: func(t *testing.T, dir string) {
				t.Setenv("CONTENT_ROOT", dir)
				t.Setenv("LOG_FORMAT", "xml")
			},
			wantErr: "LOG_FORMAT",
		},
		{
			name: "overlap above max is a warning",
			setupEnv: func(t *testing.T, dir string) {
				t.Setenv("CONTENT_ROOT", dir)
				t.Setenv("MAX_WORDS", "10")
				t.Setenv("OVERLAP_WORDS", "20")
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "overlap_words") {
					t.Errorf("Warnings = %v", cfg.Warnings)
				}
			},
		},
		{
			name: "empty DB_PATH disables manifest",
			setupEnv: func(t *testing.T, dir string) {
				t.Setenv("CONTENT_ROOT", dir)
				t.Setenv("DB_PATH", "")
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				if cfg.DBPath != "" {
					t.Errorf("DBPath = %q, want empty", cfg.DBPath)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolateEnv(t)
			tt.setupEnv(t, dir)

			cfg, err := Load()

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.checkConfig != nil {
				tt.checkConfig(t, cfg)
			}
		})
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	dir := isolateEnv(t)
	dbPath := filepath.Join(dir, "nested", "manifest.db")
	t.Setenv("CONTENT_ROOT", dir)
	t.Setenv("DB_PATH", dbPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("Load() should create data directory: %v", err)
	}
	if cfg.DBPath != dbPath {
		t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, dbPath)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolateEnv(t)
	// godotenv does not override variables already present, even empty ones
	_ = os.Unsetenv("TOP_K")
	t.Cleanup(func() { _ = os.Unsetenv("TOP_K") })
	t.Setenv("CONTENT_ROOT", dir)
	writeFile(t, filepath.Join(dir, ".env"), "TOP_K=9\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sites[0].TopK != 9 {
		t.Errorf("TopK = %d, want 9 from .env", cfg.Sites[0].TopK)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	dir := isolateEnv(t)
	t.Setenv("CONTENT_ROOT", filepath.Join(dir, "ignored"))
	content := filepath.Join(dir, "content")
	if err := os.Mkdir(content, 0755); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWithOverrides(Overrides{ContentRoot: content, IndexPath: "custom.json"})
	if err != nil {
		t.Fatalf("LoadWithOverrides() error = %v", err)
	}
	if cfg.Sites[0].ContentRoot != content || cfg.Sites[0].IndexPath != "custom.json" {
		t.Errorf("Sites[0] = %+v", cfg.Sites[0])
	}
}

func TestLoad_SitesFile(t *testing.T) {
	dir := isolateEnv(t)
	for _, name := range []string{"light", "dark"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	sitesPath := filepath.Join(dir, "sites.yaml")
	writeFile(t, sitesPath, `sites:
  - name: light
    content_root: `+filepath.Join(dir, "light")+`
    max_words: 60
    overlap_words: 0
  - name: dark
    content_root: `+filepath.Join(dir, "dark")+`
    index_path: dark.json
    stemmer: none
`)
	t.Setenv("SITES_FILE", sitesPath)
	t.Setenv("TOP_K", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Sites) != 2 {
		t.Fatalf("Sites = %d, want 2", len(cfg.Sites))
	}

	light, dark := cfg.Sites[0], cfg.Sites[1]
	if light.MaxWords != 60 || light.OverlapWords != 0 || light.TopK != 7 || light.Stemmer != "porter" {
		t.Errorf("light = %+v", light)
	}
	if light.IndexPath != filepath.Join("data", "light.index.json") {
		t.Errorf("light.IndexPath = %q", light.IndexPath)
	}
	if dark.MaxWords != 120 || dark.OverlapWords != 30 || dark.IndexPath != "dark.json" || dark.Stemmer != "none" {
		t.Errorf("dark = %+v", dark)
	}
}

func TestLoadSites_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "malformed yaml", content: "sites: [", wantErr: "failed to parse"},
		{name: "no sites", content: "sites: []", wantErr: "declares no sites"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			writeFile(t, path, tt.content)

			_, err := LoadSites(path, Site{})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadSites() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadSites(filepath.Join(dir, "missing.yaml"), Site{}); err == nil {
		t.Error("LoadSites() missing file should fail")
	}
}

func TestValidate_DuplicateSites(t *testing.T) {
	dir := t.TempDir()
	site := Site{Name: "docs", ContentRoot: dir, IndexPath: "i.json", MaxWords: 10, TopK: 1}
	cfg := &Config{Sites: []Site{site, site}, WalkConcurrency: 1, QueryCacheSize: 1}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate name") {
		t.Errorf("Validate() error = %v, want duplicate name", err)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue string
		want         string
	}{
		{name: "env var set", value: "set-value", defaultValue: "default", want: "set-value"},
		{name: "empty env var uses default", value: "", defaultValue: "default", want: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_VAR", tt.value)
			if got := getEnv("TEST_ENV_VAR", tt.defaultValue); got != tt.want {
				t.Errorf("getEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}
