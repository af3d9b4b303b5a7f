package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"docsearch/internal/tokenizer"
)

// DefaultSiteName names the site built from CONTENT_ROOT when no sites file is given.
const DefaultSiteName = "docs"

// Site is one indexed documentation tree.
type Site struct {
	Name         string `yaml:"name"`
	ContentRoot  string `yaml:"content_root"`
	IndexPath    string `yaml:"index_path"`
	MaxWords     int    `yaml:"max_words"`
	OverlapWords int    `yaml:"overlap_words"`
	TopK         int    `yaml:"top_k"`
	Stemmer      string `yaml:"stemmer"`
}

// Config holds all configuration for the application.
type Config struct {
	Sites           []Site
	SitesFile       string
	DBPath          string // Build manifest; empty disables it
	APIPort         string
	LogLevel        slog.Level
	LogFormat       string
	WalkConcurrency int
	QueryCacheSize  int

	// Warnings are non-fatal validation findings, logged once logging is set up.
	Warnings []string
}

// Overrides take precedence over the environment. Empty fields are ignored.
type Overrides struct {
	SitesFile   string
	ContentRoot string
	IndexPath   string
}

type sitesFile struct {
	Sites []siteEntry `yaml:"sites"`
}

// siteEntry tells an explicit zero apart from an unset field.
type siteEntry struct {
	Name         string `yaml:"name"`
	ContentRoot  string `yaml:"content_root"`
	IndexPath    string `yaml:"index_path"`
	MaxWords     *int   `yaml:"max_words"`
	OverlapWords *int   `yaml:"overlap_words"`
	TopK         *int   `yaml:"top_k"`
	Stemmer      string `yaml:"stemmer"`
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	return LoadWithOverrides(Overrides{})
}

// LoadWithOverrides is Load with command-line values applied on top.
func LoadWithOverrides(o Overrides) (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		SitesFile: firstNonEmpty(o.SitesFile, getEnv("SITES_FILE", "")),
		DBPath:    "./data/docsearch.db",
		APIPort:   getEnv("API_PORT", "9000"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
	if v, ok := os.LookupEnv("DB_PATH"); ok {
		cfg.DBPath = v
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	var err error
	if cfg.WalkConcurrency, err = getEnvInt("WALK_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if cfg.QueryCacheSize, err = getEnvInt("QUERY_CACHE_SIZE", 256); err != nil {
		return nil, err
	}

	defaults, err := siteDefaults()
	if err != nil {
		return nil, err
	}
	defaults.ContentRoot = firstNonEmpty(o.ContentRoot, defaults.ContentRoot)
	defaults.IndexPath = firstNonEmpty(o.IndexPath, defaults.IndexPath)

	if cfg.SitesFile != "" {
		if cfg.Sites, err = LoadSites(cfg.SitesFile, defaults); err != nil {
			return nil, err
		}
	} else {
		if defaults.IndexPath == "" {
			defaults.IndexPath = "./data/index.json"
		}
		cfg.Sites = []Site{defaults}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Create the manifest directory up front so storage.New can open the file
	if cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// LoadSites reads a YAML sites file. Fields a site leaves unset are taken
// from defaults; a site without index_path gets ./data/<name>.index.json.
func LoadSites(path string, defaults Site) ([]Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file: %w", err)
	}

	var file sitesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sites file %s: %w", path, err)
	}
	if len(file.Sites) == 0 {
		return nil, fmt.Errorf("sites file %s declares no sites", path)
	}

	sites := make([]Site, len(file.Sites))
	for i, e := range file.Sites {
		s := Site{
			Name:         e.Name,
			ContentRoot:  e.ContentRoot,
			IndexPath:    e.IndexPath,
			MaxWords:     intOr(e.MaxWords, defaults.MaxWords),
			OverlapWords: intOr(e.OverlapWords, defaults.OverlapWords),
			TopK:         intOr(e.TopK, defaults.TopK),
			Stemmer:      firstNonEmpty(e.Stemmer, defaults.Stemmer),
		}
		if s.IndexPath == "" && s.Name != "" {
			s.IndexPath = filepath.Join("data", s.Name+".index.json")
		}
		sites[i] = s
	}
	return sites, nil
}

// Validate rejects unusable sites and records warnings for odd but workable ones.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Sites))

	for i, s := range c.Sites {
		label := s.Name
		if label == "" {
			label = "#" + strconv.Itoa(i)
			errs = append(errs, fmt.Errorf("site %s: name is required", label))
		} else if seen[s.Name] {
			errs = append(errs, fmt.Errorf("site %s: duplicate name", label))
		}
		seen[s.Name] = true

		if s.ContentRoot == "" {
			errs = append(errs, fmt.Errorf("site %s: content root is required (CONTENT_ROOT)", label))
		} else if info, err := os.Stat(s.ContentRoot); err != nil {
			errs = append(errs, fmt.Errorf("site %s: content root: %w", label, err))
		} else if !info.IsDir() {
			errs = append(errs, fmt.Errorf("site %s: content root %s is not a directory", label, s.ContentRoot))
		}
		if s.IndexPath == "" {
			errs = append(errs, fmt.Errorf("site %s: index path is required", label))
		}
		if s.MaxWords <= 0 {
			errs = append(errs, fmt.Errorf("site %s: max_words must be greater than 0", label))
		}
		if s.OverlapWords < 0 {
			errs = append(errs, fmt.Errorf("site %s: overlap_words must not be negative", label))
		}
		if s.TopK <= 0 {
			errs = append(errs, fmt.Errorf("site %s: top_k must be greater than 0", label))
		}
		if _, err := tokenizer.New(s.Stemmer); err != nil {
			errs = append(errs, fmt.Errorf("site %s: %w", label, err))
		}
		if s.MaxWords > 0 && s.OverlapWords > s.MaxWords {
			c.Warnings = append(c.Warnings, fmt.Sprintf("site %s: overlap_words (%d) exceeds max_words (%d)", label, s.OverlapWords, s.MaxWords))
		}
	}

	if c.WalkConcurrency <= 0 {
		errs = append(errs, errors.New("WALK_CONCURRENCY must be greater than 0"))
	}
	if c.QueryCacheSize <= 0 {
		errs = append(errs, errors.New("QUERY_CACHE_SIZE must be greater than 0"))
	}

	return errors.Join(errs...)
}

// loadDotEnv loads .env from the current directory or the nearest parent
// that has one. Missing files are ignored.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

func siteDefaults() (Site, error) {
	s := Site{
		Name:        DefaultSiteName,
		ContentRoot: getEnv("CONTENT_ROOT", ""),
		IndexPath:   getEnv("INDEX_PATH", ""),
		Stemmer:     getEnv("STEMMER", tokenizer.StemmerPorter),
	}
	var err error
	if s.MaxWords, err = getEnvInt("MAX_WORDS", 120); err != nil {
		return Site{}, err
	}
	if s.OverlapWords, err = getEnvInt("OVERLAP_WORDS", 30); err != nil {
		return Site{}, err
	}
	if s.TopK, err = getEnvInt("TOP_K", 5); err != nil {
		return Site{}, err
	}
	return s, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
