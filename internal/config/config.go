package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/pgannotate/internal/annotate"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// ModelsConfig selects the files to annotate.
type ModelsConfig struct {
	Paths      []string `yaml:"paths"`
	Extensions []string `yaml:"extensions,omitempty"`
	Exclude    []string `yaml:"exclude,omitempty"`
}

// AnnotateConfig controls placement and content of the annotation.
// Pointer fields distinguish "unset" from the zero value so CLI flags can
// override them selectively.
type AnnotateConfig struct {
	Position         string   `yaml:"position,omitempty"`
	WrapperOpen      string   `yaml:"wrapper_open,omitempty"`
	WrapperClose     string   `yaml:"wrapper_close,omitempty"`
	SkipMarker       *string  `yaml:"skip_marker,omitempty"`
	Heading          string   `yaml:"heading,omitempty"`
	Force            bool     `yaml:"force,omitempty"`
	ExcludeTables    []string `yaml:"exclude_tables,omitempty"`
	WithIndexes      *bool    `yaml:"with_indexes,omitempty"`
	WithForeignKeys  *bool    `yaml:"with_foreign_keys,omitempty"`
	WithCheckConstr  *bool    `yaml:"with_check_constraints,omitempty"`
	WithTableComment *bool    `yaml:"with_table_comment,omitempty"`
}

type ProjectConfig struct {
	Connection  ConnectionConfig `yaml:"connection"`
	Schema      string           `yaml:"schema"`
	Models      ModelsConfig     `yaml:"models"`
	Annotate    AnnotateConfig   `yaml:"annotate"`
	Timeout     string           `yaml:"timeout"`
	Concurrency int              `yaml:"concurrency,omitempty"`
}

const ConfigFileName = pgannotate.ConfigFileName

func Load(projectPath string) (*ProjectConfig, error) {
	configPath := filepath.Join(projectPath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", configPath, pgannotate.ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// TimeoutDuration parses Timeout, returning fallback when it is empty.
func (c *ProjectConfig) TimeoutDuration(fallback time.Duration) (time.Duration, error) {
	if c == nil || c.Timeout == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, pgannotate.ErrInvalidConfig)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %q: %w", c.Timeout, pgannotate.ErrInvalidConfig)
	}
	return d, nil
}

// Placement converts the annotate section into a validated placement
// configuration. Unset values take their defaults.
func (a AnnotateConfig) Placement() (annotate.PlacementConfig, error) {
	cfg := annotate.DefaultPlacementConfig()

	if a.Position != "" {
		pos, err := annotate.ParsePosition(a.Position)
		if err != nil {
			return annotate.PlacementConfig{}, err
		}
		cfg.Position = pos
	}
	if a.SkipMarker != nil {
		cfg.SkipMarker = *a.SkipMarker
	}
	if a.Heading != "" {
		cfg.Heading = a.Heading
	}
	cfg.WrapperOpen = a.WrapperOpen
	cfg.WrapperClose = a.WrapperClose
	cfg.Force = a.Force

	if err := cfg.Validate(); err != nil {
		return annotate.PlacementConfig{}, err
	}
	return cfg, nil
}

// Enabled returns *b, or fallback when b is nil.
func Enabled(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
