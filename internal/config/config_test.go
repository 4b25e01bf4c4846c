package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgannotate/internal/annotate"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `connection:
  host: myhost
  port: 5433
  username: myuser
  database: mydb
  sslmode: require
  auth_method: aws
  aws_region: eu-west-1

schema: billing

models:
  paths: [app/models, engines/billing/app/models]
  extensions: [.rb]
  exclude: [concerns]

annotate:
  position: after
  wrapper_open: "annotate:start"
  wrapper_close: "annotate:end"
  skip_marker: ""
  force: true
  exclude_tables: [schema_migrations, ar_internal_metadata]
  with_indexes: false

timeout: 10m
concurrency: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "myhost", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "myuser", cfg.Connection.Username)
	assert.Equal(t, "mydb", cfg.Connection.Database)
	assert.Equal(t, "require", cfg.Connection.SSLMode)
	assert.Equal(t, "aws", cfg.Connection.AuthMethod)
	assert.Equal(t, "eu-west-1", cfg.Connection.AWSRegion)
	assert.Equal(t, "billing", cfg.Schema)
	assert.Equal(t, []string{"app/models", "engines/billing/app/models"}, cfg.Models.Paths)
	assert.Equal(t, []string{".rb"}, cfg.Models.Extensions)
	assert.Equal(t, []string{"concerns"}, cfg.Models.Exclude)
	assert.Equal(t, []string{"schema_migrations", "ar_internal_metadata"}, cfg.Annotate.ExcludeTables)
	assert.Equal(t, "10m", cfg.Timeout)
	assert.Equal(t, 4, cfg.Concurrency)

	require.NotNil(t, cfg.Annotate.SkipMarker)
	assert.Equal(t, "", *cfg.Annotate.SkipMarker)
	assert.False(t, Enabled(cfg.Annotate.WithIndexes, true))
	assert.True(t, Enabled(cfg.Annotate.WithForeignKeys, true))

	placement, err := cfg.Annotate.Placement()
	require.NoError(t, err)
	assert.Equal(t, annotate.PositionAfter, placement.Position)
	assert.Equal(t, "annotate:start", placement.WrapperOpen)
	assert.Equal(t, "annotate:end", placement.WrapperClose)
	assert.Equal(t, "", placement.SkipMarker)
	assert.True(t, placement.Force)

	timeout, err := cfg.TimeoutDuration(time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)
}

func TestLoad_MinimalYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("schema: public\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "public", cfg.Schema)
	assert.Empty(t, cfg.Connection.Host)
	assert.Nil(t, cfg.Annotate.SkipMarker)

	placement, err := cfg.Annotate.Placement()
	require.NoError(t, err)
	assert.Equal(t, annotate.DefaultPlacementConfig(), placement)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("models: [unclosed\n"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, pgannotate.ErrInvalidConfig)
}

func TestAnnotateConfig_Placement_InvalidPosition(t *testing.T) {
	_, err := AnnotateConfig{Position: "sideways"}.Placement()
	assert.ErrorIs(t, err, pgannotate.ErrInvalidConfig)
}

func TestTimeoutDuration(t *testing.T) {
	var nilCfg *ProjectConfig
	d, err := nilCfg.TimeoutDuration(time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	_, err = (&ProjectConfig{Timeout: "soon"}).TimeoutDuration(time.Minute)
	assert.ErrorIs(t, err, pgannotate.ErrInvalidConfig)

	_, err = (&ProjectConfig{Timeout: "-5s"}).TimeoutDuration(time.Minute)
	assert.ErrorIs(t, err, pgannotate.ErrInvalidConfig)
}
