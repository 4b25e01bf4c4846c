package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

func TestPgpassPath_PGPASSFILE(t *testing.T) {
	t.Setenv("PGPASSFILE", "/custom/pgpass")
	assert.Equal(t, "/custom/pgpass", pgpassPath())
}

func TestPasswordSource(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "pgpass")
	require.NoError(t, os.WriteFile(existing, []byte("localhost:5432:*:app:secret\n"), 0o600))

	tests := []struct {
		name     string
		cfg      pgannotate.ConnectionConfig
		passfile string
		want     string
	}{
		{"explicit password", pgannotate.ConnectionConfig{Password: "secret"}, existing, "provided"},
		{"pgpass present", pgannotate.ConnectionConfig{}, existing, ".pgpass (" + existing + ")"},
		{"pgpass missing", pgannotate.ConnectionConfig{}, filepath.Join(dir, "missing"), "none"},
		{"iam token", pgannotate.ConnectionConfig{AuthMethod: pgannotate.AuthMethodAWSIAM, Password: "ignored"}, existing, "IAM token (" + pgannotate.AuthMethodAWSIAM.String() + ")"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PGPASSFILE", tt.passfile)
			assert.Equal(t, tt.want, passwordSource(&tt.cfg))
		})
	}
}
