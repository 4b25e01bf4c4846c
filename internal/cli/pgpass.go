package cli

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// pgpassPath returns the platform-appropriate .pgpass file path.
func pgpassPath() string {
	if custom := os.Getenv("PGPASSFILE"); custom != "" {
		return custom
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "postgresql", "pgpass.conf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgpass")
}

// passwordSource describes where the password for cfg will come from.
// It never returns the password itself.
func passwordSource(cfg *pgannotate.ConnectionConfig) string {
	switch {
	case cfg.AuthMethod != pgannotate.AuthMethodStandard:
		return "IAM token (" + cfg.AuthMethod.String() + ")"
	case cfg.Password != "":
		return "provided"
	}
	path := pgpassPath()
	if path == "" {
		return "none"
	}
	if _, err := os.Stat(path); err != nil {
		return "none"
	}
	return ".pgpass (" + path + ")"
}
