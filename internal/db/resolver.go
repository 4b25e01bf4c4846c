package db

import (
	"fmt"
	"os"
	"strings"

	"github.com/vvka-141/pgannotate/internal/config"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// ConnFlags holds connection parameters given on the command line.
// There is no password flag: use $PGPASSWORD, .pgpass or a connection string.
type ConnFlags struct {
	Connection string
	Host       string
	Port       int
	Username   string
	Database   string
	SSLMode    string

	AWS            bool
	AWSRegion      string
	Google         bool
	GoogleInstance string
	Azure          bool
	AzureTenantID  string
	AzureClientID  string
}

// hasGranular reports whether any of -h, -p, -U or --sslmode was given.
// -d is not counted; it may override the database of a connection string.
func (f *ConnFlags) hasGranular() bool {
	return f.Host != "" || f.Port != 0 || f.Username != "" || f.SSLMode != ""
}

// EnvVars is a snapshot of the libpq and cloud SDK environment variables.
type EnvVars struct {
	PGHOST      string
	PGPORT      string
	PGUSER      string
	PGPASSWORD  string
	PGDATABASE  string
	PGSSLMODE   string
	DatabaseURL string

	AWSRegion string

	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// LoadFromEnvironment reads the process environment.
func LoadFromEnvironment() *EnvVars {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	return &EnvVars{
		PGHOST:            os.Getenv("PGHOST"),
		PGPORT:            os.Getenv("PGPORT"),
		PGUSER:            os.Getenv("PGUSER"),
		PGPASSWORD:        os.Getenv("PGPASSWORD"),
		PGDATABASE:        os.Getenv("PGDATABASE"),
		PGSSLMODE:         os.Getenv("PGSSLMODE"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AWSRegion:         region,
		AzureTenantID:     os.Getenv("AZURE_TENANT_ID"),
		AzureClientID:     os.Getenv("AZURE_CLIENT_ID"),
		AzureClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnection merges the connection sources. Precedence:
//
//  1. --connection
//  2. granular flags (-h, -p, -U, -d, --sslmode)
//  3. the connection section of pgannotate.yaml
//  4. $DATABASE_URL, used only when neither 2 nor 3 name a server
//  5. PG* environment variables
//  6. defaults (localhost:5432, sslmode=prefer)
//
// Giving both --connection and granular flags is an error.
func ResolveConnection(flags *ConnFlags, env *EnvVars, project *config.ConnectionConfig) (*pgannotate.ConnectionConfig, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}
	if project == nil {
		project = &config.ConnectionConfig{}
	}

	if flags.Connection != "" && flags.hasGranular() {
		return nil, fmt.Errorf("--connection cannot be combined with -h, -p, -U or --sslmode: %w", pgannotate.ErrInvalidConfig)
	}

	var cfg *pgannotate.ConnectionConfig
	var err error
	switch {
	case flags.Connection != "":
		cfg, err = ParseConnectionString(flags.Connection)
	case !flags.hasGranular() && !namesServer(project) && env.DatabaseURL != "":
		cfg, err = ParseConnectionString(env.DatabaseURL)
	default:
		cfg, err = resolveGranular(flags, env, project)
	}
	if err != nil {
		return nil, err
	}

	if flags.Database != "" {
		cfg.Database = flags.Database
	}
	if cfg.Password == "" {
		cfg.Password = env.PGPASSWORD
	}
	if cfg.AppName == "" {
		cfg.AppName = pgannotate.ApplicationName
	}

	if err := applyAuth(cfg, flags, env, project); err != nil {
		return nil, err
	}
	return cfg, nil
}

func namesServer(p *config.ConnectionConfig) bool {
	return p.Host != "" || p.Port != 0 || p.Username != "" || p.Database != ""
}

func resolveGranular(flags *ConnFlags, env *EnvVars, project *config.ConnectionConfig) (*pgannotate.ConnectionConfig, error) {
	cfg := newDefaultConfig()
	cfg.Host = firstNonEmpty(flags.Host, project.Host, env.PGHOST, cfg.Host)
	cfg.Database = firstNonEmpty(project.Database, env.PGDATABASE, cfg.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, project.SSLMode, env.PGSSLMODE, cfg.SSLMode)
	cfg.Username = firstNonEmpty(flags.Username, project.Username, env.PGUSER, os.Getenv("USER"), os.Getenv("USERNAME"))

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case project.Port != 0:
		cfg.Port = project.Port
	case env.PGPORT != "":
		port, err := parsePort(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("$PGPORT: %w", err)
		}
		cfg.Port = port
	}
	return cfg, nil
}

func applyAuth(cfg *pgannotate.ConnectionConfig, flags *ConnFlags, env *EnvVars, project *config.ConnectionConfig) error {
	method, err := authMethod(flags, env, project)
	if err != nil {
		return err
	}
	cfg.AuthMethod = method

	switch method {
	case pgannotate.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, project.AWSRegion, env.AWSRegion)
	case pgannotate.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, project.GoogleInstance)
	case pgannotate.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, project.AzureTenantID, env.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, project.AzureClientID, env.AzureClientID)
		cfg.AzureClientSecret = env.AzureClientSecret
	}
	return nil
}

// authMethod picks the authentication method: explicit flags first, then
// auth_method in pgannotate.yaml, then Azure when Azure identifiers are
// present in flags or the environment.
func authMethod(flags *ConnFlags, env *EnvVars, project *config.ConnectionConfig) (pgannotate.AuthMethod, error) {
	var chosen []pgannotate.AuthMethod
	if flags.AWS {
		chosen = append(chosen, pgannotate.AuthMethodAWSIAM)
	}
	if flags.Google {
		chosen = append(chosen, pgannotate.AuthMethodGoogleIAM)
	}
	if flags.Azure {
		chosen = append(chosen, pgannotate.AuthMethodAzureEntraID)
	}
	switch len(chosen) {
	case 0:
	case 1:
		return chosen[0], nil
	default:
		return 0, fmt.Errorf("only one of --aws, --google, --azure may be given: %w", pgannotate.ErrInvalidConfig)
	}

	if project.AuthMethod != "" {
		return ParseAuthMethod(project.AuthMethod)
	}
	if flags.AzureTenantID != "" || flags.AzureClientID != "" || env.AzureTenantID != "" || env.AzureClientID != "" {
		return pgannotate.AuthMethodAzureEntraID, nil
	}
	return pgannotate.AuthMethodStandard, nil
}

// ParseAuthMethod maps the auth_method values of pgannotate.yaml.
func ParseAuthMethod(s string) (pgannotate.AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return pgannotate.AuthMethodStandard, nil
	case "aws", "aws-iam":
		return pgannotate.AuthMethodAWSIAM, nil
	case "google", "gcp", "google-iam":
		return pgannotate.AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return pgannotate.AuthMethodAzureEntraID, nil
	default:
		return 0, fmt.Errorf("auth method %q: %w", s, pgannotate.ErrUnsupportedAuthMethod)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
