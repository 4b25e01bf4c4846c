package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgannotate/internal/db"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// connectionFlags holds the common connection-related flag values.
type connectionFlags struct {
	connection     string
	host           string
	port           int
	username       string
	database       string
	sslMode        string
	aws            bool
	awsRegion      string
	google         bool
	googleInstance string
	azure          bool
	azureTenantID  string
	azureClientID  string
}

func (f connectionFlags) toConnFlags() *db.ConnFlags {
	return &db.ConnFlags{
		Connection:     f.connection,
		Host:           f.host,
		Port:           f.port,
		Username:       f.username,
		Database:       f.database,
		SSLMode:        f.sslMode,
		AWS:            f.aws,
		AWSRegion:      f.awsRegion,
		Google:         f.google,
		GoogleInstance: f.googleInstance,
		Azure:          f.azure,
		AzureTenantID:  f.azureTenantID,
		AzureClientID:  f.azureClientID,
	}
}

// placementFlags override the annotate section of pgannotate.yaml.
type placementFlags struct {
	position     string
	wrapperOpen  string
	wrapperClose string
	skipMarker   string
	force        bool
}

// renderFlags select what the annotation contains.
type renderFlags struct {
	schema          string
	excludeTables   []string
	withIndexes     bool
	withForeignKeys bool
}

// runFlags is the full flag set of one annotate, remove or check command.
type runFlags struct {
	conn      connectionFlags
	placement placementFlags
	render    renderFlags

	envFiles    []string
	dryRun      bool
	interactive bool
	diff        bool
	concurrency int
	timeout     time.Duration
}

func addConnectionFlags(cmd *cobra.Command, f *connectionFlags) {
	flags := cmd.Flags()

	// Connection string flag (mutually exclusive with granular flags)
	flags.StringVar(&f.connection, "connection", "",
		"PostgreSQL connection string (URI or ADO.NET format).\n"+
			"Mutually exclusive with granular flags (--host, --port, --username, --sslmode).\n"+
			"Alternative: DATABASE_URL environment variable.\n"+
			"Example: postgresql://user@localhost:5432/app_development")

	// Granular connection flags (PostgreSQL standard)
	// Precedence: flag > pgannotate.yaml > environment variable > default
	flags.StringVarP(&f.host, "host", "h", "",
		"PostgreSQL server host\n"+
			"Precedence: --host > pgannotate.yaml > $PGHOST > localhost")
	flags.IntVarP(&f.port, "port", "p", 0,
		"PostgreSQL server port\n"+
			"Precedence: --port > pgannotate.yaml > $PGPORT > 5432")
	flags.StringVarP(&f.username, "username", "U", "",
		"PostgreSQL user (default: $PGUSER or current OS user)")
	flags.StringVarP(&f.database, "database", "d", "",
		"Database to read the schema from (overrides the connection string database)")
	flags.StringVar(&f.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")

	// Cloud IAM flags
	flags.BoolVar(&f.aws, "aws", false,
		"Enable AWS RDS IAM authentication")
	flags.StringVar(&f.awsRegion, "aws-region", "",
		"AWS region of the RDS instance (overrides $AWS_REGION)")
	flags.BoolVar(&f.google, "google", false,
		"Enable Google Cloud SQL IAM authentication")
	flags.StringVar(&f.googleInstance, "google-instance", "",
		"Cloud SQL instance connection name (project:region:instance)")
	flags.BoolVar(&f.azure, "azure", false,
		"Enable Azure Entra ID authentication\n"+
			"Uses DefaultAzureCredential chain (Managed Identity, Azure CLI, etc.)")
	flags.StringVar(&f.azureTenantID, "azure-tenant-id", "",
		"Azure AD tenant/directory ID (overrides $AZURE_TENANT_ID)")
	flags.StringVar(&f.azureClientID, "azure-client-id", "",
		"Azure AD application/client ID (overrides $AZURE_CLIENT_ID)")

	_ = cmd.RegisterFlagCompletionFunc("sslmode", completeSSLModes)
}

func addPlacementFlags(cmd *cobra.Command, f *placementFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.position, "position", "",
		"Where to put the annotation: before|after the class declaration (default: before)")
	flags.StringVar(&f.wrapperOpen, "wrapper-open", "",
		"Comment line written above the annotation block")
	flags.StringVar(&f.wrapperClose, "wrapper-close", "",
		"Comment line written below the annotation block")
	flags.StringVar(&f.skipMarker, "skip-marker", "",
		"Files containing this text are left alone (default: \"# -*- SkipSchemaAnnotations\")")
	flags.BoolVar(&f.force, "force", false,
		"Rewrite annotations even when only their formatting differs")

	_ = cmd.RegisterFlagCompletionFunc("position", completePositions)
}

func addRenderFlags(cmd *cobra.Command, f *renderFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.schema, "schema", "",
		"PostgreSQL schema to read tables from (default: "+pgannotate.DefaultSchema+")")
	flags.StringSliceVar(&f.excludeTables, "exclude-tables", nil,
		"Tables never annotated (comma-separated or repeated)")
	flags.BoolVar(&f.withIndexes, "with-indexes", true,
		"Include the Indexes section")
	flags.BoolVar(&f.withForeignKeys, "with-foreign-keys", true,
		"Include the Foreign Keys section")
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	flags := cmd.Flags()
	flags.StringSliceVar(&f.envFiles, "env-file", nil,
		"Load environment variables from these files before .env\n"+
			"Variables already set in the environment are not overwritten")
	flags.IntVar(&f.concurrency, "concurrency", 0,
		"Number of files processed in parallel (default: 4)")
	flags.DurationVar(&f.timeout, "timeout", pgannotate.DefaultTimeout,
		"Upper bound for the whole run, including schema loading\n"+
			"Examples: 30s, 5m")
}
