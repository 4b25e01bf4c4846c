// Package db turns connection flags, project configuration and libpq
// environment variables into a pgxpool.Pool.
//
// ResolveConnection merges the sources, ParseConnectionString and
// BuildConnectionString convert between URI/ADO.NET strings and
// pgannotate.ConnectionConfig, and NewConnector picks the connector for the
// configured authentication method.
package db
