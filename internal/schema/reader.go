package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const (
	queryTables = `
		SELECT c.relname, COALESCE(obj_description(c.oid, 'pg_class'), '')
		FROM pg_catalog.pg_class c
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relkind IN ('r', 'p') AND NOT c.relispartition
		ORDER BY c.relname`

	queryColumns = `
		SELECT c.relname, a.attname, pg_catalog.format_type(a.atttypid, a.atttypmod),
		       a.attnotnull,
		       COALESCE(pg_catalog.pg_get_expr(d.adbin, d.adrelid), ''),
		       EXISTS (
		           SELECT 1 FROM pg_catalog.pg_index i
		           WHERE i.indrelid = c.oid AND i.indisprimary AND a.attnum = ANY (i.indkey)
		       ),
		       COALESCE(col_description(c.oid, a.attnum), '')
		FROM pg_catalog.pg_attribute a
		JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_catalog.pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE n.nspname = $1 AND c.relkind IN ('r', 'p') AND NOT c.relispartition
		  AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY c.relname, a.attnum`

	queryIndexes = `
		SELECT t.relname, i.relname, ix.indisunique, am.amname,
		       ARRAY(
		           SELECT pg_catalog.pg_get_indexdef(ix.indexrelid, k, true)
		           FROM generate_series(1, ix.indnkeyatts) AS k
		           ORDER BY k
		       ),
		       COALESCE(pg_catalog.pg_get_expr(ix.indpred, ix.indrelid, true), '')
		FROM pg_catalog.pg_index ix
		JOIN pg_catalog.pg_class t ON t.oid = ix.indrelid
		JOIN pg_catalog.pg_class i ON i.oid = ix.indexrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_catalog.pg_am am ON am.oid = i.relam
		WHERE n.nspname = $1 AND NOT ix.indisprimary
		ORDER BY t.relname, i.relname`

	queryForeignKeys = `
		SELECT t.relname, con.conname,
		       ARRAY(
		           SELECT a.attname::text
		           FROM unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
		           JOIN pg_catalog.pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k.attnum
		           ORDER BY k.ord
		       ),
		       rt.relname,
		       ARRAY(
		           SELECT a.attname::text
		           FROM unnest(con.confkey) WITH ORDINALITY AS k(attnum, ord)
		           JOIN pg_catalog.pg_attribute a ON a.attrelid = con.confrelid AND a.attnum = k.attnum
		           ORDER BY k.ord
		       ),
		       con.confdeltype::text, con.confupdtype::text
		FROM pg_catalog.pg_constraint con
		JOIN pg_catalog.pg_class t ON t.oid = con.conrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_catalog.pg_class rt ON rt.oid = con.confrelid
		WHERE n.nspname = $1 AND con.contype = 'f'
		ORDER BY t.relname, con.conname`

	queryChecks = `
		SELECT t.relname, con.conname, pg_catalog.pg_get_constraintdef(con.oid, true)
		FROM pg_catalog.pg_constraint con
		JOIN pg_catalog.pg_class t ON t.oid = con.conrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
		WHERE n.nspname = $1 AND con.contype = 'c'
		ORDER BY t.relname, con.conname`
)

// BatchSender is satisfied by *pgxpool.Pool, *pgxpool.Conn and *pgx.Conn.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Reader loads table metadata from pg_catalog.
// Safe for concurrent use when the underlying BatchSender is.
type Reader struct {
	db BatchSender
}

// NewReader creates a Reader. Panics if db is nil.
func NewReader(db BatchSender) *Reader {
	if db == nil {
		panic("db cannot be nil")
	}
	return &Reader{db: db}
}

// Load reads every base table of schemaName in a single round trip.
// Partitions are folded into their parent table and not listed.
func (r *Reader) Load(ctx context.Context, schemaName string) (*Snapshot, error) {
	batch := &pgx.Batch{}
	for _, q := range []string{queryTables, queryColumns, queryIndexes, queryForeignKeys, queryChecks} {
		batch.Queue(q, schemaName)
	}

	results := r.db.SendBatch(ctx, batch)
	snap := NewSnapshot(schemaName)

	steps := []struct {
		what string
		scan func(pgx.Rows, *Snapshot) error
	}{
		{"tables", scanTables},
		{"columns", scanColumns},
		{"indexes", scanIndexes},
		{"foreign keys", scanForeignKeys},
		{"check constraints", scanChecks},
	}

	for _, step := range steps {
		rows, err := results.Query()
		if err != nil {
			results.Close()
			return nil, fmt.Errorf("failed to read %s of schema %q: %w", step.what, schemaName, err)
		}
		if err := readAll(rows, snap, step.scan); err != nil {
			results.Close()
			return nil, fmt.Errorf("failed to read %s of schema %q: %w", step.what, schemaName, err)
		}
	}

	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to complete catalog batch: %w", err)
	}
	return snap, nil
}

func readAll(rows pgx.Rows, snap *Snapshot, scan func(pgx.Rows, *Snapshot) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows, snap); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanTables(rows pgx.Rows, snap *Snapshot) error {
	var name, comment string
	if err := rows.Scan(&name, &comment); err != nil {
		return err
	}
	snap.table(name).Comment = comment
	return nil
}

func scanColumns(rows pgx.Rows, snap *Snapshot) error {
	var table string
	var col Column
	if err := rows.Scan(&table, &col.Name, &col.Type, &col.NotNull, &col.Default, &col.PrimaryKey, &col.Comment); err != nil {
		return err
	}
	if t, ok := snap.Tables[table]; ok {
		t.Columns = append(t.Columns, col)
	}
	return nil
}

func scanIndexes(rows pgx.Rows, snap *Snapshot) error {
	var table string
	var idx Index
	if err := rows.Scan(&table, &idx.Name, &idx.Unique, &idx.Method, &idx.Columns, &idx.Where); err != nil {
		return err
	}
	if t, ok := snap.Tables[table]; ok {
		t.Indexes = append(t.Indexes, idx)
	}
	return nil
}

func scanForeignKeys(rows pgx.Rows, snap *Snapshot) error {
	var table, onDelete, onUpdate string
	var fk ForeignKey
	if err := rows.Scan(&table, &fk.Name, &fk.Columns, &fk.RefTable, &fk.RefColumns, &onDelete, &onUpdate); err != nil {
		return err
	}
	fk.OnDelete = referentialAction(onDelete)
	fk.OnUpdate = referentialAction(onUpdate)
	if t, ok := snap.Tables[table]; ok {
		t.ForeignKeys = append(t.ForeignKeys, fk)
	}
	return nil
}

func scanChecks(rows pgx.Rows, snap *Snapshot) error {
	var table, def string
	var check CheckConstraint
	if err := rows.Scan(&table, &check.Name, &def); err != nil {
		return err
	}
	check.Expression = checkExpression(def)
	if t, ok := snap.Tables[table]; ok {
		t.CheckConstraints = append(t.CheckConstraints, check)
	}
	return nil
}

// referentialAction decodes pg_constraint.confdeltype/confupdtype.
func referentialAction(code string) string {
	switch code {
	case "c":
		return "cascade"
	case "n":
		return "nullify"
	case "d":
		return "set default"
	case "r":
		return "restrict"
	default:
		return ""
	}
}

// checkExpression strips "CHECK", NOT VALID and the outer parentheses from
// a constraint definition.
func checkExpression(def string) string {
	def = strings.TrimSpace(def)
	def = strings.TrimSuffix(def, " NOT VALID")
	def = strings.TrimSpace(strings.TrimPrefix(def, "CHECK"))
	if wrapsWhole(def) {
		def = def[1 : len(def)-1]
	}
	return def
}

// wrapsWhole reports whether s starts with "(" whose matching ")" is the
// last byte.
func wrapsWhole(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 && i < len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}
