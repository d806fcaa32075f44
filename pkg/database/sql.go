package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Drivers register themselves with database/sql.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/rs/zerolog/log"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/scanner"
)

// SQLScanner scans PostgreSQL or MySQL databases. Table and column
// names are discovered from the information schema; each textual
// column becomes one pseudo-file whose lines are the row values.
type SQLScanner struct {
	db     *sql.DB
	dbType Type
	engine *scanner.Engine
}

// NewSQLScanner opens a connection for the given database type
// (TypePostgreSQL or TypeMySQL).
func NewSQLScanner(ctx context.Context, dbType Type, connString string, engine *scanner.Engine) (*SQLScanner, error) {
	var driver string
	switch dbType {
	case TypePostgreSQL:
		driver = "postgres"
	case TypeMySQL:
		driver = "mysql"
	default:
		return nil, fmt.Errorf("SQL scanner does not support %q", dbType)
	}

	db, err := sql.Open(driver, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", dbType, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", dbType, err)
	}

	return &SQLScanner{db: db, dbType: dbType, engine: engine}, nil
}

// Close releases the connection pool.
func (s *SQLScanner) Close() error {
	return s.db.Close()
}

// ListTables enumerates base tables from the information schema.
func (s *SQLScanner) ListTables(ctx context.Context) ([]string, error) {
	var query string
	switch s.dbType {
	case TypePostgreSQL:
		query = `SELECT table_name FROM information_schema.tables
			 WHERE table_schema = 'public' AND table_type = 'BASE TABLE'`
	case TypeMySQL:
		query = "SHOW TABLES"
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// ListColumns enumerates the column names of one table.
func (s *SQLScanner) ListColumns(ctx context.Context, table string) ([]string, error) {
	var query string
	switch s.dbType {
	case TypePostgreSQL:
		query = `SELECT column_name FROM information_schema.columns
			 WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position`
	case TypeMySQL:
		query = `SELECT column_name FROM information_schema.columns
			 WHERE table_name = ? AND table_schema = DATABASE() ORDER BY ordinal_position`
	}

	rows, err := s.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// ScanDatabase scans every included table and aggregates the results.
// A failing table contributes an error FileResult; the scan continues.
func (s *SQLScanner) ScanDatabase(ctx context.Context, opts Options) (detection.ScanResults, error) {
	start := time.Now()

	tables, err := s.ListTables(ctx)
	if err != nil {
		return detection.ScanResults{}, err
	}

	var results []detection.FileResult
	for _, table := range tables {
		if !opts.includeTable(table) {
			continue
		}

		tableResults, err := s.scanTable(ctx, table, opts)
		if err != nil {
			log.Warn().Str("table", table).Err(err).Msg("table scan failed")
			results = append(results, detection.FileResultError(table, err.Error()))
			continue
		}
		results = append(results, tableResults...)
	}

	scanResults := detection.Aggregate(results)
	scanResults.TotalTimeMs = uint64(time.Since(start).Milliseconds())
	return scanResults, nil
}

// scanTable reads the table once and produces one FileResult per
// column. Row N of a column appears as line N of its pseudo-file, so
// match line numbers are row numbers.
func (s *SQLScanner) scanTable(ctx context.Context, table string, opts Options) ([]detection.FileResult, error) {
	columns, err := s.ListColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, nil
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = s.quoteIdent(c)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), s.quoteIdent(table))
	if s.dbType == TypePostgreSQL && opts.SamplePercent > 0 {
		query += fmt.Sprintf(" TABLESAMPLE SYSTEM (%.2f)", opts.SamplePercent)
	}
	query += fmt.Sprintf(" LIMIT %d", opts.rowLimit())

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	defer rows.Close()

	// One text buffer per column; each row appends one line.
	buffers := make([]strings.Builder, len(columns))
	values := make([]sql.NullString, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if v.Valid {
				// Flatten embedded newlines so line numbers stay
				// aligned with row numbers.
				buffers[i].WriteString(strings.ReplaceAll(v.String, "\n", " "))
			}
			buffers[i].WriteByte('\n')
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results := make([]detection.FileResult, 0, len(columns))
	for i, column := range columns {
		results = append(results, s.engine.ScanText(PseudoPath(table, column), buffers[i].String()))
	}
	return results, nil
}

func (s *SQLScanner) quoteIdent(name string) string {
	switch s.dbType {
	case TypeMySQL:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	default:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}
