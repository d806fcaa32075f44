// Package database scans relational and document stores with the same
// detector pipeline used for files. Every (table, column) pair — or
// collection — becomes a pseudo-file whose text is scanned by the
// engine; row numbers surface as line numbers.
package database

import (
	"fmt"
	"strings"
)

// Type enumerates the supported database kinds.
type Type string

const (
	TypePostgreSQL Type = "postgres"
	TypeMySQL      Type = "mysql"
	TypeMongoDB    Type = "mongodb"
)

// ParseType normalizes a user-supplied database type string.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "postgres", "postgresql", "pg":
		return TypePostgreSQL, nil
	case "mysql":
		return TypeMySQL, nil
	case "mongo", "mongodb":
		return TypeMongoDB, nil
	}
	return "", fmt.Errorf("unknown database type: %q (supported: postgres, mysql, mongodb)", s)
}

// Options controls what gets scanned.
type Options struct {
	// IncludeTables restricts scanning to these tables/collections
	// (empty = all).
	IncludeTables []string
	// ExcludeTables skips these tables/collections.
	ExcludeTables []string
	// RowLimit caps rows (or documents) read per table; 0 = driver
	// default of 10000.
	RowLimit int
	// SamplePercent, when > 0 on PostgreSQL, samples the table with
	// TABLESAMPLE SYSTEM instead of reading it fully.
	SamplePercent float64
}

// DefaultRowLimit bounds per-table reads when no limit is configured.
const DefaultRowLimit = 10000

func (o Options) rowLimit() int {
	if o.RowLimit > 0 {
		return o.RowLimit
	}
	return DefaultRowLimit
}

// includeTable applies the include/exclude filters.
func (o Options) includeTable(name string) bool {
	for _, excluded := range o.ExcludeTables {
		if strings.EqualFold(excluded, name) {
			return false
		}
	}
	if len(o.IncludeTables) == 0 {
		return true
	}
	for _, included := range o.IncludeTables {
		if strings.EqualFold(included, name) {
			return true
		}
	}
	return false
}

// PseudoPath is the per-column pseudo-file identifier.
func PseudoPath(table, column string) string {
	return table + ":" + column
}
