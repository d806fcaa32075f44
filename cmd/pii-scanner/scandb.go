package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/config"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/database"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/scanner"
)

func newScanDBCmd() *cobra.Command {
	var (
		configFile string
		overrides  config.CLIOverrides
		dbTypeFlag string
		connString string
		dbName     string
		rowLimit   int
	)

	cmd := &cobra.Command{
		Use:   "scan-db",
		Short: "Scan a relational or document database for PII",
		Long: `Scan the textual columns of a PostgreSQL or MySQL database, or the
string fields of a MongoDB database. Connections come from the
[database] config section, or from --type and --conn. Connection
strings may reference environment variables as ${VAR}.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg.MergeCLI(overrides)

			connections := collectConnections(cfg, dbTypeFlag, connString, dbName, rowLimit)
			if len(connections) == 0 {
				return fmt.Errorf("no database connections given (use --conn or the [database] config section)")
			}

			registry, err := buildRegistry(cfg)
			if err != nil {
				return err
			}
			engine := scanner.NewEngine(registry).
				EnableContext(!cfg.Scan.NoContext).
				ShowProgress(false)

			combined := []detection.FileResult{}
			for _, conn := range connections {
				results, err := scanConnection(cmd.Context(), engine, conn)
				if err != nil {
					log.Error().Str("connection", conn.Name).Err(err).Msg("database scan failed")
					combined = append(combined, detection.FileResultError(conn.Name, err.Error()))
					continue
				}
				combined = append(combined, results.Files...)
			}

			aggregated := detection.Aggregate(combined)
			filtered, err := applyConfidenceFilter(&aggregated, cfg)
			if err != nil {
				return err
			}
			if err := writeReport(cfg, filtered); err != nil {
				return err
			}

			if filtered.TotalMatches > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Configuration file (TOML)")
	flags.StringVarP(&overrides.Format, "format", "f", "", "Output format")
	flags.StringVarP(&overrides.Output, "output", "o", "", "Write the report to a file")
	flags.StringVar(&overrides.Countries, "countries", "", "Comma-separated ISO country codes")
	flags.StringVar(&overrides.MinConfidence, "min-confidence", "", "Minimum confidence to report")
	flags.BoolVar(&overrides.NoContext, "no-context", false, "Disable GDPR context analysis")
	flags.StringVar(&dbTypeFlag, "type", "", "Database type (postgres|mysql|mongodb)")
	flags.StringVar(&connString, "conn", "", "Connection string (supports ${VAR} expansion)")
	flags.StringVar(&dbName, "database", "", "Database name (MongoDB)")
	flags.IntVar(&rowLimit, "row-limit", 0, "Maximum rows/documents per table")

	return cmd
}

// collectConnections merges config-file connections with the ad-hoc
// one given by flags.
func collectConnections(cfg *config.Config, dbType, connString, dbName string, rowLimit int) []config.DatabaseConnection {
	var connections []config.DatabaseConnection
	if cfg.Database != nil {
		connections = append(connections, cfg.Database.Connections...)
	}
	if connString != "" {
		connections = append(connections, config.DatabaseConnection{
			Name:             "cli",
			ConnectionString: config.ExpandEnvString(connString),
			DBType:           dbType,
			DatabaseName:     dbName,
			RowLimit:         rowLimit,
		})
	}
	return connections
}

func scanConnection(ctx context.Context, engine *scanner.Engine, conn config.DatabaseConnection) (detection.ScanResults, error) {
	dbType, err := database.ParseType(conn.DBType)
	if err != nil {
		return detection.ScanResults{}, err
	}

	timeout := 5 * time.Minute
	if conn.TimeoutSeconds > 0 {
		timeout = time.Duration(conn.TimeoutSeconds) * time.Second
	}
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := database.Options{
		IncludeTables: conn.Tables,
		ExcludeTables: conn.ExcludeTables,
		RowLimit:      conn.RowLimit,
		SamplePercent: conn.SamplePercent,
	}

	switch dbType {
	case database.TypeMongoDB:
		mongoScanner, err := database.NewMongoScanner(scanCtx, conn.ConnectionString, conn.DatabaseName, engine)
		if err != nil {
			return detection.ScanResults{}, err
		}
		defer mongoScanner.Close(scanCtx)
		return mongoScanner.ScanDatabase(scanCtx, opts)

	default:
		sqlScanner, err := database.NewSQLScanner(scanCtx, dbType, conn.ConnectionString, engine)
		if err != nil {
			return detection.ScanResults{}, err
		}
		defer sqlScanner.Close()
		return sqlScanner.ScanDatabase(scanCtx, opts)
	}
}
