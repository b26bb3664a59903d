package service

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"blockgen"
	"blockgen/internal/api/models"
	"blockgen/pkg"

	"github.com/rs/zerolog"
)

// exportColumns is the layout every export table must provide
var exportColumns = []string{"pass_id", "project_id", "backend", "code", "graph_hash", "created_at"}

// ExportService copies artifacts into an external SQL table
type ExportService struct {
	config  blockgen.ExportConfig
	open    func(ctx context.Context, dialect pkg.SQLDialect, dsn string) (*sql.DB, error)
	columns func(ctx context.Context, dsn, table string) ([]string, error)
	logger  zerolog.Logger
}

func NewExportService() *ExportService {
	return &ExportService{
		config:  blockgen.GetConfig().ExportConfig,
		open:    pkg.OpenSQL,
		columns: pkg.PostgresTableColumns,
		logger:  blockgen.Logger,
	}
}

// Target resolves the dialect and table an export goes to. table overrides
// the configured table when not empty.
func (slf *ExportService) Target(table string) (pkg.SQLDialect, string, error) {
	if slf.config.DSN == "" {
		return "", "", ErrExportDisabled
	}
	if table == "" {
		table = slf.config.Table
	}
	return pkg.SQLDialect(slf.config.Dialect), table, nil
}

// Export inserts the artifact into the target table
func (slf *ExportService) Export(ctx context.Context, artifact models.Artifact, table string) (pkg.SQLDialect, string, error) {
	dialect, table, err := slf.Target(table)
	if err != nil {
		return "", "", err
	}

	statement, err := pkg.BuildInsert(dialect, table, exportColumns)
	if err != nil {
		return "", "", err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if dialect == pkg.DialectPostgres {
		if err := slf.checkPostgresTable(ctx, table); err != nil {
			return "", "", err
		}
	}

	db, err := slf.open(ctx, dialect, slf.config.DSN)
	if err != nil {
		slf.logger.Error().Err(err).Str("dialect", string(dialect)).Msg("Failed to open export database")
		return "", "", err
	}
	defer db.Close()

	createdAt := artifact.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if _, err := db.ExecContext(ctx, statement,
		artifact.PassID, artifact.ProjectID, artifact.Backend, artifact.Code, artifact.GraphHash, createdAt,
	); err != nil {
		slf.logger.Error().Err(err).Str("table", table).Msg("Failed to export artifact")
		return "", "", fmt.Errorf("failed to export artifact: %w", err)
	}

	slf.logger.Info().
		Uint("artifactId", artifact.ID).
		Str("dialect", string(dialect)).
		Str("table", table).
		Msg("Artifact exported")
	return dialect, table, nil
}

// checkPostgresTable fails early with a readable message when the target
// table is missing or lacks a column
func (slf *ExportService) checkPostgresTable(ctx context.Context, table string) error {
	columns, err := slf.columns(ctx, slf.config.DSN, table)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return fmt.Errorf("export table %q does not exist", table)
	}
	for _, want := range exportColumns {
		if !slices.Contains(columns, want) {
			return fmt.Errorf("export table %q has no column %q", table, want)
		}
	}
	return nil
}
