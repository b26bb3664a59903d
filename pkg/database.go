package pkg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// SQLDialect names a database an artifact can be exported to
type SQLDialect string

const (
	DialectPostgres  SQLDialect = "postgres"
	DialectMySQL     SQLDialect = "mysql"
	DialectSQLServer SQLDialect = "sqlserver"
)

var driverNames = map[SQLDialect]string{
	DialectPostgres:  "postgres",
	DialectMySQL:     "mysql",
	DialectSQLServer: "sqlserver",
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenSQL opens and pings a database/sql connection for the dialect
func OpenSQL(ctx context.Context, dialect SQLDialect, dsn string) (*sql.DB, error) {
	driver, ok := driverNames[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", dialect, err)
	}
	return db, nil
}

// BuildInsert renders a parameterized INSERT for the dialect. The
// statement is checked with the SQL parser before being rewritten for the
// target, so only a single insert into the named table can come out.
func BuildInsert(dialect SQLDialect, table string, columns []string) (string, error) {
	if _, ok := driverNames[dialect]; !ok {
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
	if len(columns) == 0 {
		return "", errors.New("no columns to insert")
	}
	for _, name := range append([]string{table}, columns...) {
		if !identifier.MatchString(name) {
			return "", fmt.Errorf("invalid identifier %q", name)
		}
	}

	canonical := renderInsert(table, columns, func(s string) string { return "`" + s + "`" }, func(int) string { return "?" })
	if err := checkInsert(canonical, table, len(columns)); err != nil {
		return "", err
	}

	switch dialect {
	case DialectPostgres:
		return renderInsert(table, columns, func(s string) string { return `"` + s + `"` }, func(i int) string { return fmt.Sprintf("$%d", i) }), nil
	case DialectSQLServer:
		return renderInsert(table, columns, func(s string) string { return "[" + s + "]" }, func(i int) string { return fmt.Sprintf("@p%d", i) }), nil
	}
	return canonical, nil
}

func renderInsert(table string, columns []string, quote func(string) string, placeholder func(int) string) string {
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
		params[i] = placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(table), strings.Join(quoted, ", "), strings.Join(params, ", "))
}

func checkInsert(statement, table string, columns int) error {
	stmt, err := sqlparser.Parse(statement)
	if err != nil {
		return fmt.Errorf("failed to parse export statement: %w", err)
	}
	insert, ok := stmt.(*sqlparser.Insert)
	if !ok {
		return fmt.Errorf("export statement is not an insert: %s", statement)
	}
	if got := insert.Table.Name.String(); got != table {
		return fmt.Errorf("export statement targets %q instead of %q", got, table)
	}
	if len(insert.Columns) != columns {
		return fmt.Errorf("export statement has %d columns, expected %d", len(insert.Columns), columns)
	}
	return nil
}

// PostgresTableColumns lists the columns of a public table, in order. An
// empty result means the table does not exist.
func PostgresTableColumns(ctx context.Context, dsn, table string) ([]string, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, `
        SELECT column_name
        FROM information_schema.columns
        WHERE table_schema = 'public' AND table_name = $1
        ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return columns, nil
}
