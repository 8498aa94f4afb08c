package table

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - columns, meta and spectrum tables
const sqliteSchemaVersion = 1

const sqliteDataTable = "spectrum"

// sqliteRowKey orders the rows of the data table. Tables may not use it as
// a column name.
const sqliteRowKey = "_g4_row"

// WriteSQLite writes t to a new SQLite file at path, replacing any existing
// file. The file holds exactly one table. The database is built next to
// path and renamed into place, so a failed write leaves path untouched.
func WriteSQLite(ctx context.Context, path string, t *Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.HasColumn(sqliteRowKey) {
		return fmt.Errorf("%w: column name %q is reserved in sqlite files", ErrInvalidTable, sqliteRowKey)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write sqlite: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write sqlite: %w", err)
	}

	if err := writeSQLiteFile(ctx, tmpPath, t); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write sqlite: replacing %s: %w", path, err)
	}
	return nil
}

func writeSQLiteFile(ctx context.Context, path string, t *Table) error {
	db, err := openSQLite(path, false)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := applySchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write sqlite: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	defs := []string{quoteIdent(sqliteRowKey) + " INTEGER PRIMARY KEY"}
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c.Name)
		defs = append(defs, cols[i]+" "+sqliteType(c.Type))
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO columns (position, name, datatype, unit, description) VALUES (?, ?, ?, ?, ?)`,
			i, c.Name, string(c.Type), c.Unit, c.Description,
		); err != nil {
			return fmt.Errorf("write sqlite: column %q: %w", c.Name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", sqliteDataTable, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("write sqlite: create data table: %w", err)
	}

	for i, m := range t.Meta {
		value, err := json.Marshal(m.Value)
		if err != nil {
			return fmt.Errorf("write sqlite: meta %q: %w", m.Key, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (position, key, value) VALUES (?, ?, ?)`, i, m.Key, string(value)); err != nil {
			return fmt.Errorf("write sqlite: meta %q: %w", m.Key, err)
		}
	}

	if len(t.Columns) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)+1), ", ")
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (%s)",
			sqliteDataTable, quoteIdent(sqliteRowKey), strings.Join(cols, ", "), placeholders))
		if err != nil {
			return fmt.Errorf("write sqlite: prepare insert: %w", err)
		}
		defer stmt.Close()

		args := make([]any, len(cols)+1)
		for i := 0; i < t.Len(); i++ {
			args[0] = i
			for j, c := range t.Columns {
				args[j+1] = sqliteValue(c, i)
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("write sqlite: row %d: %w", i+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write sqlite: commit: %w", err)
	}
	return nil
}

// ReadSQLite reads a table written by WriteSQLite.
func ReadSQLite(ctx context.Context, path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read sqlite: %w", err)
	}
	db, err := openSQLite(path, true)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return nil, fmt.Errorf("read sqlite: get user_version: %w", err)
	}
	if version > sqliteSchemaVersion {
		return nil, fmt.Errorf("%w: sqlite schema version %d is newer than %d", ErrUnsupportedFormat, version, sqliteSchemaVersion)
	}

	t := New()
	rows, err := db.QueryContext(ctx, `SELECT name, datatype, unit, description FROM columns ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("read sqlite: columns: %w", err)
	}
	for rows.Next() {
		c := &Column{}
		var typ string
		if err := rows.Scan(&c.Name, &typ, &c.Unit, &c.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("read sqlite: scan column: %w", err)
		}
		c.Type = DataType(typ)
		if c.Type == String {
			c.Strings = []string{}
		} else {
			c.Floats = []float64{}
		}
		t.Columns = append(t.Columns, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sqlite: columns: %w", err)
	}

	if err := readSQLiteRows(ctx, db, t); err != nil {
		return nil, err
	}
	if err := readSQLiteMeta(ctx, db, t); err != nil {
		return nil, err
	}
	return t, t.Validate()
}

func readSQLiteRows(ctx context.Context, db *sql.DB, t *Table) error {
	if len(t.Columns) == 0 {
		return nil
	}
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c.Name)
	}
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC", strings.Join(cols, ", "), sqliteDataTable, quoteIdent(sqliteRowKey)))
	if err != nil {
		return fmt.Errorf("read sqlite: rows: %w", err)
	}
	defer rows.Close()

	dest := make([]any, len(t.Columns))
	for rows.Next() {
		for i, c := range t.Columns {
			switch c.Type {
			case String:
				dest[i] = new(sql.NullString)
			case Int64:
				dest[i] = new(sql.NullInt64)
			default:
				dest[i] = new(sql.NullFloat64)
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("read sqlite: scan row: %w", err)
		}
		for i, c := range t.Columns {
			switch v := dest[i].(type) {
			case *sql.NullString:
				c.Strings = append(c.Strings, v.String)
			case *sql.NullInt64:
				if v.Valid {
					c.Floats = append(c.Floats, float64(v.Int64))
				} else {
					c.Floats = append(c.Floats, math.NaN())
				}
			case *sql.NullFloat64:
				if v.Valid {
					c.Floats = append(c.Floats, v.Float64)
				} else {
					c.Floats = append(c.Floats, math.NaN())
				}
			}
		}
	}
	return rows.Err()
}

func readSQLiteMeta(ctx context.Context, db *sql.DB, t *Table) error {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM meta ORDER BY position ASC`)
	if err != nil {
		return fmt.Errorf("read sqlite: meta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return fmt.Errorf("read sqlite: scan meta: %w", err)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return fmt.Errorf("read sqlite: meta %q: %w", key, err)
		}
		t.Meta = append(t.Meta, MetaItem{Key: key, Value: value})
	}
	return rows.Err()
}

// openSQLite opens the database and applies the required pragmas.
func openSQLite(path string, readOnly bool) (*sql.DB, error) {
	dsn := path
	if readOnly {
		dsn = "file:" + path + "?mode=ro"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if readOnly {
		return db, nil
	}
	pragmas := []string{
		"PRAGMA journal_mode = DELETE",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return db, nil
}

// applySchema creates the bookkeeping tables and stamps the schema version.
func applySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func sqliteType(t DataType) string {
	switch t {
	case Float64:
		return "REAL"
	case Int64:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

func sqliteValue(c *Column, i int) any {
	switch c.Type {
	case String:
		return c.Strings[i]
	case Int64:
		return int64(c.Floats[i])
	default:
		v := c.Floats[i]
		if math.IsNaN(v) {
			return nil
		}
		return v
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
