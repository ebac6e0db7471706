// Package database persists global script variables in SQLite so they
// survive across sessions of the host. Numbers are stored by their raw
// scaled value, which keeps persistence bit-exact.
package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"starscript/internal/log"
	"starscript/internal/scripting/number"
	"starscript/internal/scripting/value"
)

const schema = `
CREATE TABLE IF NOT EXISTS global_variables (
	name TEXT PRIMARY KEY,
	type INTEGER NOT NULL,
	raw  INTEGER NOT NULL DEFAULT 0,
	str  TEXT NOT NULL DEFAULT ''
);`

// Store is a SQLite-backed variable store.
type Store struct {
	db       *sql.DB
	filename string

	saveStmt *sql.Stmt
	loadStmt *sql.Stmt
}

// Open opens (creating if necessary) a store at the given path.
func Open(filename string) (*Store, error) {
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	saveStmt, err := db.Prepare(`
		INSERT INTO global_variables (name, type, raw, str) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET type = excluded.type, raw = excluded.raw, str = excluded.str;`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare save statement: %w", err)
	}

	loadStmt, err := db.Prepare(`SELECT type, raw, str FROM global_variables WHERE name = ?;`)
	if err != nil {
		saveStmt.Close()
		db.Close()
		return nil, fmt.Errorf("failed to prepare load statement: %w", err)
	}

	log.Debug("variable store opened", "filename", filename)
	return &Store{db: db, filename: filename, saveStmt: saveStmt, loadStmt: loadStmt}, nil
}

// Close releases the store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	s.saveStmt.Close()
	s.loadStmt.Close()
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveVariable writes one variable.
func (s *Store) SaveVariable(name string, v value.Value) error {
	if _, err := s.saveStmt.Exec(name, int(v.Type()), rawOf(v), strOf(v)); err != nil {
		return fmt.Errorf("failed to save variable %q: %w", name, err)
	}
	return nil
}

// LoadVariable reads one variable. The second result is false when the
// name has never been saved.
func (s *Store) LoadVariable(name string) (value.Value, bool, error) {
	var typ int
	var raw int64
	var str string
	err := s.loadStmt.QueryRow(name).Scan(&typ, &raw, &str)
	if err == sql.ErrNoRows {
		return value.Value{}, false, nil
	}
	if err != nil {
		return value.Value{}, false, fmt.Errorf("failed to load variable %q: %w", name, err)
	}
	return decode(typ, raw, str), true, nil
}

// LoadAll reads every stored variable.
func (s *Store) LoadAll() (map[string]value.Value, error) {
	rows, err := s.db.Query(`SELECT name, type, raw, str FROM global_variables;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query variables: %w", err)
	}
	defer rows.Close()

	vars := make(map[string]value.Value)
	for rows.Next() {
		var name, str string
		var typ int
		var raw int64
		if err := rows.Scan(&name, &typ, &raw, &str); err != nil {
			return nil, fmt.Errorf("failed to scan variable row: %w", err)
		}
		vars[name] = decode(typ, raw, str)
	}
	return vars, rows.Err()
}

// SaveState writes a set of variables in one transaction.
func (s *Store) SaveState(vars map[string]value.Value) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt := tx.Stmt(s.saveStmt)
	for name, v := range vars {
		if _, err := stmt.Exec(name, int(v.Type()), rawOf(v), strOf(v)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save variable %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit variables: %w", err)
	}
	log.Debug("saved variable state", "count", len(vars))
	return nil
}

func rawOf(v value.Value) int64 {
	if v.IsNumber() {
		return v.Number().Raw()
	}
	return 0
}

func strOf(v value.Value) string {
	if v.IsString() {
		return v.Str()
	}
	return ""
}

func decode(typ int, raw int64, str string) value.Value {
	if value.Type(typ) == value.TypeString {
		return value.NewString(str)
	}
	return value.NewNumber(number.FromRaw(raw))
}
