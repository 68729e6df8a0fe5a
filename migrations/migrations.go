// Package migrations holds the schema as SQL files compiled into the binary.
//
// Each file is applied once, in name order. Everything after a
// "-- +migrate Down" line is ignored when applying.
package migrations

import (
	"bufio"
	"database/sql"
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

const downMarker = "-- +migrate Down"

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Get(dest any, query string, args ...any) error
}

// Apply runs every migration not yet recorded in schema_migrations and
// returns the names it applied.
func Apply(db DB) ([]string, error) {
	return apply(db, files)
}

// Pending lists the migrations Apply would run, in order.
func Pending(db DB) ([]string, error) {
	return pending(db, files)
}

func pending(db DB, source fs.FS) ([]string, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (filename text primary key, applied_at timestamptz default now())`); err != nil {
		return nil, err
	}
	names, err := fs.Glob(source, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var todo []string
	for _, name := range names {
		var exists bool
		if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, name); err != nil {
			return nil, err
		}
		if !exists {
			todo = append(todo, name)
		}
	}
	return todo, nil
}

func apply(db DB, source fs.FS) ([]string, error) {
	names, err := pending(db, source)
	if err != nil {
		return nil, err
	}
	var applied []string
	for _, name := range names {
		content, err := fs.ReadFile(source, name)
		if err != nil {
			return applied, err
		}
		for _, stmt := range splitSQL(upSection(string(content))) {
			if _, err := db.Exec(stmt); err != nil {
				return applied, &Error{File: name, Err: err}
			}
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
			return applied, err
		}
		applied = append(applied, name)
	}
	return applied, nil
}

type Error struct {
	File string
	Err  error
}

func (e *Error) Error() string {
	return "apply " + e.File + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func upSection(content string) string {
	up, _, _ := strings.Cut(content, downMarker)
	return up
}

// splitSQL breaks a script into statements at lines containing ";".
// Comment lines are dropped.
func splitSQL(sqlText string) []string {
	var statements []string
	var current strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(sqlText))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		current.WriteString(line)
		current.WriteRune('\n')
		if strings.Contains(line, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	var out []string
	for _, stmt := range statements {
		if strings.TrimSpace(stmt) != "" {
			out = append(out, stmt)
		}
	}
	return out
}
