package database

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

var (
	//go:embed sql-migrations
	sqlMigrationsFs embed.FS

	registerBinds sync.Once
)

/*
Connect opens the SQLite database at dsn and applies the embedded
migrations.
*/
func Connect(dsn string) (*sqlz.DB, error) {
	var (
		err error
		db  *sqlz.DB
	)

	if err = ensureDataDir(dsn); err != nil {
		return nil, err
	}

	registerBinds.Do(func() {
		binds.Register("sqlite", binds.BindByDriver("sqlite3"))
	})

	if db, err = sqlz.Connect("sqlite", dsn); err != nil {
		return nil, fmt.Errorf("error connecting to database '%s': %w", dsn, err)
	}

	if err = Migrate(db); err != nil {
		_ = Close(db)
		return nil, err
	}

	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *sqlz.DB) error {
	if closer, ok := any(db).(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// ensureDataDir creates the directory of a file-backed DSN.
func ensureDataDir(dsn string) error {
	name, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")

	if name == "" || name == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return nil
	}

	dir := filepath.Dir(name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating data directory '%s': %w", dir, err)
	}

	return nil
}

/*
Migrate runs every "commit" script in name order. Scripts are written to be
re-runnable; duplicate column errors from ALTER TABLE are ignored.
*/
func Migrate(db *sqlz.DB) error {
	var (
		err  error
		dirs []fs.DirEntry
		b    []byte
	)

	if dirs, err = sqlMigrationsFs.ReadDir("sql-migrations"); err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}

	for _, d := range dirs {
		if d.IsDir() || !strings.HasPrefix(d.Name(), "commit") {
			continue
		}

		if b, err = fs.ReadFile(sqlMigrationsFs, path.Join("sql-migrations", d.Name())); err != nil {
			return fmt.Errorf("error reading migration %s: %w", d.Name(), err)
		}

		if err = runSqlScript(db, b); err != nil && !isIgnorableError(err) {
			return fmt.Errorf("error running migration %s: %w", d.Name(), err)
		}
	}

	return nil
}

func runSqlScript(db *sqlz.DB, script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := db.Exec(ctx, string(script))
	return err
}

func isIgnorableError(err error) bool {
	return strings.Contains(err.Error(), "duplicate column")
}
