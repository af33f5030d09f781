/*
Package databasetest provides migrated in-memory databases for tests.
*/
package databasetest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/adampresley/anleague/pkg/database"
	"github.com/rfberaldo/sqlz"
)

var counter atomic.Int64

// New returns a fresh, migrated in-memory database private to the caller.
func New(t testing.TB) *sqlz.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:anleague-test-%d?mode=memory&cache=shared", counter.Add(1))

	db, err := database.Connect(dsn)
	if err != nil {
		t.Fatalf("error creating test database: %v", err)
	}

	return db
}
