package db

import (
	"database/sql"
	"fmt"
	"sync/atomic"
)

var testDBSeq atomic.Int64

// OpenForTesting opens a fresh in-memory database with migrations applied.
// Each call gets its own database; cache=shared keeps the connection pool
// pointed at the same memory instance.
func OpenForTesting() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=on", testDBSeq.Add(1))
	return open(dsn)
}
