package recording

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// SQLiteBackend writes report entries into a SQLite database.
type SQLiteBackend struct {
	*sql.DB

	dbName    string
	entries   []ReportEntry
	batchSize int
}

// NewSQLiteBackend creates a backend that stores report entries in
// path + ".sqlite3". An empty path picks a unique name.
func NewSQLiteBackend(path string) *SQLiteBackend {
	b := &SQLiteBackend{
		dbName:    path,
		batchSize: 100000,
	}

	b.init()

	atexit.Register(func() { b.Flush() })

	return b
}

func (b *SQLiteBackend) init() {
	if b.dbName == "" {
		b.dbName = "callprof_report_" + xid.New().String()
	}

	filename := b.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	b.DB = db

	b.mustExecute(`CREATE TABLE profile_report (
	Rank INTEGER,
	Function TEXT,
	Calls INTEGER,
	ElapsedSec REAL,
	DefinedAt TEXT
);`)
}

// AddEntry buffers one report row, flushing when the batch is full.
func (b *SQLiteBackend) AddEntry(entry ReportEntry) {
	b.entries = append(b.entries, entry)

	if len(b.entries) >= b.batchSize {
		b.Flush()
	}
}

// Flush writes all buffered rows in one transaction.
func (b *SQLiteBackend) Flush() {
	if len(b.entries) == 0 {
		return
	}

	b.mustExecute("BEGIN TRANSACTION")
	defer b.mustExecute("COMMIT TRANSACTION")

	stmt, err := b.Prepare(
		"INSERT INTO profile_report VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for _, entry := range b.entries {
		_, err := stmt.Exec(
			entry.Rank,
			entry.Function,
			entry.Calls,
			entry.ElapsedSec,
			entry.DefinedAt,
		)
		if err != nil {
			panic(err)
		}
	}

	b.entries = nil
}

func (b *SQLiteBackend) mustExecute(query string) sql.Result {
	res, err := b.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}
