package sqlite3adapter

import (
	"database/sql"
	"fmt"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/mgessner/canopy/store/sqlstore"
)

const (
	documentsTableCreateStmt = `CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL)`
	documentUpsertStmt = `INSERT OR REPLACE INTO documents (name, data) VALUES (?, ?)`
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and a limit for
open connections (0 for no limit) and returns an
sqlstore.Adapter that works on the file's database or an error
if it fails to open as an sqlite3 database.
*/
func New(path string, maxConns int) (sqlstore.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)
	return &adapter{db}, nil
}

func (a *adapter) CreateDocumentsTable() error {
	_, err := a.db.Exec(documentsTableCreateStmt)
	if err != nil {
		return fmt.Errorf("running documents creation statement: %v", err)
	}
	return nil
}

func (a *adapter) PutDocument(name string, doc []byte) error {
	_, err := a.db.Exec(documentUpsertStmt, name, doc)
	return err
}

func (a *adapter) GetDocument(name string) ([]byte, bool, error) {
	var data []byte
	err := a.db.QueryRow(`SELECT data FROM documents WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (a *adapter) ListDocuments() ([]string, error) {
	rows, err := a.db.Query(`SELECT name FROM documents ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (a *adapter) DeleteDocument(name string) error {
	_, err := a.db.Exec(`DELETE FROM documents WHERE name = ?`, name)
	return err
}

func (a *adapter) Close() error {
	return a.db.Close()
}
