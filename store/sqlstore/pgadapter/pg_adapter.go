package pgadapter

import (
	"database/sql"
	"fmt"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
	"github.com/mgessner/canopy/store/sqlstore"
)

const (
	documentsTableCreateStmt = `CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		data BYTEA NOT NULL)`
	documentUpsertStmt = `INSERT INTO documents (name, data) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data`
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL connection URL and a limit for open
connections (0 for no limit) and returns an sqlstore.Adapter
that works on the URL's database or an error if it cannot be
opened.
*/
func New(connectionURL string, maxConns int) (sqlstore.Adapter, error) {
	db, err := sql.Open("postgres", connectionURL)
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
	err := a.db.QueryRow(`SELECT data FROM documents WHERE name = $1`, name).Scan(&data)
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
	_, err := a.db.Exec(`DELETE FROM documents WHERE name = $1`, name)
	return err
}

func (a *adapter) Close() error {
	return a.db.Close()
}
