/*
Package sqlstore provides an implementation of store.Store with
a SQL database as backend, against an Adapter interface that
absorbs the syntax differences between database engines. The
pgadapter and sqlite3adapter subpackages provide adapters for
PostgreSQL and SQLite3.
*/
package sqlstore

import (
	"context"
	"fmt"

	"github.com/mgessner/canopy/store"
)

/*
Adapter is an interface providing the methods needed to
implement a Store with a database backend.
*/
type Adapter interface {
	CreateDocumentsTable() error

	PutDocument(name string, doc []byte) error
	GetDocument(name string) ([]byte, bool, error)
	ListDocuments() ([]string, error)
	DeleteDocument(name string) error

	Close() error
}

type sqlStore struct {
	adapter Adapter
}

/*
Open takes an Adapter and returns a store.Store backed by its
database, ensuring the documents table exists. An error is
returned if the table cannot be created.
*/
func Open(ctx context.Context, adapter Adapter) (store.Store, error) {
	err := adapter.CreateDocumentsTable()
	if err != nil {
		return nil, fmt.Errorf("preparing documents table: %v", err)
	}
	return &sqlStore{adapter}, nil
}

func (ss *sqlStore) Put(ctx context.Context, name string, doc []byte) error {
	err := ss.adapter.PutDocument(name, doc)
	if err != nil {
		return fmt.Errorf("storing document %q: %v", name, err)
	}
	return nil
}

func (ss *sqlStore) Get(ctx context.Context, name string) ([]byte, error) {
	doc, ok, err := ss.adapter.GetDocument(name)
	if err != nil {
		return nil, fmt.Errorf("retrieving document %q: %v", name, err)
	}
	if !ok {
		return nil, nil
	}
	return doc, nil
}

func (ss *sqlStore) List(ctx context.Context) ([]string, error) {
	names, err := ss.adapter.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %v", err)
	}
	return names, nil
}

func (ss *sqlStore) Delete(ctx context.Context, name string) error {
	err := ss.adapter.DeleteDocument(name)
	if err != nil {
		return fmt.Errorf("deleting document %q: %v", name, err)
	}
	return nil
}

func (ss *sqlStore) Close(ctx context.Context) error {
	return ss.adapter.Close()
}
