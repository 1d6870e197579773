/*
Package store defines storage for named model documents: raw serialized
boosters waiting to be compiled and the scoring modules compiled from
them. Backends over redis, MongoDB and SQL databases live in the
subpackages; this package provides the interface and an in-memory
implementation.
*/
package store

import (
	"context"
	"sort"
	"sync"
)

/*
Store is an interface to manage a store where named documents
can be saved, retrieved, listed and deleted.

All its methods take a context that may allow cancelling the
operation (thus forcing the return of an error) if the
implementation allows it.
*/
type Store interface {
	// Put takes a name and a document and saves the document
	// under the name, replacing any document previously saved
	// under it. It returns an error if the document cannot be
	// saved.
	Put(ctx context.Context, name string, doc []byte) error
	// Get takes a name and returns the document saved under it,
	// or nil if there is none, or an error if the store cannot
	// be queried.
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns the names of every document in the store or
	// an error if the store cannot be queried.
	List(ctx context.Context) ([]string, error)
	// Delete takes a name and removes the document saved under
	// it, if any. It returns an error if a document exists but
	// the deletion cannot be performed.
	Delete(ctx context.Context, name string) error
	// Close closes the store. Implementations should free any
	// resources in use and ensure pending changes are applied
	// before returning (unless the context expires). It returns
	// an error if the Close cannot be completed.
	Close(ctx context.Context) error
}

type memoryStore struct {
	docs map[string][]byte
	lock *sync.RWMutex
}

// NewMemoryStore returns an implementation of Store with the
// process memory space as underlying backend.
func NewMemoryStore() Store {
	return &memoryStore{
		docs: make(map[string][]byte),
		lock: &sync.RWMutex{},
	}
}

func (ms *memoryStore) Put(ctx context.Context, name string, doc []byte) error {
	return ms.withLock(ctx, func() error {
		stored := make([]byte, len(doc))
		copy(stored, doc)
		ms.docs[name] = stored
		return nil
	})
}

func (ms *memoryStore) Get(ctx context.Context, name string) ([]byte, error) {
	var doc []byte
	err := ms.withRLock(ctx, func() error {
		doc = ms.docs[name]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (ms *memoryStore) List(ctx context.Context) ([]string, error) {
	var names []string
	err := ms.withRLock(ctx, func() error {
		for name := range ms.docs {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (ms *memoryStore) Delete(ctx context.Context, name string) error {
	return ms.withLock(ctx, func() error {
		delete(ms.docs, name)
		return nil
	})
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (ms *memoryStore) withLock(ctx context.Context, f func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.lock.Lock()
	defer ms.lock.Unlock()
	return f()
}

func (ms *memoryStore) withRLock(ctx context.Context, f func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	return f()
}
