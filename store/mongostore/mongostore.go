/*
Package mongostore provides an implementation of store.Store
that uses a MongoDB database as backend.
*/
package mongostore

import (
	"context"
	"fmt"

	"github.com/mgessner/canopy/store"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const documentsCollectionName = "documents"

type mongostore struct {
	session *mgo.Session
}

type mongoDocument struct {
	Name string `bson:"name"`
	Data []byte `bson:"data"`
}

/*
Open takes a MongoDB database session and returns a store.Store
that works on the default database for that session, or an error
if the documents collection cannot be indexed.
*/
func Open(ctx context.Context, session *mgo.Session) (store.Store, error) {
	ms := &mongostore{session}
	err := ms.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func (ms *mongostore) Put(ctx context.Context, name string, doc []byte) error {
	_, err := ms.collection().Upsert(bson.M{"name": name}, &mongoDocument{Name: name, Data: doc})
	if err != nil {
		return fmt.Errorf("storing document %q in mongodb: %v", name, err)
	}
	return nil
}

func (ms *mongostore) Get(ctx context.Context, name string) ([]byte, error) {
	doc := &mongoDocument{}
	err := ms.collection().Find(bson.M{"name": name}).One(doc)
	if err == mgo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving document %q from mongodb: %v", name, err)
	}
	return doc.Data, nil
}

func (ms *mongostore) List(ctx context.Context) ([]string, error) {
	var names []string
	err := ms.collection().Find(nil).Sort("name").Distinct("name", &names)
	if err != nil {
		return nil, fmt.Errorf("listing documents in mongodb: %v", err)
	}
	return names, nil
}

func (ms *mongostore) Delete(ctx context.Context, name string) error {
	err := ms.collection().Remove(bson.M{"name": name})
	if err != nil && err != mgo.ErrNotFound {
		return fmt.Errorf("deleting document %q from mongodb: %v", name, err)
	}
	return nil
}

func (ms *mongostore) Close(ctx context.Context) error {
	ms.session.Close()
	return nil
}

func (ms *mongostore) collection() *mgo.Collection {
	return ms.session.DB("").C(documentsCollectionName)
}

func (ms *mongostore) ensureIndexes() error {
	err := ms.collection().EnsureIndex(mgo.Index{
		Key:    []string{"name"},
		Unique: true,
	})
	if err != nil {
		return fmt.Errorf("ensuring index on %s collection: %v", documentsCollectionName, err)
	}
	return nil
}
