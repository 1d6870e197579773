/*
Package redisstore provides an implementation of store.Store
that uses a redis DB as backend.
*/
package redisstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgessner/canopy/store"
	"gopkg.in/redis.v5"
)

type redisStore struct {
	rc     *redis.Client
	prefix string
}

// New builds a store.Store backed by a redis DB, keying every
// document under the given prefix.
func New(rc *redis.Client, prefix string) store.Store {
	return &redisStore{rc, prefix}
}

func (rs *redisStore) Put(ctx context.Context, name string, doc []byte) error {
	_, err := rs.rc.Set(rs.keyFor(name), doc, 0).Result()
	if err != nil {
		return fmt.Errorf("storing document %q in redis: %v", name, err)
	}
	return nil
}

func (rs *redisStore) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := rs.rc.Get(rs.keyFor(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving document %q from redis: %v", name, err)
	}
	return data, nil
}

func (rs *redisStore) List(ctx context.Context) ([]string, error) {
	keys, err := rs.rc.Keys(rs.keyFor("*")).Result()
	if err != nil {
		return nil, fmt.Errorf("listing documents in redis: %v", err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, rs.keyFor("")))
	}
	return names, nil
}

func (rs *redisStore) Delete(ctx context.Context, name string) error {
	_, err := rs.rc.Del(rs.keyFor(name)).Result()
	if err != nil {
		return fmt.Errorf("deleting document %q from redis: %v", name, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}
