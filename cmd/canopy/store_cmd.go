package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mgessner/canopy/store"
	"github.com/mgessner/canopy/store/mongostore"
	"github.com/mgessner/canopy/store/redisstore"
	"github.com/mgessner/canopy/store/sqlstore"
	"github.com/mgessner/canopy/store/sqlstore/pgadapter"
	"github.com/mgessner/canopy/store/sqlstore/sqlite3adapter"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/redis.v5"
)

type storeCmdConfig struct {
	*rootCmdConfig
	storeURL   string
	name       string
	file       string
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func storeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &storeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage boosters and compiled modules on a model store",
		Long:  `Push, pull, list and delete serialized boosters and compiled scoring modules on a model store backed by redis, MongoDB, PostgreSQL or SQLite3`,
	}
	cmd.PersistentFlags().StringVarP(&(config.storeURL), "store", "s", "", "store to work against: a redis://, mongodb://, postgresql:// URL or a path to an SQLite3 (.db) file (required)")
	cmd.AddCommand(pushCmd(config), pullCmd(config), listCmd(config), deleteCmd(config))
	return cmd
}

func pushCmd(config *storeCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Save a document on the store",
		Run: func(cmd *cobra.Command, args []string) {
			config.exitOnInvalid(true)
			doc, err := config.readDocument()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			s := config.openStoreOrExit()
			defer s.Close(config.Context())
			config.Logf("Saving %s (%d bytes)...", config.name, len(doc))
			err = s.Put(config.Context(), config.name, doc)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Done")
		},
	}
	cmd.Flags().StringVarP(&(config.name), "name", "n", "", "name to save the document under (required)")
	cmd.Flags().StringVarP(&(config.file), "file", "f", "", "path to the document to push (defaults to STDIN)")
	return cmd
}

func pullCmd(config *storeCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Retrieve a document from the store",
		Run: func(cmd *cobra.Command, args []string) {
			config.exitOnInvalid(true)
			s := config.openStoreOrExit()
			defer s.Close(config.Context())
			doc, err := s.Get(config.Context(), config.name)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			if doc == nil {
				fmt.Fprintf(os.Stderr, "no document named %q on the store\n", config.name)
				os.Exit(5)
			}
			err = config.writeDocument(doc)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.name), "name", "n", "", "name of the document to pull (required)")
	cmd.Flags().StringVarP(&(config.file), "output", "o", "", "path to a file to write the document to (defaults to STDOUT)")
	return cmd
}

func listCmd(config *storeCmdConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the documents on the store",
		Run: func(cmd *cobra.Command, args []string) {
			config.exitOnInvalid(false)
			s := config.openStoreOrExit()
			defer s.Close(config.Context())
			names, err := s.List(config.Context())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			for _, name := range names {
				fmt.Println(name)
			}
		},
	}
}

func deleteCmd(config *storeCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a document from the store",
		Run: func(cmd *cobra.Command, args []string) {
			config.exitOnInvalid(true)
			s := config.openStoreOrExit()
			defer s.Close(config.Context())
			err := s.Delete(config.Context(), config.name)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Deleted %s", config.name)
		},
	}
	cmd.Flags().StringVarP(&(config.name), "name", "n", "", "name of the document to delete (required)")
	return cmd
}

func (scc *storeCmdConfig) exitOnInvalid(needsName bool) {
	if scc.storeURL == "" {
		fmt.Fprintln(os.Stderr, "required store flag was not set")
		os.Exit(1)
	}
	if needsName && scc.name == "" {
		fmt.Fprintln(os.Stderr, "required name flag was not set")
		os.Exit(1)
	}
}

func (scc *storeCmdConfig) openStoreOrExit() store.Store {
	s, err := scc.openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
	return s
}

func (scc *storeCmdConfig) openStore() (store.Store, error) {
	switch {
	case strings.HasPrefix(scc.storeURL, "redis://"):
		return scc.redisStore()
	case strings.HasPrefix(scc.storeURL, "mongodb://"):
		scc.Logf("Dialing MongoDB at %s...", scc.storeURL)
		session, err := mgo.Dial(scc.storeURL)
		if err != nil {
			return nil, fmt.Errorf("dialing mongodb store %s: %v", scc.storeURL, err)
		}
		return mongostore.Open(scc.Context(), session)
	case strings.HasPrefix(scc.storeURL, "postgresql://") || strings.HasPrefix(scc.storeURL, "postgres://"):
		scc.Logf("Creating PostgreSQL adapter for url %s...", scc.storeURL)
		adapter, err := pgadapter.New(scc.storeURL, 0)
		if err != nil {
			return nil, err
		}
		return sqlstore.Open(scc.Context(), adapter)
	case strings.HasSuffix(scc.storeURL, ".db"):
		scc.Logf("Creating SQLite3 adapter for file %s...", scc.storeURL)
		adapter, err := sqlite3adapter.New(scc.storeURL, 0)
		if err != nil {
			return nil, err
		}
		return sqlstore.Open(scc.Context(), adapter)
	}
	return nil, fmt.Errorf("cannot interpret %q as a store: expected a redis://, mongodb:// or postgresql:// URL or a path to an SQLite3 (.db) file", scc.storeURL)
}

func (scc *storeCmdConfig) redisStore() (store.Store, error) {
	address := strings.TrimPrefix(scc.storeURL, "redis://")
	db := 0
	if i := strings.IndexByte(address, '/'); i >= 0 {
		parsed, err := strconv.Atoi(address[i+1:])
		if err != nil {
			return nil, fmt.Errorf("parsing redis DB number in %s: %v", scc.storeURL, err)
		}
		address, db = address[:i], parsed
	}
	scc.Logf("Connecting to redis at %s (DB %d)...", address, db)
	rc := redis.NewClient(&redis.Options{Addr: address, DB: db})
	return redisstore.New(rc, "canopy"), nil
}

func (scc *storeCmdConfig) readDocument() ([]byte, error) {
	if scc.file == "" {
		scc.Logf("Reading document from STDIN...")
		return io.ReadAll(os.Stdin)
	}
	doc, err := os.ReadFile(scc.file)
	if err != nil {
		return nil, fmt.Errorf("reading document from %s: %v", scc.file, err)
	}
	return doc, nil
}

func (scc *storeCmdConfig) writeDocument(doc []byte) error {
	if scc.file == "" {
		_, err := os.Stdout.Write(doc)
		return err
	}
	err := os.WriteFile(scc.file, doc, 0644)
	if err != nil {
		return fmt.Errorf("writing document to %s: %v", scc.file, err)
	}
	return nil
}

func (scc *storeCmdConfig) setContextAndCancelFunc() {
	if scc.ctx == nil {
		scc.ctx, scc.cancelFunc = context.WithCancel(context.Background())
	}
}

func (scc *storeCmdConfig) Context() context.Context {
	scc.setContextAndCancelFunc()
	return scc.ctx
}
