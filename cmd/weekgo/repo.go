package main

import (
	"fmt"
	"os"
	"path/filepath"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/benjamonnguyen/weekgo"
	"github.com/benjamonnguyen/weekgo/filestore"
	"github.com/benjamonnguyen/weekgo/sqlite"
	"github.com/benjamonnguyen/weekgo/yamlcodec"
)

// openRepo builds the PlanRepo selected by conf.Store. The returned func
// releases it.
func openRepo(conf weekgo.Config, l weekgo.Logger) (weekgo.PlanRepo, func() error, error) {
	switch conf.Store {
	case weekgo.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(conf.DatabaseURL), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database dir: %w", err)
		}
		db, err := sqlite.Open(conf.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		transactor, dbGetter := txStdLib.NewTransactor(db.Conn(), txStdLib.NestedTransactionsSavepoints)
		return sqlite.NewPlanRepo(transactor, dbGetter, l), db.Close, nil
	case weekgo.StoreFile:
		return filestore.New(conf.PlanPath, yamlcodec.New(), l), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", conf.Store)
}
