//go:build sqlite

package main

// sqlite support

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newDialector(dsn string) gorm.Dialector {
	return &sqlite.Dialector{
		DSN: dsn,
	}
}

func configureDB(db *gorm.DB, maxConns int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if maxConns < 1 {
		maxConns = 10
	}
	sqlDB.SetMaxIdleConns(maxConns)
	sqlDB.SetMaxOpenConns(maxConns)

	// enable foreign key constraints
	return db.Exec("PRAGMA foreign_keys = ON").Error
}
