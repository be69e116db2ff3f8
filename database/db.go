package database

import (
	"errors"
	"io/fs"
	"os"
	"path"

	"gift-gap/config"
	"gift-gap/database/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

func initModels() error {
	models := []any{
		&model.Participant{},
		&model.DrawRecord{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}
	return nil
}

// InitDB opens (creating if missing) the sqlite database and migrates the
// schema. A missing file on first run yields an empty store, not an error.
func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger: gormLogger,
	}
	// WAL keeps readers unblocked during mutations; Checkpoint folds the
	// log back into the main file after each one.
	db, err = gorm.Open(sqlite.Open(dbPath+"?_journal_mode=WAL"), c)
	if err != nil {
		return err
	}

	return initModels()
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Checkpoint folds the sqlite write-ahead log into the main database file.
// Called after every completed store mutation.
func Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}

func CloseDB() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
