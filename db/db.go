package db

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// Db is the global database connection object
	Db *gorm.DB
	// Path is the default path to the SQLite database file
	Path = filepath.Join(os.Getenv("HOME"), ".showcase/catalogue.db")

	// ErrNotInitialized is returned when the connection has not been opened yet.
	ErrNotInitialized = errors.New("database connection is not initialized")
)

// InitDB initializes the database by creating the necessary directory,
// opening the database connection, migrating tables, and configuring the logger.
func InitDB() error {
	if err := createDBDirectory(); err != nil {
		return err
	}

	if err := openDatabase(); err != nil {
		return err
	}

	if err := migrateTables(); err != nil {
		return err
	}

	configureLogger()

	log.Info().Str("path", Path).Msg("Database initialized successfully")
	return nil
}

// GetDB returns the open connection, or nil before InitDB.
func GetDB() *gorm.DB {
	return Db
}

// createDBDirectory creates the directory for the database file if it does not exist.
func createDBDirectory() error {
	dir := filepath.Dir(Path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error().Err(err).Msg("Failed to create database directory")
			return err
		}
	}
	return nil
}

// openDatabase opens a connection to the SQLite database.
func openDatabase() error {
	var err error
	Db, err = gorm.Open(sqlite.Open(Path), &gorm.Config{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return err
	}
	return nil
}

// migrateTables performs automatic migration for the cache tables.
func migrateTables() error {
	if err := Migrate(Db); err != nil {
		log.Error().Err(err).Msg("Failed to auto-migrate database")
		return err
	}
	return nil
}

// Migrate creates or updates the schema on the given connection.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(&EntryRecord{}, &CacheMarker{})
}

// configureLogger makes GORM as quiet or as chatty as the global log level.
func configureLogger() {
	if zerolog.GlobalLevel() == zerolog.Disabled {
		Db.Logger = Db.Logger.LogMode(logger.Silent)
	} else {
		Db.Logger = Db.Logger.LogMode(logger.Info)
	}
}

// CloseDB closes the database connection so a later InitDB can open a new one.
func CloseDB() error {
	if Db == nil {
		return ErrNotInitialized
	}
	sqlDB, err := Db.DB()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get raw database connection")
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}
	Db = nil
	return nil
}
