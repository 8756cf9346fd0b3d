// Package repository persists the reference gateway's collections in SQLite.
package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"planner/internal/model"
)

const defaultDSN = "planner.db"

// collections are the tables behind /api/{Resource}, one per entity kind.
var collections = []interface{}{
	&model.Task{},
	&model.WeeklyTask{},
	&model.MonthlyTask{},
	&model.Goal{},
	&model.Note{},
}

// NewDB opens the SQLite database at dsn, creating its directory when needed,
// and brings the Todo, Weekly, Monthly, Goal and Note tables up to date.
// An empty dsn means planner.db in the working directory.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	if dir := sqliteDir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir %q: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: queryLogger()})
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", dsn, err)
	}
	if err := db.AutoMigrate(collections...); err != nil {
		return nil, fmt.Errorf("migrate collections: %w", err)
	}
	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return sqlDB.Close()
}

// queryLogger reports slow queries and errors only; unknown ids are a normal
// 404 for the gateway.
func queryLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// sqliteDir returns the directory a file DSN lives in, or "" for in-memory
// databases and the working directory.
func sqliteDir(dsn string) string {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}
