package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"roomqr-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// resolveDialector picks the store: MySQL when MYSQL_URL or DATABASE_URL is
// set, otherwise a sqlite file at DB_FILE (default data/roomqr.sqlite).
// isSQLite tells the caller whether the FK pragma must be applied.
func resolveDialector() (gorm.Dialector, bool, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		dsn := raw
		if strings.HasPrefix(raw, "mysql://") {
			var err error
			dsn, err = mysqlDSNFromURL(raw)
			if err != nil {
				return nil, false, err
			}
		}
		return mysql.Open(dsn), false, nil
	}

	dbFile := envOrDefault("DB_FILE", filepath.Join("data", "roomqr.sqlite"))
	if dir := filepath.Dir(dbFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, err
		}
	}
	return sqlite.Open(dbFile), true, nil
}

// AutoMigrate applies the schema, parents before children.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Room{},
		&models.Person{},
		&models.RoomEvent{},
	)
}

// ConnectDatabase opens the store once for the process lifetime and sets
// config.DB. Callers pass the handle into services explicitly.
func ConnectDatabase() error {
	dialector, isSQLite, err := resolveDialector()
	if err != nil {
		return err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}

	if isSQLite {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return err
		}
	}

	if err := AutoMigrate(db); err != nil {
		return err
	}

	DB = db
	return nil
}
