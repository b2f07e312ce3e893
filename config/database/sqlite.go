package database

import (
	"StockDash/models"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

// Init opens the SQLite database at path and migrates the schema.
func Init(path string) *gorm.DB {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create database directory: %v", err)
		}
	}

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	if err := conn.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	db = conn
	return db
}

// GetDB returns the database handle opened by Init.
func GetDB() *gorm.DB {
	return db
}
