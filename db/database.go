package db

import (
	"os"
	"path/filepath"

	"productr/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDatabase(dbPath string) {
	// Ensure the directory exists (create if it doesn't)
	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			zap.S().Fatalf("Failed to create database directory: %s", err)
		}
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		zap.S().Fatalf("Failed to connect to database: %s", err)
	}
	zap.S().Infof("Database connected successfully at %s", dbPath)

	// Auto migrate the schema
	if err := DB.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		zap.S().Fatalf("Failed to migrate database: %s", err)
	}
}
