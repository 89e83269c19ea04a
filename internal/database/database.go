package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create tables manually with raw SQL
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		sku TEXT,
		price DECIMAL(10,2),
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS product_tags (
		product_id BIGINT NOT NULL,
		tag TEXT NOT NULL,
		PRIMARY KEY (product_id, tag)
	);

	CREATE TABLE IF NOT EXISTS product_category_terms (
		product_id BIGINT NOT NULL,
		term_id BIGINT NOT NULL,
		PRIMARY KEY (product_id, term_id)
	);

	CREATE TABLE IF NOT EXISTS generation_records (
		id UUID PRIMARY KEY,
		batch_id UUID NOT NULL,
		product_id BIGINT NOT NULL,
		generation_type VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL,
		original_value TEXT,
		generated_value TEXT,
		ai_model VARCHAR(50) NOT NULL,
		duration_ms BIGINT DEFAULT 0,
		error_message TEXT,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	`

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
