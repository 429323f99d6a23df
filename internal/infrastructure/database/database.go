package database

import (
	"context"
	"strings"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// Open opens a GORM DB from DSN. Postgres URLs go through the pgx driver with
// PreferSimpleProtocol so poolers (PgBouncer, Supabase) don't hit 42P05
// ("prepared statement already exists"). A "sqlite:" prefix opens a local
// SQLite file instead, e.g. sqlite:invitacion.db or sqlite::memory:.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if strings.HasPrefix(dsn, sqlitePrefix) {
		db, err := gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), cfg)
		if err != nil {
			return nil, err
		}
		// SQLite allows a single writer; one connection keeps :memory: databases alive and shared.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), cfg)
}

// OpenMemory opens an empty, migrated in-memory SQLite database.
func OpenMemory() (*gorm.DB, error) {
	db, err := Open(sqlitePrefix + ":memory:")
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates or updates the guests, deleted_guests, logs and admins tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Invitation{}, &domain.DeletedInvitation{}, &domain.LogEntry{}, &domain.Admin{})
}

// SeedAdmins inserts bootstrap admin e-mails, leaving existing rows untouched.
// It returns how many rows were actually inserted.
func SeedAdmins(ctx context.Context, db *gorm.DB, emails []string, addedBy string) (int64, error) {
	var inserted int64
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		result := db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&domain.Admin{Email: email, Role: domain.RoleAdmin, AddedBy: addedBy})
		if result.Error != nil {
			return inserted, result.Error
		}
		inserted += result.RowsAffected
	}
	return inserted, nil
}
