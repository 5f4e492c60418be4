// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"carty/config"
	"carty/internal/database"
	"carty/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:carty_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: dsn, MaxIdleConns: 1, MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedStore creates a seller and a store with the given wallet balance.
func SeedStore(t testing.TB, db *gorm.DB, slug string, balance int64) *models.Store {
	t.Helper()
	u := &models.User{Phone: "080" + slug, PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	s := &models.Store{
		UserID:         u.ID,
		Name:           slug,
		Slug:           slug,
		WhatsAppNumber: "08012345678",
		Email:          "seller@" + slug + ".test",
		WalletBalance:  decimal.NewFromInt(balance),
		TotalEarnings:  decimal.NewFromInt(balance),
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

// ReloadStore reads the store back from db.
func ReloadStore(t testing.TB, db *gorm.DB, id uint) *models.Store {
	t.Helper()
	var s models.Store
	require.NoError(t, db.First(&s, id).Error)
	return &s
}
