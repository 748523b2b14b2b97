package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/hyve-admin/internal/pkg"
)

// entry is one stored session.
type entry struct {
	Key       string    `gorm:"column:session_key;primaryKey;size:191"`
	Value     string    `gorm:"type:text;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time
}

// TableName implements gorm's tabler.
func (entry) TableName() string { return "console_sessions" }

// DBBackend stores sessions in a SQL table through gorm. Expiry times are
// kept in UTC so that SQLite compares them correctly as text.
type DBBackend struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDBBackend creates a DBBackend over db. The caller owns db.
func NewDBBackend(db *gorm.DB) *DBBackend {
	return &DBBackend{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Init creates the session table.
func (b *DBBackend) Init(ctx context.Context) error {
	if err := b.db.WithContext(ctx).AutoMigrate(&entry{}); err != nil {
		return fmt.Errorf("migrate session table: %w", err)
	}
	return nil
}

// Get implements Backend.
func (b *DBBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e entry
	err := b.db.WithContext(ctx).
		Where("session_key = ? AND expires_at > ?", key, b.now()).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	return []byte(e.Value), true, nil
}

// Set upserts key and purges expired rows in the same transaction.
func (b *DBBackend) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	return pkg.WithTx(ctx, b.db, func(tx *gorm.DB) error {
		if err := tx.Where("expires_at <= ?", b.now()).Delete(&entry{}).Error; err != nil {
			return fmt.Errorf("purge expired sessions: %w", err)
		}
		e := entry{Key: key, Value: string(value), ExpiresAt: expiresAt.UTC()}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).Create(&e).Error
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	})
}

// Delete implements Backend.
func (b *DBBackend) Delete(ctx context.Context, key string) error {
	if err := b.db.WithContext(ctx).Where("session_key = ?", key).Delete(&entry{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ping implements Backend.
func (b *DBBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close is a no-op; the database handle belongs to the caller.
func (b *DBBackend) Close() error { return nil }
